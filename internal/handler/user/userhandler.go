package userhandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ogaydukov/boostup/internal/domain"
	"github.com/ogaydukov/boostup/pkg/dto"
	"github.com/ogaydukov/boostup/pkg/logger"
)

type UserService interface {
	Register(login, email, password string) (string, error)
	Login(login, password string) (string, error)
	Profile(userID int64) (*domain.User, error)
}

type UserHandler struct {
	srv UserService
}

func New(srv UserService) *UserHandler {
	return &UserHandler{
		srv: srv,
	}
}

func (uh *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var register dto.Register

	if err := json.NewDecoder(r.Body).Decode(&register); err != nil {
		logger.Log.Warn("error while decoding a register request")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	defer func(body io.ReadCloser) {
		err := body.Close()
		if err != nil {
			logger.Log.Error("error while closing request body", logger.Error(err))
			return
		}
	}(r.Body)

	if err := register.IsValid(); err != nil {
		logger.Log.Warn("invalid register fields", logger.Error(err))
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := uh.srv.Register(register.Login, register.Email, register.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			writeDetail(w, http.StatusConflict, "Username already taken.")
			return
		}
		if errors.Is(err, domain.ErrEmailExists) {
			writeDetail(w, http.StatusConflict, "Email already registered.")
			return
		}

		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	w.WriteHeader(http.StatusOK)
}

func (uh *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var auth dto.Auth

	if err := json.NewDecoder(r.Body).Decode(&auth); err != nil {
		logger.Log.Warn("error while decoding a login request")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	defer func(body io.ReadCloser) {
		err := body.Close()
		if err != nil {
			logger.Log.Error("error while closing request body", logger.Error(err))
			return
		}
	}(r.Body)

	if err := auth.IsValid(); err != nil {
		logger.Log.Warn("invalid auth fields", logger.Error(err))
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := uh.srv.Login(auth.Login, auth.Password)
	if err != nil {
		if errors.Is(err, domain.ErrIncorrectCredentials) {
			writeDetail(w, http.StatusUnauthorized, "Incorrect login or password.")
			return
		}

		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	w.WriteHeader(http.StatusOK)
}

func (uh *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userIDHeader := r.Header.Get("User-ID")
	userID, err := strconv.ParseInt(userIDHeader, 10, 64)
	if err != nil {
		logger.Log.Error("error while parsing user ID from header", logger.String("user_id", userIDHeader), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	user, err := uh.srv.Profile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeDetail(w, http.StatusNotFound, "User not found.")
			return
		}

		logger.Log.Error("error while fetching profile", logger.Int64("user_id", userID), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := dto.Profile{
		ID:      user.ID,
		Login:   user.Login,
		Email:   user.Email,
		Balance: user.Balance.StringFixed(2),
		IsAdmin: user.IsAdmin,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(resp)
	if err != nil {
		logger.Log.Error("error while encoding profile to JSON", logger.Int64("user_id", userID), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dto.Detail{Detail: detail}); err != nil {
		logger.Log.Error("error while encoding error response", logger.Error(err))
	}
}
