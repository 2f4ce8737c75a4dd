package balancehandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ogaydukov/boostup/internal/domain"
	"github.com/ogaydukov/boostup/pkg/dto"
	"github.com/ogaydukov/boostup/pkg/logger"
)

type balanceService interface {
	Balance(userID int64) (decimal.Decimal, error)
	Reward(userID int64, method, contact string) (decimal.Decimal, error)
}

type BalanceHandler struct {
	balanceService balanceService
}

func New(svc balanceService) *BalanceHandler {
	return &BalanceHandler{
		balanceService: svc,
	}
}

func (h *BalanceHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userIDHeader := r.Header.Get("User-ID")
	userID, err := strconv.ParseInt(userIDHeader, 10, 64)
	if err != nil {
		logger.Log.Error("error while parsing user ID from header", logger.String("user_id", userIDHeader), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	balance, err := h.balanceService.Balance(userID)
	if err != nil {
		logger.Log.Error("error while fetching balance", logger.Int64("user_id", userID), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto.Balance{Balance: balance.StringFixed(2)}); err != nil {
		logger.Log.Error("error while encoding balance to JSON", logger.Int64("user_id", userID), logger.Error(err))
	}
}

func (h *BalanceHandler) Reward(w http.ResponseWriter, r *http.Request) {
	userIDHeader := r.Header.Get("User-ID")
	userID, err := strconv.ParseInt(userIDHeader, 10, 64)
	if err != nil {
		logger.Log.Error("error while parsing user ID from header", logger.String("user_id", userIDHeader), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var reward dto.Reward
	if err := json.NewDecoder(r.Body).Decode(&reward); err != nil {
		logger.Log.Warn("error while decoding a reward request")
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

	if !reward.IsValid() {
		logger.Log.Warn("invalid contact submission", logger.Int64("user_id", userID), logger.String("method", reward.Method))
		writeDetail(w, http.StatusBadRequest, "Invalid contact submission.")
		return
	}

	balance, err := h.balanceService.Reward(userID, reward.Method, reward.Contact)
	if err != nil {
		if errors.Is(err, domain.ErrRewardExists) {
			logger.Log.Warn("contact already rewarded", logger.Int64("user_id", userID), logger.String("method", reward.Method))
			writeDetail(w, http.StatusConflict, "Contact already rewarded.")
			return
		}

		logger.Log.Error("error while rewarding contact", logger.Int64("user_id", userID), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto.Balance{Balance: balance.StringFixed(2)}); err != nil {
		logger.Log.Error("error while encoding balance to JSON", logger.Int64("user_id", userID), logger.Error(err))
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dto.Detail{Detail: detail}); err != nil {
		logger.Log.Error("error while encoding error response", logger.Error(err))
	}
}
