package orderhandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ogaydukov/boostup/internal/domain"
	"github.com/ogaydukov/boostup/pkg/dto"
	"github.com/ogaydukov/boostup/pkg/logger"
)

type OrderService interface {
	Create(userID int64, taskID string, videoType domain.VideoType, videoLink, title string, quantity int) (*domain.Order, error)
	Orders(userID int64) ([]domain.Order, error)
}

type OrderHandler struct {
	srv OrderService
}

func New(srv OrderService) *OrderHandler {
	return &OrderHandler{
		srv: srv,
	}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrder
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("error while decoding a create order request")
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

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		logger.Log.Warn("invalid order fields", logger.Int("fields", len(fieldErrors)))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		if err := json.NewEncoder(w).Encode(fieldErrors); err != nil {
			logger.Log.Error("error while encoding field errors", logger.Error(err))
		}
		return
	}

	userID, err := userIDFromHeaders(w, r)
	if err != nil {
		return
	}

	order, err := h.srv.Create(userID, req.TaskID, domain.VideoType(req.VideoType), req.VideoLink, req.Title, req.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			logger.Log.Warn("insufficient balance for order", logger.Int64("user_id", userID))
			writeDetail(w, http.StatusBadRequest, "Insufficient balance.")
			return
		}
		if errors.Is(err, domain.ErrOrderExists) {
			logger.Log.Warn("duplicate task id", logger.String("task_id", req.TaskID))
			writeDetail(w, http.StatusConflict, "Task ID already exists.")
			return
		}

		logger.Log.Error("error while creating order", logger.Int64("user_id", userID), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(*order)); err != nil {
		logger.Log.Error("error while encoding order to JSON", logger.Int64("user_id", userID), logger.Error(err))
	}
}

func (h *OrderHandler) Orders(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromHeaders(w, r)
	if err != nil {
		return
	}

	orders, err := h.srv.Orders(userID)
	if err != nil {
		logger.Log.Error("error while fetching orders", logger.Int64("user_id", userID), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	dtos := make([]dto.Order, len(orders))
	for i, order := range orders {
		dtos[i] = toDTO(order)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		logger.Log.Error("error while encoding orders to JSON", logger.Int64("user_id", userID), logger.Error(err))
	}
}

func toDTO(order domain.Order) dto.Order {
	return dto.Order{
		TaskID:     order.TaskID,
		VideoType:  string(order.VideoType),
		VideoLink:  order.VideoLink,
		Title:      order.Title,
		Quantity:   order.Quantity,
		Cost:       order.Cost.StringFixed(2),
		Status:     string(order.Status),
		FailReason: order.FailReason,
		Refunded:   order.Refunded,
		CreatedAt:  order.CreatedAt.Format(time.RFC3339),
	}
}

func userIDFromHeaders(w http.ResponseWriter, r *http.Request) (int64, error) {
	userIDHeader := r.Header.Get("User-ID")
	userID, err := strconv.ParseInt(userIDHeader, 10, 64)
	if err != nil {
		logger.Log.Error("error while parsing user ID from header", logger.String("user_id", userIDHeader), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return 0, err
	}
	return userID, nil
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dto.Detail{Detail: detail}); err != nil {
		logger.Log.Error("error while encoding error response", logger.Error(err))
	}
}
