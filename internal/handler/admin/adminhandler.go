package adminhandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ogaydukov/boostup/internal/domain"
	"github.com/ogaydukov/boostup/pkg/dto"
	"github.com/ogaydukov/boostup/pkg/logger"
)

type OrderService interface {
	AllOrders() ([]domain.Order, error)
	Transition(taskID string, status *domain.OrderStatus, failReason *string) (*domain.Order, error)
}

type AdminHandler struct {
	srv OrderService
}

func New(srv OrderService) *AdminHandler {
	return &AdminHandler{
		srv: srv,
	}
}

func (h *AdminHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.srv.AllOrders()
	if err != nil {
		logger.Log.Error("error while fetching all orders", logger.Error(err))
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
		logger.Log.Error("error while encoding orders to JSON", logger.Error(err))
	}
}

func (h *AdminHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task_id")
	if taskID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req dto.UpdateOrder
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("error while decoding an update order request", logger.String("task_id", taskID))
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

	var status *domain.OrderStatus
	if req.Status != nil {
		s := domain.OrderStatus(*req.Status)
		if !s.Valid() {
			writeDetail(w, http.StatusBadRequest, "Unknown order status.")
			return
		}
		status = &s
	}

	order, err := h.srv.Transition(taskID, status, req.FailReason)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeDetail(w, http.StatusNotFound, "Order not found.")
			return
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			writeDetail(w, http.StatusConflict, "Illegal status transition.")
			return
		}

		logger.Log.Error("error while updating order", logger.String("task_id", taskID), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toDTO(*order)); err != nil {
		logger.Log.Error("error while encoding order to JSON", logger.String("task_id", taskID), logger.Error(err))
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

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dto.Detail{Detail: detail}); err != nil {
		logger.Log.Error("error while encoding error response", logger.Error(err))
	}
}
