package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ogaydukov/boostup/internal/domain"
	"github.com/ogaydukov/boostup/pkg/logger"
)

type OrderRepository interface {
	CreateOrder(order *domain.Order) error
	Orders(userID int64) ([]domain.Order, error)
	AllOrders() ([]domain.Order, error)
	UpdateOrderStatus(taskID string, status *domain.OrderStatus, failReason *string) (*domain.Order, error)
}

type orderUserRepository interface {
	UserByID(id int64) (*domain.User, error)
}

// Notifier is a best-effort collaborator. Implementations must not block and
// their failures never affect order or balance state.
type Notifier interface {
	OrderCreated(order domain.Order, login string)
	ContactRewarded(login, method, contact string)
}

type OrderService struct {
	repo      OrderRepository
	users     orderUserRepository
	notifier  Notifier
	unitPrice decimal.Decimal
}

func NewOrderService(repo OrderRepository, users orderUserRepository, notifier Notifier, unitPrice int64) *OrderService {
	return &OrderService{
		repo:      repo,
		users:     users,
		notifier:  notifier,
		unitPrice: decimal.NewFromInt(unitPrice),
	}
}

// Create debits the owner for quantity times the unit price and persists the
// order in the waiting state. The debit and the insert are one transaction
// inside the repository; the notification happens after commit and is
// fire-and-forget.
func (s *OrderService) Create(userID int64, taskID string, videoType domain.VideoType, videoLink, title string, quantity int) (*domain.Order, error) {
	if taskID == "" {
		taskID = uuid.New().String()
	}

	order := &domain.Order{
		TaskID:    taskID,
		UserID:    userID,
		VideoType: videoType,
		VideoLink: videoLink,
		Title:     title,
		Quantity:  quantity,
		Cost:      s.unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		Status:    domain.StatusWaiting,
	}

	if err := s.repo.CreateOrder(order); err != nil {
		return nil, err
	}

	s.notifier.OrderCreated(*order, s.loginOf(userID))

	return order, nil
}

func (s *OrderService) Orders(userID int64) ([]domain.Order, error) {
	return s.repo.Orders(userID)
}

func (s *OrderService) AllOrders() ([]domain.Order, error) {
	return s.repo.AllOrders()
}

// Transition applies an admin status change. The repository locks the order
// row, rejects transitions the state machine does not allow and credits the
// refund for a transition into failed within the same transaction.
func (s *OrderService) Transition(taskID string, status *domain.OrderStatus, failReason *string) (*domain.Order, error) {
	return s.repo.UpdateOrderStatus(taskID, status, failReason)
}

func (s *OrderService) loginOf(userID int64) string {
	user, err := s.users.UserByID(userID)
	if err != nil {
		logger.Log.Warn("error fetching user for notification", logger.Int64("user_id", userID), logger.Error(err))
		return ""
	}
	return user.Login
}
