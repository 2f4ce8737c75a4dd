package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64
	Login        string
	Email        string
	Password     string
	Balance      decimal.Decimal
	IsAdmin      bool
	RegisteredAt time.Time
}

type VideoType string

const (
	VideoTypeVideo  VideoType = "video"
	VideoTypeShorts VideoType = "shorts"
)

func (t VideoType) Valid() bool {
	return t == VideoTypeVideo || t == VideoTypeShorts
}

type OrderStatus string

const (
	StatusWaiting    OrderStatus = "waiting"
	StatusInProgress OrderStatus = "in_progress"
	StatusSuccess    OrderStatus = "success"
	StatusFailed     OrderStatus = "failed"
)

// successors defines the allowed status transitions. success and failed are
// terminal: once an order is adjudicated it never changes again, so a refund
// can only ever be triggered by the single transition into failed.
var successors = map[OrderStatus][]OrderStatus{
	StatusWaiting:    {StatusInProgress, StatusSuccess, StatusFailed},
	StatusInProgress: {StatusSuccess, StatusFailed},
	StatusSuccess:    {},
	StatusFailed:     {},
}

func (s OrderStatus) Valid() bool {
	_, ok := successors[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range successors[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Order is a purchased unit of promotion work. Cost is fixed at creation
// (quantity times the unit price in effect at that moment) and is the amount
// credited back if the order fails; the unit price changing later never
// reprices an existing order.
type Order struct {
	TaskID     string
	UserID     int64
	VideoType  VideoType
	VideoLink  string
	Title      string
	Quantity   int
	Cost       decimal.Decimal
	Status     OrderStatus
	FailReason *string
	Refunded   bool
	CreatedAt  time.Time
}
