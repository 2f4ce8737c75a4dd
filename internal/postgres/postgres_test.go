package postgres

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogaydukov/boostup/internal/domain"
)

func newOrder() *domain.Order {
	return &domain.Order{
		TaskID:    "task-1",
		UserID:    7,
		VideoType: domain.VideoTypeVideo,
		VideoLink: "https://youtube.com/watch?v=abc",
		Title:     "My video",
		Quantity:  5,
		Cost:      decimal.NewFromInt(10),
		Status:    domain.StatusWaiting,
	}
}

func TestCreateOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := New(db)
	order := newOrder()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET balance = balance - \$1 WHERE id = \$2 AND balance >= \$1`).
		WithArgs(sqlmock.AnyArg(), order.UserID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO orders \(task_id, user_id, video_type, video_link, title, quantity, cost, status\)`).
		WithArgs(order.TaskID, order.UserID, "video", order.VideoLink, order.Title, order.Quantity, sqlmock.AnyArg(), "waiting").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	err = p.CreateOrder(order)

	assert.NoError(t, err)
	assert.False(t, order.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderInsufficientFunds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET balance = balance - \$1 WHERE id = \$2 AND balance >= \$1`).
		WithArgs(sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = p.CreateOrder(newOrder())

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderDuplicateTaskID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET balance = balance - \$1 WHERE id = \$2 AND balance >= \$1`).
		WithArgs(sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "orders_pkey"})
	mock.ExpectRollback()

	err = p.CreateOrder(newOrder())

	assert.ErrorIs(t, err, domain.ErrOrderExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func orderRows(status domain.OrderStatus, refunded bool) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"task_id", "user_id", "video_type", "video_link", "title", "quantity", "cost", "status", "fail_reason", "refunded", "created_at"}).
		AddRow("task-1", int64(7), "video", "https://youtube.com/watch?v=abc", "My video", 5, "10.00", string(status), nil, refunded, time.Now())
}

func TestUpdateOrderStatusRefundsOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := New(db)
	failed := domain.StatusFailed
	reason := "video removed"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM orders WHERE task_id = \$1 FOR UPDATE`).
		WithArgs("task-1").
		WillReturnRows(orderRows(domain.StatusWaiting, false))
	mock.ExpectExec(`UPDATE orders SET status = \$1, fail_reason = \$2 WHERE task_id = \$3`).
		WithArgs("failed", "video removed", "task-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET balance = balance \+ \$1 WHERE id = \$2`).
		WithArgs(sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders SET refunded = TRUE WHERE task_id = \$1`).
		WithArgs("task-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, err := p.UpdateOrderStatus("task-1", &failed, &reason)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, order.Status)
	assert.True(t, order.Refunded)
	require.NotNil(t, order.FailReason)
	assert.Equal(t, reason, *order.FailReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusFailedIsTerminal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := New(db)
	failed := domain.StatusFailed

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM orders WHERE task_id = \$1 FOR UPDATE`).
		WithArgs("task-1").
		WillReturnRows(orderRows(domain.StatusFailed, true))
	mock.ExpectRollback()

	_, err = p.UpdateOrderStatus("task-1", &failed, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusSkipsRefundWhenAlreadyRefunded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := New(db)
	failed := domain.StatusFailed

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM orders WHERE task_id = \$1 FOR UPDATE`).
		WithArgs("task-1").
		WillReturnRows(orderRows(domain.StatusInProgress, true))
	mock.ExpectExec(`UPDATE orders SET status = \$1, fail_reason = \$2 WHERE task_id = \$3`).
		WithArgs("failed", nil, "task-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, err := p.UpdateOrderStatus("task-1", &failed, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := New(db)
	failed := domain.StatusFailed

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM orders WHERE task_id = \$1 FOR UPDATE`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"task_id"}))
	mock.ExpectRollback()

	_, err = p.UpdateOrderStatus("missing", &failed, nil)

	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRewardContact(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO rewards \(user_id, method, contact\) VALUES \(\$1, \$2, \$3\)`).
		WithArgs(int64(7), "telegram", "@someone").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE users SET balance = balance \+ \$1 WHERE id = \$2 RETURNING balance`).
		WithArgs(sqlmock.AnyArg(), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("15.00"))
	mock.ExpectCommit()

	balance, err := p.RewardContact(7, "telegram", "@someone", decimal.NewFromInt(10))

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(15)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRewardContactDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO rewards`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "rewards_pkey"})
	mock.ExpectRollback()

	_, err = p.RewardContact(7, "telegram", "@someone", decimal.NewFromInt(10))

	assert.ErrorIs(t, err, domain.ErrRewardExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := New(db)

	mock.ExpectQuery(`INSERT INTO users \(login, email, password\)`).
		WithArgs("vasya", "vasya@example.com", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err = p.CreateUser("vasya", "vasya@example.com", "hash")

	assert.ErrorIs(t, err, domain.ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
