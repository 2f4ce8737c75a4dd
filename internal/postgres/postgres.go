package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/ogaydukov/boostup/internal/domain"
	"github.com/ogaydukov/boostup/pkg/logger"
)

const transactionRollbackError = "error rolling back transaction"

const uniqueViolation = "23505"

type Postgres struct {
	DB *sql.DB
}

func New(db *sql.DB) *Postgres {
	return &Postgres{DB: db}
}

func (p *Postgres) Close() error {
	return p.DB.Close()
}

func (p *Postgres) CreateUser(login, email, hashedPassword string) (int64, error) {
	var id int64
	err := p.DB.QueryRow("INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id", login, email, hashedPassword).
		Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "email") {
				logger.Log.Warn("email already registered", logger.String("email", email))
				return 0, domain.ErrEmailExists
			}
			logger.Log.Warn("user already exists", logger.String("login", login))
			return 0, domain.ErrUserExists
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

func (p *Postgres) User(login string) (*domain.User, error) {
	row := p.DB.QueryRow("SELECT id, login, email, password, balance, is_admin, registered_at FROM users WHERE login = $1", login)

	var user domain.User
	err := row.Scan(&user.ID, &user.Login, &user.Email, &user.Password, &user.Balance, &user.IsAdmin, &user.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIncorrectCredentials
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	return &user, nil
}

func (p *Postgres) UserByID(id int64) (*domain.User, error) {
	row := p.DB.QueryRow("SELECT id, login, email, password, balance, is_admin, registered_at FROM users WHERE id = $1", id)

	var user domain.User
	err := row.Scan(&user.ID, &user.Login, &user.Email, &user.Password, &user.Balance, &user.IsAdmin, &user.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	return &user, nil
}

func (p *Postgres) Balance(userID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := p.DB.QueryRow("SELECT balance FROM users WHERE id = $1", userID).Scan(&balance)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error fetching balance: %w", err)
	}

	return balance, nil
}

// CreateOrder debits the owner and stores the order as a single transaction.
// The conditional UPDATE holds the account row lock until commit, so
// concurrent creates for the same account serialize here and the balance
// cannot be driven below zero by two creates passing a stale balance check.
func (p *Postgres) CreateOrder(order *domain.Order) error {
	tx, err := p.DB.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	result, err := tx.Exec("UPDATE users SET balance = balance - $1 WHERE id = $2 AND balance >= $1", order.Cost, order.UserID)
	if err != nil {
		rollback(tx)
		return fmt.Errorf("error debiting balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		rollback(tx)
		return fmt.Errorf("error checking rows affected for balance debit: %w", err)
	}
	if rowsAffected == 0 {
		rollback(tx)
		logger.Log.Warn("insufficient funds for order",
			logger.String("task_id", order.TaskID),
			logger.String("cost", order.Cost.String()),
			logger.Int64("user_id", order.UserID),
		)
		return domain.ErrInsufficientFunds
	}

	err = tx.QueryRow(
		"INSERT INTO orders (task_id, user_id, video_type, video_link, title, quantity, cost, status) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at",
		order.TaskID, order.UserID, order.VideoType, order.VideoLink, order.Title, order.Quantity, order.Cost, order.Status,
	).Scan(&order.CreatedAt)
	if err != nil {
		rollback(tx)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			logger.Log.Warn("order already exists", logger.String("task_id", order.TaskID))
			return domain.ErrOrderExists
		}
		return fmt.Errorf("error creating order: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		rollback(tx)
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

func (p *Postgres) Orders(userID int64) ([]domain.Order, error) {
	return p.queryOrders("SELECT task_id, user_id, video_type, video_link, title, quantity, cost, status, fail_reason, refunded, created_at FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
}

func (p *Postgres) AllOrders() ([]domain.Order, error) {
	return p.queryOrders("SELECT task_id, user_id, video_type, video_link, title, quantity, cost, status, fail_reason, refunded, created_at FROM orders ORDER BY created_at DESC")
}

func (p *Postgres) queryOrders(query string, args ...any) ([]domain.Order, error) {
	rows, err := p.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error fetching orders: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Log.Error("error closing rows", logger.Error(err))
		}
	}(rows)

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(&order.TaskID, &order.UserID, &order.VideoType, &order.VideoLink, &order.Title, &order.Quantity, &order.Cost, &order.Status, &order.FailReason, &order.Refunded, &order.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over orders: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus applies an admin adjudication. The order row is locked
// for the duration of the transaction; the refund for a transition into
// failed is credited in the same transaction and at most once, guarded by
// the refunded flag. A nil status updates fail_reason only.
func (p *Postgres) UpdateOrderStatus(taskID string, status *domain.OrderStatus, failReason *string) (*domain.Order, error) {
	tx, err := p.DB.BeginTx(context.Background(), nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	var order domain.Order
	err = tx.QueryRow("SELECT task_id, user_id, video_type, video_link, title, quantity, cost, status, fail_reason, refunded, created_at FROM orders WHERE task_id = $1 FOR UPDATE", taskID).
		Scan(&order.TaskID, &order.UserID, &order.VideoType, &order.VideoLink, &order.Title, &order.Quantity, &order.Cost, &order.Status, &order.FailReason, &order.Refunded, &order.CreatedAt)
	if err != nil {
		rollback(tx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("error fetching order: %w", err)
	}

	if status != nil && !order.Status.CanTransitionTo(*status) {
		rollback(tx)
		logger.Log.Warn("illegal status transition",
			logger.String("task_id", taskID),
			logger.String("from", string(order.Status)),
			logger.String("to", string(*status)),
		)
		return nil, domain.ErrInvalidTransition
	}

	newStatus := order.Status
	if status != nil {
		newStatus = *status
	}
	newFailReason := order.FailReason
	if failReason != nil {
		newFailReason = failReason
	}

	_, err = tx.Exec("UPDATE orders SET status = $1, fail_reason = $2 WHERE task_id = $3", newStatus, newFailReason, taskID)
	if err != nil {
		rollback(tx)
		return nil, fmt.Errorf("error updating order status: %w", err)
	}

	if newStatus == domain.StatusFailed && !order.Refunded {
		_, err = tx.Exec("UPDATE users SET balance = balance + $1 WHERE id = $2", order.Cost, order.UserID)
		if err != nil {
			rollback(tx)
			return nil, fmt.Errorf("error refunding order: %w", err)
		}

		_, err = tx.Exec("UPDATE orders SET refunded = TRUE WHERE task_id = $1", taskID)
		if err != nil {
			rollback(tx)
			return nil, fmt.Errorf("error marking order refunded: %w", err)
		}

		order.Refunded = true
		logger.Log.Info("order refunded",
			logger.String("task_id", taskID),
			logger.String("amount", order.Cost.String()),
			logger.Int64("user_id", order.UserID),
		)
	}

	err = tx.Commit()
	if err != nil {
		rollback(tx)
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	order.Status = newStatus
	order.FailReason = newFailReason

	return &order, nil
}

// RewardContact credits the one-time contact bonus. The (user, method) pair
// is unique, so resubmitting the same method is a conflict, not a second
// bonus.
func (p *Postgres) RewardContact(userID int64, method, contact string, bonus decimal.Decimal) (decimal.Decimal, error) {
	tx, err := p.DB.BeginTx(context.Background(), nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error starting transaction: %w", err)
	}

	_, err = tx.Exec("INSERT INTO rewards (user_id, method, contact) VALUES ($1, $2, $3)", userID, method, contact)
	if err != nil {
		rollback(tx)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			logger.Log.Warn("contact already rewarded", logger.Int64("user_id", userID), logger.String("method", method))
			return decimal.Decimal{}, domain.ErrRewardExists
		}
		return decimal.Decimal{}, fmt.Errorf("error inserting reward: %w", err)
	}

	var balance decimal.Decimal
	err = tx.QueryRow("UPDATE users SET balance = balance + $1 WHERE id = $2 RETURNING balance", bonus, userID).
		Scan(&balance)
	if err != nil {
		rollback(tx)
		return decimal.Decimal{}, fmt.Errorf("error crediting reward: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		rollback(tx)
		return decimal.Decimal{}, fmt.Errorf("error committing transaction: %w", err)
	}

	return balance, nil
}

func rollback(tx *sql.Tx) {
	err := tx.Rollback()
	if err != nil {
		logger.Log.Error(transactionRollbackError, logger.Error(err))
	}
}
