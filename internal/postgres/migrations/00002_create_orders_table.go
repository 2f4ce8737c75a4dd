package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(UpOrdersTable, DownOrdersTable)
}

func UpOrdersTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE orders
(
    task_id VARCHAR(100) PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users (id),
    video_type VARCHAR(10) NOT NULL,
    video_link TEXT NOT NULL,
    title VARCHAR(255) NOT NULL,
    quantity INT NOT NULL,
    cost NUMERIC(10, 2) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'waiting',
    fail_reason TEXT,
    refunded BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL
);

CREATE INDEX orders_user_id_created_at_idx ON orders (user_id, created_at DESC);`)
	return err
}

func DownOrdersTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "DROP TABLE orders;")
	return err
}
