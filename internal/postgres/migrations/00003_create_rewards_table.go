package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(UpRewardsTable, DownRewardsTable)
}

func UpRewardsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE rewards
(
    user_id BIGINT NOT NULL REFERENCES users (id),
    method VARCHAR(20) NOT NULL,
    contact VARCHAR(255) NOT NULL,
    rewarded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
    PRIMARY KEY (user_id, method)
);`)
	return err
}

func DownRewardsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "DROP TABLE rewards;")
	return err
}
