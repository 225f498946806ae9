package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

func InitPostgres(dsn string) error {
	if dsn == "" {
		return fmt.Errorf("empty Postgres DSN")
	}

	var err error
	Pool, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		return fmt.Errorf("connect pgxpool: %w", err)
	}

	if err := Pool.Ping(context.Background()); err != nil {
		return fmt.Errorf("ping pgxpool: %w", err)
	}

	return nil
}

func ClosePostgres() {
	if Pool != nil {
		Pool.Close()
	}
}
