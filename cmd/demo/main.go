// Command demo runs the t_user walkthrough against the database configured
// through the DB_* environment variables: insert, select one, update, select
// all, delete, select all. The table must already exist:
//
//	CREATE TABLE t_user (username VARCHAR(64) NOT NULL, password VARCHAR(64) NOT NULL);
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dhima/dbutils/internal/logging"
	"github.com/dhima/dbutils/pkg/config"
	"github.com/dhima/dbutils/pkg/dbutils"
	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg.Database, logger); err != nil {
		logger.Fatal("demo failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg dbutils.Config, logger logging.Logger) error {
	db, err := dbutils.Open(ctx, cfg, dbutils.WithLogger(logger.Zap()))
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Insert(ctx, "INSERT INTO t_user (username, password) VALUES (?, ?)", "admin", "pw1")
	if err != nil {
		return err
	}
	logger.Info("inserted", zap.Int64("rows_affected", n))

	row, err := db.SelectOne(ctx, "SELECT * FROM t_user WHERE username = ? AND password = ?", "admin", "pw1")
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("inserted row not found")
	}
	logger.Info("selected one", zap.Any("row", row))

	n, err = db.Update(ctx, "UPDATE t_user SET password = ? WHERE username = ?", "pw2", "admin")
	if err != nil {
		return err
	}
	logger.Info("updated", zap.Int64("rows_affected", n))

	rows, err := db.SelectAll(ctx, "SELECT * FROM t_user")
	if err != nil {
		return err
	}
	logger.Info("selected all", zap.Int("count", len(rows)), zap.Any("rows", rows))

	first, err := db.SelectN(ctx, "SELECT * FROM t_user", 3)
	if err != nil {
		return err
	}
	logger.Info("selected first 3", zap.Int("count", len(first)))

	n, err = db.Delete(ctx, "DELETE FROM t_user WHERE username = ?", "admin")
	if err != nil {
		return err
	}
	logger.Info("deleted", zap.Int64("rows_affected", n))

	rows, err = db.SelectAll(ctx, "SELECT * FROM t_user")
	if err != nil {
		return err
	}
	logger.Info("selected all", zap.Int("count", len(rows)))
	return nil
}
