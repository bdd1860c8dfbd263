package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"

	_ "github.com/go-sql-driver/mysql"
	"github.com/kataras/golog"
	"github.com/xor-shift/prng/common"
)

const insertDrawQuery = "INSERT INTO draws (stream_state, kind, min_value, max_value, draw_order, value) VALUES (?, ?, ?, ?, ?, ?)"

var cfg common.Config

func init() {
	var err error

	if cfg, err = common.LoadConfig(); err != nil {
		golog.Fatalf("loading config failed: %s", err)
	}
}

// batchBounds returns the range of an int batch and NULLs for every other kind.
func batchBounds(batch common.DrawBatch) (sql.NullInt32, sql.NullInt32) {
	if batch.Kind != common.DrawInt {
		return sql.NullInt32{}, sql.NullInt32{}
	}

	return sql.NullInt32{Int32: batch.Min, Valid: true}, sql.NullInt32{Int32: batch.Max, Valid: true}
}

// storeBatch writes every value of batch in one transaction.
func storeBatch(ctx context.Context, db *sql.DB, batch common.DrawBatch) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertDrawQuery)
	if err != nil {
		return err
	}
	defer stmt.Close()

	lo, hi := batchBounds(batch)

	for i, value := range batch.Strings() {
		if _, err = stmt.ExecContext(ctx, batch.StreamState, string(batch.Kind), lo, hi, i, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func main() {
	db, err := sql.Open("mysql", cfg.MySQLConfig().FormatDSN())
	if err != nil {
		golog.Fatalf("opening the database failed: %s", err)
	}
	defer db.Close()

	consumer, err := common.NewAMQPConsumer(cfg.AMQPURL, "draw_queue_db", "consumer_db",
		func(batch common.DrawBatch) error {
			return storeBatch(context.TODO(), db, batch)
		})
	if err != nil {
		golog.Fatalf("connecting to amqp failed: %s", err)
	}
	defer consumer.Close()

	if err = consumer.Start(); err != nil {
		golog.Fatalf("starting the consumer failed: %s", err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt

	golog.Infof("stopping")

	if err = consumer.Stop(); err != nil {
		golog.Errorf("cancelling the consumer failed: %s", err)
	}
	consumer.Wait()
}
