package dealer

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// Store records every stream handed out so that runs can be audited and
// replayed.
type Store interface {
	RecordStream(ctx context.Context, stream Stream) (uint64, error)
	// LatestStream returns the last stream recorded for seed, if any.
	LatestStream(ctx context.Context, seed uint64) (Stream, bool, error)
}

type MySQLStore struct {
	db *sql.DB
}

func OpenMySQLStore(cfg *mysql.Config) (*MySQLStore, error) {
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}

	return NewMySQLStore(db), nil
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (store *MySQLStore) RecordStream(ctx context.Context, stream Stream) (uint64, error) {
	rows, err := store.db.QueryContext(ctx,
		"insert into streams (seed, stream_index, jump_kind, prng) values (?, ?, ?, ?) returning stream_id",
		stream.Seed, stream.Index, string(stream.Kind), stream.State)
	if err != nil {
		return 0, err
	}

	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return 0, err
		}
		return 0, errors.New("no rows returned from sql insert query")
	}

	var id uint64
	if err = rows.Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

func (store *MySQLStore) LatestStream(ctx context.Context, seed uint64) (Stream, bool, error) {
	stream := Stream{Seed: seed}
	var kind string

	err := store.db.QueryRowContext(ctx,
		"select stream_id, stream_index, jump_kind, prng from streams where seed = ? order by stream_index desc limit 1",
		seed).Scan(&stream.ID, &stream.Index, &kind, &stream.State)

	if errors.Is(err, sql.ErrNoRows) {
		return Stream{}, false, nil
	} else if err != nil {
		return Stream{}, false, err
	}

	stream.Kind = JumpKind(kind)

	return stream, true, nil
}

func (store *MySQLStore) Close() error {
	return store.db.Close()
}
