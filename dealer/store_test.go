package dealer

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

var insertStreamQuery = regexp.QuoteMeta(
	"insert into streams (seed, stream_index, jump_kind, prng) values (?, ?, ?, ?) returning stream_id")

func TestMySQLStoreRecordStream(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %s", err)
	}
	defer db.Close()

	stream := Stream{Seed: 42, Index: 3, Kind: JumpLong, State: "abcd"}

	mock.ExpectQuery(insertStreamQuery).
		WithArgs(uint64(42), uint64(3), "long", "abcd").
		WillReturnRows(sqlmock.NewRows([]string{"stream_id"}).AddRow(17))

	id, err := NewMySQLStore(db).RecordStream(context.Background(), stream)
	if err != nil {
		t.Fatalf("RecordStream: %s", err)
	}

	if id != 17 {
		t.Errorf("id = %d, want 17", id)
	}

	if err = mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestMySQLStoreNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %s", err)
	}
	defer db.Close()

	mock.ExpectQuery(insertStreamQuery).WillReturnRows(sqlmock.NewRows([]string{"stream_id"}))

	if _, err = NewMySQLStore(db).RecordStream(context.Background(), Stream{}); err == nil {
		t.Errorf("expected an error when nothing is returned")
	}
}

func TestMySQLStoreQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %s", err)
	}
	defer db.Close()

	failure := errors.New("table streams does not exist")
	mock.ExpectQuery(insertStreamQuery).WillReturnError(failure)

	if _, err = NewMySQLStore(db).RecordStream(context.Background(), Stream{}); !errors.Is(err, failure) {
		t.Errorf("RecordStream error = %v, want %v", err, failure)
	}
}

func TestMySQLStoreLatestStream(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %s", err)
	}
	defer db.Close()

	query := regexp.QuoteMeta("select stream_id, stream_index, jump_kind, prng from streams where seed = ?")

	mock.ExpectQuery(query).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"stream_id", "stream_index", "jump_kind", "prng"}).
			AddRow(9, 4, "short", "abcd"))
	mock.ExpectQuery(query).
		WithArgs(uint64(43)).
		WillReturnRows(sqlmock.NewRows([]string{"stream_id", "stream_index", "jump_kind", "prng"}))

	store := NewMySQLStore(db)

	stream, ok, err := store.LatestStream(context.Background(), 42)
	if err != nil || !ok {
		t.Fatalf("LatestStream: %v, %v", ok, err)
	}
	if stream.ID != 9 || stream.Index != 4 || stream.Kind != JumpShort || stream.State != "abcd" || stream.Seed != 42 {
		t.Errorf("unexpected stream: %+v", stream)
	}

	if _, ok, err = store.LatestStream(context.Background(), 43); ok || err != nil {
		t.Errorf("empty table: ok %v, err %v", ok, err)
	}

	if err = mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
