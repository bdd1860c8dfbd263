package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/kataras/golog"
	"github.com/kataras/iris/v12/httptest"
	"github.com/xor-shift/prng/common"
	"github.com/xor-shift/prng/dealer"
	"github.com/xor-shift/prng/rng"
)

type countingStore struct {
	n uint64
}

func (s *countingStore) RecordStream(context.Context, dealer.Stream) (uint64, error) {
	s.n++
	return s.n, nil
}

func (s *countingStore) LatestStream(context.Context, uint64) (dealer.Stream, bool, error) {
	return dealer.Stream{}, false, nil
}

func testDealer(t *testing.T) *dealer.Dealer {
	logger := golog.New()
	logger.SetOutput(&bytes.Buffer{})

	d := dealer.New(42, &countingStore{}, nil, logger)
	d.Start(2)
	t.Cleanup(d.Stop)

	return d
}

func TestHealth(t *testing.T) {
	e := httptest.New(t, newApp(testDealer(t)))

	e.GET("/health").Expect().Status(httptest.StatusOK).Body().Equal("OK")
}

func TestStream(t *testing.T) {
	e := httptest.New(t, newApp(testDealer(t)))

	first := e.GET("/stream").Expect().Status(httptest.StatusOK).JSON().Object()
	first.Value("id").Number().Equal(1)
	first.Value("index").Number().Equal(0)
	first.Value("kind").String().Equal("short")
	first.Value("state").String().Equal(rng.NewXoshiro256P(42).String())

	jumped := rng.NewXoshiro256P(42)
	jumped.Jump()

	second := e.GET("/stream").WithQuery("kind", "long").Expect().Status(httptest.StatusOK).JSON().Object()
	second.Value("kind").String().Equal("long")
	second.Value("state").String().Equal(jumped.String())

	e.GET("/stream").WithQuery("kind", "sideways").Expect().Status(httptest.StatusBadRequest)
}

func TestDraws(t *testing.T) {
	e := httptest.New(t, newApp(testDealer(t)))

	batch := e.POST("/draws").WithJSON(map[string]interface{}{
		"state": rng.NewXoshiro256P(7).String(),
		"kind":  "int",
		"count": 3,
		"min":   1,
		"max":   7,
	}).Expect().Status(httptest.StatusOK).JSON().Object()

	batch.Value("kind").String().Equal(string(common.DrawInt))
	batch.Value("ints").Array().Equal([]int{6, 2, 5})
}

func TestDrawsBadRequests(t *testing.T) {
	e := httptest.New(t, newApp(testDealer(t)))

	bodies := []map[string]interface{}{
		{"state": rng.NewXoshiro256P(7).String(), "kind": "int", "min": 3, "max": 3},
		{"state": "0000000000000000000000000000000000000000000000000000000000000000", "kind": "u64"},
		{"state": "abc", "kind": "u64"},
		{"kind": "f64", "count": 2},
		{"state": rng.NewXoshiro256P(7).String(), "kind": "int", "min": 0, "max": 4294967297},
		{"state": rng.NewXoshiro256P(7).String(), "kind": "f64", "count": 2.9},
	}

	for _, body := range bodies {
		e.POST("/draws").WithJSON(body).Expect().Status(httptest.StatusBadRequest)
	}

	e.POST("/draws").WithBytes([]byte("{not json")).Expect().Status(httptest.StatusBadRequest)
}
