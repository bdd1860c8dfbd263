package main

import (
	"fmt"
	"sync"

	"github.com/kataras/golog"
	"github.com/kataras/iris/v12"
	"github.com/xor-shift/prng/common"
)

var cfg common.Config

func init() {
	var err error

	if cfg, err = common.LoadConfig(); err != nil {
		golog.Fatalf("loading config failed: %s", err)
	}
}

// latestBatch holds the most recent batch seen on the draws exchange.
type latestBatch struct {
	mu    sync.RWMutex
	batch *common.DrawBatch
}

func (l *latestBatch) Set(batch common.DrawBatch) error {
	golog.Infof("%s: %d %s draws", batch.StreamState, batch.Len(), batch.Kind)

	l.mu.Lock()
	l.batch = &batch
	l.mu.Unlock()

	return nil
}

func (l *latestBatch) Get() (common.DrawBatch, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.batch == nil {
		return common.DrawBatch{}, false
	}

	return *l.batch, true
}

func newApp(latest *latestBatch) *iris.Application {
	app := iris.New()

	app.Get("/test", func(ctx iris.Context) {
		_, _ = ctx.Text("OK")
	})

	app.Get("/data", func(ctx iris.Context) {
		batch, ok := latest.Get()
		if !ok {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}

		_, _ = ctx.JSON(batch)
	})

	return app
}

func main() {
	latest := &latestBatch{}

	consumer, err := common.NewAMQPConsumer(cfg.AMQPURL, "draw_queue_fe", "consumer_fe", latest.Set)
	if err != nil {
		golog.Fatalf("connecting to amqp failed: %s", err)
	}
	defer consumer.Close()

	if err = consumer.Start(); err != nil {
		golog.Fatalf("starting the consumer failed: %s", err)
	}

	if err = newApp(latest).Listen(fmt.Sprintf(":%s", cfg.ConsumerFEPort)); err != nil {
		golog.Errorf("http server stopped: %s", err)
	}
}
