package main

import (
	"context"
	"fmt"

	"github.com/kataras/golog"
	"github.com/xor-shift/prng/common"
	"github.com/xor-shift/prng/dealer"
)

var cfg common.Config

func init() {
	var err error

	if cfg, err = common.LoadConfig(); err != nil {
		golog.Fatalf("loading config failed: %s", err)
	}
}

func main() {
	store, err := dealer.OpenMySQLStore(cfg.MySQLConfig())
	if err != nil {
		golog.Fatalf("opening the stream store failed: %s", err)
	}
	defer store.Close()

	publisher, err := common.NewAMQPPublisher(cfg.AMQPURL)
	if err != nil {
		golog.Fatalf("connecting to amqp failed: %s", err)
	}
	defer publisher.Close()

	d := dealer.New(cfg.MasterSeed, store, publisher, golog.Default)
	if err = d.Resume(context.Background()); err != nil {
		golog.Fatalf("resuming the dealer failed: %s", err)
	}

	d.Start(cfg.Workers)
	defer d.Stop()

	app := newApp(d)

	golog.Infof("dealing streams of seed %#x with %d workers", cfg.MasterSeed, cfg.Workers)

	if err = app.Listen(fmt.Sprintf(":%s", cfg.HTTPPort)); err != nil {
		golog.Errorf("http server stopped: %s", err)
	}
}
