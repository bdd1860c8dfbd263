package main

import (
	"errors"

	"github.com/kataras/iris/v12"
	"github.com/xor-shift/prng/common"
	"github.com/xor-shift/prng/dealer"
)

func newApp(d *dealer.Dealer) *iris.Application {
	app := iris.New()

	app.Get("/health", func(ctx iris.Context) {
		_, _ = ctx.Text("OK")
	})

	app.Get("/stream", func(ctx iris.Context) {
		kind, err := dealer.ParseJumpKind(ctx.URLParamDefault("kind", string(dealer.JumpShort)))
		if err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			_, _ = ctx.Text("+ERR %s", err)
			return
		}

		stream, err := d.Allocate(ctx.Request().Context(), kind)
		if err != nil {
			app.Logger().Errorf("/stream error (Allocate): %s", err)
			ctx.StatusCode(statusFor(err))
			_, _ = ctx.Text("+ERR %s", err)
			return
		}

		_, _ = ctx.JSON(stream)
	})

	app.Post("/draws", func(ctx iris.Context) {
		var body map[string]interface{}
		if err := ctx.ReadJSON(&body); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			_, _ = ctx.Text("+ERR bad json: %s", err)
			return
		}

		spec, err := common.DecodeDrawSpec(body)
		if err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			_, _ = ctx.Text("+ERR %s", err)
			return
		}

		batch, err := d.Submit(ctx.Request().Context(), spec)
		if err != nil {
			app.Logger().Warnf("/draws error (Submit): %s", err)
			ctx.StatusCode(statusFor(err))
			_, _ = ctx.Text("+ERR %s", err)
			return
		}

		_, _ = ctx.JSON(batch)
	})

	return app
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dealer.ErrStopped):
		return iris.StatusServiceUnavailable
	case errors.Is(err, dealer.ErrPublish), errors.Is(err, dealer.ErrRecord):
		return iris.StatusInternalServerError
	}

	return iris.StatusBadRequest
}
