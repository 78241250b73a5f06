package app

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/entnt/dentdesk/config"
)

// New assembles the application graph. Extra options usually carry the
// command's fx.Invoke.
func New(cfg *config.Config, extra ...fx.Option) *fx.App {
	opts := []fx.Option{
		fx.Supply(cfg),
		InfraModule,
		ServiceModule,
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
	}
	opts = append(opts, extra...)
	return fx.New(opts...)
}

// RunOnce builds the graph, runs the invoke function, and shuts the
// application down again. Used by one-shot CLI commands.
func RunOnce(cfg *config.Config, invoke any) error {
	fxApp := New(cfg, fx.Invoke(invoke))
	if err := fxApp.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		return err
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return fxApp.Stop(stopCtx)
}
