package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/talkincode/gopos/config"
	"github.com/talkincode/gopos/internal/app"
	"github.com/talkincode/gopos/internal/posapi"
	"github.com/talkincode/gopos/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var confFile = flag.String("c", "/etc/gopos.yml", "config file")

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*confFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	webserver.Init(application)
	posapi.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// warm the mirrors in the background; failures keep the empty
	// "no value yet" state and the refresh jobs retry
	go func() {
		wctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := application.Catalog().Refresh(wctx); err != nil {
			zap.L().Warn("initial catalog refresh failed", zap.Error(err))
		}
		if err := application.Tickets().Refresh(wctx); err != nil {
			zap.L().Warn("initial ticket refresh failed", zap.Error(err))
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(webserver.Listen)
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return webserver.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("gopos exited with error", zap.Error(err))
	}
}
