package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/coursebridge-backend/internal/app"
	"github.com/yungbote/coursebridge-backend/internal/platform/shutdown"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a.Start()

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(a.Cfg.HTTPAddr) }()

	select {
	case err := <-errCh:
		if err != nil {
			a.Log.Error("server exited", "error", err)
			a.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		a.Log.Info("shutdown signal received")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := a.Shutdown(drainCtx); err != nil {
			a.Log.Warn("graceful shutdown failed", "error", err)
		}
		<-errCh
	}
}
