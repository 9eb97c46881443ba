// cmd/gcwig/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gcwig/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.RunContext(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if ctx.Err() != nil && code == app.ExitOK {
		code = app.ExitCancelled
	}
	stop()
	os.Exit(code)
}
