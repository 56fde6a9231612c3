package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtg01100/fplaunchwrapper/cmd"
	"github.com/dtg01100/fplaunchwrapper/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil {
			os.Exit(errors.ExitInterrupted)
		}
		os.Exit(errors.GetExitCode(err))
	}
}
