package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"campus-rental-client/internal/cli"
	"campus-rental-client/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", service.UserMessage(err))
		stop()
		os.Exit(1)
	}
}
