package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/fatih/color"

	"github.com/motoloc/motocrm/cmd"
	"github.com/motoloc/motocrm/internal/cli"
)

func main() {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	err := cmd.Execute(ctx)
	cancel()

	// Command handlers print their own failures
	var ee *cli.ExitCodeError
	if err != nil && !errors.As(err, &ee) {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), err)
	}
	os.Exit(cli.ExitCode(err))
}
