package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/specialistvlad/dpcheck/internal/cli"
)

// main is the entrypoint for the dpcheck application.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(exitCode(os.Stderr, err))
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	return cli.Execute(ctx, cli.NewRootCommand(outW, errW), args)
}

// exitCode reports err on errW and returns the process exit code for it.
func exitCode(errW io.Writer, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(errW, err)
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
