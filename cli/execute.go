package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Execute runs the command line with args and returns the process exit code:
// 0 when the run completed (findings or not), 1 on an aborted run, a usage
// error, a findings failure requested with --fail-on-orphans, or a panic.
func Execute(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(stdout, r)
			code = 1
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var reported errReported
	if !errors.As(err, &reported) && !errors.Is(err, ErrFindings) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}
