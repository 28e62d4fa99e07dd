package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/trinity-method/trinity-sdk/cmd/trinity"
	"github.com/trinity-method/trinity-sdk/pkg/style"
)

func main() {
	// An interrupt only stops an update before its backup exists; later
	// phases run to completion or roll back.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := trinity.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !trinity.IsReported(err) {
			fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		}
		os.Exit(trinity.ExitCode(err))
	}
}
