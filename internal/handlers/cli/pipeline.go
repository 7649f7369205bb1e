package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// startRouterCommand returns a CLI command that runs the router.
//
// Usage example:
//
//	mempart start
//
// The process runs until it receives SIGINT or SIGTERM or ctx is done. On
// the way out the router flushes its state before the resources are
// released.
func startRouterCommand(newRouter RouterFactory) *cli.Command {
	return &cli.Command{
		Name:        "start",
		Description: "Polls the mempool database and routes new transactions into partition files.",
		Usage:       "Runs the router. Terminates gracefully on Ctrl+C or termination signals.",
		Action: func(ctx context.Context, c *cli.Command) (err error) {
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			svc, release, err := newRouter(ctx)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, release()) }()

			if err := svc.Start(ctx); err != nil {
				return err
			}
			defer svc.Close()

			select {
			case <-quit:
			case <-ctx.Done():
			}
			return nil
		},
	}
}
