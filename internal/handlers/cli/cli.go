package cli

import (
	"context"
	"os"

	"github.com/gabapcia/mempart/internal/txroute"

	"github.com/urfave/cli/v3"
)

// RouterFactory builds a router together with the function that releases
// the resources it holds.
type RouterFactory func(ctx context.Context) (txroute.Service, func() error, error)

// StatusFunc reports the persisted router state.
type StatusFunc func(ctx context.Context) (txroute.Status, error)

func newApp(newRouter RouterFactory, inspect StatusFunc) *cli.Command {
	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "mempart",
		Description:           "Routes Stacks mempool transactions into per-contract partition files.",
		Usage:                 "mempart [command] [flags]",
		Commands: []*cli.Command{
			startRouterCommand(newRouter),
			statusCommand(inspect),
		},
	}
}

// Run executes the mempart CLI application with the process arguments.
//
// Available commands:
//
//   - `start`: Runs the router until interrupted.
//   - `status`: Prints the watermark, archive size and partitions.
func Run(ctx context.Context, newRouter RouterFactory, inspect StatusFunc) error {
	return newApp(newRouter, inspect).Run(ctx, os.Args)
}
