package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gabapcia/mempart/internal/txroute"

	"github.com/urfave/cli/v3"
)

type statusView struct {
	Watermark      *uint64         `json:"watermark"`
	ArchiveSize    *int            `json:"archive_size"`
	LastAcceptTime uint64          `json:"last_accept_time,omitempty"`
	Partitions     []partitionView `json:"partitions"`
}

type partitionView struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

func newStatusView(status txroute.Status) statusView {
	view := statusView{
		LastAcceptTime: status.LastAcceptTime,
		Partitions:     make([]partitionView, 0, len(status.Partitions)),
	}
	if status.WatermarkFound {
		view.Watermark = &status.Watermark
	}
	if status.ArchiveFound {
		view.ArchiveSize = &status.ArchiveSize
	}
	for _, p := range status.Partitions {
		view.Partitions = append(view.Partitions, partitionView{Key: p.Key, Count: p.Count})
	}
	return view
}

func writeStatusText(w io.Writer, status txroute.Status) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if status.WatermarkFound {
		fmt.Fprintf(tw, "watermark:\t%d\n", status.Watermark)
	} else {
		fmt.Fprintln(tw, "watermark:\tnone")
	}

	if status.ArchiveFound {
		fmt.Fprintf(tw, "archive:\t%d transactions\n", status.ArchiveSize)
	} else {
		fmt.Fprintln(tw, "archive:\tnone")
	}

	if status.LastAcceptTime != 0 {
		fmt.Fprintf(tw, "last accept time:\t%d\n", status.LastAcceptTime)
	}

	fmt.Fprintf(tw, "partitions:\t%d\n", len(status.Partitions))
	for _, p := range status.Partitions {
		fmt.Fprintf(tw, "  %s\t%d\n", p.Key, p.Count)
	}

	return tw.Flush()
}

// statusCommand returns a CLI command that prints the persisted router
// state.
//
// Usage example:
//
//	mempart status --json
func statusCommand(inspect StatusFunc) *cli.Command {
	return &cli.Command{
		Name:        "status",
		Description: "Prints the stored watermark, the archive size and the transaction count of every partition.",
		Usage:       "Shows the persisted router state.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the status as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			status, err := inspect(ctx)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if c.Bool("json") {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(newStatusView(status))
			}
			return writeStatusText(w, status)
		},
	}
}
