package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gabapcia/mempart/internal/txroute"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func runStatus(t *testing.T, status txroute.Status, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	app := &cli.Command{
		Writer: &out,
		Commands: []*cli.Command{statusCommand(func(context.Context) (txroute.Status, error) {
			return status, nil
		})},
	}

	require.NoError(t, app.Run(t.Context(), append([]string{"mempart", "status"}, args...)))
	return out.String()
}

func TestStatusCommand(t *testing.T) {
	populated := txroute.Status{
		Watermark:      30,
		WatermarkFound: true,
		ArchiveSize:    3,
		ArchiveFound:   true,
		LastAcceptTime: 30,
		Partitions: []txroute.PartitionInfo{
			{Key: "NO_NAME", Count: 1},
			{Key: "alpha", Count: 2},
		},
	}

	t.Run("should print the status as text", func(t *testing.T) {
		// Act
		out := runStatus(t, populated)

		// Assert
		assert.Contains(t, out, "watermark:")
		assert.Contains(t, out, "30")
		assert.Contains(t, out, "3 transactions")
		assert.Contains(t, out, "partitions:")
		assert.Regexp(t, `(?m)^  alpha\s+2$`, out)
		assert.Regexp(t, `(?m)^  NO_NAME\s+1$`, out)
	})

	t.Run("should mark missing state as none", func(t *testing.T) {
		out := runStatus(t, txroute.Status{})

		assert.Regexp(t, `(?m)^watermark:\s+none$`, out)
		assert.Regexp(t, `(?m)^archive:\s+none$`, out)
		assert.NotContains(t, out, "last accept time")
	})

	t.Run("should print the status as JSON", func(t *testing.T) {
		// Act
		out := runStatus(t, populated, "--json")

		// Assert
		var view map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &view))
		assert.Equal(t, float64(30), view["watermark"])
		assert.Equal(t, float64(3), view["archive_size"])
		assert.Len(t, view["partitions"], 2)
	})

	t.Run("should print null for missing state in JSON", func(t *testing.T) {
		out := runStatus(t, txroute.Status{}, "--json")

		var view map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &view))
		assert.Nil(t, view["watermark"])
		assert.Nil(t, view["archive_size"])
		assert.Equal(t, []any{}, view["partitions"])
	})

	t.Run("should return inspection errors", func(t *testing.T) {
		// Arrange
		expectedError := errors.New("archive unreadable")
		app := &cli.Command{
			Commands: []*cli.Command{statusCommand(func(context.Context) (txroute.Status, error) {
				return txroute.Status{}, expectedError
			})},
		}

		// Act
		err := app.Run(t.Context(), []string{"mempart", "status"})

		// Assert
		assert.ErrorIs(t, err, expectedError)
	})
}
