package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

var errUserMistake = errors.New("token not found")

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantMsg   string
	}{
		{
			name:      "success",
			err:       nil,
			wantLevel: "level=DEBUG",
			wantMsg:   "Command ok",
		},
		{
			name:      "expected error",
			err:       fmt.Errorf("%w: ABCD1234", errUserMistake),
			wantLevel: "level=WARN",
			wantMsg:   "Command rejected",
		},
		{
			name:      "unexpected error",
			err:       errors.New("disk full"),
			wantLevel: "level=ERROR",
			wantMsg:   "Command failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			var gotArgs []string
			cmd := Logging("token show", func(ctx context.Context, args []string) error {
				gotArgs = args
				return tt.err
			}, errUserMistake)

			err := cmd(context.Background(), []string{"ABCD1234"})
			if !errors.Is(err, tt.err) {
				t.Fatalf("error not passed through: got %v, want %v", err, tt.err)
			}
			if len(gotArgs) != 1 || gotArgs[0] != "ABCD1234" {
				t.Errorf("args not passed through: %v", gotArgs)
			}

			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) || !strings.Contains(out, tt.wantMsg) {
				t.Errorf("log output = %q, want %s %q", out, tt.wantLevel, tt.wantMsg)
			}
			if !strings.Contains(out, `command="token show"`) {
				t.Errorf("log output missing command name: %q", out)
			}
		})
	}
}
