package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/areasearch/internal/cli"
)

func TestRun_Help(t *testing.T) {
	t.Setenv("AREASEARCH_HOME", t.TempDir())
	require.NoError(t, run(context.Background(), []string{"--help"}))
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Setenv("AREASEARCH_HOME", t.TempDir())
	require.Error(t, run(context.Background(), []string{"fly"}))
}

func TestRun_ScanWithoutWorld(t *testing.T) {
	t.Setenv("AREASEARCH_HOME", t.TempDir())
	err := run(context.Background(), []string{"scan", "--world", ""})
	require.ErrorIs(t, err, cli.ErrWorldRequired)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitOK},
		{name: "generic", err: errors.New("boom"), want: exitError},
		{name: "timeout", err: fmt.Errorf("scanning: %w", context.DeadlineExceeded), want: exitTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
