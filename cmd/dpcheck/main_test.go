package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/dpcheck/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	// --- Assert ---
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, exitCode(&bytes.Buffer{}, err))
	assert.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_InvalidHCLIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte("privacy {\n  epsilon = \n"), 0o600))
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"validate", path})

	// --- Assert ---
	require.Error(t, err)
	assert.Equal(t, cli.ExitRejected, exitCode(&bytes.Buffer{}, err))
	assert.Contains(t, out.String(), "FAIL "+path)
	assert.Contains(t, out.String(), "[deserialization-error]")
}

func TestRun_MissingInputsAreUsageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		path string
	}{
		{name: "nonexistent path", path: filepath.Join(t.TempDir(), "nope")},
		{name: "empty directory", path: t.TempDir()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			errW := &bytes.Buffer{}

			// --- Act ---
			err := run(context.Background(), &bytes.Buffer{}, errW, []string{"validate", tc.path})

			// --- Assert ---
			require.Error(t, err)
			assert.Equal(t, cli.ExitUsage, exitCode(errW, err))
			assert.Contains(t, errW.String(), tc.path)
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	errW := &bytes.Buffer{}
	assert.Equal(t, 0, exitCode(errW, nil))
	assert.Empty(t, errW.String())

	assert.Equal(t, 1, exitCode(errW, errors.New("boom")))
	assert.Equal(t, "boom\n", errW.String())

	assert.Equal(t, 2, exitCode(&bytes.Buffer{}, &cli.ExitError{Code: 2, Message: "bad flag"}))
}
