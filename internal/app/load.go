package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/specialistvlad/dpcheck/internal/ctxlog"
	"github.com/specialistvlad/dpcheck/internal/fsutil"
	"github.com/specialistvlad/dpcheck/internal/wire"
)

const (
	extHCL    = ".hcl"
	extSnappy = ".sz"
	extWire   = ".pb"
)

// ErrInput marks command-line paths that do not name any analysis.
var ErrInput = errors.New("invalid input")

// inputExtensions are the files collected when a directory is given.
var inputExtensions = []string{extHCL, extSnappy, extWire}

// findInputs expands paths into the list of analysis files to validate.
func (a *App) findInputs(ctx context.Context, paths []string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Searching for analyses...", "paths", paths)

	files, err := fsutil.FindFiles(paths, inputExtensions...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no analyses found in %s", ErrInput, strings.Join(paths, ", "))
	}
	logger.Debug("Analyses found.", "count", len(files))
	return files, nil
}

// readInput returns the wire encoding of the analysis stored at path. HCL
// files are parsed and encoded, snappy files are decompressed and any other
// file is returned as is.
func (a *App) readInput(ctx context.Context, path string) ([]byte, error) {
	if strings.HasSuffix(path, extHCL) {
		an, err := a.loader.LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		return wire.Encode(an), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.HasSuffix(path, extSnappy) {
		decoded, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
		return decoded, nil
	}
	return data, nil
}
