package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/poiesic/factmap/cluster"
	"github.com/poiesic/factmap/core"
)

// Order returns a copy of t with core.PreferredOrder applied.
func Order(t *core.Table) *core.Table {
	return t.Reorder(core.PreferredOrder)
}

// Encode serializes t as CSV in output column order.
func Encode(t *core.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(Order(t).Records()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteAll writes t to every path with identical bytes.
//
// The table is encoded once and staged in a temporary file next to each
// path. If any staging step fails every temporary file is removed and no
// output is touched. Staged files are then renamed into place; rename
// failures are joined into the returned error.
func WriteAll(ctx context.Context, t *core.Table, paths ...string) error {
	if len(paths) == 0 {
		return ErrNoOutputs
	}
	data, err := Encode(t)
	if err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}
	return writeFiles(ctx, data, paths)
}

// WriteClusterLabels writes summaries as an indented JSON array.
func WriteClusterLabels(ctx context.Context, path string, summaries []cluster.Summary) error {
	if summaries == nil {
		summaries = []cluster.Summary{}
	}
	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cluster labels: %w", err)
	}
	return writeFiles(ctx, append(data, '\n'), []string{path})
}

func writeFiles(ctx context.Context, data []byte, paths []string) error {
	staged := make([]string, 0, len(paths))
	cleanup := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			cleanup()
			return err
		}
		tmp, err := stage(path, data)
		if err != nil {
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", path, err)
		}
		staged = append(staged, tmp)
	}

	var errs []error
	for i, path := range paths {
		if err := os.Rename(staged[i], path); err != nil {
			os.Remove(staged[i])
			errs = append(errs, fmt.Errorf("failed to write %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

// stage writes data to a new temporary file in path's directory.
func stage(path string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	name := f.Name()

	err = f.Chmod(0o644)
	if err == nil {
		_, err = f.Write(data)
	}
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
