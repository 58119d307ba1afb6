package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// FileTable pairs a loaded raw table with the path it came from and the
// channel inferred from the file name. Err carries a per-file read
// failure; the table is empty in that case.
type FileTable struct {
	Path    string
	Channel string
	Table   schema.Table
	Err     error
}

// LoadFile reads a single file into a raw table, dispatching on the
// extension. Anything that is not .xlsx is treated as CSV.
func LoadFile(path string) (schema.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return schema.Table{}, eris.Wrap(err, "ingest: open csv file")
	}
	defer f.Close()
	return ReadCSV(f)
}

// LoadFiles reads the given files concurrently, preserving input order
// in the result. An unreadable file does not abort the load: its entry
// carries the error and an empty table, so one broken export degrades
// to a validation finding instead of losing the whole import.
func LoadFiles(ctx context.Context, paths []string) []FileTable {
	results := make([]FileTable, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			ft := FileTable{Path: path, Channel: DetectChannel(path)}
			if err := ctx.Err(); err != nil {
				ft.Err = eris.Wrap(err, "ingest: load cancelled")
			} else if table, err := LoadFile(path); err != nil {
				ft.Err = err
			} else {
				ft.Table = table
				zap.L().Debug("ingest: loaded file",
					zap.String("path", path),
					zap.Int("rows", len(table.Rows)))
			}
			results[i] = ft
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// DetectChannel guesses the sales channel from a file name. Returns ""
// when nothing matches; the normalizer then falls back to its default.
func DetectChannel(path string) string {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(name, "rakuten") || strings.Contains(name, "楽天"):
		return "楽天市場"
	case strings.Contains(name, "amazon"):
		return "Amazon"
	case strings.Contains(name, "yahoo"):
		return "Yahoo!ショッピング"
	case strings.Contains(name, "shop") || strings.Contains(name, "ec") || strings.Contains(name, "自社"):
		return "自社サイト"
	default:
		return ""
	}
}
