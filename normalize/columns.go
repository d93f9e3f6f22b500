package normalize

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/factmap/core"
)

// DefaultColumns are the text columns normalized when none are configured.
var DefaultColumns = []string{core.ColArticleText, core.ColTitle, core.ColSummary, core.ColTarget}

// defaultChunkSize is the number of rows handed to a worker at a time.
const defaultChunkSize = 256

// Report summarizes a normalization pass.
type Report struct {
	// Changed maps each normalized column to the number of cells rewritten.
	Changed map[string]int
	// Skipped lists configured columns the table does not have.
	Skipped []string
}

type options struct {
	poolSize  int
	chunkSize int
	logger    *slog.Logger
}

// Option configures Columns.
type Option func(*options)

// WithPoolSize sets the number of workers.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *options) {
		if size < 1 {
			size = 1
		}
		o.poolSize = size
	}
}

// WithChunkSize sets the number of rows each worker task processes.
func WithChunkSize(size int) Option {
	return func(o *options) {
		if size < 1 {
			size = 1
		}
		o.chunkSize = size
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// Columns returns a copy of t with Text applied to every cell of each named
// column. Columns the table lacks are skipped, not treated as errors.
// Row order is preserved.
func Columns(ctx context.Context, t *core.Table, columns []string, opts ...Option) (*core.Table, Report, error) {
	o := &options{
		poolSize:  max(runtime.NumCPU(), 1),
		chunkSize: defaultChunkSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger.With("component", "normalizer")

	report := Report{Changed: make(map[string]int)}
	out := t.Clone()

	pool, err := ants.NewPool(o.poolSize)
	if err != nil {
		return nil, report, err
	}
	defer pool.Release()

	for _, column := range columns {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		values, ok := out.Column(column)
		if !ok {
			logger.Debug("column not present, skipping", "column", column)
			report.Skipped = append(report.Skipped, column)
			continue
		}

		normalized, err := normalizeValues(pool, values, o.chunkSize)
		if err != nil {
			return nil, report, err
		}

		changed := 0
		for i := range values {
			if values[i] != normalized[i] {
				changed++
			}
		}
		if err := out.SetColumn(column, normalized); err != nil {
			return nil, report, err
		}

		report.Changed[column] = changed
		logger.Info("normalized column", "column", column, "changed", changed)
	}

	return out, report, nil
}

// normalizeValues applies Text to values on the pool. Each task writes only
// its own index range of the result.
func normalizeValues(pool *ants.Pool, values []string, chunkSize int) ([]string, error) {
	result := make([]string, len(values))
	var wg sync.WaitGroup

	for start := 0; start < len(values); start += chunkSize {
		end := min(start+chunkSize, len(values))
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			for i := start; i < end; i++ {
				result[i] = Text(values[i])
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}

	wg.Wait()
	return result, nil
}

// Residue counts, per column, the rows that still hold a code point Text
// removes. Columns the table lacks are omitted.
func Residue(t *core.Table, columns []string) map[string]int {
	residue := make(map[string]int)
	for _, column := range columns {
		values, ok := t.Column(column)
		if !ok {
			continue
		}
		n := 0
		for _, v := range values {
			if !IsClean(v) {
				n++
			}
		}
		residue[column] = n
	}
	return residue
}
