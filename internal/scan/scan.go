package scan

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/unbound-force/whiff/internal/smell"
	"github.com/unbound-force/whiff/internal/taxonomy"
)

// MaxWorkers caps the number of concurrent classifiers.
const MaxWorkers = 256

// Options configures a Run.
type Options struct {
	// Workers is the number of files classified concurrently.
	// Zero or negative means GOMAXPROCS.
	Workers int
}

func (o Options) workers() int {
	n := o.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > MaxWorkers {
		n = MaxWorkers
	}
	return n
}

// Run classifies every unit and returns the aggregated summary.
//
// Each unit is classified independently; results are written to a
// slot per unit and merged only after all workers finish, so the
// summary does not depend on completion order. Units that share a
// path have their findings concatenated in input order.
//
// Run returns ctx.Err() if the context is cancelled before all units
// are classified. No partial summary is returned.
func Run(ctx context.Context, units []taxonomy.SourceUnit, opts Options) (taxonomy.ScanSummary, error) {
	results := make([][]taxonomy.Finding, len(units))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	for i := range units {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = smell.Detect(units[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return taxonomy.ScanSummary{}, err
	}
	if err := ctx.Err(); err != nil {
		return taxonomy.ScanSummary{}, err
	}

	raw := make(map[string][]taxonomy.Finding, len(units))
	for i, u := range units {
		raw[u.Path] = append(raw[u.Path], results[i]...)
	}
	return Build(raw), nil
}
