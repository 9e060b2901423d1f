package analysis

import (
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"propertytax/internal/assessment"
	"propertytax/internal/rates"
	"propertytax/internal/store"
)

// Observer is notified once per result. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveResult(Result)
}

// Analyzer runs batches against a fixed store and rate source. The store and
// rate source must not change while a batch is running.
type Analyzer struct {
	store    store.PropertyStore
	rates    rates.Source
	workers  int
	log      *zap.Logger
	observer Observer
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithWorkers bounds the number of PINs evaluated at once.
func WithWorkers(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

func WithLogger(log *zap.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if log != nil {
			a.log = log
		}
	}
}

func WithObserver(o Observer) AnalyzerOption {
	return func(a *Analyzer) { a.observer = o }
}

func NewAnalyzer(s store.PropertyStore, src rates.Source, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		store:   s,
		rates:   src,
		workers: runtime.NumCPU(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run evaluates pins in parallel. Results are in input order, one per PIN.
func (a *Analyzer) Run(pins []string, o assessment.Override) ([]Result, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: assessment override %q", assessment.ErrInvalidArgument, string(o))
	}
	start := time.Now()
	results := make([]Result, len(pins))

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, pin := range pins {
		g.Go(func() error {
			r := analyze(pin, a.store, a.rates, o)
			results[i] = r
			a.log.Debug("analyzed PIN",
				zap.String("pin", pin),
				zap.Bool("found", r.Found),
				zap.String("assessment", string(r.Assessment.Source)),
				zap.Int("warnings", len(r.Warnings)))
			if a.observer != nil {
				a.observer.ObserveResult(r)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.log.Info("analysis complete",
		zap.Int("pins", len(pins)),
		zap.Duration("elapsed", time.Since(start)))
	return results, nil
}
