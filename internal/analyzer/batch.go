package analyzer

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thesisalign/thesisalign/internal/sections"
)

// Input is one document of a batch. When Document is set it is classified
// as is; otherwise Text is segmented first.
type Input struct {
	Name     string
	Text     string
	Document *sections.Document
}

// BatchResult pairs an input with its outcome. Exactly one of Result and
// Err is set.
type BatchResult struct {
	Name   string
	Result *Result
	Err    error
}

// AnalyzeBatch classifies documents in parallel with at most workers
// goroutines. Results keep input order. A failing document does not stop
// the batch; cancelling ctx does, and returns ctx.Err().
func (a *Analyzer) AnalyzeBatch(ctx context.Context, inputs []Input, workers int, progress ProgressCallback) ([]BatchResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]BatchResult, len(inputs))
	started := time.Now()

	var mu sync.Mutex
	done := 0
	report := func(name string) {
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		progress(Progress{
			Phase:       PhaseClassifying,
			Current:     done,
			Total:       len(inputs),
			Description: name,
			StartedAt:   started,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, in := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			var (
				res *Result
				err error
			)
			if in.Document != nil {
				res, err = a.AnalyzeDocument(gctx, *in.Document)
			} else {
				res, err = a.AnalyzeText(gctx, in.Text)
			}
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = BatchResult{Name: in.Name, Result: res, Err: err}
			report(in.Name)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
