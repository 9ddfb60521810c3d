package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/source"
	"github.com/xyston/caseload/internal/viability"
)

// RosterReader lists the stored participants.
type RosterReader interface {
	List() ([]model.Participant, error)
}

// LoadResult holds the roster with its derived metrics.
type LoadResult struct {
	Participants []model.Participant
	Metrics      []model.Metrics
	Stats        model.PortfolioStats
	Today        time.Time
	LoadedAt     time.Time
}

// Load reads the roster and computes metrics as of today.
func Load(r RosterReader, today time.Time) (*LoadResult, error) {
	ps, err := r.List()
	if err != nil {
		return nil, fmt.Errorf("listing roster: %w", err)
	}
	today = viability.Today(today)
	ms := viability.ComputeAll(ps, today)
	return &LoadResult{
		Participants: ps,
		Metrics:      ms,
		Stats:        viability.Stats(ms),
		Today:        today,
		LoadedAt:     time.Now(),
	}, nil
}

// ProgressFunc is called during import to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// ImportResult holds the participants parsed from a batch of files.
type ImportResult struct {
	Files        []source.ParseResult
	Participants []model.Participant
	Skipped      int
}

// ImportFiles discovers CSV files under paths and parses them on a bounded
// worker pool. Results keep discovery order. Any file error fails the whole
// import so nothing partial is written.
func ImportFiles(ctx context.Context, paths []string, opts source.ParseOptions, progressFn ProgressFunc) (*ImportResult, error) {
	files, err := source.Discover(paths)
	if err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}
	if len(files) == 0 {
		return &ImportResult{}, nil
	}

	results := make([]source.ParseResult, len(files))
	var processed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(runtime.GOMAXPROCS(0), len(files))))
	for i := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = source.ParseFile(files[i], opts)
			n := processed.Add(1)
			if progressFn != nil {
				progressFn(int(n), len(files))
			}
			return results[i].Err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &ImportResult{Files: results}
	for _, r := range results {
		out.Participants = append(out.Participants, r.Participants...)
		out.Skipped += r.Skipped
	}
	return out, nil
}
