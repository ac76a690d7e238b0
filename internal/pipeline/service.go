// Package pipeline orchestrates one download run: partitioning the link
// list across workers, fanning them out, and reconciling the results.
package pipeline

import (
	"context"
	"errors"
	"sync"

	"tuber/internal/downloader"
	"tuber/internal/engine"
	"tuber/internal/links"
	"tuber/internal/model"
	"tuber/internal/progress"
)

// Service runs the partition → download → reconcile workflow.
type Service struct {
	settings model.Settings
	eng      engine.Engine
	store    *links.Store
	board    *progress.Board
	reporter progress.Reporter
}

// Option configures a Service.
type Option func(*Service)

// WithSettings sets the run settings.
func WithSettings(s model.Settings) Option {
	return func(sv *Service) {
		sv.settings = s
	}
}

// WithEngine injects the download engine.
func WithEngine(e engine.Engine) Option {
	return func(sv *Service) {
		sv.eng = e
	}
}

// WithStore injects a pre-parsed link store (useful for testing); when
// absent the store is parsed from the settings' source file.
func WithStore(st *links.Store) Option {
	return func(sv *Service) {
		sv.store = st
	}
}

// WithBoard injects the progress board shared with the reporter.
func WithBoard(b *progress.Board) Option {
	return func(sv *Service) {
		sv.board = b
	}
}

// WithReporter attaches a progress reporter.
func WithReporter(r progress.Reporter) Option {
	return func(sv *Service) {
		sv.reporter = r
	}
}

// NewService constructs a Service, applying defaults for missing parts.
func NewService(opts ...Option) *Service {
	sv := &Service{}
	for _, o := range opts {
		o(sv)
	}
	if sv.board == nil {
		sv.board = progress.NewBoard(sv.settings.Threads)
	}
	if sv.reporter == nil {
		sv.reporter = progress.Nop{}
	}
	return sv
}

// Run executes the whole batch and reconciles the outcome. Reconciliation
// always happens, even when a worker reports a fatal engine error, so a
// failure report is produced either way; the fatal error is returned
// alongside the report.
func (sv *Service) Run(ctx context.Context) (Report, error) {
	if sv.eng == nil {
		return Report{}, errors.New("no engine configured")
	}
	if sv.store == nil {
		st, err := links.Parse(sv.settings.Source)
		if err != nil {
			return Report{}, err
		}
		sv.store = st
	}

	fatal := sv.download(ctx)

	report, rerr := Reconcile(sv.store, sv.settings)
	if rerr != nil {
		return report, errors.Join(fatal, rerr)
	}
	return report, fatal
}

// download fans the partitions out to one goroutine per worker and joins
// them all. Once started, a worker runs its whole partition to completion;
// there is no mid-run cancellation beyond the context handed to the engine.
func (sv *Service) download(ctx context.Context) error {
	parts := sv.store.Partition(sv.settings.Threads)

	var wg sync.WaitGroup
	errs := make([]error, len(parts))
	for i, part := range parts {
		w := downloader.NewWorker(i, part, sv.settings, sv.board, sv.reporter, sv.eng)
		wg.Add(1)
		go func(i int, w *downloader.Worker) {
			defer wg.Done()
			errs[i] = w.Run(ctx)
		}(i, w)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Board exposes the progress board for reporters built after the service.
func (sv *Service) Board() *progress.Board {
	return sv.board
}
