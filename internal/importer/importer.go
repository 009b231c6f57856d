package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/prenoms/internal/domain"
	"github.com/pkordes/prenoms/internal/repo"
)

// DefaultBatchSize is the number of records written per insert.
const DefaultBatchSize = 500

// Progress is notified after every inserted batch.
// *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(n int) error
}

// Importer replaces the content of the name store.
type Importer struct {
	store     repo.ImportRepo
	batchSize int
	progress  Progress
	log       *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithBatchSize sets the number of records per insert. Non-positive values
// keep DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(im *Importer) {
		if n > 0 {
			im.batchSize = n
		}
	}
}

// WithProgress reports inserted records to p.
func WithProgress(p Progress) Option {
	return func(im *Importer) { im.progress = p }
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(im *Importer) { im.log = l }
}

// New constructs an Importer writing through store.
func New(store repo.ImportRepo, opts ...Option) *Importer {
	im := &Importer{store: store, batchSize: DefaultBatchSize, log: slog.Default()}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Stats summarizes a completed import.
type Stats struct {
	Inserted int
	Batches  int
}

// Run clears the store and inserts records in batches. It is not atomic:
// a failure after the clear leaves the store partially loaded, and the
// import must be run again.
func (im *Importer) Run(ctx context.Context, records []domain.NameRecord) (Stats, error) {
	if err := im.store.Clear(ctx); err != nil {
		return Stats{}, fmt.Errorf("importer.Importer.Run: clear: %w", err)
	}
	im.log.InfoContext(ctx, "name store cleared")

	var st Stats
	for start := 0; start < len(records); start += im.batchSize {
		if err := ctx.Err(); err != nil {
			return st, fmt.Errorf("importer.Importer.Run: %w", err)
		}
		end := min(start+im.batchSize, len(records))
		batch := records[start:end]

		if err := im.store.InsertBatch(ctx, batch); err != nil {
			return st, fmt.Errorf("importer.Importer.Run: batch %d: %w", st.Batches+1, err)
		}
		st.Inserted += len(batch)
		st.Batches++
		im.log.DebugContext(ctx, "batch inserted", "batch", st.Batches, "inserted", st.Inserted)

		if im.progress != nil {
			_ = im.progress.Add(len(batch))
		}
	}
	return st, nil
}
