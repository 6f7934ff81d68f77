package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raphaelmostacci-alt/PDP-automation/internal/export"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/scan"
)

// DefaultWorkers bounds the pool when the caller does not choose one.
const DefaultWorkers = 4

// ProcessAll runs every document through the pipeline with a bounded worker
// pool. Rows come back in scan order regardless of which worker finished
// first, so two runs over the same tree produce the same report.
func (p *Processor) ProcessAll(ctx context.Context, docs []scan.Document, workers int) []export.Row {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	start := time.Now()

	rows := make([]export.Row, len(docs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			rows[i] = p.ProcessOne(ctx, doc)
			return nil
		})
	}
	// Workers never return errors; failures become extraction-error rows.
	_ = g.Wait()

	p.logger.Info("pipeline.batch.done",
		"documents", len(docs),
		"workers", workers,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rows
}
