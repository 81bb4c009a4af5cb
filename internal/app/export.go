package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"onsen_map/internal/adapters/observability"
	"onsen_map/internal/domain"
)

// ExportService copies every ryokan record from the CMS into the archive.
type ExportService struct {
	content domain.ContentClient
	repo    domain.SnapshotRepository
}

func NewExportService(c domain.ContentClient, r domain.SnapshotRepository) *ExportService {
	return &ExportService{content: c, repo: r}
}

// ExportAll walks the collection page by page and upserts each record, with at
// most workers concurrent writes per page. The first error stops the run.
// It returns how many records were written.
func (s *ExportService) ExportAll(ctx context.Context, pageSize, workers int) (int, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	if workers <= 0 {
		workers = 1
	}

	written, offset := 0, 0
	for {
		page, err := s.content.ListRyokans(ctx, domain.ListQuery{
			Limit:  pageSize,
			Offset: offset,
			Orders: "createdAt", // stable order while paging
		})
		if err != nil {
			return written, fmt.Errorf("list ryokans at offset %d: %w", offset, err)
		}
		if len(page.Contents) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, r := range page.Contents {
			r := r
			g.Go(func() error {
				if err := s.repo.UpsertRyokan(gctx, r); err != nil {
					return fmt.Errorf("upsert ryokan %s: %w", r.ID, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return written, err
		}

		written += len(page.Contents)
		offset += len(page.Contents)
		observability.ObserveExported(len(page.Contents))
		log.Info().Int("offset", offset).Int("total", page.TotalCount).Msg("export page done")

		if offset >= page.TotalCount {
			break
		}
	}
	return written, nil
}
