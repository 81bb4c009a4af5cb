package app_test

import (
	"context"
	"errors"
	"sync"

	"onsen_map/internal/domain"
)

// ---- fakes ----

type fakeContent struct {
	all     []domain.Ryokan
	err     error
	queries []domain.ListQuery
	gets    []string
}

func (f *fakeContent) ListRyokans(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Ryokan], error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return domain.Page[domain.Ryokan]{}, f.err
	}
	end := len(f.all)
	if q.Offset > end {
		return domain.Page[domain.Ryokan]{TotalCount: len(f.all), Offset: q.Offset, Limit: q.Limit}, nil
	}
	if q.Limit > 0 && q.Offset+q.Limit < end {
		end = q.Offset + q.Limit
	}
	return domain.Page[domain.Ryokan]{
		Contents:   append([]domain.Ryokan(nil), f.all[q.Offset:end]...),
		TotalCount: len(f.all),
		Offset:     q.Offset,
		Limit:      q.Limit,
	}, nil
}

func (f *fakeContent) GetRyokan(ctx context.Context, id string, q domain.GetQuery) (domain.Ryokan, error) {
	f.gets = append(f.gets, id)
	if f.err != nil {
		return domain.Ryokan{}, f.err
	}
	for _, r := range f.all {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Ryokan{}, errors.New("404 Not Found")
}

func (f *fakeContent) GetRyokanBySlug(ctx context.Context, slug, draftKey string) (*domain.Ryokan, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.all {
		if r.Slug == slug {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

type fakeRepo struct {
	mu   sync.Mutex
	rows map[string]domain.Ryokan
	err  error
}

func (f *fakeRepo) UpsertRyokan(ctx context.Context, r domain.Ryokan) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = map[string]domain.Ryokan{}
	}
	f.rows[r.ID] = r
	return nil
}

func (f *fakeRepo) GetSnapshot(ctx context.Context, id string) (domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return domain.Snapshot{}, domain.ErrNotFound
	}
	return domain.Snapshot{ID: r.ID, Name: r.Name}, nil
}

func (f *fakeRepo) CountSnapshots(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows), nil
}

func ptr[T any](v T) *T { return &v }
