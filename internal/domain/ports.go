package domain

import "context"

// ContentClient reads ryokan records from the headless CMS.
type ContentClient interface {
	ListRyokans(ctx context.Context, q ListQuery) (Page[Ryokan], error)
	GetRyokan(ctx context.Context, id string, q GetQuery) (Ryokan, error)
	// GetRyokanBySlug returns nil, nil when no record has the slug.
	GetRyokanBySlug(ctx context.Context, slug, draftKey string) (*Ryokan, error)
}

type SnapshotRepository interface {
	UpsertRyokan(ctx context.Context, r Ryokan) error
	GetSnapshot(ctx context.Context, id string) (Snapshot, error)
	CountSnapshots(ctx context.Context) (int, error)
}

// ListQuery holds the list options of the content API. Zero values are not sent.
type ListQuery struct {
	Limit    int
	Offset   int
	Orders   string
	Q        string
	Fields   []string
	Filters  string
	DraftKey string
}

type GetQuery struct {
	Fields   []string
	DraftKey string
}
