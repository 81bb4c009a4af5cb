package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"onsen_map/internal/domain"
)

func valTime(p *time.Time) any {
	if p == nil || p.IsZero() {
		return nil
	}
	return *p
}

// Repo stores archived ryokan snapshots.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertRyokan(ctx context.Context, rk domain.Ryokan) error {
	raw, err := json.Marshal(rk)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertSnapshotSQL,
		rk.ID,
		rk.Slug,
		rk.Name,
		rk.OnsenArea.Name,
		rk.Latitude,
		rk.Longitude,
		valTime(rk.RevisedAt),
		string(raw),
	)
	return err
}

func (r *Repo) GetSnapshot(ctx context.Context, id string) (domain.Snapshot, error) {
	var s domain.Snapshot
	var revised sql.NullTime
	if err := r.db.QueryRowContext(ctx, getSnapshotSQL, id).Scan(
		&s.ID,
		&s.Slug,
		&s.Name,
		&s.Area,
		&s.Lat, &s.Lng,
		&revised,
		&s.RawJSON,
		&s.ExportedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Snapshot{}, domain.ErrNotFound
		}
		return domain.Snapshot{}, err
	}
	if revised.Valid {
		t := revised.Time
		s.RevisedAt = &t
	}
	return s, nil
}

func (r *Repo) CountSnapshots(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countSnapshotsSQL).Scan(&n)
	return n, err
}
