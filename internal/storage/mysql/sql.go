package mysql

const upsertSnapshotSQL = `
INSERT INTO ryokan_snapshots
  (id, slug, name, area, lat, lng, revised_at, raw)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  slug        = VALUES(slug),
  name        = VALUES(name),
  area        = VALUES(area),
  lat         = VALUES(lat),
  lng         = VALUES(lng),
  revised_at  = VALUES(revised_at),
  raw         = VALUES(raw),
  exported_at = CURRENT_TIMESTAMP
`

const getSnapshotSQL = `
SELECT id, slug, name, area, lat, lng, revised_at, raw, exported_at
FROM ryokan_snapshots
WHERE id = ?
`

const countSnapshotsSQL = `SELECT COUNT(*) FROM ryokan_snapshots`
