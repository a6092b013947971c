package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

func (s *Store) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS generation_runs (
  id TEXT PRIMARY KEY,
  plan_dir TEXT NOT NULL DEFAULT '',
  project_name TEXT NOT NULL DEFAULT 'Project',
  root TEXT NOT NULL DEFAULT '',
  use_existing_folder BOOLEAN NOT NULL DEFAULT FALSE,
  success BOOLEAN NOT NULL DEFAULT FALSE,
  files JSONB NOT NULL DEFAULT '[]',
  removed JSONB NOT NULL DEFAULT '[]',
  anomalies JSONB NOT NULL DEFAULT '[]',
  error TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_generation_runs_created_at ON generation_runs (created_at DESC);
`)
	})
	return s.schemaErr
}

const selectRun = `SELECT id, plan_dir, project_name, root, use_existing_folder, success,
  files, removed, anomalies, error, created_at
FROM generation_runs`

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec                   Record
		files, removed, anoms []byte
	)
	err := row.Scan(&rec.ID, &rec.PlanDir, &rec.ProjectName, &rec.Root, &rec.UseExistingFolder,
		&rec.Success, &files, &removed, &anoms, &rec.Error, &rec.CreatedAt)
	if err != nil {
		return Record{}, err
	}
	for _, col := range []struct {
		raw []byte
		dst *[]string
	}{{files, &rec.Files}, {removed, &rec.Removed}, {anoms, &rec.Anomalies}} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return Record{}, fmt.Errorf("runstore: decode row %s: %w", rec.ID, err)
		}
	}
	return normalizeRecord(rec), nil
}

func jsonList(v []string) string {
	if v == nil {
		return "[]"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func (s *Store) putDB(ctx context.Context, rec Record) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("runstore: schema: %w", err)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO generation_runs (
  id, plan_dir, project_name, root, use_existing_folder, success, files, removed, anomalies, error, created_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7::jsonb,$8::jsonb,$9::jsonb,$10,$11)
ON CONFLICT (id)
DO UPDATE SET plan_dir=EXCLUDED.plan_dir,
  project_name=EXCLUDED.project_name,
  root=EXCLUDED.root,
  use_existing_folder=EXCLUDED.use_existing_folder,
  success=EXCLUDED.success,
  files=EXCLUDED.files,
  removed=EXCLUDED.removed,
  anomalies=EXCLUDED.anomalies,
  error=EXCLUDED.error`,
		rec.ID, rec.PlanDir, rec.ProjectName, rec.Root, rec.UseExistingFolder, rec.Success,
		jsonList(rec.Files), jsonList(rec.Removed), jsonList(rec.Anomalies), rec.Error, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("runstore: insert %s: %w", rec.ID, err)
	}
	return nil
}

func (s *Store) getDB(ctx context.Context, id string) (Record, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Record{}, fmt.Errorf("runstore: schema: %w", err)
	}
	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectRun+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *Store) listDB(ctx context.Context, limit int) ([]Record, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("runstore: schema: %w", err)
	}
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, selectRun+` ORDER BY created_at DESC, id LIMIT $1`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, selectRun+` ORDER BY created_at DESC, id`)
	}
	if err != nil {
		return nil, fmt.Errorf("runstore: list: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, 32)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
