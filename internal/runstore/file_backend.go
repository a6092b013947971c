package runstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

func (s *Store) ensureLoadedFile() error {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				s.loadErr = fmt.Errorf("runstore: read %s: %w", s.path, err)
			}
			return
		}
		var rows []Record
		if err := json.Unmarshal(b, &rows); err != nil {
			s.loadErr = fmt.Errorf("runstore: decode %s: %w", s.path, err)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			row = normalizeRecord(row)
			if row.ID == "" {
				continue
			}
			s.byID[row.ID] = row
		}
	})
	return s.loadErr
}

// saveFileLocked writes every record; the caller holds s.mu.
func (s *Store) saveFileLocked() error {
	rows := make([]Record, 0, len(s.byID))
	for _, rec := range s.byID {
		rows = append(rows, rec)
	}
	sortNewestFirst(rows)
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("runstore: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("runstore: write: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) putFile(rec Record) error {
	if err := s.ensureLoadedFile(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[rec.ID] = rec
	return s.saveFileLocked()
}

func (s *Store) getFile(id string) (Record, error) {
	if err := s.ensureLoadedFile(); err != nil {
		return Record{}, err
	}
	s.mu.RLock()
	rec, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *Store) listFile(limit int) ([]Record, error) {
	if err := s.ensureLoadedFile(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]Record, 0, len(s.byID))
	for _, rec := range s.byID {
		out = append(out, rec)
	}
	s.mu.RUnlock()
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
