package scaffold

import (
	"context"
	"log/slog"
	"path"
	"time"

	"planforge/internal/safeio"
	"planforge/internal/scan"
)

// materializer performs the filesystem side of a run. Failures of single
// operations are recorded on the result and never abort the run.
type materializer struct {
	fsys     *safeio.SafeFS
	rules    Rules
	log      *slog.Logger
	observer Observer
	res      *Result
}

func (m *materializer) emit(kind EventKind, phase, p, detail string) {
	if m.observer == nil {
		return
	}
	m.observer(Event{Kind: kind, Phase: phase, Path: p, Detail: detail, Time: time.Now()})
}

func (m *materializer) anomaly(phase, op, p string, err error) {
	m.log.Error("filesystem operation failed", "phase", phase, "op", op, "path", p, "err", err)
	m.res.Anomalies = append(m.res.Anomalies, Anomaly{Phase: phase, Op: op, Path: p, Err: err.Error()})
	m.emit(EventAnomaly, phase, p, op+": "+err.Error())
}

func (m *materializer) snapshot() ([]scan.Entry, error) {
	return scan.Snapshot(m.fsys, scan.Options{IgnoreFiles: []string{m.rules.planFile()}})
}

// skeleton creates every planned directory and an empty file for every
// planned file that does not exist yet.
func (m *materializer) skeleton(ctx context.Context, layout *Layout) error {
	m.emit(EventPhase, PhaseSkeleton, "", "")
	for _, d := range layout.Dirs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.fsys.MkdirAll(d); err != nil {
			m.anomaly(PhaseSkeleton, "mkdir", d, err)
			continue
		}
		m.log.Debug("ensured directory", "path", d)
		m.emit(EventDirCreated, PhaseSkeleton, d, "")
	}
	for _, f := range layout.Files() {
		if err := ctx.Err(); err != nil {
			return err
		}
		created, err := m.fsys.CreateEmpty(f)
		if err != nil {
			m.anomaly(PhaseSkeleton, "create", f, err)
			continue
		}
		if created {
			m.log.Debug("created empty file", "path", f)
			m.res.Created = append(m.res.Created, f)
			m.emit(EventFileCreated, PhaseSkeleton, f, "")
		}
	}
	return nil
}

// write stores synthesized content at rel. Other files with the same
// basename that sit at the project root or are empty are treated as
// misplaced earlier artifacts and removed first, unless the layout plans them.
func (m *materializer) write(rel, content string, layout *Layout) {
	entries, err := m.snapshot()
	if err != nil {
		m.anomaly(PhaseContent, "scan", ".", err)
	}
	for _, e := range scan.FindByName(entries, path.Base(rel)) {
		if e.Path == rel || layout.HasFile(e.Path) {
			continue
		}
		if !e.AtRoot() && e.Size > 0 {
			existing, err := m.fsys.SafeReadFile(e.Path)
			if err != nil {
				m.anomaly(PhaseContent, "read", e.Path, err)
				continue
			}
			if len(existing) > 0 {
				continue
			}
		}
		if err := m.fsys.Remove(e.Path); err != nil {
			m.anomaly(PhaseContent, "remove", e.Path, err)
			continue
		}
		m.log.Info("removed misplaced file", "path", e.Path, "target", rel)
		m.res.Removed = append(m.res.Removed, e.Path)
		m.emit(EventCollisionRemoved, PhaseContent, e.Path, "superseded by "+rel)
	}

	if err := m.fsys.WriteFile(rel, []byte(content)); err != nil {
		m.anomaly(PhaseContent, "write", rel, err)
		return
	}
	m.log.Info("wrote file", "path", rel, "bytes", len(content))
	m.res.Written = append(m.res.Written, rel)
	m.emit(EventFileWritten, PhaseContent, rel, "")
}

// placeholders fills planned files that no section described, but only
// while they exist and are still empty.
func (m *materializer) placeholders(ctx context.Context, layout *Layout, written map[string]bool) error {
	m.emit(EventPhase, PhasePlaceholders, "", "")
	for _, f := range layout.Files() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if written[f] {
			continue
		}
		info, err := m.fsys.SafeStat(f)
		if err != nil || !info.Mode().IsRegular() || info.Size() != 0 {
			continue
		}
		if err := m.fsys.WriteFile(f, []byte(Placeholder(f, m.rules))); err != nil {
			m.anomaly(PhasePlaceholders, "write", f, err)
			continue
		}
		m.log.Debug("wrote placeholder", "path", f)
		m.res.Placeholders = append(m.res.Placeholders, f)
		m.emit(EventPlaceholder, PhasePlaceholders, f, "")
	}
	return nil
}

// dedup removes duplicate basenames across the whole tree.
func (m *materializer) dedup(layout *Layout) {
	m.emit(EventPhase, PhaseDedup, "", "")
	entries, err := m.snapshot()
	if err != nil {
		m.anomaly(PhaseDedup, "scan", ".", err)
		if len(entries) == 0 {
			return
		}
	}
	for _, e := range DuplicatesToRemove(entries, layout) {
		if err := m.fsys.Remove(e.Path); err != nil {
			m.anomaly(PhaseDedup, "remove", e.Path, err)
			continue
		}
		m.log.Info("removed duplicate", "path", e.Path, "name", e.Name)
		m.res.Removed = append(m.res.Removed, e.Path)
		m.emit(EventDuplicateRemoved, PhaseDedup, e.Path, "")
	}
}
