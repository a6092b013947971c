// Package service ties planning, generation, run history and artifact
// archiving together behind one API used by the HTTP server.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"planforge/internal/artifact"
	"planforge/internal/logging"
	"planforge/internal/plan"
	"planforge/internal/planner"
	"planforge/internal/runstore"
	"planforge/internal/safeio"
	"planforge/internal/scaffold"
	"planforge/internal/scan"
)

var (
	ErrPlannerUnavailable = errors.New("service: planner not initialized")
	ErrInvalidProjectDir  = errors.New("service: invalid project directory")
)

type Config struct {
	Workspace string
	Rules     *scaffold.Rules
	// Planner may be nil when no model is configured.
	Planner   *planner.Planner
	Runs      *runstore.Store
	Artifacts artifact.Store
	Logger    *slog.Logger
}

type Service struct {
	workspace *safeio.SafeFS
	rules     *scaffold.Rules
	planner   *planner.Planner
	runs      *runstore.Store
	artifacts artifact.Store
	log       *slog.Logger
}

func New(cfg Config) (*Service, error) {
	ws, err := safeio.NewSafeFS(cfg.Workspace)
	if err != nil {
		return nil, fmt.Errorf("service: workspace: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	runs := cfg.Runs
	if runs == nil {
		runs = runstore.New(filepath.Join(ws.Root(), ".planforge", "runs.json"))
	}
	return &Service{
		workspace: ws,
		rules:     cfg.Rules,
		planner:   cfg.Planner,
		runs:      runs,
		artifacts: cfg.Artifacts,
		log:       log,
	}, nil
}

// Workspace returns the absolute workspace root.
func (s *Service) Workspace() string { return s.workspace.Root() }

func (s *Service) PlannerReady() bool { return s.planner != nil }

// PlanOutcome is a produced plan and, when saved, the folder holding it.
type PlanOutcome struct {
	Plan *plan.Plan
	Dir  string
}

// Plan asks the planner for a plan and optionally saves it under the workspace.
func (s *Service) Plan(ctx context.Context, prompt string, save bool) (*PlanOutcome, error) {
	if s.planner == nil {
		return nil, ErrPlannerUnavailable
	}
	ctx = logging.WithLogger(ctx, s.log)
	p, err := s.planner.CreatePlan(ctx, prompt)
	if err != nil {
		return nil, err
	}
	out := &PlanOutcome{Plan: p}
	if save {
		dir, err := planner.Persist(s.workspace.Root(), p)
		if err != nil {
			return nil, err
		}
		if out.Dir, err = s.workspace.Rel(dir); err != nil {
			return nil, err
		}
		s.log.Info("saved plan", "dir", out.Dir)
	}
	return out, nil
}

type GenerateRequest struct {
	ProjectDir        string
	UseExistingFolder bool
}

// Run is the outcome of a generation request.
type Run struct {
	Record runstore.Record
	Result *scaffold.Result
}

// Generate materializes the plan in a workspace folder, records the run and
// archives the produced files. A non-nil error means generation did not
// start; the failed attempt is still recorded.
func (s *Service) Generate(ctx context.Context, req GenerateRequest, observer scaffold.Observer) (*Run, error) {
	dir := strings.TrimSpace(req.ProjectDir)
	if dir == "" {
		return nil, fmt.Errorf("%w: project_dir is required", ErrInvalidProjectDir)
	}
	abs, err := s.workspace.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProjectDir, err)
	}
	rel, _ := s.workspace.Rel(abs)

	id := runstore.NewID()
	log := s.log.With("run_id", id, "project_dir", rel)
	rec := runstore.Record{
		ID:                id,
		PlanDir:           rel,
		UseExistingFolder: req.UseExistingFolder,
		CreatedAt:         time.Now().UTC(),
	}

	res, genErr := scaffold.Generate(logging.WithLogger(ctx, log), scaffold.Options{
		PlanDir:           abs,
		UseExistingFolder: req.UseExistingFolder,
		Rules:             s.rules,
		Logger:            log,
		Observer:          observer,
	})
	if res != nil {
		rec.ProjectName = res.ProjectName
		rec.Root, _ = s.workspace.Rel(res.Root)
		rec.Removed = res.Removed
		for _, a := range res.Anomalies {
			rec.Anomalies = append(rec.Anomalies, fmt.Sprintf("%s %s %s: %s", a.Phase, a.Op, a.Path, a.Err))
		}
		rec.Files = s.collectFiles(ctx, id, res.Root, log)
	}
	if genErr != nil {
		rec.Error = genErr.Error()
	}
	rec.Success = genErr == nil && res.OK()

	if err := s.runs.Put(ctx, rec); err != nil {
		log.Error("failed to record run", "err", err)
	}
	if genErr != nil {
		return &Run{Record: rec, Result: res}, genErr
	}
	log.Info("generation finished", "success", rec.Success, "files", len(rec.Files))
	return &Run{Record: rec, Result: res}, nil
}

// collectFiles lists the materialized files and archives them when an
// artifact store is configured.
func (s *Service) collectFiles(ctx context.Context, runID, root string, log *slog.Logger) []string {
	fsys, err := safeio.NewSafeFS(root)
	if err != nil {
		log.Warn("cannot open project root", "err", err)
		return nil
	}
	ignore := plan.FileName
	if s.rules != nil && s.rules.PlanFileName != "" {
		ignore = s.rules.PlanFileName
	}
	if s.artifacts == nil {
		entries, err := scan.Snapshot(fsys, scan.Options{IgnoreFiles: []string{ignore}})
		if err != nil {
			log.Warn("cannot list project files", "err", err)
		}
		return scan.Paths(entries)
	}
	files, err := artifact.ArchiveTree(ctx, s.artifacts, runID, fsys, ignore)
	if err != nil {
		log.Warn("artifact archive incomplete", "archived", len(files), "err", err)
	}
	return files
}

func (s *Service) Runs(ctx context.Context, limit int) ([]runstore.Record, error) {
	return s.runs.List(ctx, limit)
}

func (s *Service) Run(ctx context.Context, id string) (runstore.Record, error) {
	return s.runs.Get(ctx, id)
}

// RunFile is one archived file of a run.
type RunFile struct {
	Path string `json:"path"`
	URL  string `json:"url,omitempty"`
}

// RunFiles lists the archived files of a run, with download links when the
// artifact store provides them.
func (s *Service) RunFiles(ctx context.Context, id string) ([]RunFile, error) {
	rec, err := s.runs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.artifacts == nil {
		out := make([]RunFile, 0, len(rec.Files))
		for _, f := range rec.Files {
			out = append(out, RunFile{Path: f})
		}
		return out, nil
	}
	paths, err := s.artifacts.List(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	out := make([]RunFile, 0, len(paths))
	for _, p := range paths {
		url, err := s.artifacts.GetURL(ctx, rec.ID, p)
		if err != nil {
			s.log.Warn("presign failed", "run_id", rec.ID, "path", p, "err", err)
		}
		out = append(out, RunFile{Path: p, URL: url})
	}
	return out, nil
}
