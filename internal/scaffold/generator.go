// Package scaffold turns a project plan into a directory tree of stub files.
//
// A run parses the plan's folder diagram into a Layout, creates the skeleton,
// splits the file breakdown into sections, extracts per-file metadata,
// resolves each section's path, writes synthesized content, fills untouched
// planned files with placeholders and finally removes duplicate basenames.
// Local problems (an unparseable section, a failed write) are recorded on the
// Result and never stop the run.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	"planforge/internal/logging"
	"planforge/internal/plan"
	"planforge/internal/safeio"
)

// ErrPlanDir is returned when the plan folder is missing or not a directory.
var ErrPlanDir = errors.New("scaffold: plan directory not found")

// Options configures a run.
type Options struct {
	// PlanDir is the folder holding project_plan.json.
	PlanDir string
	// UseExistingFolder materializes directly into PlanDir instead of a
	// root_directory subfolder.
	UseExistingFolder bool
	// Rules defaults to DefaultRules when nil.
	Rules *Rules
	// Logger defaults to the logger carried by the context.
	Logger   *slog.Logger
	Observer Observer
}

// Skipped is a unit of plan text that produced no file.
type Skipped struct {
	Source string `json:"source"` // "tree" or "breakdown"
	Line   int    `json:"line,omitempty"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Anomaly is a filesystem operation that failed during a run.
type Anomaly struct {
	Phase string `json:"phase"`
	Op    string `json:"op"`
	Path  string `json:"path"`
	Err   string `json:"error"`
}

// Result summarizes a run. Paths are slash-separated and relative to Root.
type Result struct {
	Root         string    `json:"root"`
	ProjectName  string    `json:"project_name"`
	Layout       *Layout   `json:"-"`
	Created      []string  `json:"created,omitempty"`
	Written      []string  `json:"written,omitempty"`
	Placeholders []string  `json:"placeholders,omitempty"`
	Removed      []string  `json:"removed,omitempty"`
	Skipped      []Skipped `json:"skipped,omitempty"`
	Anomalies    []Anomaly `json:"anomalies,omitempty"`
}

// OK reports whether every filesystem operation of the run succeeded.
func (r *Result) OK() bool { return r != nil && len(r.Anomalies) == 0 }

// Generate loads <PlanDir>/project_plan.json and materializes it. A non-nil
// error means a precondition failed and nothing was written, or the context
// was cancelled mid-run.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	if opts.PlanDir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrPlanDir)
	}
	info, err := os.Stat(opts.PlanDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrPlanDir, opts.PlanDir)
	}
	rules := resolveRules(opts.Rules)
	var p *plan.Plan
	if rules.planFile() == plan.FileName {
		p, err = plan.Load(opts.PlanDir)
	} else {
		p, err = loadNamed(filepath.Join(opts.PlanDir, rules.planFile()))
	}
	if err != nil {
		return nil, err
	}
	return GenerateFromPlan(ctx, p, opts)
}

func loadNamed(file string) (*plan.Plan, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", plan.ErrNotFound, file)
		}
		return nil, fmt.Errorf("plan: read %s: %w", file, err)
	}
	return plan.Parse(data)
}

func resolveRules(r *Rules) Rules {
	if r == nil {
		return DefaultRules()
	}
	return *r
}

// GenerateFromPlan materializes an in-memory plan under opts.PlanDir.
func GenerateFromPlan(ctx context.Context, p *plan.Plan, opts Options) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil plan", plan.ErrInvalid)
	}
	rootName := p.RootName()
	if rootName == "" {
		return nil, fmt.Errorf("%w: project_structure.root_directory is empty", plan.ErrInvalid)
	}
	rules := resolveRules(opts.Rules)
	log := opts.Logger
	if log == nil {
		log = logging.FromContext(ctx)
	}

	base, err := safeio.NewSafeFS(opts.PlanDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanDir, err)
	}
	rootDir := base.Root()
	if !opts.UseExistingFolder {
		if err := base.MkdirAll(rootName); err != nil {
			return nil, fmt.Errorf("scaffold: create project root %s: %w", rootName, err)
		}
		if rootDir, err = base.Abs(rootName); err != nil {
			return nil, fmt.Errorf("scaffold: resolve project root: %w", err)
		}
	}
	fsys, err := safeio.NewSafeFS(rootDir)
	if err != nil {
		return nil, fmt.Errorf("scaffold: open project root: %w", err)
	}

	log = log.With("root", fsys.Root())
	res := &Result{Root: fsys.Root(), ProjectName: p.ProjectName()}
	m := &materializer{fsys: fsys, rules: rules, log: log, observer: opts.Observer, res: res}

	if missing := p.MissingSections(); len(missing) > 0 {
		log.Warn("plan is missing sections", "sections", missing)
	}

	layout := ParseTree(p.ProjectStructure.Folders.String(), rootName, rules)
	res.Layout = layout
	for _, line := range layout.Ignored {
		log.Warn("ignored folder tree line", "line", line, "reason", ReasonOutsideRoot)
		res.Skipped = append(res.Skipped, Skipped{Source: "tree", Text: line, Reason: ReasonOutsideRoot})
		m.emit(EventSkipped, PhaseSkeleton, "", line)
	}
	log.Info("parsed folder tree", "dirs", len(layout.Dirs()), "files", len(layout.Files()))

	if err := m.skeleton(ctx, layout); err != nil {
		return res, err
	}

	m.emit(EventPhase, PhaseContent, "", "")
	written := map[string]bool{}
	project := filepath.Base(fsys.Root())
	breakdown := p.FileBreakdown.String()
	if pre, ok := Preamble(breakdown); ok {
		m.skip(pre, ReasonPreamble)
	}
	for _, sec := range SplitSections(breakdown) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		raw, reason := ExtractPath(sec.Text, rules)
		if reason != "" {
			m.skip(sec, reason)
			continue
		}
		resolved, ok := ResolvePath(raw, sec.Text, rootName, layout)
		if !ok {
			m.skip(sec, ReasonOutsideRoot)
			continue
		}
		if resolved.Hint != "" {
			log.Info("placed file using directory hint", "path", resolved.Path, "hint", resolved.Hint)
			m.emit(EventPathResolved, PhaseContent, resolved.Path, "hint: "+resolved.Hint)
		} else if resolved.Path != toSlash(raw) && resolved.Planned {
			log.Info("matched file to planned location", "from", raw, "path", resolved.Path)
			m.emit(EventPathResolved, PhaseContent, resolved.Path, "planned: "+raw)
		}
		if written[resolved.Path] {
			log.Warn("file described more than once, keeping the last description", "path", resolved.Path)
		}
		meta := ExtractMetadata(sec.Text)
		m.write(resolved.Path, Synthesize(resolved.Path, meta, project, rules), layout)
		written[resolved.Path] = true
	}

	if err := m.placeholders(ctx, layout, written); err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	m.dedup(layout)

	log.Info("project generated",
		"written", len(res.Written),
		"placeholders", len(res.Placeholders),
		"removed", len(res.Removed),
		"skipped", len(res.Skipped),
		"anomalies", len(res.Anomalies))
	return res, nil
}

func (m *materializer) skip(sec Section, reason string) {
	header := sec.Header()
	if len(header) > 80 {
		header = header[:80] + "..."
	}
	m.log.Warn("skipped breakdown section", "line", sec.Line, "header", header, "reason", reason)
	m.res.Skipped = append(m.res.Skipped, Skipped{Source: "breakdown", Line: sec.Line, Text: header, Reason: reason})
	m.emit(EventSkipped, PhaseContent, "", reason+": "+header)
}

// GenerateProject is the boolean boundary used by the CLI and other callers
// that only need success or failure. Errors, failed filesystem operations
// and panics all yield false; details go to the context logger.
func GenerateProject(ctx context.Context, dir string, useExistingFolder bool) (ok bool) {
	log := logging.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Error("project generation panicked", "panic", r, "stack", string(debug.Stack()))
			ok = false
		}
	}()
	res, err := Generate(ctx, Options{PlanDir: dir, UseExistingFolder: useExistingFolder})
	if err != nil {
		log.Error("project generation failed", "dir", dir, "err", err)
		return false
	}
	if !res.OK() {
		log.Error("project generated with errors", "dir", dir, "anomalies", len(res.Anomalies))
		return false
	}
	return true
}
