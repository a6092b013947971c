// Package plan defines the project plan document handed to the scaffold
// generator and the helpers that load and store it.
package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"planforge/internal/util/jsonutil"
)

// FileName is the name of the plan document inside a project folder.
const FileName = "project_plan.json"

var (
	// ErrNotFound is returned when no plan document exists in the folder.
	ErrNotFound = errors.New("plan: not found")
	// ErrInvalid is returned when the document fails schema validation.
	ErrInvalid = errors.New("plan: invalid")
)

// Sections lists the top-level keys a plan producer must supply.
var Sections = []string{
	"project_overview",
	"technical_requirements",
	"project_structure",
	"file_breakdown",
	"implementation_strategy",
}

// Plan is the structured description of a project to scaffold.
// Only ProjectStructure and FileBreakdown drive generation; the remaining
// sections are carried through untouched.
type Plan struct {
	ProjectOverview        json.RawMessage `json:"project_overview,omitempty"`
	TechnicalRequirements  json.RawMessage `json:"technical_requirements,omitempty"`
	ProjectStructure       Structure       `json:"project_structure"`
	FileBreakdown          Text            `json:"file_breakdown"`
	ImplementationStrategy json.RawMessage `json:"implementation_strategy,omitempty"`
}

// Structure is the project_structure section.
type Structure struct {
	RootDirectory string `json:"root_directory"`
	Description   Text   `json:"description,omitempty"`
	Folders       Text   `json:"folders"`
}

// RootName returns the root directory with surrounding whitespace and
// trailing separators removed.
func (p *Plan) RootName() string {
	if p == nil {
		return ""
	}
	root := strings.TrimSpace(p.ProjectStructure.RootDirectory)
	root = strings.TrimRight(root, `/\`)
	return root
}

// ProjectName prefers project_overview.name and falls back to the root directory.
func (p *Plan) ProjectName() string {
	if p == nil {
		return ""
	}
	var overview struct {
		Name string `json:"name"`
	}
	if len(p.ProjectOverview) > 0 && json.Unmarshal(p.ProjectOverview, &overview) == nil {
		if name := strings.TrimSpace(overview.Name); name != "" {
			return name
		}
	}
	return p.RootName()
}

// MissingSections reports which producer sections are absent or empty.
func (p *Plan) MissingSections() []string {
	var missing []string
	for _, s := range Sections {
		if !p.hasSection(s) {
			missing = append(missing, s)
		}
	}
	return missing
}

func (p *Plan) hasSection(name string) bool {
	switch name {
	case "project_overview":
		return !isEmptyRaw(p.ProjectOverview)
	case "technical_requirements":
		return !isEmptyRaw(p.TechnicalRequirements)
	case "project_structure":
		return p.ProjectStructure.RootDirectory != "" || !p.ProjectStructure.Folders.IsBlank()
	case "file_breakdown":
		return !p.FileBreakdown.IsBlank()
	case "implementation_strategy":
		return !isEmptyRaw(p.ImplementationStrategy)
	}
	return false
}

func isEmptyRaw(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// Parse validates data against the plan schema and decodes it.
func Parse(data []byte) (*Plan, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if p.RootName() == "" {
		return nil, fmt.Errorf("%w: project_structure.root_directory is empty", ErrInvalid)
	}
	return &p, nil
}

// Path returns the location of the plan document inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Exists reports whether dir contains a plan document.
func Exists(dir string) bool {
	info, err := os.Stat(Path(dir))
	return err == nil && info.Mode().IsRegular()
}

// Load reads and validates <dir>/project_plan.json.
func Load(dir string) (*Plan, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, Path(dir))
		}
		return nil, fmt.Errorf("plan: read %s: %w", Path(dir), err)
	}
	return Parse(data)
}

// Save writes p to <dir>/project_plan.json, creating dir if needed.
func Save(dir string, p *Plan) error {
	if p == nil {
		return errors.New("plan: nil plan")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("plan: mkdir %s: %w", dir, err)
	}
	data, err := jsonutil.MarshalIndentNoEscape(p, "", "  ")
	if err != nil {
		return fmt.Errorf("plan: encode: %w", err)
	}
	if err := os.WriteFile(Path(dir), data, 0o644); err != nil {
		return fmt.Errorf("plan: write %s: %w", Path(dir), err)
	}
	return nil
}
