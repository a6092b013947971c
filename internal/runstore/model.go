package runstore

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is one generation run.
type Record struct {
	ID                string    `json:"id"`
	PlanDir           string    `json:"plan_dir"`
	ProjectName       string    `json:"project_name"`
	Root              string    `json:"root"`
	UseExistingFolder bool      `json:"use_existing_folder"`
	Success           bool      `json:"success"`
	Files             []string  `json:"files,omitempty"`
	Removed           []string  `json:"removed,omitempty"`
	Anomalies         []string  `json:"anomalies,omitempty"`
	Error             string    `json:"error,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewID returns a fresh run identifier.
func NewID() string { return uuid.NewString() }

func normalizeRecord(r Record) Record {
	r.ID = strings.TrimSpace(r.ID)
	r.PlanDir = strings.TrimSpace(r.PlanDir)
	r.ProjectName = strings.TrimSpace(r.ProjectName)
	if r.ProjectName == "" {
		r.ProjectName = "Project"
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return r
}

type rowScanner interface {
	Scan(dest ...any) error
}
