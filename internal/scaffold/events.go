package scaffold

import "time"

// EventKind names a step reported to an Observer.
type EventKind string

const (
	EventPhase            EventKind = "phase"
	EventDirCreated       EventKind = "dir_created"
	EventFileCreated      EventKind = "file_created"
	EventFileWritten      EventKind = "file_written"
	EventPathResolved     EventKind = "path_resolved"
	EventPlaceholder      EventKind = "placeholder_written"
	EventCollisionRemoved EventKind = "collision_removed"
	EventDuplicateRemoved EventKind = "duplicate_removed"
	EventSkipped          EventKind = "skipped"
	EventAnomaly          EventKind = "anomaly"
)

// Event is an informational progress record. Events never affect the outcome
// of a run.
type Event struct {
	Kind   EventKind `json:"type"`
	Phase  string    `json:"phase,omitempty"`
	Path   string    `json:"path,omitempty"`
	Detail string    `json:"detail,omitempty"`
	Time   time.Time `json:"time"`
}

// Observer receives events as a run progresses. It is called synchronously.
type Observer func(Event)

// Phase names.
const (
	PhaseSkeleton     = "skeleton"
	PhaseContent      = "content"
	PhasePlaceholders = "placeholders"
	PhaseDedup        = "dedup"
)
