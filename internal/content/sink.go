// Package content holds the generated artifacts the pipeline routes to:
// one sink per recognized kind, each owning a single current value that is
// only ever replaced wholesale.
package content

import (
	"sync"

	"loft/internal/task"
)

// Sink is a passive holder of generated content for one kind. The edit-mode
// flag belongs to the view layer; the orchestrator only ever calls SetContent.
type Sink struct {
	mu       sync.RWMutex
	content  string
	present  bool
	editMode bool
}

// NewSink returns an empty sink with edit mode off.
func NewSink() *Sink {
	return &Sink{}
}

// SetContent replaces the sink's content wholesale.
func (s *Sink) SetContent(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = text
	s.present = true
}

// Content returns the current content and whether any has been set. The empty
// string is a valid value once set.
func (s *Sink) Content() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content, s.present
}

// Clear resets the sink to its unset state.
func (s *Sink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = ""
	s.present = false
}

// SetEditMode toggles the view layer's edit flag.
func (s *Sink) SetEditMode(edit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editMode = edit
}

// EditMode reports the view layer's edit flag.
func (s *Sink) EditMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editMode
}

// Sinks groups the per-kind sinks the orchestrator fans out to.
type Sinks struct {
	Document *Sink
	Roadmap  *Sink
	Email    *Sink
}

// NewSinks creates one empty sink per recognized kind.
func NewSinks() *Sinks {
	return &Sinks{
		Document: NewSink(),
		Roadmap:  NewSink(),
		Email:    NewSink(),
	}
}

// ForKind returns the sink matching a kind, or false for unknown.
func (s *Sinks) ForKind(kind task.Kind) (*Sink, bool) {
	switch kind {
	case task.KindDocument:
		return s.Document, true
	case task.KindRoadmap:
		return s.Roadmap, true
	case task.KindEmail:
		return s.Email, true
	default:
		return nil, false
	}
}
