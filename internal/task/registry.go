package task

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status describes where a task is in its lifecycle. It is derived from
// progress: 0 before any update means pending, 1-99 in-progress, 100
// completed. Completed is terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Task is a tracked unit of asynchronous generation work.
type Task struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Name      string    `json:"name"`
	Progress  int       `json:"progress"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Change describes a registry mutation for change listeners.
type Change string

const (
	ChangeCreated    Change = "created"
	ChangeProgressed Change = "progressed"
	ChangeCompleted  Change = "completed"
	ChangeRemoved    Change = "removed"
)

// Registry is the process-wide store of in-flight and completed generation
// tasks. It is constructed once at application start and passed by reference
// to the orchestrator and any UI consumer; there is no ambient global
// instance. All methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	tasks    map[string]*Task
	onChange func(Change, Task)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[string]*Task),
	}
}

// OnChange installs a listener invoked after every mutation with a snapshot
// of the affected task. The listener must not block; it runs on the caller's
// goroutine outside the registry lock.
func (r *Registry) OnChange(fn func(Change, Task)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

func (r *Registry) notify(change Change, snapshot Task) {
	r.mu.RLock()
	fn := r.onChange
	r.mu.RUnlock()
	if fn != nil {
		fn(change, snapshot)
	}
}

// Create allocates a fresh task for the kind with progress 0 and returns a
// snapshot. The id is never reused.
func (r *Registry) Create(kind Kind) Task {
	t := &Task{
		ID:        fmt.Sprintf("task-%s", uuid.New().String()),
		Kind:      kind,
		Name:      kind.DisplayName(),
		Progress:  0,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	r.tasks[t.ID] = t
	snapshot := *t
	r.mu.Unlock()

	r.notify(ChangeCreated, snapshot)
	return snapshot
}

// Advance sets the task's progress to the caller-supplied value and
// recomputes the status. Unknown ids are a no-op. Values are clamped to
// [0,100].
func (r *Registry) Advance(taskID string, progress int) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	r.mu.Lock()
	t, exists := r.tasks[taskID]
	if !exists {
		r.mu.Unlock()
		return
	}
	t.Progress = progress
	if progress >= 100 {
		t.Status = StatusCompleted
	} else if progress > 0 {
		t.Status = StatusInProgress
	}
	snapshot := *t
	r.mu.Unlock()

	if snapshot.Status == StatusCompleted {
		r.notify(ChangeCompleted, snapshot)
	} else {
		r.notify(ChangeProgressed, snapshot)
	}
}

// Complete moves the task to its terminal state. Idempotent.
func (r *Registry) Complete(taskID string) {
	r.mu.Lock()
	t, exists := r.tasks[taskID]
	if !exists {
		r.mu.Unlock()
		return
	}
	alreadyCompleted := t.Status == StatusCompleted
	t.Progress = 100
	t.Status = StatusCompleted
	snapshot := *t
	r.mu.Unlock()

	if !alreadyCompleted {
		r.notify(ChangeCompleted, snapshot)
	}
}

// Remove deletes the task record entirely.
func (r *Registry) Remove(taskID string) {
	r.mu.Lock()
	t, exists := r.tasks[taskID]
	if !exists {
		r.mu.Unlock()
		return
	}
	snapshot := *t
	delete(r.tasks, taskID)
	r.mu.Unlock()

	r.notify(ChangeRemoved, snapshot)
}

// Discard removes the task only if it never completed. Used to clean up
// abandoned work so a failed call never lingers as a phantom in-progress
// task.
func (r *Registry) Discard(taskID string) {
	r.mu.Lock()
	t, exists := r.tasks[taskID]
	if !exists || t.Status == StatusCompleted {
		r.mu.Unlock()
		return
	}
	snapshot := *t
	delete(r.tasks, taskID)
	r.mu.Unlock()

	r.notify(ChangeRemoved, snapshot)
}

// Get returns a snapshot of the task by id.
func (r *Registry) Get(taskID string) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.tasks[taskID]
	if !exists {
		return Task{}, false
	}
	return *t, true
}

// List returns snapshots of all tasks, newest first.
func (r *Registry) List() []Task {
	r.mu.RLock()
	tasks := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, *t)
	}
	r.mu.RUnlock()

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks
}

// ListByKind returns snapshots of tasks of one kind, newest first.
func (r *Registry) ListByKind(kind Kind) []Task {
	all := r.List()
	filtered := all[:0]
	for _, t := range all {
		if t.Kind == kind {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
