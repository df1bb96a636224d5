package collect

import (
	"sync"
	"time"

	"content-collector/internal/domain/entity"
)

// TaskStore is an in-memory registry of collection tasks, safe for
// concurrent use. Each running task writes only its own entry; status
// queries may read any entry at any time.
//
// Transitions are monotonic: pending -> processing -> completed or error.
// A terminal task is immutable; late transition or AddItems calls against it
// are ignored.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*entity.CollectionTask
}

// NewTaskStore creates an empty TaskStore.
func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[string]*entity.CollectionTask)}
}

// Create registers a new task in the pending state.
func (s *TaskStore) Create(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[id] = &entity.CollectionTask{
		ID:     id,
		Status: entity.TaskPending,
	}
}

// Get returns a copy of the task, so callers never observe a half-written
// update. The second return is false if the ID is unknown.
func (s *TaskStore) Get(id string) (entity.CollectionTask, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return entity.CollectionTask{}, false
	}
	return *t, true
}

// All returns copies of every known task.
func (s *TaskStore) All() []entity.CollectionTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.CollectionTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, *t)
	}
	return out
}

// MarkProcessing moves a pending task to processing and records the start
// time.
func (s *TaskStore) MarkProcessing(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.Status != entity.TaskPending {
		return
	}
	t.Status = entity.TaskProcessing
	t.StartedAt = time.Now()
}

// MarkCompleted moves a task to the completed terminal state.
func (s *TaskStore) MarkCompleted(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.Status.Terminal() {
		return
	}
	now := time.Now()
	t.Status = entity.TaskCompleted
	t.CompletedAt = &now
}

// MarkError moves a task to the error terminal state with a message.
// Valid from pending (resolution failure) as well as processing.
func (s *TaskStore) MarkError(id, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.Status.Terminal() {
		return
	}
	now := time.Now()
	t.Status = entity.TaskError
	t.ErrorMessage = message
	t.CompletedAt = &now
}

// AddItems increases the stored-item count of a processing task.
func (s *TaskStore) AddItems(id string, n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.Status != entity.TaskProcessing {
		return
	}
	t.ItemsStored += n
}
