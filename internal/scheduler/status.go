package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz-master/internal/cache"
	"quiz-master/internal/domain"
)

// Task states as stored in the status ledger.
const (
	StatePending = "pending"
	StateSuccess = "success"
	StateFailure = "failure"
)

// statusTTL bounds how long finished task records stay readable.
const statusTTL = 24 * time.Hour

// TaskStatus is one job run's record in the status ledger.
type TaskStatus struct {
	TaskID     string     `json:"task_id"`
	JobName    string     `json:"job_name"`
	State      string     `json:"state"`
	Result     string     `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// StatusStore persists task status records in the cache, one record per run.
type StatusStore struct {
	cache domain.Cache
}

// NewStatusStore creates a new StatusStore.
func NewStatusStore(cacheClient domain.Cache) *StatusStore {
	return &StatusStore{cache: cacheClient}
}

// Put writes or overwrites the record for a task handle.
func (s *StatusStore) Put(ctx context.Context, status TaskStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal task status: %w", err)
	}
	if err := s.cache.Set(ctx, cache.TaskStatusKey(status.TaskID), string(data), statusTTL); err != nil {
		return fmt.Errorf("failed to store task status: %w", err)
	}
	return nil
}

// Delete drops the record for a task handle.
func (s *StatusStore) Delete(ctx context.Context, taskID string) error {
	if err := s.cache.Delete(ctx, cache.TaskStatusKey(taskID)); err != nil {
		return fmt.Errorf("failed to delete task status: %w", err)
	}
	return nil
}

// Get reads the record for a task handle. Unknown handles map to a not
// found error.
func (s *StatusStore) Get(ctx context.Context, taskID string) (*TaskStatus, error) {
	raw, err := s.cache.Get(ctx, cache.TaskStatusKey(taskID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.NewNotFoundError("task", taskID)
		}
		return nil, domain.NewInternalError(fmt.Errorf("failed to read task status: %w", err))
	}
	var status TaskStatus
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to decode task status: %w", err))
	}
	return &status, nil
}
