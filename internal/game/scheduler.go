package game

import (
	"context"
	"sync"
)

// Scheduler tracks the one outstanding background job per room: either the
// round countdown or the post-round delay. Starting a job for a room
// actively cancels the previous one, so stale timers never accumulate.
type Scheduler struct {
	mu   sync.Mutex
	base context.Context
	stop context.CancelFunc
	jobs map[string]context.CancelFunc
}

// NewScheduler creates a scheduler whose jobs all stop when Close is called.
func NewScheduler() *Scheduler {
	base, stop := context.WithCancel(context.Background())
	return &Scheduler{
		base: base,
		stop: stop,
		jobs: make(map[string]context.CancelFunc),
	}
}

// Replace cancels the room's current job, if any, and returns a context for
// the new one.
func (s *Scheduler) Replace(roomID string) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.jobs[roomID]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(s.base)
	s.jobs[roomID] = cancel
	return ctx
}

// Cancel stops the room's outstanding job.
func (s *Scheduler) Cancel(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.jobs[roomID]; ok {
		cancel()
		delete(s.jobs, roomID)
	}
}

// Close cancels every outstanding job.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stop()
	for id, cancel := range s.jobs {
		cancel()
		delete(s.jobs, id)
	}
}
