// Package schedule is a single-threaded virtual-time task scheduler. Callers
// own the clock: nothing fires until Advance is called.
package schedule

import (
	"slices"
	"time"
)

// Priority orders tasks that fall due at the same instant. Lower fires first.
type Priority int

const (
	PriorityPreview Priority = iota
	PriorityFreeze
	PriorityFlipBack
	PriorityHint
	PriorityInfection
	PriorityCombustion
	PriorityStall
	PriorityDeadline
)

// Task is a named callback. A zero Period makes it one-shot.
type Task struct {
	Name     string
	Priority Priority
	Delay    time.Duration
	Period   time.Duration
	Pausable bool // held while the scheduler is frozen
	Run      func()

	remaining time.Duration
	seq       uint64
}

// Scheduler runs tasks against a virtual clock.
type Scheduler struct {
	now    time.Duration
	tasks  map[string]*Task
	frozen bool
	seq    uint64
}

func New() *Scheduler {
	return &Scheduler{tasks: make(map[string]*Task)}
}

// Now is the virtual time elapsed since the scheduler was created.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Schedule arms t, replacing any task with the same name.
func (s *Scheduler) Schedule(t Task) {
	s.seq++
	t.remaining = t.Delay
	t.seq = s.seq
	s.tasks[t.Name] = &t
}

// Cancel disarms the named task and reports whether it was armed.
func (s *Scheduler) Cancel(name string) bool {
	_, ok := s.tasks[name]
	delete(s.tasks, name)
	return ok
}

// CancelAll disarms every task.
func (s *Scheduler) CancelAll() {
	clear(s.tasks)
}

func (s *Scheduler) Active(name string) bool {
	_, ok := s.tasks[name]
	return ok
}

// Remaining returns the time left before the named task fires.
func (s *Scheduler) Remaining(name string) (time.Duration, bool) {
	t, ok := s.tasks[name]
	if !ok {
		return 0, false
	}
	return max(t.remaining, 0), true
}

// Shorten brings the named task d closer. The task fires on the next Advance
// once its remaining time reaches zero.
func (s *Scheduler) Shorten(name string, d time.Duration) bool {
	t, ok := s.tasks[name]
	if !ok {
		return false
	}
	t.remaining = max(t.remaining-d, 0)
	return true
}

// Freeze holds every pausable task until Thaw.
func (s *Scheduler) Freeze() {
	s.frozen = true
}

func (s *Scheduler) Thaw() {
	s.frozen = false
}

func (s *Scheduler) Frozen() bool {
	return s.frozen
}

func (s *Scheduler) ticking(t *Task) bool {
	return !s.frozen || !t.Pausable
}

// Advance moves the clock forward by d, firing tasks in time order. Tasks due
// at the same instant fire by priority, then by scheduling order. Callbacks may
// schedule or cancel tasks, including themselves. Advance(0) only flushes tasks
// that are already due. It returns the number of callbacks run.
func (s *Scheduler) Advance(d time.Duration) int {
	fired := s.fireDue()
	for d > 0 {
		step := d
		for _, t := range s.tasks {
			if s.ticking(t) && t.remaining < step {
				step = t.remaining
			}
		}
		step = max(step, 0)

		for _, t := range s.tasks {
			if s.ticking(t) {
				t.remaining -= step
			}
		}
		s.now += step
		d -= step

		fired += s.fireDue()
	}
	return fired
}

// fireDue runs every task whose remaining time has reached zero.
func (s *Scheduler) fireDue() int {
	fired := 0
	for {
		var due []*Task
		for _, t := range s.tasks {
			if t.remaining <= 0 {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			return fired
		}
		slices.SortFunc(due, func(a, b *Task) int {
			if a.Priority != b.Priority {
				return int(a.Priority) - int(b.Priority)
			}
			return int(a.seq) - int(b.seq)
		})

		for _, t := range due {
			// An earlier callback in this batch may have cancelled or replaced it.
			if s.tasks[t.Name] != t {
				continue
			}
			if t.Period > 0 {
				t.remaining = t.Period
			} else {
				delete(s.tasks, t.Name)
			}
			if t.Run != nil {
				t.Run()
			}
			fired++
		}
	}
}
