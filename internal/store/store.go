// Package store owns the client-side task snapshot and keeps it in step with
// the remote API.
//
// Every mutation is applied only after the gateway confirms it, and only the
// confirmed server copy is stored. Refresh is the only operation that replaces
// the whole snapshot. Operations may overlap: each one is stamped with a
// sequence number when issued, and a refresh whose list was requested before
// an already-applied mutation is discarded as stale.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"taskctl/internal/logging"
	"taskctl/internal/service"
)

// Store holds the task snapshot for one session.
type Store struct {
	gw  service.Gateway
	log *logrus.Entry

	mu      sync.Mutex
	tasks   []service.Task
	seq     uint64 // last sequence number issued
	applied uint64 // highest sequence number applied to tasks

	lmu       sync.Mutex
	listeners []subscription
	nextSub   int
}

type subscription struct {
	id int
	fn Listener
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for reconciliation decisions.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Store) {
		s.log = l.WithField("component", "store")
	}
}

// New creates an empty Store over gw.
func New(gw service.Gateway, opts ...Option) *Store {
	s := &Store{
		gw:  gw,
		log: logging.Discard().WithField("component", "store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh replaces the snapshot with the server's list, in server order.
// A stale result is not applied; the current snapshot is returned instead.
func (s *Store) Refresh(ctx context.Context) ([]service.Task, error) {
	seq := s.issue()

	tasks, err := s.gw.ListTasks(ctx)
	if err != nil {
		s.fail("refresh", "", err)
		return nil, err
	}
	tasks = s.dedupe(tasks)

	s.mu.Lock()
	if seq < s.applied {
		applied := s.applied
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.log.WithFields(logrus.Fields{"seq": seq, "applied": applied}).Debug("dropping stale refresh")
		return snap, nil
	}
	s.tasks = tasks
	s.applied = seq
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"seq": seq, "count": len(snap)}).Debug("snapshot refreshed")
	s.publish(Event{Kind: EventRefreshed, Op: "refresh", Snapshot: snap})
	return clone(snap), nil
}

// Add creates a task and appends the server's copy to the snapshot.
// A blank title fails with a validation error before any network call.
func (s *Store) Add(ctx context.Context, title string, completed bool) (service.Task, error) {
	if !service.ValidTitle(title) {
		err := service.NewError(service.KindValidation, "add task", "title is required")
		s.fail("add", "", err)
		return service.Task{}, err
	}

	seq := s.issue()
	t, err := s.gw.CreateTask(ctx, title, completed)
	if err != nil {
		s.fail("add", "", err)
		return service.Task{}, err
	}
	if t.ID == "" {
		err := service.NewError(service.KindTransport, "add task", "server returned a task without id")
		s.fail("add", "", err)
		return service.Task{}, err
	}

	s.mu.Lock()
	if !s.replaceLocked(t.ID, t) {
		s.tasks = append(s.tasks, t)
	}
	s.bumpLocked(seq)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"seq": seq, "id": t.ID}).Debug("task added")
	s.publish(Event{Kind: EventAdded, Op: "add", Task: t, ID: t.ID, Snapshot: snap})
	return t, nil
}

// Edit updates a task and replaces the snapshot entry with the server's copy.
// Fields missing from patch are taken from the snapshot entry when there is one.
// A task that is not in the snapshot is updated on the server only; no event is published.
// On failure the snapshot is left untouched; the caller decides whether to Refresh.
func (s *Store) Edit(ctx context.Context, id service.ID, patch service.Patch) (service.Task, error) {
	if patch.IsEmpty() {
		err := service.NewError(service.KindValidation, "update task "+id.String(), "nothing to update")
		s.fail("edit", id, err)
		return service.Task{}, err
	}
	if patch.Title != nil && !service.ValidTitle(*patch.Title) {
		err := service.NewError(service.KindValidation, "update task "+id.String(), "title is required")
		s.fail("edit", id, err)
		return service.Task{}, err
	}
	if !patch.IsFull() {
		if cur, ok := s.Get(id); ok {
			patch = patch.Fill(cur)
		}
	}

	seq := s.issue()
	t, err := s.gw.UpdateTask(ctx, id, patch)
	if err != nil {
		s.fail("edit", id, err)
		return service.Task{}, err
	}
	if t.ID == "" {
		t.ID = id
	}

	s.mu.Lock()
	replaced := s.replaceLocked(id, t)
	if replaced {
		s.bumpLocked(seq)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"seq": seq, "id": id, "cached": replaced}).Debug("task updated")
	if replaced {
		s.publish(Event{Kind: EventUpdated, Op: "edit", Task: t, ID: t.ID, Snapshot: snap})
	}
	return t, nil
}

// ToggleCompletion flips the completion flag of t.
func (s *Store) ToggleCompletion(ctx context.Context, t service.Task) (service.Task, error) {
	return s.Edit(ctx, t.ID, service.Patch{}.WithCompleted(!t.Completed))
}

// Remove deletes a task and drops it from the snapshot.
// If the server reports the task as not found the local entry is dropped
// anyway and the error is still returned.
func (s *Store) Remove(ctx context.Context, id service.ID) error {
	seq := s.issue()
	err := s.gw.DeleteTask(ctx, id)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		s.fail("remove", id, err)
		return err
	}

	s.mu.Lock()
	removed := s.dropLocked(id)
	if removed {
		s.bumpLocked(seq)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err == nil || removed {
		s.log.WithFields(logrus.Fields{"seq": seq, "id": id}).Debug("task removed")
		s.publish(Event{Kind: EventRemoved, Op: "remove", ID: id, Snapshot: snap})
	}
	if err != nil {
		s.fail("remove", id, err)
		return err
	}
	return nil
}

// View fetches one task from the server. A matching snapshot entry is
// replaced with the fetched copy; unknown tasks are not inserted.
func (s *Store) View(ctx context.Context, id service.ID) (service.Task, error) {
	seq := s.issue()
	t, err := s.gw.GetTask(ctx, id)
	if err != nil {
		s.fail("view", id, err)
		return service.Task{}, err
	}
	if t.ID == "" {
		t.ID = id
	}

	s.mu.Lock()
	replaced := s.replaceLocked(id, t)
	if replaced {
		s.bumpLocked(seq)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if replaced {
		s.publish(Event{Kind: EventUpdated, Op: "view", Task: t, ID: t.ID, Snapshot: snap})
	}
	return t, nil
}

// Tasks returns a copy of the snapshot.
func (s *Store) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Get returns the snapshot entry for id.
func (s *Store) Get(id service.ID) (service.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i], true
	}
	return service.Task{}, false
}

// Len returns the number of tasks in the snapshot.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Reset discards the snapshot, e.g. on logout.
// Refreshes still in flight are treated as stale.
func (s *Store) Reset() {
	s.mu.Lock()
	s.tasks = nil
	s.applied = s.seq
	s.mu.Unlock()
	s.publish(Event{Kind: EventRefreshed, Op: "reset", Snapshot: []service.Task{}})
}

// Subscribe registers l and returns a function that unregisters it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.lmu.Lock()
	s.nextSub++
	id := s.nextSub
	s.listeners = append(s.listeners, subscription{id: id, fn: l})
	s.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lmu.Lock()
			defer s.lmu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) publish(ev Event) {
	s.lmu.Lock()
	subs := make([]subscription, len(s.listeners))
	copy(subs, s.listeners)
	s.lmu.Unlock()

	for _, sub := range subs {
		sub.fn(ev)
	}
}

func (s *Store) fail(op string, id service.ID, err error) {
	s.log.WithFields(logrus.Fields{"op": op, "id": id}).WithError(err).Debug("operation failed")
	s.publish(Event{Kind: EventError, Op: op, ID: id, Err: err})
}

func (s *Store) issue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

func (s *Store) bumpLocked(seq uint64) {
	if seq > s.applied {
		s.applied = seq
	}
}

func (s *Store) indexLocked(id service.ID) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) replaceLocked(id service.ID, t service.Task) bool {
	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.tasks[i] = t
	return true
}

func (s *Store) dropLocked(id service.ID) bool {
	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	return true
}

func (s *Store) snapshotLocked() []service.Task {
	return clone(s.tasks)
}

// dedupe keeps the first occurrence of each id and drops tasks without one.
func (s *Store) dedupe(tasks []service.Task) []service.Task {
	seen := make(map[service.ID]bool, len(tasks))
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			s.log.WithField("title", t.Title).Warn("server returned task without id")
			continue
		}
		if seen[t.ID] {
			s.log.WithField("id", t.ID).Warn("server returned duplicate task id")
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

func clone(tasks []service.Task) []service.Task {
	out := make([]service.Task, len(tasks))
	copy(out, tasks)
	return out
}
