package domain

import (
	"slices"
	"time"
)

// Registry owns every contest record, the active subset, and the
// per-participant membership index. It is not safe for concurrent use; the
// engine serializes access.
//
// The active set is an insertion-ordered slice with an id→index reverse map
// so arbitrary removal is a swap-with-last-and-pop, never a scan. Presence
// is tracked by map membership rather than a zero index, so a contest
// legitimately sitting at index 0 is never mistaken for an absent one.
type Registry struct {
	contests map[int64]*Contest
	nextID   int64

	active      []int64
	activeIndex map[int64]int

	byParticipant map[AccountID][]int64
}

// NewRegistry returns an empty registry. Contest ids start at 1 and are
// never reused.
func NewRegistry() *Registry {
	return &Registry{
		contests:      make(map[int64]*Contest),
		nextID:        1,
		activeIndex:   make(map[int64]int),
		byParticipant: make(map[AccountID][]int64),
	}
}

// Create allocates the next id, inserts a Waiting contest with zero
// participants, and adds it to the active set.
func (r *Registry) Create(stake int64, now time.Time) (*Contest, error) {
	if stake <= 0 {
		return nil, ErrInvalidStake
	}
	contest := NewContest(r.nextID, stake, now)
	r.nextID++
	r.contests[contest.ID] = contest
	r.AddActive(contest.ID)
	return contest, nil
}

// Get returns the contest for the id, if known.
func (r *Registry) Get(id int64) (*Contest, bool) {
	contest, ok := r.contests[id]
	return contest, ok
}

// Len returns the number of contests ever created.
func (r *Registry) Len() int {
	return len(r.contests)
}

// IsActive reports whether the id is in the active set.
func (r *Registry) IsActive(id int64) bool {
	_, ok := r.activeIndex[id]
	return ok
}

// ActiveLen returns the size of the active set.
func (r *Registry) ActiveLen() int {
	return len(r.active)
}

// AddActive appends the id to the active set. Adding an id already present
// is a no-op so dispute re-adds cannot duplicate entries.
func (r *Registry) AddActive(id int64) {
	if _, ok := r.activeIndex[id]; ok {
		return
	}
	r.activeIndex[id] = len(r.active)
	r.active = append(r.active, id)
}

// RemoveActive removes the id from the active set in O(1) by swapping the
// removed slot with the last element, truncating, and fixing the moved id's
// index entry.
func (r *Registry) RemoveActive(id int64) {
	idx, ok := r.activeIndex[id]
	if !ok {
		return
	}
	last := len(r.active) - 1
	moved := r.active[last]
	r.active[idx] = moved
	r.active = r.active[:last]
	delete(r.activeIndex, id)
	if moved != id {
		r.activeIndex[moved] = idx
	}
}

// Discard forgets a contest entirely, dropping it from both the contest
// table and the active set. Only contests that never seated a participant
// may be discarded; the allocated id is never reused.
func (r *Registry) Discard(id int64) {
	r.RemoveActive(id)
	delete(r.contests, id)
}

// ActiveIDs returns a copy of the active set in insertion order.
func (r *Registry) ActiveIDs() []int64 {
	return slices.Clone(r.active)
}

// FindActive scans the active set in insertion order and returns the first
// contest the predicate accepts, or nil.
func (r *Registry) FindActive(match func(*Contest) bool) *Contest {
	for _, id := range r.active {
		contest := r.contests[id]
		if contest != nil && match(contest) {
			return contest
		}
	}
	return nil
}

// RecordMembership adds the contest to the account's participation index.
func (r *Registry) RecordMembership(account AccountID, id int64) {
	if account == "" {
		return
	}
	r.byParticipant[account] = append(r.byParticipant[account], id)
}

// ByParticipant returns a copy of the account's contest ids in join order.
func (r *Registry) ByParticipant(account AccountID) []int64 {
	return slices.Clone(r.byParticipant[account])
}
