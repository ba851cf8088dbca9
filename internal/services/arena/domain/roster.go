package domain

import "slices"

// Roster is the set of accounts authorized to vote on disputes. The
// authority that initialized the engine is a permanent member and cannot be
// removed. The roster is enumerable in insertion order and its current size
// is the denominator for dispute majority checks.
type Roster struct {
	authority AccountID
	members   map[AccountID]struct{}
	order     []AccountID
}

// NewRoster returns a roster seeded with the permanent authority member.
func NewRoster(authority AccountID) *Roster {
	r := &Roster{
		authority: authority,
		members:   map[AccountID]struct{}{authority: {}},
		order:     []AccountID{authority},
	}
	return r
}

// Authority returns the permanent member.
func (r *Roster) Authority() AccountID {
	return r.authority
}

// Contains reports roster membership.
func (r *Roster) Contains(account AccountID) bool {
	_, ok := r.members[account]
	return ok
}

// Size returns the current roster size.
func (r *Roster) Size() int {
	return len(r.order)
}

// List returns the members in insertion order.
func (r *Roster) List() []AccountID {
	return slices.Clone(r.order)
}

// Add enrolls a new arbiter.
func (r *Roster) Add(account AccountID) error {
	if account == "" {
		return ErrArbiterNotFound
	}
	if r.Contains(account) {
		return ErrArbiterExists
	}
	r.members[account] = struct{}{}
	r.order = append(r.order, account)
	return nil
}

// Remove withdraws an arbiter. The authority cannot be removed.
func (r *Roster) Remove(account AccountID) error {
	if account == r.authority {
		return ErrArbiterPermanent
	}
	if !r.Contains(account) {
		return ErrArbiterNotFound
	}
	delete(r.members, account)
	idx := slices.Index(r.order, account)
	r.order = slices.Delete(r.order, idx, idx+1)
	return nil
}
