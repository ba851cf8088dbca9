// Package engine orchestrates the contest lifecycle. Every state-changing
// operation runs globally serialized under one lock, covering the state
// check, fund movement, state mutation, and stats mutation as a single
// all-or-nothing step: ledger instructions execute first, and in-memory
// state commits only after they succeed. History rows are archived after
// commit and never gate the outcome.
package engine
