// Package domain holds the pure contest model: the contest lifecycle and
// its invariants, the registry with its O(1) active set, the arbiter
// roster, player statistics, and engine settings. Nothing in this package
// performs I/O; fund movement and persistence live with the callers.
package domain
