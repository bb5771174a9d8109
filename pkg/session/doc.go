// Package session wires one declaration wizard: the draft slices, the step
// coordinator, the location chain, one-time-code authentication, submission
// and the confirmation artifact.
//
// Each Session is owned by a single user. State changes are serialised; the
// network calls made by step gates, region loading and submission run outside
// the lock and a second concurrent call of the same action is refused.
package session
