// Package tui drives the declaration wizard from a terminal. A Runner walks
// the steps of a session through a PromptDriver, reports inline validation
// messages, offers the cascading region, department and commune selectors on
// the confirmation step and prints the confirmation once the backend accepts
// the declaration.
package tui
