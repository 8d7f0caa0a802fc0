// Package types defines the Store interface, the Task and State types, and
// the standard errors shared by the checklist controller, its storage
// backends, and the presentation layers that drive it.
package types
