// Package models defines the domain entities for monitored upload sessions.
//
// The package contains two categories of types:
//
// 1. Submission descriptors: what a form-like submission looks like at the moment it is observed
//   - [Submission] : encoding, target action URL, and ordered fields
//   - [Field] : a named value field or file field
//   - [File] : one selected file (name, byte size, content source)
//
// 2. Persistent entities: database-backed session history
//   - [SessionRecord] : the terminal outcome of one upload session
//
// Submission descriptors are immutable for the life of a session: they are
// captured once when the submission is observed and never mutated by the
// transfer or presentation layers.
package models
