// package repositories provides the persistence layer for upload session
// history.
//
// [SessionRepository] implements session.Recorder, so every terminal session
// outcome (succeeded, error, cancelled) lands in sqlite and can be listed or
// cleared from the CLI later.
package repositories
