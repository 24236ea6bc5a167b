// Package session orchestrates monitored upload sessions.
//
// # Core Abstraction
//
// [Controller] owns at most one active [Session] at a time and drives it
// through the state machine:
//
//	Idle → Preparing → Transferring → {Completing | Error | Cancelled} → Idle
//
// A submission observed while a session is active is ignored. Ineligible
// submissions are never intercepted; [Controller.Submit] reports them as
// passed through so the caller can perform the default submission.
//
// # Collaborators
//
//   - [Eligible] : decides whether a submission warrants progress tracking
//   - [transfer.Executor] : executes the multipart POST and emits events
//   - [Presenter] : turns transfer events into [ProgressSink] renders
//     (percentage, file info, speed and ETA)
//   - [ResolveNavigation] : reconciles the server's response into a single
//     navigation target
//
// # Cancellation
//
// [Controller.Cancel] moves the session to Cancelled synchronously; the
// underlying transfer abort is best-effort and asynchronous. Events from a
// cancelled transfer are drained and discarded, never reprocessed. Every
// terminal path releases the transfer handle and returns the controller to
// Idle, so a fresh submission can always start a new session.
package session
