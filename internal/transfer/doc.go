// Package transfer executes one asynchronous multipart upload and reports its lifecycle.
//
// [Executor.Start] begins a POST of the submission's fields and files to the
// target URL and returns a [Handle]. The handle exposes two channels:
//
//   - Progress: zero or more [Progress] events with non-decreasing Sent
//     counts. Total is always known because the payload length is computed
//     exactly before the request starts (multipart framing bytes plus file
//     content bytes).
//   - Done: exactly one [Outcome], delivered after the progress channel is
//     closed. An outcome is a served response (any status), a transport
//     error, or an abort.
//
// [Handle.Cancel] requests a cooperative abort. The underlying request is
// torn down through its context; no outcome other than Aborted is delivered
// once cancellation wins the race.
package transfer
