package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/uplink/internal/models"
	"github.com/desertthunder/uplink/internal/shared"
	"github.com/desertthunder/uplink/internal/transfer"
)

const (
	// defaultGraceDelay holds the "Processing..." state after a successful
	// transfer before teardown and navigation.
	defaultGraceDelay = 1500 * time.Millisecond
	// defaultDismissDelay auto-tears the error surface down when the user
	// takes no action.
	defaultDismissDelay = 5 * time.Second
)

// Recorder persists terminal session outcomes. Optional.
type Recorder interface {
	Record(rec *models.SessionRecord) error
}

// Result is what one observed submission came to.
type Result struct {
	Intercepted bool   // false means the default submission should proceed
	Status      Status // terminal status of the intercepted session
	Navigation  string // navigation target; non-empty only on success
	SessionID   string
}

// ControllerOpts configures a [Controller].
type ControllerOpts struct {
	Executor transfer.Executor
	Sink     ProgressSink
	Recorder Recorder // optional session history
	Logger   *log.Logger

	// PageURL is the URL submissions originate from; it stands in for a
	// missing form action and anchors redirect detection.
	PageURL string
	// Threshold overrides the eligibility size cutover; 0 keeps the default.
	Threshold int64
	// GraceDelay and DismissDelay override the teardown timings; zero values
	// keep the defaults. Tests set them negative to skip waiting.
	GraceDelay   time.Duration
	DismissDelay time.Duration

	clock func() time.Time
}

// Controller owns at most one upload session and drives its state machine.
//
// Construct one per application context and share it by reference; there is
// no package-level state.
type Controller struct {
	executor     transfer.Executor
	presenter    *Presenter
	recorder     Recorder
	logger       *log.Logger
	pageURL      string
	threshold    int64
	graceDelay   time.Duration
	dismissDelay time.Duration
	clock        func() time.Time

	mu        sync.Mutex
	session   *Session
	cancelCh  chan struct{}
	dismissCh chan struct{}
}

// NewController creates a Controller from opts.
func NewController(opts ControllerOpts) *Controller {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Executor == nil {
		opts.Executor = transfer.NewHTTPExecutor(nil, opts.Logger)
	}
	if opts.GraceDelay == 0 {
		opts.GraceDelay = defaultGraceDelay
	}
	if opts.DismissDelay == 0 {
		opts.DismissDelay = defaultDismissDelay
	}
	if opts.clock == nil {
		opts.clock = time.Now
	}

	return &Controller{
		executor:     opts.Executor,
		presenter:    NewPresenter(opts.Sink),
		recorder:     opts.Recorder,
		logger:       opts.Logger,
		pageURL:      opts.PageURL,
		threshold:    opts.Threshold,
		graceDelay:   opts.GraceDelay,
		dismissDelay: opts.DismissDelay,
		clock:        opts.clock,
	}
}

// Status returns the current session status, StatusIdle when none is active.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return StatusIdle
	}
	return c.session.Status
}

// Cancel requests an abort of the active session.
//
// The state moves to Cancelled synchronously; the transfer's abort is
// best-effort and asynchronous. A call with no active session is a no-op.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return
	}
	switch c.session.Status {
	case StatusPreparing, StatusTransferring:
	default:
		return
	}

	c.session.Status = StatusCancelled
	close(c.cancelCh)
	if c.session.handle != nil {
		c.session.handle.Cancel()
	}
}

// Dismiss acknowledges an error surface ahead of its auto-dismiss delay.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || c.session.Status != StatusError {
		return
	}
	select {
	case <-c.dismissCh:
	default:
		close(c.dismissCh)
	}
}

// Submit observes one form submission and, when eligible, executes it as a
// monitored transfer, blocking until the session reaches a terminal state.
//
// Ineligible submissions return immediately with Intercepted false so the
// caller can perform the default submission. A submission observed while a
// session is active returns [shared.ErrSessionActive].
func (c *Controller) Submit(ctx context.Context, sub models.Submission) (*Result, error) {
	if !EligibleWithThreshold(sub, c.threshold) {
		return &Result{Intercepted: false}, nil
	}

	c.mu.Lock()
	if c.session != nil {
		c.mu.Unlock()
		c.logger.Info("submission ignored, session active")
		return nil, shared.ErrSessionActive
	}

	now := c.clock()
	sess := &Session{
		ID:         shared.GenerateID(),
		Status:     StatusPreparing,
		Files:      sub.Files(),
		TotalBytes: sub.TotalBytes(),
		StartedAt:  now,
		FormAction: c.resolveAction(sub),
	}
	c.session = sess
	c.cancelCh = make(chan struct{})
	c.dismissCh = make(chan struct{})
	c.mu.Unlock()

	logger := shared.WithLogger(c.logger, "session", sess.ID)
	logger.Info("upload session started", "files", len(sess.Files), "bytes", sess.TotalBytes, "action", sess.FormAction)

	c.presenter.Begin(now, len(sess.Files), sess.TotalBytes)

	handle, err := c.executor.Start(ctx, sess.FormAction, sub)
	if err != nil {
		logger.Error("transfer could not start", "error", err)
		return c.fail(sess, fmt.Errorf("%w: %v", shared.ErrTransport, err))
	}

	c.mu.Lock()
	if sess.Status == StatusCancelled {
		// Cancelled between Preparing and the handle landing.
		c.mu.Unlock()
		handle.Cancel()
		return c.teardownCancelled(sess, handle)
	}
	sess.Status = StatusTransferring
	sess.handle = handle
	c.mu.Unlock()

	return c.watch(ctx, sess, handle, logger)
}

// watch consumes the transfer's events until a terminal state is reached.
func (c *Controller) watch(ctx context.Context, sess *Session, handle *transfer.Handle, logger *log.Logger) (*Result, error) {
	for {
		select {
		case <-c.cancelCh:
			return c.teardownCancelled(sess, handle)

		case p, ok := <-handle.Progress:
			if !ok {
				// Terminal outcome is queued behind the closed channel.
				outcome := <-handle.Done
				return c.finish(sess, outcome, logger)
			}
			c.applyProgress(sess, p)

		case outcome := <-handle.Done:
			return c.finish(sess, outcome, logger)
		}
	}
}

// applyProgress folds one progress event into the session and re-renders.
// LoadedBytes never decreases.
func (c *Controller) applyProgress(sess *Session, p transfer.Progress) {
	c.mu.Lock()
	if sess.Status != StatusTransferring {
		c.mu.Unlock()
		return
	}
	// Progress counts wire bytes (payload plus multipart framing); the
	// session's byte counters track file content only.
	if loaded := min(p.Sent, sess.TotalBytes); loaded > sess.LoadedBytes {
		sess.LoadedBytes = loaded
	}
	sent, total := p.Sent, p.Total
	c.mu.Unlock()

	c.presenter.Update(c.clock(), sent, total)
}

// finish handles the transfer's single terminal outcome.
func (c *Controller) finish(sess *Session, outcome transfer.Outcome, logger *log.Logger) (*Result, error) {
	if c.Status() == StatusCancelled || outcome.Aborted {
		// The terminal outcome has already been consumed; nothing to drain.
		return c.teardownCancelled(sess, nil)
	}

	if outcome.Err != nil {
		logger.Error("transfer failed", "error", outcome.Err)
		return c.fail(sess, outcome.Err)
	}

	resp := outcome.Response
	if resp.Status < 200 || resp.Status >= 300 {
		logger.Error("server rejected upload", "status", resp.Status)
		return c.fail(sess, fmt.Errorf("%w: status %d", shared.ErrServerStatus, resp.Status))
	}

	c.mu.Lock()
	sess.Status = StatusCompleting
	sess.LoadedBytes = sess.TotalBytes
	c.mu.Unlock()

	c.presenter.Success()
	if c.graceDelay > 0 {
		time.Sleep(c.graceDelay)
	}

	navigation := ResolveNavigation(resp, c.pageURL, sess.FormAction)
	logger.Info("upload complete", "navigation", navigation)

	c.record(sess, navigation, "")
	c.presenter.Hide()
	c.reset()

	return &Result{Intercepted: true, Status: StatusCompleting, Navigation: navigation, SessionID: sess.ID}, nil
}

// fail surfaces an error, waits out the dismiss delay (or an explicit
// dismiss), and tears the session down.
func (c *Controller) fail(sess *Session, err error) (*Result, error) {
	c.mu.Lock()
	sess.Status = StatusError
	c.mu.Unlock()

	c.presenter.Fail(fmt.Sprintf("Upload failed: %v", err))

	if c.dismissDelay > 0 {
		select {
		case <-time.After(c.dismissDelay):
		case <-c.dismissCh:
		}
	}

	c.record(sess, "", err.Error())
	c.presenter.Hide()
	c.reset()

	return &Result{Intercepted: true, Status: StatusError, SessionID: sess.ID}, err
}

// teardownCancelled finalizes a cancelled session: no navigation, no error
// surface, immediate teardown. Late transfer events are drained and dropped.
func (c *Controller) teardownCancelled(sess *Session, handle *transfer.Handle) (*Result, error) {
	if handle != nil {
		go func() {
			for range handle.Progress {
			}
			<-handle.Done
		}()
	}

	c.logger.Info("upload cancelled", "session", sess.ID)
	c.record(sess, "", "")
	c.presenter.Hide()
	c.reset()

	return &Result{Intercepted: true, Status: StatusCancelled, SessionID: sess.ID}, nil
}

// record persists the terminal outcome when a recorder is configured.
func (c *Controller) record(sess *Session, navigation, errDetail string) {
	if c.recorder == nil {
		return
	}
	rec := sess.record(navigation, errDetail, c.clock())
	if err := c.recorder.Record(rec); err != nil {
		c.logger.Warn("failed to record session", "session", sess.ID, "error", err)
	}
}

// reset releases the session and returns the controller to Idle.
func (c *Controller) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.session.handle = nil
	}
	c.session = nil
}

// resolveAction picks the submission target: the form's declared action, or
// the originating page URL when no action is declared.
func (c *Controller) resolveAction(sub models.Submission) string {
	if sub.Action != "" {
		return sub.Action
	}
	return c.pageURL
}
