package transfer

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/uplink/internal/models"
	"github.com/desertthunder/uplink/internal/shared"
)

// Progress carries cumulative byte counts for one in-flight transfer.
type Progress struct {
	Sent  int64
	Total int64
}

// Response captures a served response, successful or not.
type Response struct {
	Status      int
	Headers     http.Header
	ContentType string
	FinalURL    string // URL reached after any transport-level redirects
	Body        []byte
}

// Outcome is the single terminal event of a transfer.
//
// Exactly one of the three shapes is populated: a Response when the server
// answered (any status), Err on a transport failure before a response was
// received, or Aborted when cancellation won.
type Outcome struct {
	Response *Response
	Err      error
	Aborted  bool
}

// Handle owns one in-flight transfer.
type Handle struct {
	Progress <-chan Progress
	Done     <-chan Outcome

	cancel   context.CancelFunc
	once     sync.Once
	terminal atomic.Bool
}

// NewHandle assembles a handle for a custom [Executor] implementation.
func NewHandle(progress <-chan Progress, done <-chan Outcome, cancel context.CancelFunc) *Handle {
	return &Handle{Progress: progress, Done: done, cancel: cancel}
}

// Cancel requests an abort of the in-flight transfer.
//
// Safe to call once per handle; a no-op after the terminal outcome has been
// delivered.
func (h *Handle) Cancel() {
	h.once.Do(func() {
		if h.terminal.Load() || h.cancel == nil {
			return
		}
		h.cancel()
	})
}

// Executor issues asynchronous multipart POSTs with byte-level progress.
type Executor interface {
	Start(ctx context.Context, action string, sub models.Submission) (*Handle, error)
}

// HTTPExecutor implements [Executor] over net/http.
//
// The client follows redirects, so Response.FinalURL reflects the URL the
// transport ultimately reached.
type HTTPExecutor struct {
	client *http.Client
	logger *log.Logger
}

// NewHTTPExecutor creates an HTTPExecutor. A nil client falls back to
// http.DefaultClient; a nil logger falls back to a stderr logger.
func NewHTTPExecutor(client *http.Client, logger *log.Logger) *HTTPExecutor {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &HTTPExecutor{client: client, logger: logger}
}

// Start begins the asynchronous transfer and returns its handle.
//
// The payload length is computed exactly up front, so every progress event
// carries a known Total. Returns an error only when the transfer cannot be
// prepared; failures after that point arrive through the handle's Done
// channel.
func (e *HTTPExecutor) Start(ctx context.Context, action string, sub models.Submission) (*Handle, error) {
	if action == "" {
		return nil, shared.ErrMissingAction
	}

	boundary := multipart.NewWriter(nil).Boundary()
	total, err := payloadSize(sub, boundary)
	if err != nil {
		return nil, fmt.Errorf("failed to size payload: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)

	progressCh := make(chan Progress, 64)
	doneCh := make(chan Outcome, 1)
	handle := &Handle{Progress: progressCh, Done: doneCh, cancel: cancel}

	pr, pw := io.Pipe()
	go writePayload(pw, sub, boundary)

	counter := &countingReader{r: pr, onRead: func(sent int64) {
		// Non-blocking send; a slow consumer drops intermediate events but
		// the cumulative counts stay non-decreasing.
		select {
		case progressCh <- Progress{Sent: sent, Total: total}:
		default:
		}
	}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, action, counter)
	if err != nil {
		cancel()
		pr.Close()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)

	go e.run(ctx, req, pr, handle, progressCh, doneCh)

	return handle, nil
}

// run performs the blocking request and delivers the terminal outcome.
func (e *HTTPExecutor) run(ctx context.Context, req *http.Request, body *io.PipeReader, handle *Handle, progressCh chan Progress, doneCh chan Outcome) {
	defer body.Close()

	resp, err := e.client.Do(req)

	outcome := Outcome{}
	switch {
	case err != nil && ctx.Err() != nil:
		outcome.Aborted = true
	case err != nil:
		outcome.Err = fmt.Errorf("%w: %v", shared.ErrTransport, err)
	default:
		defer resp.Body.Close()
		payload, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			if ctx.Err() != nil {
				outcome.Aborted = true
				break
			}
			outcome.Err = fmt.Errorf("%w: reading response: %v", shared.ErrTransport, readErr)
			break
		}
		outcome.Response = &Response{
			Status:      resp.StatusCode,
			Headers:     resp.Header,
			ContentType: resp.Header.Get("Content-Type"),
			FinalURL:    resp.Request.URL.String(),
			Body:        payload,
		}
	}

	if outcome.Err != nil {
		e.logger.Error("transfer failed", "url", req.URL.String(), "error", outcome.Err)
	}

	handle.terminal.Store(true)
	close(progressCh)
	doneCh <- outcome
}

// writePayload streams the submission's fields and files as multipart parts.
func writePayload(pw *io.PipeWriter, sub models.Submission, boundary string) {
	mw := multipart.NewWriter(pw)
	if err := mw.SetBoundary(boundary); err != nil {
		pw.CloseWithError(err)
		return
	}

	for _, field := range sub.Fields {
		if field.Kind == models.FieldValue {
			if err := mw.WriteField(field.Name, field.Value); err != nil {
				pw.CloseWithError(err)
				return
			}
			continue
		}

		for _, file := range field.Files {
			part, err := mw.CreateFormFile(field.Name, file.Name)
			if err != nil {
				pw.CloseWithError(err)
				return
			}
			if file.Open == nil {
				pw.CloseWithError(fmt.Errorf("%w: %s", shared.ErrFileUnreadable, file.Name))
				return
			}
			rc, err := file.Open()
			if err != nil {
				pw.CloseWithError(fmt.Errorf("%w: %s: %v", shared.ErrFileUnreadable, file.Name, err))
				return
			}
			if _, err := io.Copy(part, rc); err != nil {
				rc.Close()
				pw.CloseWithError(fmt.Errorf("%w: %s: %v", shared.ErrFileUnreadable, file.Name, err))
				return
			}
			rc.Close()
		}
	}

	if err := mw.Close(); err != nil {
		pw.CloseWithError(err)
		return
	}
	pw.Close()
}

// payloadSize computes the exact multipart body length: framing and value
// bytes measured with a discarded dry run, plus the declared file sizes.
func payloadSize(sub models.Submission, boundary string) (int64, error) {
	counter := &countingWriter{}
	mw := multipart.NewWriter(counter)
	if err := mw.SetBoundary(boundary); err != nil {
		return 0, err
	}

	var fileBytes int64
	for _, field := range sub.Fields {
		if field.Kind == models.FieldValue {
			if err := mw.WriteField(field.Name, field.Value); err != nil {
				return 0, err
			}
			continue
		}
		for _, file := range field.Files {
			if _, err := mw.CreateFormFile(field.Name, file.Name); err != nil {
				return 0, err
			}
			fileBytes += file.Size
		}
	}

	if err := mw.Close(); err != nil {
		return 0, err
	}

	return counter.n + fileBytes, nil
}

// countingWriter counts bytes without retaining them.
type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}
