package server

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/uplink/internal/formatter"
	"github.com/desertthunder/uplink/internal/shared"
)

// ReceiverMode selects how the receiver answers a completed upload.
type ReceiverMode string

const (
	// ModeJSON answers 200 with a {"redirect": ...} body.
	ModeJSON ReceiverMode = "json"
	// ModeRedirect answers 302 with a Location header.
	ModeRedirect ReceiverMode = "redirect"
	// ModePlain answers 200 with an HTML confirmation page.
	ModePlain ReceiverMode = "plain"
)

// ReceiverHandler implements [Handler] for multipart upload intake.
//
// Each accepted upload is assigned an incrementing calendar number so the
// navigation target is stable and predictable during manual testing.
type ReceiverHandler struct {
	mode   ReceiverMode
	logger *log.Logger

	mu       sync.Mutex
	accepted int
}

// NewReceiverHandler creates a receiver answering in the given mode.
func NewReceiverHandler(mode ReceiverMode, logger *log.Logger) *ReceiverHandler {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &ReceiverHandler{mode: mode, logger: logger}
}

// Routes returns the path patterns this handler serves.
func (h *ReceiverHandler) Routes() []string {
	return []string{"/upload"}
}

// ServeHTTP accepts a multipart POST, drains every file part, and answers
// with a navigation target per the configured mode.
func (h *ReceiverHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		h.logger.Error("rejected upload", "error", err)
		http.Error(w, "expected a multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var (
		fileCount int
		received  int64
	)
	for _, headers := range r.MultipartForm.File {
		for _, header := range headers {
			part, err := header.Open()
			if err != nil {
				h.logger.Error("unreadable file part", "name", header.Filename, "error", err)
				http.Error(w, "unreadable file part", http.StatusBadRequest)
				return
			}
			n, err := io.Copy(io.Discard, part)
			part.Close()
			if err != nil {
				h.logger.Error("truncated file part", "name", header.Filename, "error", err)
				http.Error(w, "truncated file part", http.StatusBadRequest)
				return
			}
			fileCount++
			received += n
		}
	}

	h.mu.Lock()
	h.accepted++
	destination := fmt.Sprintf("/calendars/%d/", h.accepted)
	h.mu.Unlock()

	h.logger.Info("accepted upload",
		"files", fileCount,
		"size", formatter.FormatBytes(received),
		"destination", destination,
	)

	switch h.mode {
	case ModeRedirect:
		http.Redirect(w, r, destination, http.StatusFound)
	case ModePlain:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<html><body><p>Received %d file(s), %s.</p><a href=%q>View calendar</a></body></html>",
			fileCount, formatter.FormatBytes(received), destination)
	default:
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"redirect": %q}`, destination)
	}
}

// Logging returns middleware that logs every request with its duration.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start),
			)
		})
	}
}
