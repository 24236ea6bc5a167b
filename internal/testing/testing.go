// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/uplink/internal/models"
	"github.com/desertthunder/uplink/internal/transfer"
)

// RecordingSink is a ProgressSink test double that captures every render.
type RecordingSink struct {
	mu          sync.Mutex
	Percentages []int
	Messages    []string
	FileInfos   []string
	SpeedInfos  []string
	Errors      []string
	Hidden      int
}

func (s *RecordingSink) SetPercentage(pct int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Percentages = append(s.Percentages, pct)
}

func (s *RecordingSink) SetMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, msg)
}

func (s *RecordingSink) SetFileInfo(info string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FileInfos = append(s.FileInfos, info)
}

func (s *RecordingSink) SetSpeedInfo(info string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SpeedInfos = append(s.SpeedInfos, info)
}

func (s *RecordingSink) ShowError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, msg)
}

func (s *RecordingSink) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Hidden++
}

// LastPercentage returns the most recent percentage render, -1 when none.
func (s *RecordingSink) LastPercentage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Percentages) == 0 {
		return -1
	}
	return s.Percentages[len(s.Percentages)-1]
}

// ScriptedExecutor is a transfer.Executor double that replays a fixed event
// script instead of performing network I/O.
type ScriptedExecutor struct {
	Steps    []transfer.Progress // replayed in order before the outcome
	Outcome  transfer.Outcome
	StartErr error

	// Block, when set, delays the outcome until the script is released by
	// cancellation. Used for mid-transfer cancel tests.
	Block bool

	mu        sync.Mutex
	cancelled bool
	started   int
}

// Start replays the scripted events on a fresh handle.
func (e *ScriptedExecutor) Start(ctx context.Context, action string, sub models.Submission) (*transfer.Handle, error) {
	if e.StartErr != nil {
		return nil, e.StartErr
	}

	e.mu.Lock()
	e.started++
	e.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	progressCh := make(chan transfer.Progress, len(e.Steps)+1)
	doneCh := make(chan transfer.Outcome, 1)

	go func() {
		for _, step := range e.Steps {
			select {
			case <-ctx.Done():
				close(progressCh)
				doneCh <- transfer.Outcome{Aborted: true}
				return
			case progressCh <- step:
			}
		}

		if e.Block {
			<-ctx.Done()
			close(progressCh)
			doneCh <- transfer.Outcome{Aborted: true}
			return
		}

		close(progressCh)
		doneCh <- e.Outcome
	}()

	handle := transfer.NewHandle(progressCh, doneCh, func() {
		e.mu.Lock()
		e.cancelled = true
		e.mu.Unlock()
		cancel()
	})
	return handle, nil
}

// Cancelled reports whether the script observed a cancel request.
func (e *ScriptedExecutor) Cancelled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancelled
}

// Started reports how many transfers the script began.
func (e *ScriptedExecutor) Started() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}

// MemoryRecorder is a session.Recorder double collecting records in memory.
type MemoryRecorder struct {
	mu      sync.Mutex
	Records []*models.SessionRecord
}

func (r *MemoryRecorder) Record(rec *models.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Records = append(r.Records, rec)
	return nil
}

// Last returns the most recent record, nil when none were made.
func (r *MemoryRecorder) Last() *models.SessionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Records) == 0 {
		return nil
	}
	return r.Records[len(r.Records)-1]
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
