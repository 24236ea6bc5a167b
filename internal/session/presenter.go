package session

import (
	"fmt"
	"math"
	"time"

	"github.com/desertthunder/uplink/internal/formatter"
	"golang.org/x/time/rate"
)

// renderRate caps how often intermediate progress events reach the sink.
// Terminal renders always go through.
const renderRate = 12

// Presenter turns transfer progress into [ProgressSink] renders.
//
// The rate estimate is intentionally instantaneous: bytes sent divided by
// elapsed time since the session started, not a moving average. The ETA
// derived from it is suppressed rather than rendered when the rate is zero
// or near zero.
type Presenter struct {
	sink    ProgressSink
	limiter *rate.Limiter
	start   time.Time
}

// NewPresenter creates a presenter rendering into sink.
func NewPresenter(sink ProgressSink) *Presenter {
	if sink == nil {
		sink = NopSink{}
	}
	return &Presenter{
		sink:    sink,
		limiter: rate.NewLimiter(rate.Limit(renderRate), 1),
	}
}

// Begin renders the initial surface: zero percent, a preparing message, and
// the count and formatted total size of the selected files.
func (p *Presenter) Begin(now time.Time, fileCount int, totalBytes int64) {
	p.start = now
	p.sink.SetPercentage(0)
	p.sink.SetMessage("Preparing upload...")

	noun := "files"
	if fileCount == 1 {
		noun = "file"
	}
	p.sink.SetFileInfo(fmt.Sprintf("%d %s, %s", fileCount, noun, formatter.FormatBytes(totalBytes)))
	p.sink.SetSpeedInfo("")
}

// Update renders one progress event. Intermediate events are throttled;
// completed progress (sent == total) always renders.
func (p *Presenter) Update(now time.Time, sent, total int64) {
	if sent < total && !p.limiter.Allow() {
		return
	}

	p.sink.SetPercentage(Percentage(sent, total))
	p.sink.SetMessage("Uploading...")
	p.sink.SetSpeedInfo(p.speedInfo(now, sent, total))
}

// Success renders the completed state ahead of the grace delay.
func (p *Presenter) Success() {
	p.sink.SetPercentage(100)
	p.sink.SetMessage("Processing...")
	p.sink.SetSpeedInfo("")
}

// Fail renders the failure state; the surface switches its action control to
// a dismiss affordance.
func (p *Presenter) Fail(msg string) {
	p.sink.ShowError(msg)
}

// Hide tears the surface down.
func (p *Presenter) Hide() {
	p.sink.Hide()
}

// speedInfo formats the rate and remaining-time line for one progress event.
// Returns an empty string while the rate cannot be estimated.
func (p *Presenter) speedInfo(now time.Time, sent, total int64) string {
	elapsed := now.Sub(p.start).Seconds()
	if elapsed <= 0 || sent <= 0 {
		return ""
	}

	bps := float64(sent) / elapsed
	if bps < 1 {
		return ""
	}

	remaining := total - sent
	if remaining <= 0 {
		return formatter.FormatRate(bps)
	}

	eta := int64(math.Ceil(float64(remaining) / bps))
	return fmt.Sprintf("%s, %s remaining", formatter.FormatRate(bps), formatter.FormatDuration(eta))
}

// Percentage computes a whole-number progress percentage clamped to [0, 100].
// A zero or unknown total reports zero rather than dividing by it.
func Percentage(sent, total int64) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(sent) / float64(total)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
