package session

// ProgressSink is the presentation surface a session renders into.
//
// Implementations own the visual form (TUI modal, plain lines, test double);
// the presenter owns deciding what to show and when. Hide tears the surface
// down; after Hide no further calls are made for that session.
type ProgressSink interface {
	SetPercentage(pct int)
	SetMessage(msg string)
	SetFileInfo(info string)
	SetSpeedInfo(info string)
	ShowError(msg string)
	Hide()
}

// NopSink discards every render. Useful when no presentation is wanted.
type NopSink struct{}

func (NopSink) SetPercentage(int)   {}
func (NopSink) SetMessage(string)   {}
func (NopSink) SetFileInfo(string)  {}
func (NopSink) SetSpeedInfo(string) {}
func (NopSink) ShowError(string)    {}
func (NopSink) Hide()               {}
