package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// Messages mirror the session.ProgressSink surface. Each sink call becomes
// one of these via program.Send.
type (
	percentMsg   int
	messageMsg   string
	fileInfoMsg  string
	speedInfoMsg string
	errorMsg     string
	hideMsg      struct{}
)

// modalModel renders the upload overlay.
type modalModel struct {
	bar       progress.Model
	message   string
	fileInfo  string
	speedInfo string
	errText   string
	width     int
	onCancel  func()
	onDismiss func()
}

func newModalModel(onCancel, onDismiss func()) modalModel {
	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
	)
	return modalModel{
		bar:       bar,
		message:   "Preparing upload...",
		onCancel:  onCancel,
		onDismiss: onDismiss,
	}
}

func (m modalModel) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
//
// The overlay never quits itself on a key press. Keys only signal the
// controller, which eventually hides the sink and thereby ends the program.
func (m modalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(msg.Width-10, 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c", "q":
			if m.errText != "" {
				if m.onDismiss != nil {
					m.onDismiss()
				}
			} else if m.onCancel != nil {
				m.onCancel()
			}
		}
		return m, nil

	case percentMsg:
		return m, m.bar.SetPercent(float64(msg) / 100)

	case messageMsg:
		m.message = string(msg)
		return m, nil

	case fileInfoMsg:
		m.fileInfo = string(msg)
		return m, nil

	case speedInfoMsg:
		m.speedInfo = string(msg)
		return m, nil

	case errorMsg:
		m.errText = string(msg)
		return m, nil

	case hideMsg:
		return m, tea.Quit

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m modalModel) View() string {
	if m.errText != "" {
		return fmt.Sprintf("\n  %s\n\n%s\n",
			styles.err.Render(m.errText),
			styles.help.Render("  esc dismiss"),
		)
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("  " + styles.title.Render("Uploading photos") + "\n")

	if m.fileInfo != "" {
		sb.WriteString("  " + m.fileInfo + "\n\n")
	}

	sb.WriteString("  " + m.bar.View() + "\n")

	if m.speedInfo != "" {
		sb.WriteString("  " + styles.warn.Render(m.speedInfo) + "\n")
	}
	if m.message != "" {
		sb.WriteString("  " + m.message + "\n")
	}

	sb.WriteString("\n" + styles.help.Render("  esc cancel") + "\n")
	return sb.String()
}

// Modal is a bubbletea progress overlay implementing session.ProgressSink.
// Sink calls arrive from the controller's goroutine and are forwarded to the
// running program with Send, which is safe for concurrent use.
//
// Start must be called before the controller begins rendering into the sink.
type Modal struct {
	program *tea.Program
}

// NewModal builds the overlay. onCancel fires when the user interrupts an
// active transfer, onDismiss when they acknowledge a displayed failure.
func NewModal(onCancel, onDismiss func()) *Modal {
	model := newModalModel(onCancel, onDismiss)
	return &Modal{
		program: tea.NewProgram(model, tea.WithoutSignalHandler()),
	}
}

// Start runs the overlay in a background goroutine and returns immediately.
func (m *Modal) Start() {
	go m.program.Run()
}

// Wait blocks until the overlay has shut down.
func (m *Modal) Wait() {
	m.program.Wait()
}

func (m *Modal) SetPercentage(pct int)    { m.program.Send(percentMsg(pct)) }
func (m *Modal) SetMessage(msg string)    { m.program.Send(messageMsg(msg)) }
func (m *Modal) SetFileInfo(info string)  { m.program.Send(fileInfoMsg(info)) }
func (m *Modal) SetSpeedInfo(info string) { m.program.Send(speedInfoMsg(info)) }
func (m *Modal) ShowError(msg string)     { m.program.Send(errorMsg(msg)) }
func (m *Modal) Hide()                    { m.program.Send(hideMsg{}) }
