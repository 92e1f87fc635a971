package tui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wishline/internal/flow"
	"wishline/internal/nav"
	"wishline/internal/ui"
)

// OTPResult is how the verification screen ended.
type OTPResult struct {
	Verified bool
	Next     nav.Route
}

type otpModel struct {
	ctx   context.Context
	flows *flow.Flows
	otp   *flow.OTP

	info string

	spinner spinner.Model
	paste   func() (string, error)
}

type verifiedMsg struct {
	next nav.Route
	err  error
}

type resentMsg struct {
	err error
}

func newOTPModel(ctx context.Context, flows *flow.Flows, o *flow.OTP) otpModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.Key
	return otpModel{
		ctx:     ctx,
		flows:   flows,
		otp:     o,
		spinner: s,
		paste:   clipboard.ReadAll,
		info:    "We sent a 6-digit code to " + o.Email,
	}
}

func (m otpModel) Init() tea.Cmd {
	return nil
}

// verifyCmd and resendCmd only talk to the backend; the model applies the
// outcome to the screen state in Update.
func (m otpModel) verifyCmd(code string) tea.Cmd {
	flowType, email := m.otp.Flow, m.otp.Email
	return func() tea.Msg {
		next, err := m.flows.VerifyCode(m.ctx, flowType, email, code)
		return verifiedMsg{next: next, err: err}
	}
}

func (m otpModel) resendCmd() tea.Cmd {
	flowType, email := m.otp.Flow, m.otp.Email
	return func() tea.Msg {
		return resentMsg{err: m.flows.ResendCode(m.ctx, flowType, email)}
	}
}

func (m otpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.otp.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case verifiedMsg:
		m.otp.FinishSubmit(msg.next, msg.err)
		if msg.err != nil {
			return m, nil
		}
		return m, tea.Quit
	case resentMsg:
		m.otp.FinishResend(msg.err)
		if msg.err == nil {
			m.info = "A new code is on its way to " + m.otp.Email
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m otpModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	}
	if m.otp.Busy() {
		return m, nil
	}
	m.otp.Edit()

	editor := &m.otp.Editor
	switch msg.Type {
	case tea.KeyBackspace:
		editor.Backspace()
	case tea.KeyLeft:
		editor.SetFocus(editor.Focus() - 1)
	case tea.KeyRight:
		editor.SetFocus(editor.Focus() + 1)
	case tea.KeyCtrlV:
		text, err := m.paste()
		if err != nil {
			m.otp.Message = "Clipboard unavailable: " + err.Error()
			return m, nil
		}
		editor.Paste(text)
	case tea.KeyCtrlR:
		m.otp.BeginResend()
		return m, tea.Batch(m.spinner.Tick, m.resendCmd())
	case tea.KeyEnter:
		code, err := m.otp.BeginSubmit()
		if err != nil {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, m.verifyCmd(code))
	case tea.KeyRunes:
		// Multi-rune key events are terminal pastes.
		editor.Input(string(msg.Runes))
	}
	return m, nil
}

func (m otpModel) View() string {
	var b strings.Builder
	b.WriteString(ui.Heading(ui.IconMail, "Verify your email"))
	b.WriteString("\n")
	b.WriteString(ui.Muted.Render(m.info))
	b.WriteString("\n\n")

	o := m.otp
	slots := o.Editor.Slots()
	boxes := make([]string, len(slots))
	for i, s := range slots {
		boxes[i] = ui.Slot(s, i == o.Editor.Focus() && !o.Busy(), o.State == flow.StateFailed)
	}
	b.WriteString(joinHorizontal(boxes))
	b.WriteString("\n\n")

	switch {
	case o.State == flow.StateSubmitting:
		b.WriteString(m.spinner.View() + " Verifying…")
	case o.Resending:
		b.WriteString(m.spinner.View() + " Sending a new code…")
	case o.Message != "":
		b.WriteString(ui.Bad.Render(ui.IconError + " " + o.Message))
	}
	b.WriteString("\n\n")
	b.WriteString(ui.Button(ui.ButtonPrimary, "enter", "Verify") + " ")
	b.WriteString(ui.Button(ui.ButtonOutline, "ctrl+r", "Resend") + " ")
	b.WriteString(ui.Button(ui.ButtonOutline, "ctrl+v", "Paste") + " ")
	b.WriteString(ui.Muted.Render("esc to quit"))
	b.WriteString("\n")
	return b.String()
}

func joinHorizontal(blocks []string) string {
	spaced := make([]string, 0, len(blocks)*2)
	for i, bl := range blocks {
		if i > 0 {
			spaced = append(spaced, " ")
		}
		spaced = append(spaced, bl)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
}
