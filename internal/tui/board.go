package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"wishline/internal/flow"
	"wishline/internal/theme"
	"wishline/internal/wish"
)

func RunBoard(ctx context.Context, tasks TaskSource, themes *theme.Store, user wish.User, out io.Writer) error {
	m := newBoardModel(ctx, tasks, themes, user)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}

// RunOTP runs the code editor for o until the code is verified or the user quits.
func RunOTP(ctx context.Context, flows *flow.Flows, o *flow.OTP, out io.Writer) (OTPResult, error) {
	m := newOTPModel(ctx, flows, o)
	p := tea.NewProgram(m, tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return OTPResult{}, err
	}
	if fm, ok := final.(otpModel); !ok || fm.otp.State != flow.StateVerified {
		return OTPResult{}, nil
	}
	return OTPResult{Verified: true, Next: o.Next}, nil
}
