package flow

import "wishline/internal/wish"

// OTPEditor is the six-slot code input. Slots hold at most one digit each.
type OTPEditor struct {
	slots [wish.CodeLength]rune
	focus int
}

const lastSlot = wish.CodeLength - 1

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func (e *OTPEditor) Focus() int { return e.focus }

func (e *OTPEditor) SetFocus(i int) {
	if i < 0 {
		i = 0
	}
	if i > lastSlot {
		i = lastSlot
	}
	e.focus = i
}

// Input applies a change to the focused slot. More than one character is a
// paste; "" clears the slot; a non-digit is ignored.
func (e *OTPEditor) Input(s string) {
	r := []rune(s)
	switch {
	case len(r) > 1:
		e.Paste(s)
	case len(r) == 0:
		e.slots[e.focus] = 0
	case isDigit(r[0]):
		e.slots[e.focus] = r[0]
		if e.focus < lastSlot {
			e.focus++
		}
	}
}

// Backspace clears a filled slot, or moves back from an empty one.
func (e *OTPEditor) Backspace() {
	if e.slots[e.focus] == 0 {
		if e.focus > 0 {
			e.focus--
		}
		return
	}
	e.slots[e.focus] = 0
}

// Paste spreads up to six digits from the focused slot onward; non-digits in s
// are skipped. Focus lands on min(focus+n, 5).
func (e *OTPEditor) Paste(s string) {
	var digits []rune
	for _, r := range s {
		if isDigit(r) {
			digits = append(digits, r)
		}
		if len(digits) == wish.CodeLength {
			break
		}
	}
	if len(digits) == 0 {
		return
	}
	for i, d := range digits {
		if e.focus+i < wish.CodeLength {
			e.slots[e.focus+i] = d
		}
	}
	e.SetFocus(e.focus + len(digits))
}

func (e *OTPEditor) Clear() {
	e.slots = [wish.CodeLength]rune{}
	e.focus = 0
}

// Slots returns each slot as "" or a single digit.
func (e *OTPEditor) Slots() []string {
	out := make([]string, wish.CodeLength)
	for i, r := range e.slots {
		if r != 0 {
			out[i] = string(r)
		}
	}
	return out
}

// Code joins the filled slots.
func (e *OTPEditor) Code() string {
	b := make([]rune, 0, wish.CodeLength)
	for _, r := range e.slots {
		if r != 0 {
			b = append(b, r)
		}
	}
	return string(b)
}

func (e *OTPEditor) Complete() bool {
	return len(e.Code()) == wish.CodeLength
}
