// Package form holds the waitlist signup form as a small state machine. The server-rendered
// page and the terminal client both drive it; neither keeps state of its own.
package form

import (
	"context"
	"errors"
)

type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	SuccessNotification = "Successfully joined the waitlist!"
	FallbackFailure     = "Error joining waitlist. Please try again."
)

var (
	ErrIncomplete = errors.New("form: name and email are required")
	ErrLocked     = errors.New("form: not editable while submitting or after success")
)

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient toast. It is shown once and then dropped.
type Notification struct {
	Kind    NotificationKind
	Message string
}

// Form is not safe for concurrent use; one view owns it.
type Form struct {
	name    string
	email   string
	phase   Phase
	failure string
	mounted bool

	notifications []Notification
}

func New() *Form {
	return &Form{phase: PhaseEditing}
}

// Mount marks the form as attached to a view. Nothing renders before it.
func (f *Form) Mount() {
	f.mounted = true
}

func (f *Form) Mounted() bool {
	return f.mounted
}

func (f *Form) Phase() Phase {
	return f.phase
}

func (f *Form) Name() string {
	return f.name
}

func (f *Form) Email() string {
	return f.email
}

// Failure is the inline error message, empty unless the last submit failed.
func (f *Form) Failure() string {
	return f.failure
}

func (f *Form) editable() bool {
	return f.phase == PhaseEditing || f.phase == PhaseFailed
}

func (f *Form) SetName(v string) error {
	if !f.editable() {
		return ErrLocked
	}
	f.name = v
	return nil
}

func (f *Form) SetEmail(v string) error {
	if !f.editable() {
		return ErrLocked
	}
	f.email = v
	return nil
}

// BeginSubmit moves editing or failed to submitting. Both fields must be non-empty, like the
// required inputs on the page.
func (f *Form) BeginSubmit() error {
	if !f.editable() {
		return ErrLocked
	}
	if f.name == "" || f.email == "" {
		return ErrIncomplete
	}

	f.failure = ""
	f.phase = PhaseSubmitting
	return nil
}

// Succeed clears the fields and queues the positive notification. Succeeded is terminal.
func (f *Form) Succeed() {
	if f.phase != PhaseSubmitting {
		return
	}

	f.name = ""
	f.email = ""
	f.phase = PhaseSucceeded
	f.notify(NotificationSuccess, SuccessNotification)
}

// Fail keeps what was typed so the user can correct it. An empty message falls back to a
// generic one.
func (f *Form) Fail(message string) {
	if f.phase != PhaseSubmitting {
		return
	}
	if message == "" {
		message = FallbackFailure
	}

	f.failure = message
	f.phase = PhaseFailed
	f.notify(NotificationError, message)
}

// Submit runs one full submission against s.
func (f *Form) Submit(ctx context.Context, s Submitter) error {
	if err := f.BeginSubmit(); err != nil {
		return err
	}

	if _, err := s.Join(ctx, f.name, f.email); err != nil {
		f.Fail(UserMessage(err))
		return nil
	}

	f.Succeed()
	return nil
}

// TakeNotifications returns the queued notifications and clears the queue.
func (f *Form) TakeNotifications() []Notification {
	out := f.notifications
	f.notifications = nil
	return out
}

func (f *Form) notify(kind NotificationKind, message string) {
	f.notifications = append(f.notifications, Notification{Kind: kind, Message: message})
}
