package auth

import (
	"context"
	"time"
)

// ActivityType enumerates the recorded auth events.
type ActivityType string

const (
	ActivityLoginSuccess    ActivityType = "auth.login.success"
	ActivityLoginFailure    ActivityType = "auth.login.failure"
	ActivityRegister        ActivityType = "auth.register"
	ActivityRegisterFailure ActivityType = "auth.register.failure"
	ActivityLogout          ActivityType = "auth.logout"
	ActivitySessionPurged   ActivityType = "auth.session.purged"
)

// ActivityEvent is one recorded auth event. Email may be empty when the
// event cannot be attributed.
type ActivityEvent struct {
	Type       ActivityType
	UserID     string
	Email      string
	Detail     string
	OccurredAt time.Time
}

// ActivitySink consumes activity events.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}

	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}
