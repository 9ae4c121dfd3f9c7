package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/authportal/internal/gateway"
	"github.com/GoPowerDNS-Admin/authportal/internal/identity"
	"github.com/GoPowerDNS-Admin/authportal/internal/metrics"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/session"
)

// Fallback messages used when the gateway gives none.
const (
	MsgLoginFailed        = "Login failed"
	MsgRegisterFailed     = "Registration failed"
	MsgVerifyEmailFailed  = "Email verification failed"
	MsgResendVerifyFailed = "Failed to resend verification email"
)

// Gateway is the remote auth gateway. *gateway.Client implements it.
type Gateway interface {
	Login(ctx context.Context, req identity.LoginRequest) (*identity.LoginResponse, error)
	Register(ctx context.Context, req identity.RegisterRequest) (*identity.MessageResponse, error)
	Me(ctx context.Context, token string) (*identity.User, error)
	VerifyEmail(ctx context.Context, token string) (*identity.MessageResponse, error)
	ResendVerification(ctx context.Context, email string) (*identity.MessageResponse, error)
}

// Store is the session of one browser scope. *session.Scoped implements it.
type Store interface {
	Token() (string, bool)
	User() (*identity.User, bool)
	SetAll(d session.Data) error
	Clear()
}

// LoginResult is the outcome of Client.Login.
type LoginResult struct {
	Success            bool
	Token              string
	User               *identity.User
	Tenant             *identity.Tenant
	MustChangePassword bool
	Error              string
}

// RegisterResult is the outcome of Client.Register. Field names the form
// field of a local validation failure.
type RegisterResult struct {
	Success bool
	Message string
	Error   string
	Field   string
}

// VerifyResult is the outcome of Client.VerifyStoredToken.
type VerifyResult struct {
	Valid bool
	User  *identity.User
}

// MessageResult is the outcome of the email verification calls.
type MessageResult struct {
	Message string
	Error   string
}

// OK reports whether the call succeeded.
func (r MessageResult) OK() bool {
	return r.Error == ""
}

// Client is the auth client. It is stateless and safe for concurrent use.
type Client struct {
	gw       Gateway
	sink     ActivitySink
	validate *validator.Validate
	region   string
	now      func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithActivitySink records login, registration, logout and purge events.
func WithActivitySink(sink ActivitySink) Option {
	return func(c *Client) {
		if sink != nil {
			c.sink = sink
		}
	}
}

// WithPhoneRegion sets the region used to parse phone numbers without country code.
func WithPhoneRegion(region string) Option {
	return func(c *Client) {
		if region != "" {
			c.region = region
		}
	}
}

// NewClient creates an auth client on top of gw.
func NewClient(gw Gateway, opts ...Option) *Client {
	c := &Client{
		gw:     gw,
		sink:   noopActivitySink{},
		region: DefaultPhoneRegion,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.validate = newValidator(c.region)

	return c
}

// Login authenticates against the gateway and, on success, persists the
// returned session into store before returning.
func (c *Client) Login(ctx context.Context, store Store, email, password string) LoginResult {
	resp, err := c.gw.Login(ctx, identity.LoginRequest{Email: email, Password: password})
	if err != nil {
		msg := gateway.Message(err, MsgLoginFailed)
		c.loginFailed(ctx, email, msg, err)

		return LoginResult{Error: msg}
	}

	if resp.Error != "" {
		c.loginFailed(ctx, email, resp.Error, nil)
		return LoginResult{Error: resp.Error}
	}

	err = store.SetAll(session.Data{
		Token:        resp.Token,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
		Tenant:       resp.Tenant,
	})
	if err != nil {
		log.Error().Err(err).Msg("can't persist session after login")
		c.loginFailed(ctx, email, MsgLoginFailed, err)

		return LoginResult{Error: MsgLoginFailed}
	}

	metrics.Logins.WithLabelValues(metrics.ResultSuccess).Inc()

	ev := ActivityEvent{Type: ActivityLoginSuccess, Email: email}
	if resp.User != nil {
		ev.UserID = resp.User.ID
	}

	c.Record(ctx, ev)

	return LoginResult{
		Success:            true,
		Token:              resp.Token,
		User:               resp.User,
		Tenant:             resp.Tenant,
		MustChangePassword: resp.MustChangePassword,
	}
}

func (c *Client) loginFailed(ctx context.Context, email, msg string, err error) {
	result := metrics.ResultRejected

	if err != nil && !isGatewayError(err) {
		result = metrics.ResultError
		log.Warn().Err(err).Msg("login request failed")
	}

	metrics.Logins.WithLabelValues(result).Inc()
	log.Debug().Str("email", email).Str("reason", msg).Msg("login rejected")

	c.Record(ctx, ActivityEvent{Type: ActivityLoginFailure, Email: email, Detail: msg})
}

func isGatewayError(err error) bool {
	var gwErr *gateway.GatewayError
	return errors.As(err, &gwErr)
}

// Register validates the form locally and, if it passes, creates the
// account. No session is established.
func (c *Client) Register(ctx context.Context, form RegisterForm) RegisterResult {
	form = form.normalize()

	if verr := validateForm(c.validate, form); verr != nil {
		metrics.Registrations.WithLabelValues(metrics.ResultInvalid).Inc()
		return RegisterResult{Error: verr.Message, Field: verr.Field}
	}

	resp, err := c.gw.Register(ctx, identity.RegisterRequest{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		PhoneNumber: form.PhoneNumber,
		Password:    form.Password,
	})

	msg := ""

	switch {
	case err != nil:
		msg = gateway.Message(err, MsgRegisterFailed)
	case resp.Error != "":
		msg = resp.Error
	}

	if msg != "" {
		metrics.Registrations.WithLabelValues(metrics.ResultRejected).Inc()
		log.Debug().Err(err).Str("email", form.Email).Str("reason", msg).Msg("registration rejected")
		c.Record(ctx, ActivityEvent{Type: ActivityRegisterFailure, Email: form.Email, Detail: msg})

		return RegisterResult{Error: msg}
	}

	metrics.Registrations.WithLabelValues(metrics.ResultSuccess).Inc()
	c.Record(ctx, ActivityEvent{Type: ActivityRegister, Email: form.Email})

	return RegisterResult{Success: true, Message: resp.Message}
}

// VerifyStoredToken checks the stored token with the gateway. Without a
// stored token it returns immediately. On success the stored user record is
// replaced by the fresh one. When the gateway rejects the token or can not
// be reached the whole store is cleared. A verification aborted by ctx
// leaves the store untouched.
func (c *Client) VerifyStoredToken(ctx context.Context, store Store) VerifyResult {
	token, ok := store.Token()
	if !ok {
		metrics.Verifications.WithLabelValues(metrics.ResultAbsent).Inc()
		return VerifyResult{}
	}

	user, err := c.gw.Me(ctx, token)
	if err != nil && (ctx.Err() != nil || errors.Is(err, context.Canceled)) {
		// the caller gave up; the gateway has not judged the token
		metrics.Verifications.WithLabelValues(metrics.ResultError).Inc()
		log.Debug().Err(err).Msg("stored session verification aborted")

		return VerifyResult{}
	}

	if err != nil {
		ev := ActivityEvent{Type: ActivitySessionPurged, Detail: gateway.Message(err, "transport failure")}
		if stored, ok := store.User(); ok {
			ev.UserID = stored.ID
			ev.Email = stored.Email
		}

		store.Clear()

		metrics.Verifications.WithLabelValues(metrics.ResultStale).Inc()
		log.Info().Err(errors.Join(ErrStaleSession, err)).Msg("stored session purged")
		c.Record(ctx, ev)

		return VerifyResult{}
	}

	if err := store.SetAll(session.Data{User: user}); err != nil {
		log.Warn().Err(err).Msg("can't refresh stored user")
	}

	metrics.Verifications.WithLabelValues(metrics.ResultSuccess).Inc()

	return VerifyResult{Valid: true, User: user}
}

// VerifyEmail confirms an email address. It has no local state effect.
func (c *Client) VerifyEmail(ctx context.Context, token string) MessageResult {
	resp, err := c.gw.VerifyEmail(ctx, token)
	return messageResult(resp, err, MsgVerifyEmailFailed)
}

// ResendVerification requests a new verification mail. It has no local state effect.
func (c *Client) ResendVerification(ctx context.Context, email string) MessageResult {
	resp, err := c.gw.ResendVerification(ctx, email)
	return messageResult(resp, err, MsgResendVerifyFailed)
}

func messageResult(resp *identity.MessageResponse, err error, fallback string) MessageResult {
	if err != nil {
		return MessageResult{Error: gateway.Message(err, fallback)}
	}

	if resp.Error != "" {
		return MessageResult{Error: resp.Error}
	}

	return MessageResult{Message: resp.Message}
}

// Record forwards ev to the activity sink. Sink failures are logged only.
func (c *Client) Record(ctx context.Context, ev ActivityEvent) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = c.now()
	}

	if err := c.sink.Record(ctx, ev); err != nil {
		log.Warn().Err(err).Str("event", string(ev.Type)).Msg("can't record activity")
	}
}
