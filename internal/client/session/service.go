package session

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/policyinsight/internal/client/api"
	"github.com/dmitrijs2005/policyinsight/internal/client/tokenstore"
	"github.com/dmitrijs2005/policyinsight/internal/logging"
)

// Fallback messages used when the server gives none.
const (
	MsgLoginFailed          = "login failed"
	MsgSignupFailed         = "signup failed"
	MsgIDNotFound           = "id not found"
	MsgPasswordChangeFailed = "password change failed"
	MsgVerifyFailed         = "password verification failed"
	MsgUpdateFailed         = "profile update failed"
	MsgDeleteFailed         = "account deletion failed"
	MsgProfileFailed        = "could not load profile"
)

// API is the subset of *api.Client the facade needs.
type API interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	Logout(ctx context.Context) error
	Signup(ctx context.Context, req api.SignupRequest) (*api.MessageResponse, error)
	FindID(ctx context.Context, req api.FindIDRequest) (*api.FindIDResponse, error)
	ChangePasswordNoLogin(ctx context.Context, req api.ChangePasswordRequest) (*api.MessageResponse, error)
	VerifyPasswordLogin(ctx context.Context, req api.PasswordLoginRequest) (*api.PasswordLoginResponse, error)
	GetUserInfo(ctx context.Context) (*api.UserInfo, error)
	UpdateUserInfo(ctx context.Context, req api.UpdateUserRequest) (*api.UserInfo, error)
	DeleteAccount(ctx context.Context) (*api.MessageResponse, error)
	FetchCSRFToken(ctx context.Context) (string, error)
}

// UpdateUserRequest is a partial profile update; nil fields are kept.
type UpdateUserRequest struct {
	Image *string
	Phone *string
}

// Service defines the session operations used by the CLI.
//
// No method returns a Go error: failures come back as Result with
// Success=false and a displayable Error string.
type Service interface {
	Login(ctx context.Context, email, password string) Result[User]
	Logout(ctx context.Context) Result[struct{}]
	Signup(ctx context.Context, form SignupForm) Result[struct{}]
	RefreshUser(ctx context.Context) Result[User]
	UpdateUserInfo(ctx context.Context, req UpdateUserRequest) Result[User]
	DeleteAccount(ctx context.Context) Result[struct{}]
	FindID(ctx context.Context, email string) Result[string]
	ChangePasswordNoLogin(ctx context.Context, id, password string) Result[struct{}]
	VerifyPasswordLogin(ctx context.Context, password string) Result[api.PasswordLoginResponse]
	EnsureCSRFToken(ctx context.Context)
	CheckAuth(ctx context.Context) bool
	State() *State
}

type service struct {
	api    API
	store  *tokenstore.Store
	state  *State
	logger logging.Logger
}

func NewService(client API, store *tokenstore.Store, state *State, logger logging.Logger) Service {
	return &service{api: client, store: store, state: state, logger: logger}
}

func (s *service) State() *State {
	return s.state
}

// message picks the server's message for err, else fallback. Local
// validation errors carry their own reason.
func message(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	if m := api.Message(err); m != "" {
		return m
	}
	return fallback
}

// Login authenticates, stores the tokens and mirrors the profile into State.
func (s *service) Login(ctx context.Context, email, password string) Result[User] {
	email = strings.TrimSpace(email)
	if err := ValidateEmail(email); err != nil {
		return fail[User](message(err, MsgLoginFailed))
	}
	if password == "" {
		return fail[User]("password is required")
	}

	resp, err := s.api.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.logger.Info(ctx, "login failed", "error", err)
		return fail[User](message(err, MsgLoginFailed))
	}

	u := User{
		ID:           resp.ID.String(),
		Email:        resp.Email,
		Name:         resp.Name,
		Phone:        resp.Phone,
		ProfileImage: resp.Image,
	}
	s.state.Set(u)
	return succeed(u, "")
}

// Logout tells the server, ignoring failures, then clears the store and State.
func (s *service) Logout(ctx context.Context) Result[struct{}] {
	if err := s.api.Logout(ctx); err != nil {
		s.logger.Warn(ctx, "logout request failed", "error", err)
	}
	if err := s.store.ClearAll(ctx); err != nil {
		s.logger.Error(ctx, "failed to clear credentials", "error", err)
	}
	s.state.Clear()
	return succeed(struct{}{}, "")
}

// Signup validates the form and registers the user. It does not log in.
func (s *service) Signup(ctx context.Context, form SignupForm) Result[struct{}] {
	if err := ValidateSignup(form); err != nil {
		return fail[struct{}](message(err, MsgSignupFailed))
	}

	resp, err := s.api.Signup(ctx, api.SignupRequest{
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
		Name:     strings.TrimSpace(form.Name),
		Phone:    form.Phone,
	})
	if err != nil {
		s.logger.Info(ctx, "signup failed", "error", err)
		return fail[struct{}](message(err, MsgSignupFailed))
	}
	return succeed(struct{}{}, resp.Message)
}

// RefreshUser reloads the profile. Without a stored session the in-memory
// user is dropped; a failed fetch clears both store and State. The user id
// is kept from State because the profile endpoint does not return it.
func (s *service) RefreshUser(ctx context.Context) Result[User] {
	if !s.store.HasSession(ctx) {
		s.state.Clear()
		return fail[User]("not logged in")
	}

	info, err := s.api.GetUserInfo(ctx)
	if err != nil {
		s.logger.Warn(ctx, "profile refresh failed, dropping session", "error", err)
		if err := s.store.ClearAll(ctx); err != nil {
			s.logger.Error(ctx, "failed to clear credentials", "error", err)
		}
		s.state.Clear()
		return fail[User](message(err, MsgProfileFailed))
	}

	u := s.mergeProfile(info)
	s.state.Set(u)
	return succeed(u, "")
}

func (s *service) mergeProfile(info *api.UserInfo) User {
	current, _ := s.state.User()
	return User{
		ID:           current.ID,
		Email:        info.Email,
		Name:         info.Name,
		Phone:        info.Phone,
		ProfileImage: info.Image,
	}
}

func (s *service) UpdateUserInfo(ctx context.Context, req UpdateUserRequest) Result[User] {
	if req.Phone != nil {
		if err := ValidatePhone(*req.Phone); err != nil {
			return fail[User](message(err, MsgUpdateFailed))
		}
	}

	info, err := s.api.UpdateUserInfo(ctx, api.UpdateUserRequest{Image: req.Image, Phone: req.Phone})
	if err != nil {
		return fail[User](message(err, MsgUpdateFailed))
	}

	u := s.mergeProfile(info)
	s.state.Set(u)
	return succeed(u, "")
}

// DeleteAccount removes the account; on success the session is dropped.
func (s *service) DeleteAccount(ctx context.Context) Result[struct{}] {
	resp, err := s.api.DeleteAccount(ctx)
	if err != nil {
		return fail[struct{}](message(err, MsgDeleteFailed))
	}

	if err := s.store.ClearAll(ctx); err != nil {
		s.logger.Error(ctx, "failed to clear credentials", "error", err)
	}
	s.state.Clear()
	return succeed(struct{}{}, resp.Message)
}

func (s *service) FindID(ctx context.Context, email string) Result[string] {
	email = strings.TrimSpace(email)
	if err := ValidateEmail(email); err != nil {
		return fail[string](message(err, MsgIDNotFound))
	}

	resp, err := s.api.FindID(ctx, api.FindIDRequest{Email: email})
	if err != nil {
		return fail[string](message(err, MsgIDNotFound))
	}
	return succeed(resp.ID, "")
}

func (s *service) ChangePasswordNoLogin(ctx context.Context, id, password string) Result[struct{}] {
	if strings.TrimSpace(id) == "" {
		return fail[struct{}]("id is required")
	}
	if err := ValidatePassword(password); err != nil {
		return fail[struct{}](message(err, MsgPasswordChangeFailed))
	}

	resp, err := s.api.ChangePasswordNoLogin(ctx, api.ChangePasswordRequest{ID: id, Password: password})
	if err != nil {
		return fail[struct{}](message(err, MsgPasswordChangeFailed))
	}
	return succeed(struct{}{}, resp.Message)
}

func (s *service) VerifyPasswordLogin(ctx context.Context, password string) Result[api.PasswordLoginResponse] {
	if password == "" {
		return fail[api.PasswordLoginResponse]("password is required")
	}

	resp, err := s.api.VerifyPasswordLogin(ctx, api.PasswordLoginRequest{Password: password})
	if err != nil {
		return fail[api.PasswordLoginResponse](message(err, MsgVerifyFailed))
	}
	return succeed(*resp, "")
}

// EnsureCSRFToken fetches a CSRF token when none is stored. Failures are
// only logged.
func (s *service) EnsureCSRFToken(ctx context.Context) {
	if _, ok := s.store.CSRFToken(ctx); ok {
		return
	}
	if _, err := s.api.FetchCSRFToken(ctx); err != nil {
		s.logger.Warn(ctx, "failed to fetch csrf token", "error", err)
	}
}

// CheckAuth reports whether a user is loaded and the tokens are stored.
func (s *service) CheckAuth(ctx context.Context) bool {
	return s.state.IsAuthenticated() && s.store.HasSession(ctx)
}
