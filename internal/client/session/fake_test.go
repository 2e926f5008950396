package session

import (
	"context"

	"github.com/dmitrijs2005/policyinsight/internal/client/api"
	"github.com/dmitrijs2005/policyinsight/internal/client/tokenstore"
)

// fakeAPI records calls and returns preset results. When store is set,
// Login, Logout and FetchCSRFToken update it the way *api.Client does.
type fakeAPI struct {
	store *tokenstore.Store
	calls []string

	loginResp *api.LoginResponse
	loginErr  error

	logoutErr error

	signupResp *api.MessageResponse
	signupErr  error

	findResp *api.FindIDResponse
	findErr  error

	changeResp *api.MessageResponse
	changeErr  error

	verifyResp *api.PasswordLoginResponse
	verifyErr  error

	infoResp *api.UserInfo
	infoErr  error

	updateReq  api.UpdateUserRequest
	updateResp *api.UserInfo
	updateErr  error

	deleteResp *api.MessageResponse
	deleteErr  error

	csrfToken string
	csrfErr   error
}

func (f *fakeAPI) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	f.calls = append(f.calls, "login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if f.store != nil {
		_ = f.store.SetTokens(ctx, f.loginResp.AccessToken, f.loginResp.RefreshToken)
	}
	return f.loginResp, nil
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	return f.logoutErr
}

func (f *fakeAPI) Signup(ctx context.Context, req api.SignupRequest) (*api.MessageResponse, error) {
	f.calls = append(f.calls, "signup")
	return f.signupResp, f.signupErr
}

func (f *fakeAPI) FindID(ctx context.Context, req api.FindIDRequest) (*api.FindIDResponse, error) {
	f.calls = append(f.calls, "findID")
	return f.findResp, f.findErr
}

func (f *fakeAPI) ChangePasswordNoLogin(ctx context.Context, req api.ChangePasswordRequest) (*api.MessageResponse, error) {
	f.calls = append(f.calls, "changePassword")
	return f.changeResp, f.changeErr
}

func (f *fakeAPI) VerifyPasswordLogin(ctx context.Context, req api.PasswordLoginRequest) (*api.PasswordLoginResponse, error) {
	f.calls = append(f.calls, "verify")
	return f.verifyResp, f.verifyErr
}

func (f *fakeAPI) GetUserInfo(ctx context.Context) (*api.UserInfo, error) {
	f.calls = append(f.calls, "getUserInfo")
	return f.infoResp, f.infoErr
}

func (f *fakeAPI) UpdateUserInfo(ctx context.Context, req api.UpdateUserRequest) (*api.UserInfo, error) {
	f.calls = append(f.calls, "updateUserInfo")
	f.updateReq = req
	return f.updateResp, f.updateErr
}

func (f *fakeAPI) DeleteAccount(ctx context.Context) (*api.MessageResponse, error) {
	f.calls = append(f.calls, "deleteAccount")
	return f.deleteResp, f.deleteErr
}

func (f *fakeAPI) FetchCSRFToken(ctx context.Context) (string, error) {
	f.calls = append(f.calls, "csrf")
	if f.csrfErr != nil {
		return "", f.csrfErr
	}
	if f.store != nil {
		_ = f.store.SetCSRFToken(ctx, f.csrfToken)
	}
	return f.csrfToken, nil
}
