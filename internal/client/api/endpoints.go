package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/policyinsight/internal/common"
)

func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T

	resp, err := c.Do(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return out, err
	}

	if err := resp.Decode(&out); err != nil {
		return out, &Error{Status: resp.Status, Kind: KindServer, Err: fmt.Errorf("%w: %w", ErrServer, err)}
	}
	return out, nil
}

// Login authenticates and stores the returned tokens.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	resp, err := call[LoginResponse](ctx, c, http.MethodPost, common.PathLogin, req)
	if err != nil {
		return nil, err
	}

	if err := c.store.SetTokens(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout notifies the server and then clears the store whatever the outcome.
// The returned error is the server call's.
func (c *Client) Logout(ctx context.Context) error {
	_, err := call[MessageResponse](ctx, c, http.MethodPost, common.PathLogout, nil)
	if err != nil {
		c.logger.Warn(ctx, "server logout failed", "error", err)
	}

	if clearErr := c.store.ClearAll(ctx); clearErr != nil {
		c.logger.Error(ctx, "failed to clear credentials", "error", clearErr)
	}
	return err
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (*MessageResponse, error) {
	resp, err := call[MessageResponse](ctx, c, http.MethodPost, common.PathSignup, req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) FindID(ctx context.Context, req FindIDRequest) (*FindIDResponse, error) {
	resp, err := call[FindIDResponse](ctx, c, http.MethodPost, common.PathFindID, req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ChangePasswordNoLogin(ctx context.Context, req ChangePasswordRequest) (*MessageResponse, error) {
	resp, err := call[MessageResponse](ctx, c, http.MethodPut, common.PathPasswordNoLogin, req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) VerifyPasswordLogin(ctx context.Context, req PasswordLoginRequest) (*PasswordLoginResponse, error) {
	resp, err := call[PasswordLoginResponse](ctx, c, http.MethodPut, common.PathPasswordLogin, req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetUserInfo(ctx context.Context) (*UserInfo, error) {
	resp, err := call[UserInfo](ctx, c, http.MethodGet, common.PathUserMe, nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateUserInfo(ctx context.Context, req UpdateUserRequest) (*UserInfo, error) {
	resp, err := call[UserInfo](ctx, c, http.MethodPut, common.PathUserMe, req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteAccount deletes the current user and clears the store on success.
func (c *Client) DeleteAccount(ctx context.Context) (*MessageResponse, error) {
	resp, err := call[MessageResponse](ctx, c, http.MethodDelete, common.PathUserMe, nil)
	if err != nil {
		return nil, err
	}

	if err := c.store.ClearAll(ctx); err != nil {
		c.logger.Error(ctx, "failed to clear credentials", "error", err)
	}
	return &resp, nil
}

// FetchCSRFToken asks the server for a new CSRF token and stores it.
func (c *Client) FetchCSRFToken(ctx context.Context) (string, error) {
	resp, err := call[CSRFTokenResponse](ctx, c, http.MethodGet, common.PathCSRFToken, nil)
	if err != nil {
		return "", err
	}

	if err := c.store.SetCSRFToken(ctx, resp.Token); err != nil {
		return "", err
	}
	return resp.Token, nil
}
