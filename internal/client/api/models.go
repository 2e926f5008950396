package api

import "encoding/json"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the tokens and the profile. ID is numeric on the
// wire; json.Number also accepts a quoted number.
type LoginResponse struct {
	ID           json.Number `json:"id"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Image        string      `json:"image"`
	Phone        string      `json:"phone"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// RefreshResponse has an empty RefreshToken when the server does not rotate.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type FindIDRequest struct {
	Email string `json:"email"`
}

type FindIDResponse struct {
	ID string `json:"id"`
}

type ChangePasswordRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type PasswordLoginRequest struct {
	Password string `json:"password"`
}

type PasswordLoginResponse struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

type UserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Phone string `json:"phone"`
}

// UpdateUserRequest is a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	Image *string `json:"image,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

type CSRFTokenResponse struct {
	Token string `json:"token"`
}
