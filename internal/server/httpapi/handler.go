package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/policyinsight/internal/common"
	"github.com/dmitrijs2005/policyinsight/internal/server/models"
	"github.com/dmitrijs2005/policyinsight/internal/server/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID           int64  `json:"id"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	Phone        string `json:"phone"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type findIDRequest struct {
	Email string `json:"email"`
}

type findIDResponse struct {
	ID string `json:"id"`
}

type resetPasswordRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type verifyPasswordRequest struct {
	Password string `json:"password"`
}

type verifyPasswordResponse struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

type userInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Phone string `json:"phone"`
}

type updateUserRequest struct {
	Image *string `json:"image"`
	Phone *string `json:"phone"`
}

type csrfTokenResponse struct {
	Token string `json:"token"`
}

func toUserInfo(u *models.User) userInfo {
	return userInfo{Email: u.Email, Name: u.Name, Image: u.Image, Phone: u.Phone}
}

func (s *Server) CSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.csrf.Issue()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, csrfTokenResponse{Token: token})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, tokens, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.writeError(w, r, http.StatusUnauthorized, "invalid email or password")
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Logged in", "user_id", user.ID)
	s.writeJSON(w, r, http.StatusOK, loginResponse{
		ID:           user.ID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Email:        user.Email,
		Name:         user.Name,
		Image:        user.Image,
		Phone:        user.Phone,
	})
}

func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.users.Signup(r.Context(), services.SignupRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", user.ID)
	s.writeJSON(w, r, http.StatusCreated, messageResponse{Message: "signup complete"})
}

// Refresh takes the refresh token as the bearer credential.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := common.BearerToken(r.Header.Get(common.AuthorizationHeaderName))
	if !ok {
		s.writeError(w, r, http.StatusUnauthorized, "missing token")
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), token)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, refreshResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) FindID(w http.ResponseWriter, r *http.Request) {
	var req findIDRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	id, err := s.users.FindID(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.writeError(w, r, http.StatusNotFound, "no account with that email")
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, findIDResponse{ID: strconv.FormatInt(id, 10)})
}

func (s *Server) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	id, err := strconv.ParseInt(req.ID, 10, 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	if err := s.users.ResetPassword(r.Context(), id, req.Password); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, messageResponse{Message: "password changed"})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), userIDFrom(r.Context())); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, messageResponse{Message: "logged out"})
}

// VerifyPassword answers a wrong password with 400 so that clients do not
// treat it as an expired session.
func (s *Server) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	var req verifyPasswordRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if err := s.users.VerifyPassword(r.Context(), userIDFrom(r.Context()), req.Password); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.writeError(w, r, http.StatusBadRequest, "password does not match")
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, verifyPasswordResponse{
		Title: "password verified",
		Date:  s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Profile(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toUserInfo(user))
}

func (s *Server) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), userIDFrom(r.Context()), models.ProfileUpdate{Image: req.Image, Phone: req.Phone})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toUserInfo(user))
}

func (s *Server) DeleteMe(w http.ResponseWriter, r *http.Request) {
	if err := s.users.DeleteAccount(r.Context(), userIDFrom(r.Context())); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, messageResponse{Message: "account deleted"})
}
