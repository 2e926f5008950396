package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/policyinsight/internal/common"
	"github.com/dmitrijs2005/policyinsight/internal/server/auth"
	"github.com/dmitrijs2005/policyinsight/internal/server/config"
	"github.com/dmitrijs2005/policyinsight/internal/server/models"
	"github.com/dmitrijs2005/policyinsight/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:           "k",
		AccessTokenTTL:      time.Hour,
		RefreshTokenTTL:     2 * time.Hour,
		RotateRefreshTokens: true,
	}
}

func newMemoryService(t *testing.T, cfg *config.Config) *UserService {
	t.Helper()
	return NewUserService(nil, repomanager.NewMemoryRepositoryManager(), cfg)
}

func signup(t *testing.T, s *UserService, email, password string) *models.User {
	t.Helper()
	u, err := s.Signup(context.Background(), SignupRequest{Email: email, Password: password, Name: "N", Phone: "010"})
	require.NoError(t, err)
	return u
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newMemoryService(t, testConfig())

	u := signup(t, s, "u@x.com", "Secret#1")
	assert.Equal(t, int64(1), u.ID)

	got, pair, err := s.Login(ctx, "u@x.com", "Secret#1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "N", got.Name)
	require.NotEmpty(t, pair.AccessToken)
	require.Len(t, pair.RefreshToken, 64)

	id, err := s.UserIDFromAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestSignup_Validation(t *testing.T) {
	ctx := context.Background()
	s := newMemoryService(t, testConfig())
	signup(t, s, "u@x.com", "p")

	_, err := s.Signup(ctx, SignupRequest{Email: "a@x.com", Password: "p"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Signup(ctx, SignupRequest{Email: "u@x.com", Password: "p", Name: "Other"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestLogin_BadCredentials(t *testing.T) {
	ctx := context.Background()
	s := newMemoryService(t, testConfig())
	signup(t, s, "u@x.com", "right")

	_, _, err := s.Login(ctx, "u@x.com", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, _, err = s.Login(ctx, "ghost@x.com", "right")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefreshToken_Rotates(t *testing.T) {
	ctx := context.Background()
	s := newMemoryService(t, testConfig())
	signup(t, s, "u@x.com", "p")
	_, first, err := s.Login(ctx, "u@x.com", "p")
	require.NoError(t, err)

	second, err := s.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = s.RefreshToken(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, common.ErrorUnauthorized, "old refresh token is consumed")

	_, err = s.RefreshToken(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshToken_WithoutRotation(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.RotateRefreshTokens = false
	s := newMemoryService(t, cfg)
	signup(t, s, "u@x.com", "p")
	_, first, err := s.Login(ctx, "u@x.com", "p")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		pair, err := s.RefreshToken(ctx, first.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.Empty(t, pair.RefreshToken)
	}
}

func TestRefreshToken_Expired(t *testing.T) {
	ctx := context.Background()
	s := newMemoryService(t, testConfig())
	signup(t, s, "u@x.com", "p")
	_, pair, err := s.Login(ctx, "u@x.com", "p")
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(3 * time.Hour) }

	_, err = s.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)

	s.now = time.Now
	_, err = s.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrorUnauthorized, "expired token is removed")
}

func TestLogout_RevokesRefreshTokens(t *testing.T) {
	ctx := context.Background()
	s := newMemoryService(t, testConfig())
	u := signup(t, s, "u@x.com", "p")
	_, pair, err := s.Login(ctx, "u@x.com", "p")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, u.ID))

	_, err = s.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestFindIDAndResetPassword(t *testing.T) {
	ctx := context.Background()
	s := newMemoryService(t, testConfig())
	signup(t, s, "u@x.com", "old")
	_, pair, err := s.Login(ctx, "u@x.com", "old")
	require.NoError(t, err)

	id, err := s.FindID(ctx, "u@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = s.FindID(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, s.ResetPassword(ctx, id, ""), common.ErrorValidation)
	assert.ErrorIs(t, s.ResetPassword(ctx, 99, "new"), common.ErrorNotFound)
	require.NoError(t, s.ResetPassword(ctx, id, "new"))

	_, _, err = s.Login(ctx, "u@x.com", "old")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, _, err = s.Login(ctx, "u@x.com", "new")
	assert.NoError(t, err)

	_, err = s.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrorUnauthorized, "password reset revokes sessions")
}

func TestVerifyPassword(t *testing.T) {
	ctx := context.Background()
	s := newMemoryService(t, testConfig())
	u := signup(t, s, "u@x.com", "p")

	assert.NoError(t, s.VerifyPassword(ctx, u.ID, "p"))
	assert.ErrorIs(t, s.VerifyPassword(ctx, u.ID, "q"), common.ErrorUnauthorized)
	assert.ErrorIs(t, s.VerifyPassword(ctx, 42, "p"), common.ErrorUnauthorized)
}

func TestProfileUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newMemoryService(t, testConfig())
	u := signup(t, s, "u@x.com", "p")

	img := "me.png"
	upd, err := s.UpdateProfile(ctx, u.ID, models.ProfileUpdate{Image: &img})
	require.NoError(t, err)
	assert.Equal(t, "me.png", upd.Image)
	assert.Equal(t, "010", upd.Phone)

	got, err := s.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "me.png", got.Image)

	require.NoError(t, s.DeleteAccount(ctx, u.ID))
	_, err = s.Profile(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.DeleteAccount(ctx, u.ID), common.ErrorNotFound)
}

func TestRefreshToken_PostgresTransaction(t *testing.T) {
	findQ := `SELECT\s+user_id,\s*expires_at\s+FROM\s+refresh_tokens`
	deleteQ := `DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+token`
	insertQ := `INSERT\s+INTO\s+refresh_tokens`

	t.Run("commits rotation", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(findQ).WithArgs("old").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).AddRow(int64(5), time.Now().Add(time.Hour)))
		mock.ExpectBegin()
		mock.ExpectExec(deleteQ).WithArgs("old").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertQ).WithArgs(int64(5), sqlmock.AnyArg(), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		s := NewUserService(db, repomanager.NewPostgresRepositoryManager(), testConfig())
		pair, err := s.RefreshToken(context.Background(), "old")
		require.NoError(t, err)

		id, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the new token cannot be stored", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(findQ).WithArgs("old").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).AddRow(int64(5), time.Now().Add(time.Hour)))
		mock.ExpectBegin()
		mock.ExpectExec(deleteQ).WithArgs("old").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertQ).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		s := NewUserService(db, repomanager.NewPostgresRepositoryManager(), testConfig())
		_, err = s.RefreshToken(context.Background(), "old")
		assert.ErrorIs(t, err, common.ErrorInternal)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
