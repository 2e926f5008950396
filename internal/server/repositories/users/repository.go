// Package users declares the account repository of the development server
// and its PostgreSQL and in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/policyinsight/internal/server/models"
)

// Repository stores accounts. Lookups of absent users return
// common.ErrorNotFound; a duplicate email on Create returns
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, hash []byte) error
	Delete(ctx context.Context, id int64) error
}
