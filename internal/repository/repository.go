// Package repository persists the full dataset, either as a local snapshot
// file or as one remote document per signed-in user.
package repository

import (
	"context"
	"errors"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
)

var (
	// ErrNoData is returned by remote loads when the user has no document yet
	ErrNoData = errors.New("no data stored for user")
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key is already taken
	ErrDuplicate = errors.New("already exists")
)

// Repository stores and retrieves a whole dataset
type Repository interface {
	Save(ctx context.Context, data *models.AppData) error
	Load(ctx context.Context) (*models.AppData, error)
}

// RemoteStore keeps one dataset document per authenticated user
type RemoteStore interface {
	Save(ctx context.Context, userID string, data *models.AppData) error
	Load(ctx context.Context, userID string) (*models.AppData, error)
	Delete(ctx context.Context, userID string) error
}

// DocumentKey returns the remote document path for a user
func DocumentKey(userID string) string {
	return "users/" + userID
}

// ForUser binds a remote store to one user so it can act as a Repository
func ForUser(remote RemoteStore, userID string) Repository {
	return &userRepository{remote: remote, userID: userID}
}

type userRepository struct {
	remote RemoteStore
	userID string
}

func (r *userRepository) Save(ctx context.Context, data *models.AppData) error {
	return r.remote.Save(ctx, r.userID, data)
}

func (r *userRepository) Load(ctx context.Context) (*models.AppData, error) {
	return r.remote.Load(ctx, r.userID)
}

// Mirrored saves to primary first and then to mirror, and loads from primary.
// A failed primary save still reaches the mirror.
func Mirrored(primary, mirror Repository) Repository {
	return &mirrored{primary: primary, mirror: mirror}
}

type mirrored struct {
	primary Repository
	mirror  Repository
}

func (m *mirrored) Save(ctx context.Context, data *models.AppData) error {
	return errors.Join(m.primary.Save(ctx, data), m.mirror.Save(ctx, data))
}

func (m *mirrored) Load(ctx context.Context) (*models.AppData, error) {
	return m.primary.Load(ctx)
}
