// Package store is the persistence gateway. Handlers talk to the Store
// interface; the Mongo implementation backs production and the in-memory one
// backs tests.
package store

import (
	"context"
	"errors"

	"github.com/nevos-health/nevos-api/internal/models"
)

var (
	ErrNotFound       = errors.New("store: not found")
	ErrDuplicateEmail = errors.New("store: email already registered")
)

// Store holds the operations the app issues against the row store. Every
// analysis query is scoped to one user id; there are no cross-operation
// transactions.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserName(ctx context.Context, id, fullName string) error

	InsertAnalysis(ctx context.Context, rec *models.AnalysisRecord) error
	AnalysesByUser(ctx context.Context, userID string) ([]models.AnalysisRecord, error)
	AnalysisByID(ctx context.Context, userID, id string) (*models.AnalysisRecord, error)

	InsertAppointment(ctx context.Context, apt *models.Appointment) error
}
