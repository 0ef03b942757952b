package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nevos-health/nevos-api/internal/models"
)

// MemoryStore is an in-memory Store used by tests. It mirrors the Mongo
// implementation's behavior: unique emails, user-scoped analysis queries,
// newest-first ordering.
type MemoryStore struct {
	mu           sync.RWMutex
	users        map[string]models.User // id hex -> user
	analyses     []models.AnalysisRecord
	appointments []models.Appointment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]models.User)}
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID.Hex()] = *user
	return nil
}

func (s *MemoryStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user := u
	return &user, nil
}

func (s *MemoryStore) UpdateUserName(ctx context.Context, id, fullName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.FullName = fullName
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return nil
}

func (s *MemoryStore) InsertAnalysis(ctx context.Context, rec *models.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.analyses = append(s.analyses, *rec)
	return nil
}

func (s *MemoryStore) AnalysesByUser(ctx context.Context, userID string) ([]models.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.AnalysisRecord, 0)
	for _, rec := range s.analyses {
		if rec.UserID.Hex() == userID {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (s *MemoryStore) AnalysisByID(ctx context.Context, userID, id string) (*models.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.analyses {
		if rec.ID.Hex() == id && rec.UserID.Hex() == userID {
			found := rec
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) InsertAppointment(ctx context.Context, apt *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if apt.ID.IsZero() {
		apt.ID = primitive.NewObjectID()
	}
	if apt.CreatedAt.IsZero() {
		apt.CreatedAt = time.Now().UTC()
	}
	s.appointments = append(s.appointments, *apt)
	return nil
}

// Appointments returns a copy of the stored appointments, for assertions.
func (s *MemoryStore) Appointments() []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out
}
