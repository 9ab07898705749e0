package file

import (
	"context"
	"sort"
	"time"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

var _ ports.UserRepository = (*UserRepository)(nil)

// userRecord keeps the password hash, which domain.User never serializes.
type userRecord struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		FullName:     r.FullName,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(_ context.Context, u *domain.User) error {
	return mutate(r.s, fileUsers, func(records []userRecord) ([]userRecord, error) {
		for _, rec := range records {
			if rec.Username == u.Username {
				return nil, domain.ErrUsernameTaken
			}
		}
		u.ID = nextID(records, func(rec userRecord) int64 { return rec.ID })
		return append(records, userRecord{
			ID:           u.ID,
			FullName:     u.FullName,
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
			CreatedAt:    u.CreatedAt.UTC(),
		}), nil
	})
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(rec userRecord) bool { return rec.Username == username })
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	return r.find(func(rec userRecord) bool { return rec.ID == id })
}

func (r *UserRepository) find(match func(userRecord) bool) (*domain.User, error) {
	var found *domain.User
	err := read(r.s, fileUsers, func(records []userRecord) error {
		for _, rec := range records {
			if match(rec) {
				found = rec.toDomain()
				return nil
			}
		}
		return domain.ErrUserNotFound
	})
	return found, err
}

func (r *UserRepository) List(_ context.Context, role string) ([]*domain.User, error) {
	var users []*domain.User
	err := read(r.s, fileUsers, func(records []userRecord) error {
		for _, rec := range records {
			if role == "" || rec.Role == role {
				users = append(users, rec.toDomain())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID > users[j].ID
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}
