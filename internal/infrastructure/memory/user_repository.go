package memory

import (
	"context"

	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	acc access
}

func copyUser(u entity.User) *entity.User {
	u.FullName = cloneString(u.FullName)
	u.Email = cloneString(u.Email)
	return &u
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.acc(true, func(st *state) error {
		for _, u := range st.users {
			if u.Username == user.Username {
				return domain.ErrAlreadyExists
			}
			if user.Email != nil && u.Email != nil && *u.Email == *user.Email {
				return domain.ErrAlreadyExists
			}
		}
		st.seq.user++
		user.ID = st.seq.user
		st.users[user.ID] = *copyUser(*user)
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.acc(false, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = copyUser(u)
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.acc(false, func(st *state) error {
		for _, u := range st.users {
			if u.Username == username {
				out = copyUser(u)
				return nil
			}
		}
		return nil
	})
	return out, err
}
