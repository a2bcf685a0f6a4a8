package memory

import (
	"context"

	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository implementación en memoria.
type UserRepository struct {
	b backend
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	return r.b.write(func(d *data) error {
		for _, existing := range d.users {
			if existing.Username == u.Username {
				return domain.Conflict("el usuario %q ya existe", u.Username)
			}
		}
		d.nextUser++
		u.ID = d.nextUser
		d.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.b.read(func(d *data) error {
		if u, ok := d.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.b.read(func(d *data) error {
		for _, u := range d.users {
			if u.Username == username {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	return r.b.write(func(d *data) error {
		u, ok := d.users[id]
		if !ok {
			return domain.NotFound("usuario %d no encontrado", id)
		}
		u.PasswordHash = passwordHash
		d.users[id] = u
		return nil
	})
}
