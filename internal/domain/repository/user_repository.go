package repository

import (
	"time"

	"github.com/jhoicas/grocery-ims/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	UpdateLastLogin(id string, at time.Time) error
	List(limit, offset int) ([]*entity.User, int, error)
	Deactivate(id string) error
}
