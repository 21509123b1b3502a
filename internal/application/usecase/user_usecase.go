package usecase

import (
	"time"

	"github.com/jhoicas/grocery-ims/internal/application/auth"
	"github.com/jhoicas/grocery-ims/internal/application/dto"
	"github.com/jhoicas/grocery-ims/internal/domain"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/internal/domain/repository"
)

// UserUseCase administración de usuarios. El alta delega en auth para el
// hash del password; aquí viven lectura, edición y desactivación.
type UserUseCase struct {
	repo repository.UserRepository
}

func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	resp := auth.ToUserResponse(user)
	return &resp, nil
}

// Update actualiza nombre, rol, avatar o estado. El email no es editable.
func (uc *UserUseCase) Update(id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if in.FullName != nil {
		if *in.FullName == "" {
			return nil, domain.ErrInvalidInput
		}
		user.FullName = *in.FullName
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, domain.ErrInvalidInput
		}
		user.Role = *in.Role
	}
	if in.AvatarURL != nil {
		user.AvatarURL = *in.AvatarURL
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(user); err != nil {
		return nil, err
	}
	resp := auth.ToUserResponse(user)
	return &resp, nil
}

// List lista usuarios con paginación.
func (uc *UserUseCase) List(in dto.PageRequest) ([]dto.UserResponse, dto.PageResponse, error) {
	in.DefaultPage()
	users, total, err := uc.repo.List(in.Limit, in.Offset())
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, auth.ToUserResponse(u))
	}
	return out, dto.NewPageResponse(in.Page, in.Limit, total), nil
}

// Deactivate desactiva un usuario; sus sesiones vigentes expiran con el token.
func (uc *UserUseCase) Deactivate(id string) error {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(id)
}
