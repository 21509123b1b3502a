package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-ims/internal/application/auth"
	"github.com/jhoicas/grocery-ims/internal/application/dto"
	"github.com/jhoicas/grocery-ims/internal/domain"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
	"github.com/jhoicas/grocery-ims/pkg/jwt"
)

type fakeUserRepo struct {
	byEmail    map[string]*entity.User
	lastLogins map[string]time.Time
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:    make(map[string]*entity.User),
		lastLogins: make(map[string]time.Time),
	}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) Update(u *entity.User) error { r.byEmail[u.Email] = u; return nil }

func (r *fakeUserRepo) UpdateLastLogin(id string, at time.Time) error {
	r.lastLogins[id] = at
	return nil
}

func (r *fakeUserRepo) List(int, int) ([]*entity.User, int, error) { return nil, 0, nil }
func (r *fakeUserRepo) Deactivate(string) error                    { return nil }

func testCfg() auth.JWTConfig {
	return auth.JWTConfig{Secret: "secreto-de-test", ExpMinutes: 60, Issuer: "grocery-ims"}
}

func TestRegisterYLogin_FlujoCompleto(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewUseCase(repo, testCfg())

	created, err := uc.Register(dto.CreateUserRequest{
		Email:    "Ana@Tienda.com",
		FullName: "Ana Pérez",
		Password: "contraseña-larga",
		Role:     entity.RoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@tienda.com", created.Email, "el email se normaliza a minúsculas")
	assert.Equal(t, entity.RoleManager, created.Role)
	assert.True(t, created.IsActive)

	resp, err := uc.Login(dto.LoginRequest{Email: "ana@tienda.com", Password: "contraseña-larga"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	userID, role, err := jwt.Parse("secreto-de-test", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
	assert.Equal(t, entity.RoleManager, role)

	_, ok := repo.lastLogins[created.ID]
	assert.True(t, ok, "login actualiza last_login")
}

func TestRegister_EmailDuplicado(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewUseCase(repo, testCfg())

	_, err := uc.Register(dto.CreateUserRequest{Email: "ana@tienda.com", Password: "contraseña-larga"})
	require.NoError(t, err)

	_, err = uc.Register(dto.CreateUserRequest{Email: "ANA@tienda.com", Password: "otra-contraseña"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_Validaciones(t *testing.T) {
	uc := auth.NewUseCase(newFakeUserRepo(), testCfg())

	_, err := uc.Register(dto.CreateUserRequest{Email: "sin-arroba", Password: "contraseña-larga"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Register(dto.CreateUserRequest{Email: "ana@tienda.com", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "password mínimo 8 caracteres")

	_, err = uc.Register(dto.CreateUserRequest{Email: "ana@tienda.com", Password: "contraseña-larga", Role: "gerente-general"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "rol desconocido")
}

func TestRegister_RolPorDefectoEsStaff(t *testing.T) {
	uc := auth.NewUseCase(newFakeUserRepo(), testCfg())

	created, err := uc.Register(dto.CreateUserRequest{Email: "ana@tienda.com", Password: "contraseña-larga"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStaff, created.Role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewUseCase(repo, testCfg())

	_, err := uc.Register(dto.CreateUserRequest{Email: "ana@tienda.com", Password: "contraseña-larga"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@tienda.com", Password: "incorrecto"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc := auth.NewUseCase(newFakeUserRepo(), testCfg())

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@tienda.com", Password: "lo-que-sea"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// Un usuario desactivado no entra aunque el password sea correcto.
func TestLogin_UsuarioInactivo(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewUseCase(repo, testCfg())

	created, err := uc.Register(dto.CreateUserRequest{Email: "ana@tienda.com", Password: "contraseña-larga"})
	require.NoError(t, err)

	repo.byEmail[created.Email].IsActive = false

	_, err = uc.Login(dto.LoginRequest{Email: "ana@tienda.com", Password: "contraseña-larga"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
