package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jhoicas/Fabrica-api/internal/application/auth"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type userRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func newUseCase() (*auth.AuthUseCase, *userRepo) {
	repo := &userRepo{users: map[string]*entity.User{}}
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "fabrica-test"}), repo
}

func TestRegister_SiempreVendedor(t *testing.T) {
	uc, repo := newUseCase()

	u, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: " Ana@Planta.co ", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, u.Role)
	assert.Equal(t, "ana@planta.co", u.Email)
	assert.Equal(t, "ana@planta.co", u.Name)

	stored := repo.users[u.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreto123", stored.PasswordHash)
}

func TestRegister_Validaciones(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "sin-arroba", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "corto"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "secreto123"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "A@B.CO", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestCreateUser_RolExplicito(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	u, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "bodega@planta.co", Password: "secreto123", Name: "Bodega", Role: entity.RoleAlmacenista})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAlmacenista, u.Role)

	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Email: "x@planta.co", Password: "secreto123", Role: "gerente"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	uc, repo := newUseCase()
	ctx := context.Background()
	u, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "sup@planta.co", Password: "secreto123", Name: "Sup", Role: entity.RoleSupervisor})
	require.NoError(t, err)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "SUP@planta.co", Password: "secreto123"})
	require.NoError(t, err)
	userID, role, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, entity.RoleSupervisor, role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "sup@planta.co", Password: "incorrecto"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@planta.co", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	repo.users[u.ID].Status = "inactive"
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "sup@planta.co", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
