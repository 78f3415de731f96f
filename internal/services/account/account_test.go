package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/gym-membership/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-membership/internal/lib/password"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	"github.com/magabrotheeeer/gym-membership/internal/services/account"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, u models.User) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) ListUsers(ctx context.Context, role string) ([]*models.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdatePassword(ctx context.Context, username, passwordHash string) (int, error) {
	args := m.Called(ctx, username, passwordHash)
	return args.Int(0), args.Error(1)
}

func (m *UserRepoMock) RemoveUser(ctx context.Context, username string) (int, error) {
	args := m.Called(ctx, username)
	return args.Int(0), args.Error(1)
}

type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(username, role, userUID string) (string, error) {
	args := m.Called(username, role, userUID)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func newService(r *UserRepoMock, j *JwtMakerMock) *account.Service {
	return account.New(r, j, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("correct-horse")
	require.NoError(t, err)
	user := &models.User{UID: "uid-1", Username: "reception", PasswordHash: hash, Role: models.RoleAdmin}

	tests := []struct {
		name       string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantErr    error
	}{
		{
			name:     "success",
			password: "correct-horse",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "reception").Return(user, nil).Once()
				j.On("GenerateToken", "reception", models.RoleAdmin, "uid-1").Return("signed", nil).Once()
			},
			wantToken: "signed",
		},
		{
			name:     "wrong password",
			password: "wrong-horse",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "reception").Return(user, nil).Once()
			},
			wantErr: models.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			password: "correct-horse",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "reception").Return(nil, models.ErrNotFound).Once()
			},
			wantErr: models.ErrInvalidCredentials,
		},
		{
			name:     "token error",
			password: "correct-horse",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "reception").Return(user, nil).Once()
				j.On("GenerateToken", "reception", models.RoleAdmin, "uid-1").Return("", errors.New("sign failed")).Once()
			},
			wantErr: errors.New("sign failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := new(UserRepoMock)
			j := new(JwtMakerMock)
			tt.setupMocks(r, j)

			token, got, err := newService(r, j).Login(context.Background(), "reception", tt.password)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, models.ErrInvalidCredentials) {
					assert.ErrorIs(t, err, models.ErrInvalidCredentials)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, user, got)
			r.AssertExpectations(t)
			j.AssertExpectations(t)
		})
	}
}

func TestService_Create(t *testing.T) {
	t.Run("success hashes password and assigns uid", func(t *testing.T) {
		r := new(UserRepoMock)
		r.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			_, uidErr := uuid.Parse(u.UID)
			return uidErr == nil &&
				u.Username == "coach" &&
				u.Role == models.RoleUser &&
				password.CompareHash(u.PasswordHash, "long-enough") == nil
		})).Return("new-uid", nil).Once()

		uid, err := newService(r, new(JwtMakerMock)).Create(context.Background(), "coach", "long-enough", models.RoleUser)
		require.NoError(t, err)
		assert.Equal(t, "new-uid", uid)
		r.AssertExpectations(t)
	})

	t.Run("unknown role", func(t *testing.T) {
		r := new(UserRepoMock)
		_, err := newService(r, new(JwtMakerMock)).Create(context.Background(), "coach", "long-enough", "owner")
		assert.ErrorIs(t, err, models.ErrUnknownRole)
		r.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("short password", func(t *testing.T) {
		r := new(UserRepoMock)
		_, err := newService(r, new(JwtMakerMock)).Create(context.Background(), "coach", "short", models.RoleUser)
		assert.ErrorIs(t, err, password.ErrTooShort)
	})

	t.Run("duplicate", func(t *testing.T) {
		r := new(UserRepoMock)
		r.On("CreateUser", mock.Anything, mock.Anything).Return("", models.ErrUserExists).Once()
		_, err := newService(r, new(JwtMakerMock)).Create(context.Background(), "coach", "long-enough", models.RoleUser)
		assert.ErrorIs(t, err, models.ErrUserExists)
	})
}

func TestService_List(t *testing.T) {
	r := new(UserRepoMock)
	users := []*models.User{{Username: "a"}, {Username: "b"}}
	r.On("ListUsers", mock.Anything, "").Return(users, nil).Once()

	svc := newService(r, new(JwtMakerMock))
	got, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, users, got)

	_, err = svc.List(context.Background(), "owner")
	assert.ErrorIs(t, err, models.ErrUnknownRole)
}

func TestService_UpdatePassword(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		r := new(UserRepoMock)
		r.On("UpdatePassword", mock.Anything, "coach", mock.MatchedBy(func(h string) bool {
			return password.CompareHash(h, "new-password") == nil
		})).Return(1, nil).Once()

		err := newService(r, new(JwtMakerMock)).UpdatePassword(context.Background(), "coach", "new-password")
		require.NoError(t, err)
		r.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		r := new(UserRepoMock)
		r.On("UpdatePassword", mock.Anything, "ghost", mock.Anything).Return(0, nil).Once()

		err := newService(r, new(JwtMakerMock)).UpdatePassword(context.Background(), "ghost", "new-password")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestService_Remove(t *testing.T) {
	r := new(UserRepoMock)
	r.On("RemoveUser", mock.Anything, "coach").Return(1, nil).Once()
	r.On("RemoveUser", mock.Anything, "ghost").Return(0, nil).Once()

	svc := newService(r, new(JwtMakerMock))
	assert.NoError(t, svc.Remove(context.Background(), "coach"))
	assert.ErrorIs(t, svc.Remove(context.Background(), "ghost"), models.ErrNotFound)
}
