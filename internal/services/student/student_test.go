package student

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-membership/internal/cache"
	"github.com/magabrotheeeer/gym-membership/internal/config"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateStudent(ctx context.Context, st models.Student) (int64, error) {
	args := m.Called(ctx, st)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) ReadStudent(ctx context.Context, id int64) (*models.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *RepoMock) UpdateStudent(ctx context.Context, id int64, st models.Student) (int, error) {
	args := m.Called(ctx, id, st)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) RemoveStudent(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListStudents(ctx context.Context, limit, offset int) ([]*models.Student, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Student), args.Error(1)
}

func (m *RepoMock) SearchStudents(ctx context.Context, field models.StudentSearchField, value string) ([]*models.Student, error) {
	args := m.Called(ctx, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Student), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func validRequest() models.DummyStudent {
	return models.DummyStudent{
		Unit:      "Centro",
		Name:      " Maria Silva ",
		CPF:       "12345678901",
		BirthDate: "1995-03-10",
		Email:     "maria@example.com",
	}
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		req        models.DummyStudent
		setupMocks func(r *RepoMock, c *CacheMock)
		wantID     int64
		wantErr    error
	}{
		{
			name: "success",
			req:  validRequest(),
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateStudent", mock.Anything, mock.MatchedBy(func(st models.Student) bool {
					return st.Name == "Maria Silva" && st.BirthDate != nil &&
						st.BirthDate.Equal(time.Date(1995, 3, 10, 0, 0, 0, 0, time.UTC))
				})).Return(int64(42), nil).Once()
				c.On("Set", mock.Anything, "student:42", mock.Anything, cache.StudentTTL).Return(nil).Once()
			},
			wantID: 42,
		},
		{
			name: "cache failure does not fail create",
			req:  validRequest(),
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateStudent", mock.Anything, mock.Anything).Return(int64(7), nil).Once()
				c.On("Set", mock.Anything, "student:7", mock.Anything, cache.StudentTTL).
					Return(errors.New("redis down")).Once()
			},
			wantID: 7,
		},
		{
			name: "duplicate cpf",
			req:  validRequest(),
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("CreateStudent", mock.Anything, mock.Anything).
					Return(int64(0), models.ErrDuplicateCPF).Once()
			},
			wantErr: models.ErrDuplicateCPF,
		},
		{
			name: "bad birth date",
			req: func() models.DummyStudent {
				r := validRequest()
				r.BirthDate = "10/03/1995"
				return r
			}(),
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			wantErr:    models.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			c := new(CacheMock)
			tt.setupMocks(repo, c)

			svc := New(repo, c, newNoopLogger())
			id, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			repo.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestService_Read(t *testing.T) {
	stored := &models.Student{ID: 5, Name: "Bruno", CPF: "22222222222", Unit: "Norte"}

	t.Run("cache hit", func(t *testing.T) {
		repo := new(RepoMock)
		c := new(CacheMock)
		c.On("Get", mock.Anything, "student:5", mock.Anything).Run(func(args mock.Arguments) {
			dst := args.Get(2).(*models.Student)
			*dst = *stored
		}).Return(true, nil).Once()

		got, err := New(repo, c, newNoopLogger()).Read(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, stored, got)
		repo.AssertNotCalled(t, "ReadStudent", mock.Anything, mock.Anything)
	})

	t.Run("cache miss reads repository and fills cache", func(t *testing.T) {
		repo := new(RepoMock)
		c := new(CacheMock)
		c.On("Get", mock.Anything, "student:5", mock.Anything).Return(false, nil).Once()
		repo.On("ReadStudent", mock.Anything, int64(5)).Return(stored, nil).Once()
		c.On("Set", mock.Anything, "student:5", stored, cache.StudentTTL).Return(nil).Once()

		got, err := New(repo, c, newNoopLogger()).Read(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, stored, got)
		repo.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("cache error falls back to repository", func(t *testing.T) {
		repo := new(RepoMock)
		c := new(CacheMock)
		c.On("Get", mock.Anything, "student:5", mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("ReadStudent", mock.Anything, int64(5)).Return(stored, nil).Once()
		c.On("Set", mock.Anything, "student:5", stored, cache.StudentTTL).Return(nil).Once()

		got, err := New(repo, c, newNoopLogger()).Read(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(RepoMock)
		c := new(CacheMock)
		c.On("Get", mock.Anything, "student:9", mock.Anything).Return(false, nil).Once()
		repo.On("ReadStudent", mock.Anything, int64(9)).Return(nil, models.ErrNotFound).Once()

		_, err := New(repo, c, newNoopLogger()).Read(context.Background(), 9)
		assert.ErrorIs(t, err, models.ErrNotFound)
		c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Update(t *testing.T) {
	t.Run("success refreshes cache", func(t *testing.T) {
		repo := new(RepoMock)
		c := new(CacheMock)
		repo.On("UpdateStudent", mock.Anything, int64(3), mock.Anything).Return(1, nil).Once()
		c.On("Set", mock.Anything, "student:3", mock.MatchedBy(func(st *models.Student) bool {
			return st.ID == 3 && st.Name == "Maria Silva"
		}), cache.StudentTTL).Return(nil).Once()

		err := New(repo, c, newNoopLogger()).Update(context.Background(), 3, validRequest())
		require.NoError(t, err)
		c.AssertExpectations(t)
	})

	t.Run("missing student", func(t *testing.T) {
		repo := new(RepoMock)
		c := new(CacheMock)
		repo.On("UpdateStudent", mock.Anything, int64(3), mock.Anything).Return(0, nil).Once()

		err := New(repo, c, newNoopLogger()).Update(context.Background(), 3, validRequest())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestService_Remove(t *testing.T) {
	tests := []struct {
		name     string
		affected int
		repoErr  error
		wantErr  error
	}{
		{name: "removed", affected: 1},
		{name: "missing", affected: 0, wantErr: models.ErrNotFound},
		{name: "db error", repoErr: errors.New("db down"), wantErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			c := new(CacheMock)
			if tt.repoErr == nil {
				c.On("Invalidate", mock.Anything, "student:4").Return(nil).Once()
			}
			repo.On("RemoveStudent", mock.Anything, int64(4)).Return(tt.affected, tt.repoErr).Once()

			err := New(repo, c, newNoopLogger()).Remove(context.Background(), 4)
			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
			case errors.Is(tt.wantErr, models.ErrNotFound):
				assert.ErrorIs(t, err, models.ErrNotFound)
			default:
				assert.ErrorContains(t, err, tt.wantErr.Error())
			}
			c.AssertExpectations(t)
		})
	}
}

func TestService_Remove_ReadDuringDeleteDoesNotResurrect(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisCache, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisCache.Close() })

	ctx := context.Background()
	repo := new(RepoMock)
	svc := New(repo, redisCache, newNoopLogger())

	ana := &models.Student{ID: 7, Unit: "Centro", Name: "Ana", CPF: "12345678901"}
	repo.On("ReadStudent", mock.Anything, int64(7)).Return(ana, nil).Once()
	repo.On("RemoveStudent", mock.Anything, int64(7)).
		Run(func(mock.Arguments) {
			// параллельное чтение во время удаления
			_, readErr := svc.Read(ctx, 7)
			require.NoError(t, readErr)
		}).
		Return(1, nil).Once()
	repo.On("ReadStudent", mock.Anything, int64(7)).Return(nil, models.ErrNotFound).Once()

	require.NoError(t, svc.Remove(ctx, 7))

	st, err := svc.Read(ctx, 7)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, st)
	assert.False(t, mr.Exists(cache.StudentKey(7)))
	repo.AssertExpectations(t)
}

func TestService_Search(t *testing.T) {
	repo := new(RepoMock)
	c := new(CacheMock)
	found := []*models.Student{{ID: 1, Name: "Maria"}}
	repo.On("SearchStudents", mock.Anything, models.SearchByName, "maria").Return(found, nil).Once()

	svc := New(repo, c, newNoopLogger())
	got, err := svc.Search(context.Background(), "name", " maria ")
	require.NoError(t, err)
	assert.Equal(t, found, got)

	_, err = svc.Search(context.Background(), "email", "x")
	assert.ErrorIs(t, err, models.ErrUnknownSearchField)
}

func TestService_List(t *testing.T) {
	repo := new(RepoMock)
	c := new(CacheMock)
	page := []*models.Student{{ID: 1}, {ID: 2}}
	repo.On("ListStudents", mock.Anything, 10, 20).Return(page, nil).Once()

	got, err := New(repo, c, newNoopLogger()).List(context.Background(), 10, 20)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
