package accountcreate

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, username, password, role string) (string, error) {
	args := m.Called(ctx, username, password, role)
	return args.String(0), args.Error(1)
}

func TestAccountCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "создание администратора",
			body: `{"username":"gerente","password":"s3cret-pass","role":"admin"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "gerente", "s3cret-pass", "admin").Return("uid-1", nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"status":"OK","data":{"uid":"uid-1","username":"gerente","role":"admin"}}`,
		},
		{
			name:           "некорректный JSON",
			body:           `{`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "неизвестная роль",
			body:           `{"username":"gerente","password":"s3cret-pass","role":"root"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Role must be one of: admin user"}`,
		},
		{
			name:           "короткий пароль",
			body:           `{"username":"gerente","password":"short","role":"user"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Password must be at least 8 characters"}`,
		},
		{
			name: "имя занято",
			body: `{"username":"gerente","password":"s3cret-pass","role":"user"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "gerente", "s3cret-pass", "user").Return("", models.ErrUserExists).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"user already exists"}`,
		},
		{
			name: "ошибка сервиса",
			body: `{"username":"gerente","password":"s3cret-pass","role":"user"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "gerente", "s3cret-pass", "user").Return("", errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
