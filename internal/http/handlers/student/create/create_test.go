package create

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

func (m *MockService) Create(ctx context.Context, req models.DummyStudent) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	valid := models.DummyStudent{
		Unit: "Centro",
		Name: "Ana Souza",
		CPF:  "12345678901",
	}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное создание",
			body: `{"unit":"Centro","name":"Ana Souza","cpf":"12345678901"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, valid).Return(int64(7), nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"status":"OK","data":{"id":7}}`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"unit":`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "нет имени",
			body:           `{"unit":"Centro","cpf":"12345678901"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Name is a required field"}`,
		},
		{
			name:           "некорректный email",
			body:           `{"unit":"Centro","name":"Ana","cpf":"12345678901","email":"nope"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Email must be a valid email"}`,
		},
		{
			name: "CPF уже существует",
			body: `{"unit":"Centro","name":"Ana Souza","cpf":"12345678901"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, valid).Return(int64(0), models.ErrDuplicateCPF).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"` + models.ErrDuplicateCPF.Error() + `"}`,
		},
		{
			name: "некорректная дата рождения",
			body: `{"unit":"Centro","name":"Ana Souza","cpf":"12345678901","birth_date":"31/12/1990"}`,
			setupMock: func(m *MockService) {
				req := valid
				req.BirthDate = "31/12/1990"
				m.On("Create", mock.Anything, req).Return(int64(0), models.ErrInvalidDate).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"` + models.ErrInvalidDate.Error() + `"}`,
		},
		{
			name: "ошибка хранилища",
			body: `{"unit":"Centro","name":"Ana Souza","cpf":"12345678901"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, valid).Return(int64(0), errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			handler := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/students", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
