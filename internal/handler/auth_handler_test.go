package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogapi/internal/auth"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/service"
	"blogapi/internal/validation"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, in service.SignUpInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, in service.SignInInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	args := m.Called(ctx, userID, refreshToken)
	return args.Error(0)
}

func TestAuthHandler_SignIn(t *testing.T) {
	validBody := `{"email":" ada@example.com ","password":"Passw0rd!"}`

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockAuthService)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success",
			body: validBody,
			setupMock: func(m *MockAuthService) {
				m.On("SignIn", mock.Anything, service.SignInInput{Email: "ada@example.com", Password: "Passw0rd!"}).
					Return(&service.AuthResult{User: &model.User{Email: "ada@example.com"}, Token: auth.TokenPair{AccessToken: "a", RefreshToken: "r"}}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "wrong password",
			body: validBody,
			setupMock: func(m *MockAuthService) {
				m.On("SignIn", mock.Anything, mock.Anything).Return(nil, apperrors.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "Email or password is incorrect",
		},
		{
			name: "store failure still reported as 403",
			body: validBody,
			setupMock: func(m *MockAuthService) {
				m.On("SignIn", mock.Anything, mock.Anything).Return(nil, errors.New("find user: timeout"))
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "find user: timeout",
		},
		{
			name:           "invalid email",
			body:           `{"email":"nope","password":"Passw0rd!"}`,
			setupMock:      func(m *MockAuthService) {},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "Invalid email address",
		},
		{
			name:           "weak password",
			body:           `{"email":"ada@example.com","password":"abc"}`,
			setupMock:      func(m *MockAuthService) {},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    validation.StrongPasswordMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			tt.setupMock(svc)
			h := NewAuthHandler(svc)

			c, rec := newContext(http.MethodPost, "/signin", tt.body)
			err := h.SignIn(c)

			if tt.expectedMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedStatus, rec.Code)
			} else {
				var httpErr *apperrors.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.expectedStatus, httpErr.StatusCode)
				assert.Equal(t, tt.expectedMsg, httpErr.Message)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_SignUp_ValidationFailsWith500(t *testing.T) {
	svc := new(MockAuthService)
	h := NewAuthHandler(svc)

	c, _ := newContext(http.MethodPost, "/signup", `{"email":"ada@example.com","password":"Passw0rd!"}`)
	err := h.SignUp(c)

	var httpErr *apperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "Name is required", httpErr.Message)
	svc.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestAuthHandler_SignOut(t *testing.T) {
	svc := new(MockAuthService)
	userID := uuid.New()
	svc.On("SignOut", mock.Anything, userID, "refresh").Return(nil)
	h := NewAuthHandler(svc)

	c, rec := newContext(http.MethodPost, "/signout", "")
	setIdentity(c, userID)

	require.NoError(t, h.SignOut(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Signed out"`, rec.Body.String())
}
