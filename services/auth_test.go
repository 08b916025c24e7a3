package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moodz-app/moodz_api/dto"
	"github.com/moodz-app/moodz_api/model"
	"github.com/moodz-app/moodz_api/services/repositories"
	"github.com/moodz-app/moodz_api/shared"
)

func newTestAuth(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := &AuthService{
		jwtSvc:           &JWTService{AccessTokenDuration: time.Hour, jwtSecretKey: "test-secret"},
		userRepo:         repositories.NewUserRepository(db),
		notificationRepo: repositories.NewNotificationRepository(db),
	}
	return svc, db
}

func TestRegisterCreatesPatient(t *testing.T) {
	svc, db := newTestAuth(t)

	resp, err := svc.Register(dto.RegisterRequest{
		Email:    "ana@test.local",
		Username: "ana123",
		Password: "Sunshine9",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.UserID)
	assert.Equal(t, "ana@test.local", resp.Email)

	var user model.User
	require.NoError(t, db.First(&user, "id = ?", resp.UserID).Error)
	assert.Equal(t, shared.RolePatient, user.Role)
	assert.Equal(t, shared.UserStatusActive, user.Status)
	assert.NotEqual(t, "Sunshine9", user.Password, "password must be stored hashed")

	var audits int64
	require.NoError(t, db.Model(&model.AuditLog{}).Where("action = ?", "user.register").Count(&audits).Error)
	assert.Equal(t, int64(1), audits)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, _ := newTestAuth(t)

	_, err := svc.Register(dto.RegisterRequest{
		Email:    "ana@test.local",
		Username: "ana123",
		Password: "alllowercase",
	})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newTestAuth(t)

	req := dto.RegisterRequest{Email: "ana@test.local", Username: "ana123", Password: "Sunshine9"}
	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)

	// Same username under a different email is still taken.
	_, err = svc.Register(dto.RegisterRequest{Email: "other@test.local", Username: "ana123", Password: "Sunshine9"})
	require.Error(t, err)
}

func TestLoginFlows(t *testing.T) {
	svc, db := newTestAuth(t)

	_, err := svc.Register(dto.RegisterRequest{Email: "ana@test.local", Username: "ana123", Password: "Sunshine9"})
	require.NoError(t, err)

	resp, err := svc.Login(dto.LoginRequest{EmailOrUsername: "ana@test.local", Password: "Sunshine9"}, "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, shared.RolePatient, resp.Role)

	// Username works as the identifier too.
	_, err = svc.Login(dto.LoginRequest{EmailOrUsername: "ana123", Password: "Sunshine9"}, "10.0.0.1")
	require.NoError(t, err)

	userID, role, err := svc.jwtSvc.VerifyJWTToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, userID)
	assert.Equal(t, shared.RolePatient, role)

	_, err = svc.Login(dto.LoginRequest{EmailOrUsername: "ana@test.local", Password: "WrongPass1"}, "10.0.0.1")
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.StatusCode)

	_, err = svc.Login(dto.LoginRequest{EmailOrUsername: "ghost@test.local", Password: "Sunshine9"}, "10.0.0.1")
	require.Error(t, err)

	require.NoError(t, db.Model(&model.User{}).
		Where("email = ?", "ana@test.local").
		Update("status", shared.UserStatusSuspended).Error)

	_, err = svc.Login(dto.LoginRequest{EmailOrUsername: "ana@test.local", Password: "Sunshine9"}, "10.0.0.1")
	require.Error(t, err)
	appErr, ok = shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode)
}
