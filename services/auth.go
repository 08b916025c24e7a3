package services

import (
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/moodz-app/moodz_api/dto"
	"github.com/moodz-app/moodz_api/model"
	"github.com/moodz-app/moodz_api/services/repositories"
	"github.com/moodz-app/moodz_api/shared"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	context.DefaultService

	dbSvc  *PostgresService
	jwtSvc *JWTService

	userRepo         *repositories.UserRepository
	notificationRepo *repositories.NotificationRepository
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.dbSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)

	svc.userRepo = repositories.NewUserRepository(svc.dbSvc.Db())
	svc.notificationRepo = repositories.NewNotificationRepository(svc.dbSvc.Db())
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := dto.GetValidator().Struct(req); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed")
	}

	existing, err := svc.userRepo.GetByEmailOrUsername(req.Email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing, err = svc.userRepo.GetByEmailOrUsername(req.Username)
		if err != nil {
			return nil, err
		}
	}
	if existing != nil {
		return nil, shared.NewConflictError(nil, "Email or username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     req.Email,
		Username:  req.Username,
		Password:  string(hashed),
		Role:      shared.RolePatient,
		Status:    shared.UserStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := svc.userRepo.Create(user); err != nil {
		return nil, err
	}

	svc.audit(user.ID, "user.register", "")

	return &dto.RegisterResponse{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest, clientIP string) (*dto.LoginResponse, error) {
	if err := dto.GetValidator().Struct(req); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed")
	}

	user, err := svc.userRepo.GetByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewUnauthorizedError(nil, "Invalid credentials")
	}
	if user.Status != shared.UserStatusActive {
		return nil, shared.NewForbiddenError(nil, "Account suspended")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(errors.New("password mismatch"), "Invalid credentials")
	}

	pair, err := svc.jwtSvc.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	user.LastLogin = time.Now()
	user.UpdatedAt = time.Now()
	if err := svc.userRepo.DB().Save(user).Error; err != nil {
		log.WithError(err).Warn("Failed to record last login")
	}

	svc.audit(user.ID, "user.login", clientIP)

	return &dto.LoginResponse{
		UserID:      user.ID,
		Role:        user.Role,
		AccessToken: pair.AccessToken,
		ExpiresIn:   pair.ExpiresIn,
	}, nil
}

func (svc *AuthService) audit(userID, action, detail string) {
	err := svc.notificationRepo.CreateAuditLog(&model.AuditLog{
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.WithError(err).Warn("Failed to write audit log")
	}
}
