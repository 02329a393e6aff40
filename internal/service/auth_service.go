package service

import (
	"errors"
	"time"

	"github.com/abdallahade1/ConceptCatch/internal/config"
	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/abdallahade1/ConceptCatch/internal/repository"
	"github.com/abdallahade1/ConceptCatch/internal/util"
	"github.com/abdallahade1/ConceptCatch/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	userRepo *repository.UserRepository
	jwtCfg   config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{userRepo: userRepo, jwtCfg: jwtCfg}
}

func (s *AuthService) Register(name, email, password string, role model.UserRole) (*model.User, error) {
	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrEmailRegistered
	}

	if role != model.Teacher {
		role = model.Student
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Log.Info("User registered",
		zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.jwtCfg.Secret, s.jwtCfg.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		logger.Log.Warn("Failed to update last login",
			zap.Uint("user_id", user.ID), zap.Error(err))
	}
	user.LastLogin = now

	return token, user, nil
}

func (s *AuthService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) ListStudents() ([]model.User, error) {
	return s.userRepo.ListByRole(model.Student)
}
