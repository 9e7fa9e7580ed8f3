package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fibu_trainer_backend/internal/config"
	"fibu_trainer_backend/internal/model"
	"fibu_trainer_backend/internal/repository"
	"fibu_trainer_backend/internal/util"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

// Register creates a user with a bcrypt-hashed password. Email is the
// unique handle; duplicate registration fails with ErrEmailRegistered.
func (s *AuthService) Register(name, email, password string) (*model.User, error) {
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a JWT. Unknown emails are
// provisioned on the fly as regular users so that a fresh client can
// start training without a separate signup step.
func (s *AuthService) Login(email, password, name string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.provision(email, password, name)
		if err != nil {
			return "", nil, err
		}
	} else if err != nil {
		return "", nil, err
	} else {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return "", nil, ErrInvalidCredentials
		}
	}

	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) provision(email, password, name string) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "User"
	}
	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
