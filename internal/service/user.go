package service

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/ogaydukov/boostup/internal/config"
	"github.com/ogaydukov/boostup/internal/domain"
	"github.com/ogaydukov/boostup/pkg/logger"
)

type UserRepository interface {
	CreateUser(login, email, hashedPassword string) (int64, error)
	User(login string) (*domain.User, error)
	UserByID(id int64) (*domain.User, error)
}

type UserService struct {
	config *config.Config
	repo   UserRepository
}

func NewUserService(repo UserRepository, config *config.Config) *UserService {
	return &UserService{
		repo:   repo,
		config: config,
	}
}

func (s *UserService) Register(login, email, password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.Warn("error while hashing password")
		return "", fmt.Errorf("error while hashing password: %w", err)
	}

	userID, err := s.repo.CreateUser(login, email, string(hashedPassword))
	if err != nil {
		return "", err
	}

	return generateJWTToken(userID, false, s.config.PrivateKey)
}

func (s *UserService) Login(login, password string) (string, error) {
	user, err := s.repo.User(login)
	if err != nil {
		if errors.Is(err, domain.ErrIncorrectCredentials) {
			logger.Log.Warn("incorrect login", logger.String("login", login))
		}
		return "", err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		logger.Log.Warn("incorrect password", logger.String("login", login))
		return "", domain.ErrIncorrectCredentials
	}

	return generateJWTToken(user.ID, user.IsAdmin, s.config.PrivateKey)
}

func (s *UserService) Profile(userID int64) (*domain.User, error) {
	return s.repo.UserByID(userID)
}

func generateJWTToken(userID int64, isAdmin bool, privateKey string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(userID, 10),
		"admin": isAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(privateKey))
	if err != nil {
		return "", fmt.Errorf("error while signing token: %w", err)
	}

	return signedToken, nil
}
