// Package auth отвечает за регистрацию, выпуск и отзыв JWT и
// аутентификацию запросов по токену доступа.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/course-platform/internal/access"
	"github.com/magabrotheeeer/course-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/course-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/course-platform/internal/lib/password"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

var (
	errBadCredentials = apperr.Unauthenticated("no active account found with the given credentials")
	errBadToken       = apperr.Unauthenticated("token is invalid or expired")
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// Blacklist хранит отозванные refresh-токены по jti.
type Blacklist interface {
	Blacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Service реализует регистрацию, выдачу токенов и аутентификацию.
type Service struct {
	users     UserRepository
	jwtMaker  jwt.Maker
	blacklist Blacklist
	now       func() time.Time
	log       *slog.Logger
}

// NewService создаёт Service.
func NewService(users UserRepository, jwtMaker jwt.Maker, blacklist Blacklist, log *slog.Logger) *Service {
	return &Service{
		users:     users,
		jwtMaker:  jwtMaker,
		blacklist: blacklist,
		now:       time.Now,
		log:       log,
	}
}

// Register создаёт активного пользователя без служебных прав.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	id, err := s.users.CreateUser(ctx, models.User{
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		City:         req.City,
		Avatar:       req.Avatar,
		IsActive:     true,
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, apperr.Validation("user with this email already exists")
	}
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return user, nil
}

// Login проверяет учётные данные, обновляет last_login и выдаёт пару токенов.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (models.TokenPair, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return models.TokenPair{}, errBadCredentials
	}
	if err != nil {
		return models.TokenPair{}, apperr.Wrap(op, err)
	}
	if !user.IsActive {
		return models.TokenPair{}, errBadCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return models.TokenPair{}, errBadCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		return models.TokenPair{}, apperr.Wrap(op, err)
	}

	accessToken, err := s.jwtMaker.GenerateToken(user.ID, user.Email, jwt.Access)
	if err != nil {
		return models.TokenPair{}, apperr.Wrap(op, err)
	}
	refreshToken, err := s.jwtMaker.GenerateToken(user.ID, user.Email, jwt.Refresh)
	if err != nil {
		return models.TokenPair{}, apperr.Wrap(op, err)
	}
	return models.TokenPair{Access: accessToken, Refresh: refreshToken}, nil
}

// Refresh выдаёт новый access по действующему refresh-токену.
// Ротация выключена: refresh-токен не перевыпускается.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	const op = "auth.Refresh"

	claims, err := s.parseRefresh(ctx, refreshToken)
	if err != nil {
		return models.TokenPair{}, err
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.TokenPair{}, errBadToken
	}
	if err != nil {
		return models.TokenPair{}, apperr.Wrap(op, err)
	}
	if !user.IsActive {
		return models.TokenPair{}, errBadCredentials
	}

	accessToken, err := s.jwtMaker.GenerateToken(user.ID, user.Email, jwt.Access)
	if err != nil {
		return models.TokenPair{}, apperr.Wrap(op, err)
	}
	return models.TokenPair{Access: accessToken}, nil
}

// Logout заносит refresh-токен в чёрный список до истечения его срока.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	const op = "auth.Logout"

	claims, err := s.parseRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if err := s.blacklist.Blacklist(ctx, claims.ID, ttl); err != nil {
		return apperr.Wrap(op, err)
	}
	return nil
}

// Authenticate разбирает токен доступа и возвращает субъекта запроса.
// Удалённый или деактивированный пользователь не аутентифицируется.
func (s *Service) Authenticate(ctx context.Context, token string) (access.Actor, error) {
	const op = "auth.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token, jwt.Access)
	if err != nil {
		s.log.Debug("access token rejected", slog.String("op", op), sl.Err(err))
		return access.Anonymous(), errBadToken
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return access.Anonymous(), apperr.Unauthenticated("user not found")
	}
	if err != nil {
		return access.Anonymous(), apperr.Wrap(op, err)
	}
	if !user.IsActive {
		return access.Anonymous(), apperr.Unauthenticated("user is inactive")
	}
	return access.NewActor(user), nil
}

func (s *Service) parseRefresh(ctx context.Context, token string) (*jwt.CustomClaims, error) {
	const op = "auth.parseRefresh"

	claims, err := s.jwtMaker.ParseToken(token, jwt.Refresh)
	if err != nil {
		return nil, errBadToken
	}
	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, apperr.Wrap(op, fmt.Errorf("check blacklist: %w", err))
	}
	if blacklisted {
		return nil, apperr.Unauthenticated("token is blacklisted")
	}
	return claims, nil
}
