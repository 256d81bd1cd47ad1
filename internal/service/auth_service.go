package service

import (
	"context"
	"time"

	"research-chat-be/internal/dto"
	"research-chat-be/internal/entity"
	"research-chat-be/internal/pkg/serverutils"
	"research-chat-be/internal/repository/specification"
	"research-chat-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
}

type authService struct {
	uowFactory  unitofwork.RepositoryFactory
	jwtSecret   string
	tokenExpiry time.Duration
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, jwtSecret string, tokenExpiry time.Duration) IAuthService {
	return &authService{
		uowFactory:  uowFactory,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

func (as *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	uow := as.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, serverutils.NewValidationError("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.UserRepository().Create(ctx, &user); err != nil {
		return nil, err
	}

	return &dto.UserResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (as *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	uow := as.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	// Same error for unknown email and wrong password
	if user == nil {
		return nil, serverutils.NewValidationError("incorrect email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, serverutils.NewValidationError("incorrect email or password")
	}

	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"exp":     time.Now().Add(as.tokenExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
	}, nil
}

func (as *authService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := as.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NewNotFoundError("user not found")
	}

	return &dto.UserResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}, nil
}
