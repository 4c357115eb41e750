package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Monalisa-XD/Academix/internal/models"
	"github.com/Monalisa-XD/Academix/internal/repository"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
)

const invalidCredentialsMessage = "Invalid email or password"

type adminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
}

// CreateAdminRequest carries the fields of a new console account.
type CreateAdminRequest struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// AdminService answers the login exchange of the reference roster API and
// provisions console accounts.
type AdminService struct {
	repo      adminRepository
	validator *validator.Validate
	logger    *zap.Logger
	cost      int
}

// NewAdminService constructs an AdminService.
func NewAdminService(repo adminRepository, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{repo: repo, validator: validate, logger: logger, cost: bcrypt.DefaultCost}
}

// Authenticate checks credentials. Bad credentials are a failed result, not
// an error; errors mean the check itself could not run.
func (s *AdminService) Authenticate(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return &models.LoginResult{Success: false, Message: invalidCredentialsMessage}, nil
	}

	admin, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.LoginResult{Success: false, Message: invalidCredentialsMessage}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch admin")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("admin login rejected", zap.String("admin_id", admin.ID))
		return &models.LoginResult{Success: false, Message: invalidCredentialsMessage}, nil
	}

	return &models.LoginResult{
		Success: true,
		User:    &models.SessionUser{ID: admin.ID, Name: admin.Name, Email: admin.Email},
	}, nil
}

// CreateAdmin stores a new account with a bcrypt password hash. An email that
// is already registered yields CONFLICT.
func (s *AdminService) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*models.Admin, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil && existing != nil:
		return nil, duplicateAdmin(req.Email)
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	admin := &models.Admin{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrAdminExists) {
			return nil, duplicateAdmin(req.Email)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}
	s.logger.Info("admin created", zap.String("admin_id", admin.ID), zap.String("email", admin.Email))
	return admin, nil
}

func duplicateAdmin(email string) error {
	return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("an admin with email %s already exists", email))
}
