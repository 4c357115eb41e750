package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Monalisa-XD/Academix/internal/models"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
)

type recordRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record T) (*T, error)
	Update(ctx context.Context, record T) error
	Delete(ctx context.Context, id string) error
}

// RecordService implements the roster collection contract on top of a
// database repository. It backs the reference roster API.
type RecordService[T any] struct {
	repo      recordRepository[T]
	validator *validator.Validate
	logger    *zap.Logger
	label     string
	setID     func(*T, string)
}

// NewRecordService constructs a RecordService. label names the record in
// error messages.
func NewRecordService[T any](repo recordRepository[T], validate *validator.Validate, logger *zap.Logger, label string, setID func(*T, string)) *RecordService[T] {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService[T]{repo: repo, validator: validate, logger: logger, label: label, setID: setID}
}

// NewFacultyService builds the faculty collection service.
func NewFacultyService(repo recordRepository[models.Faculty], validate *validator.Validate, logger *zap.Logger) *RecordService[models.Faculty] {
	return NewRecordService(repo, validate, logger, "faculty member", func(f *models.Faculty, id string) { f.ID = id })
}

// NewStudentService builds the student collection service.
func NewStudentService(repo recordRepository[models.Student], validate *validator.Validate, logger *zap.Logger) *RecordService[models.Student] {
	return NewRecordService(repo, validate, logger, "student", func(s *models.Student, id string) { s.ID = id })
}

// List returns the whole collection.
func (s *RecordService[T]) List(ctx context.Context) ([]T, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to list %s records", s.label))
	}
	return records, nil
}

// Create validates and stores record. Any client-supplied id is replaced.
func (s *RecordService[T]) Create(ctx context.Context, record T) (*T, error) {
	if err := s.validator.Struct(record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid %s payload", s.label))
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to create %s", s.label))
	}
	return created, nil
}

// Update overwrites the record with id. The id in the path wins over the body.
func (s *RecordService[T]) Update(ctx context.Context, id string, record T) error {
	if err := s.validator.Struct(record); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid %s payload", s.label))
	}
	s.setID(&record, id)
	if err := s.repo.Update(ctx, record); err != nil {
		return s.mapWriteError(err, "update", id)
	}
	return nil
}

// Delete removes the record with id.
func (s *RecordService[T]) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapWriteError(err, "delete", id)
	}
	return nil
}

func (s *RecordService[T]) mapWriteError(err error, op, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s %s not found", s.label, id))
	}
	s.logger.Error("record write failed", zap.String("op", op), zap.String("id", id), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to %s %s", op, s.label))
}
