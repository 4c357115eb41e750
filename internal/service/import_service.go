package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jszwec/csvutil"
	"go.uber.org/zap"

	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
)

type importObserver interface {
	ObserveImport(entity string, created, failed int)
}

// RowError explains why one CSV row was not created. Row counts data rows
// from 1; the header is not a row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarises one import run.
type ImportResult struct {
	Entity  string     `json:"entity"`
	Created int        `json:"created"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"errors,omitempty"`
}

// ImportService bulk-creates roster records from CSV. Each row goes through
// the controller's create form, so defaults and local bookkeeping match a
// record entered by hand.
type ImportService struct {
	validator *validator.Validate
	logger    *zap.Logger
	metrics   importObserver
}

// NewImportService constructs an ImportService.
func NewImportService(validate *validator.Validate, logger *zap.Logger, metrics importObserver) *ImportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{validator: validate, logger: logger, metrics: metrics}
}

// Import reads CSV rows from r into the named tab of ws.
func (s *ImportService) Import(ctx context.Context, ws *Workspace, tab string, r io.Reader) (*ImportResult, error) {
	name, err := NormalizeTab(tab)
	if err != nil {
		return nil, err
	}
	if name == TabStudents {
		return importRows(ctx, s, ws.Students(), r)
	}
	return importRows(ctx, s, ws.Faculty(), r)
}

func importRows[T any](ctx context.Context, s *ImportService, ctrl *RosterController[T], r io.Reader) (*ImportResult, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "csv file is empty")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid csv header")
	}
	dec.WithUnmarshalers(csvutil.NewUnmarshalers(csvutil.UnmarshalFunc(unmarshalYesNo)))

	result := &ImportResult{Entity: ctrl.Entity()}
	fail := func(row int, err error) {
		result.Failed++
		result.Errors = append(result.Errors, RowError{Row: row, Message: err.Error()})
	}

	for row := 1; ; row++ {
		var record T
		if err := dec.Decode(&record); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				s.observe(result)
				return result, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("malformed csv at row %d", row))
			}
			fail(row, err)
			continue
		}
		if err := s.validator.Struct(record); err != nil {
			fail(row, err)
			continue
		}

		ctrl.BeginCreate()
		if err := ctrl.ReplaceDraft(record); err != nil {
			fail(row, err)
			continue
		}
		if err := ctrl.SubmitDraft(ctx); err != nil {
			fail(row, err)
			continue
		}
		result.Created++
	}

	s.observe(result)
	s.logger.Info("roster import finished",
		zap.String("entity", result.Entity),
		zap.Int("created", result.Created),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *ImportService) observe(result *ImportResult) {
	if s.metrics != nil {
		s.metrics.ObserveImport(result.Entity, result.Created, result.Failed)
	}
}

// unmarshalYesNo reads the HOD column as the edit form does, and also
// accepts strconv booleans.
func unmarshalYesNo(data []byte, b *bool) error {
	raw := strings.TrimSpace(string(data))
	switch strings.ToLower(raw) {
	case "yes":
		*b = true
		return nil
	case "", "no":
		*b = false
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid yes/no value %q", raw)
	}
	*b = v
	return nil
}
