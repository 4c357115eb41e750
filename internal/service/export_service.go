package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Monalisa-XD/Academix/pkg/export"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
)

// ExportFile is a rendered roster download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

var exportTitles = map[string]string{
	EntityFaculties: "Faculty Roster",
	EntityStudents:  "Student Roster",
}

// ExportService renders the filtered list of a roster tab.
type ExportService struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{logger: logger, now: time.Now}
}

// Export renders every record currently passing the tab's search and filters,
// across all pages, as csv or pdf.
func (s *ExportService) Export(tab RosterTab, format string) (*ExportFile, error) {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	data := tab.Dataset()
	title := exportTitles[tab.Entity()]
	body, err := renderer.Render(data, title)
	if err != nil {
		s.logger.Error("render export", zap.String("entity", tab.Entity()), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("%s_%s.%s", tab.Entity(), s.now().UTC().Format("20060102_150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
		Rows:        len(data.Rows),
	}, nil
}
