package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Monalisa-XD/Academix/internal/models"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
)

func TestExportServiceCSVFollowsFilters(t *testing.T) {
	ctrl := newFacultyController(t, newFacultyStore(
		models.Faculty{ID: "1", Name: "Amy", Department: "Degree", Email: "amy@example.com"},
		models.Faculty{ID: "2", Name: "Bob", Department: "ITI"},
	))
	require.NoError(t, ctrl.SetFilter("department", "Degree"))

	svc := NewExportService(nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 14, 5, 9, 0, time.UTC) }

	file, err := svc.Export(ctrl, "csv")
	require.NoError(t, err)
	assert.Equal(t, "faculties_20261018_140509.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, 1, file.Rows)

	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Name,Email,Department,Specialization,HOD,Joined", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Amy,amy@example.com,Degree"))
}

func TestExportServicePDFAndUnknownFormat(t *testing.T) {
	store := &fakeStore[models.Student]{list: []models.Student{{ID: "s1", Name: "Ravi", RollNumber: "R-1"}}}
	ctrl := NewRosterController(StudentSchema(), RecordStore[models.Student](store), nil)
	require.NoError(t, ctrl.Load(context.Background()))

	svc := NewExportService(nil)
	file, err := svc.Export(ctrl, "pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(file.Body), "%PDF"))
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))

	_, err = svc.Export(ctrl, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
