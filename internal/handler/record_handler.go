package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Monalisa-XD/Academix/internal/models"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
	"github.com/Monalisa-XD/Academix/pkg/response"
)

type recordService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record T) (*T, error)
	Update(ctx context.Context, id string, record T) error
	Delete(ctx context.Context, id string) error
}

// RecordRoutes is the REST surface of one roster collection.
type RecordRoutes interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RecordHandler serves one collection of the reference roster API. Success
// bodies are bare JSON, as the console's remote store reads them; failures
// use the error envelope.
type RecordHandler[T any] struct {
	records recordService[T]
}

// NewRecordHandler constructs RecordHandler.
func NewRecordHandler[T any](records recordService[T]) *RecordHandler[T] {
	return &RecordHandler[T]{records: records}
}

// NewFacultyHandler serves /faculties.
func NewFacultyHandler(records recordService[models.Faculty]) *RecordHandler[models.Faculty] {
	return NewRecordHandler[models.Faculty](records)
}

// NewStudentHandler serves /students.
func NewStudentHandler(records recordService[models.Student]) *RecordHandler[models.Student] {
	return NewRecordHandler[models.Student](records)
}

// List godoc
// @Summary List a roster collection
// @Tags Roster
// @Produce json
// @Param entity path string true "faculties or students"
// @Success 200 {array} models.Faculty
// @Router /{entity} [get]
func (h *RecordHandler[T]) List(c *gin.Context) {
	records, err := h.records.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if records == nil {
		records = []T{}
	}
	c.JSON(http.StatusOK, records)
}

// Create godoc
// @Summary Create a roster record
// @Description The server assigns the id.
// @Tags Roster
// @Accept json
// @Produce json
// @Param entity path string true "faculties or students"
// @Param payload body models.Faculty true "Record without id"
// @Success 201 {object} models.Faculty
// @Failure 400 {object} response.Envelope
// @Router /{entity} [post]
func (h *RecordHandler[T]) Create(c *gin.Context) {
	var record T
	if err := c.ShouldBindJSON(&record); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid record payload"))
		return
	}
	created, err := h.records.Create(c.Request.Context(), record)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary Replace a roster record
// @Tags Roster
// @Accept json
// @Param entity path string true "faculties or students"
// @Param id path string true "Record ID"
// @Param payload body models.Faculty true "Full record"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /{entity}/{id} [put]
func (h *RecordHandler[T]) Update(c *gin.Context) {
	var record T
	if err := c.ShouldBindJSON(&record); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid record payload"))
		return
	}
	if err := h.records.Update(c.Request.Context(), c.Param("id"), record); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete a roster record
// @Tags Roster
// @Param entity path string true "faculties or students"
// @Param id path string true "Record ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /{entity}/{id} [delete]
func (h *RecordHandler[T]) Delete(c *gin.Context) {
	if err := h.records.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
