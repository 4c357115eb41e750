package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Monalisa-XD/Academix/internal/service"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
	"github.com/Monalisa-XD/Academix/pkg/response"
)

type searchRequest struct {
	Term string `json:"term"`
}

// filterRequest selects a filter value. A missing value resets the filter to
// its "all" option; an empty string matches records with an empty field.
type filterRequest struct {
	Value *string `json:"value"`
}

type pageRequest struct {
	Page int `json:"page"`
}

type draftFieldRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value"`
}

// ConsoleHandler drives the roster tabs of the signed-in caller's workspace.
type ConsoleHandler struct {
	console  *service.Console
	importer *service.ImportService
	exporter *service.ExportService
	logger   *zap.Logger
}

// NewConsoleHandler constructs ConsoleHandler.
func NewConsoleHandler(console *service.Console, importer *service.ImportService, exporter *service.ExportService, logger *zap.Logger) *ConsoleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleHandler{console: console, importer: importer, exporter: exporter, logger: logger}
}

func (h *ConsoleHandler) workspace(c *gin.Context) (*service.Workspace, bool) {
	session, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return h.console.Workspace(session), true
}

// tab opens the tab named in the path. A failed first load still yields the
// tab; its view is simply empty.
func (h *ConsoleHandler) tab(c *gin.Context) (service.RosterTab, bool) {
	ws, ok := h.workspace(c)
	if !ok {
		return nil, false
	}
	tab, err := ws.Open(c.Request.Context(), c.Param("tab"))
	if tab == nil {
		response.Error(c, err)
		return nil, false
	}
	return tab, true
}

// Activate godoc
// @Summary Switch to a tab
// @Description Selects the tab and remounts it: search, filters, page and draft are reset and the collection reloaded.
// @Tags Console
// @Produce json
// @Param tab path string true "faculty or students"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /console/tabs/{tab}/activate [post]
func (h *ConsoleHandler) Activate(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	tab, err := ws.ActivateTab(c.Request.Context(), c.Param("tab"))
	if tab == nil {
		response.Error(c, err)
		return
	}
	response.View(c, tab.View(), map[string]interface{}{"active_tab": ws.ActiveTab()})
}

// View godoc
// @Summary Show a tab
// @Description Returns the current page of the tab, loading the collection the first time the tab is viewed.
// @Tags Console
// @Produce json
// @Param tab path string true "faculty or students"
// @Success 200 {object} response.Envelope
// @Router /console/tabs/{tab} [get]
func (h *ConsoleHandler) View(c *gin.Context) {
	tab, ok := h.tab(c)
	if !ok {
		return
	}
	response.View(c, tab.View())
}

// Reload godoc
// @Summary Reload a tab
// @Tags Console
// @Produce json
// @Param tab path string true "faculty or students"
// @Success 200 {object} response.Envelope
// @Router /console/tabs/{tab}/reload [post]
func (h *ConsoleHandler) Reload(c *gin.Context) {
	tab, ok := h.tab(c)
	if !ok {
		return
	}
	_ = tab.Load(c.Request.Context())
	response.View(c, tab.View())
}

// Search godoc
// @Summary Set the name search term
// @Tags Console
// @Accept json
// @Produce json
// @Param tab path string true "faculty or students"
// @Param payload body searchRequest true "Search term"
// @Success 200 {object} response.Envelope
// @Router /console/tabs/{tab}/search [put]
func (h *ConsoleHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid search payload"))
		return
	}
	tab, ok := h.tab(c)
	if !ok {
		return
	}
	tab.SetSearchTerm(req.Term)
	response.View(c, tab.View())
}

// Filter godoc
// @Summary Select a filter value
// @Description Omitting value selects the filter's "all" option. An empty string matches records whose field is empty.
// @Tags Console
// @Accept json
// @Produce json
// @Param tab path string true "faculty or students"
// @Param name path string true "department or semester"
// @Param payload body filterRequest true "Filter value"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /console/tabs/{tab}/filters/{name} [put]
func (h *ConsoleHandler) Filter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter payload"))
		return
	}
	tab, ok := h.tab(c)
	if !ok {
		return
	}
	var err error
	if req.Value == nil {
		err = tab.ResetFilter(c.Param("name"))
	} else {
		err = tab.SetFilter(c.Param("name"), *req.Value)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.View(c, tab.View())
}

// Page godoc
// @Summary Go to a page
// @Tags Console
// @Accept json
// @Produce json
// @Param tab path string true "faculty or students"
// @Param payload body pageRequest true "Page number"
// @Success 200 {object} response.Envelope
// @Router /console/tabs/{tab}/page [put]
func (h *ConsoleHandler) Page(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid page payload"))
		return
	}
	tab, ok := h.tab(c)
	if !ok {
		return
	}
	tab.GoToPage(req.Page)
	response.View(c, tab.View())
}

// BeginCreate godoc
// @Summary Open the add form
// @Tags Console
// @Produce json
// @Param tab path string true "faculty or students"
// @Success 200 {object} response.Envelope
// @Router /console/tabs/{tab}/draft [post]
func (h *ConsoleHandler) BeginCreate(c *gin.Context) {
	tab, ok := h.tab(c)
	if !ok {
		return
	}
	tab.BeginCreate()
	response.View(c, tab.View())
}

// BeginEdit godoc
// @Summary Open the edit form for a record
// @Tags Console
// @Produce json
// @Param tab path string true "faculty or students"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /console/tabs/{tab}/records/{id}/edit [post]
func (h *ConsoleHandler) BeginEdit(c *gin.Context) {
	tab, ok := h.tab(c)
	if !ok {
		return
	}
	if err := tab.BeginEditByID(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.View(c, tab.View())
}

// UpdateDraft godoc
// @Summary Change one draft field
// @Tags Console
// @Accept json
// @Produce json
// @Param tab path string true "faculty or students"
// @Param payload body draftFieldRequest true "Field name and value"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /console/tabs/{tab}/draft [patch]
func (h *ConsoleHandler) UpdateDraft(c *gin.Context) {
	var req draftFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}
	tab, ok := h.tab(c)
	if !ok {
		return
	}
	if err := tab.UpdateDraftField(req.Name, req.Value); err != nil {
		response.Error(c, err)
		return
	}
	response.View(c, tab.View())
}

// CancelDraft godoc
// @Summary Close the form without saving
// @Tags Console
// @Produce json
// @Param tab path string true "faculty or students"
// @Success 200 {object} response.Envelope
// @Router /console/tabs/{tab}/draft [delete]
func (h *ConsoleHandler) CancelDraft(c *gin.Context) {
	tab, ok := h.tab(c)
	if !ok {
		return
	}
	tab.CancelDraft()
	response.View(c, tab.View())
}

// SubmitDraft godoc
// @Summary Save the draft
// @Description Creates or updates the record. A remote failure closes the form and leaves the list unchanged; it is not reported.
// @Tags Console
// @Produce json
// @Param tab path string true "faculty or students"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /console/tabs/{tab}/draft/submit [post]
func (h *ConsoleHandler) SubmitDraft(c *gin.Context) {
	tab, ok := h.tab(c)
	if !ok {
		return
	}
	if err := tab.SubmitDraft(c.Request.Context()); rejectedLocally(err) {
		response.Error(c, err)
		return
	}
	response.View(c, tab.View())
}

// Remove godoc
// @Summary Delete a record
// @Description Nothing happens unless confirm=true. The record leaves the list before the remote delete runs and stays gone if it fails.
// @Tags Console
// @Produce json
// @Param tab path string true "faculty or students"
// @Param id path string true "Record ID"
// @Param confirm query bool false "Answer to the delete prompt"
// @Success 200 {object} response.Envelope
// @Router /console/tabs/{tab}/records/{id} [delete]
func (h *ConsoleHandler) Remove(c *gin.Context) {
	tab, ok := h.tab(c)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	_ = tab.Remove(c.Request.Context(), c.Param("id"), service.Confirmed(confirmed))
	response.View(c, tab.View())
}

// Export godoc
// @Summary Download the filtered list
// @Tags Console
// @Produce text/csv
// @Produce application/pdf
// @Param tab path string true "faculty or students"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /console/tabs/{tab}/export [get]
func (h *ConsoleHandler) Export(c *gin.Context) {
	tab, ok := h.tab(c)
	if !ok {
		return
	}
	file, err := h.exporter.Export(tab, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("roster exported", zap.String("entity", tab.Entity()), zap.Int("rows", file.Rows))
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Import godoc
// @Summary Bulk-create records from CSV
// @Description Each row goes through the add form. Rows that fail validation or the remote create are reported and skipped.
// @Tags Console
// @Accept multipart/form-data
// @Produce json
// @Param tab path string true "faculty or students"
// @Param file formData file true "CSV file with a header row"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /console/tabs/{tab}/import [post]
func (h *ConsoleHandler) Import(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "csv file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload"))
		return
	}
	defer file.Close()

	result, err := h.importer.Import(c.Request.Context(), ws, c.Param("tab"), file)
	if err != nil {
		var meta map[string]interface{}
		if result != nil {
			meta = map[string]interface{}{"created": result.Created, "failed": result.Failed}
		}
		response.Error(c, err, meta)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
