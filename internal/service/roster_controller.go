package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Monalisa-XD/Academix/internal/models"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
	"github.com/Monalisa-XD/Academix/pkg/export"
)

// DateLayout is the wire format of roster date fields.
const DateLayout = "2006-01-02"

// RecordStore is the remote collection a roster controller mirrors.
type RecordStore[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, record T) error
	Delete(ctx context.Context, id string) error
}

// Confirmer answers the yes/no prompt shown before a record is deleted.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Confirmed is a Confirmer with a fixed answer.
type Confirmed bool

// Confirm implements Confirmer.
func (c Confirmed) Confirm(context.Context, string) bool {
	return bool(c)
}

// RosterTab is the entity-agnostic surface of a roster controller.
type RosterTab interface {
	Entity() string
	Loaded() bool
	Load(ctx context.Context) error
	SetSearchTerm(term string)
	SetFilter(name, value string) error
	ResetFilter(name string) error
	GoToPage(page int)
	BeginCreate()
	BeginEditByID(id string) error
	UpdateDraftField(name, value string) error
	CancelDraft()
	SubmitDraft(ctx context.Context) error
	Remove(ctx context.Context, id string, confirm Confirmer) error
	View() models.RosterView
	Dataset() export.Dataset
}

// RosterController owns one entity type's list view: the loaded collection,
// search and filter state, the current page and the edit form draft.
//
// The lock is never held across a store call. Responses are applied in the
// order they arrive, so the last one to resolve wins.
type RosterController[T any] struct {
	schema RosterSchema[T]
	store  RecordStore[T]
	logger *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	records  []T
	filtered []T
	options  map[string][]string
	search   string
	filters  map[string]string
	page     int
	loading  int
	loaded   bool
	mode     models.EditMode
	draft    T
	draftSeq uint64
}

var _ RosterTab = (*RosterController[models.Faculty])(nil)

// NewRosterController builds a controller over the given schema and store.
func NewRosterController[T any](schema RosterSchema[T], store RecordStore[T], logger *zap.Logger) *RosterController[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	filters := make(map[string]string, len(schema.Filters))
	for _, f := range schema.Filters {
		filters[f.Name] = f.All
	}
	return &RosterController[T]{
		schema:  schema,
		store:   store,
		logger:  logger.With(zap.String("entity", schema.Entity)),
		now:     time.Now,
		filters: filters,
		options: map[string][]string{},
		page:    1,
	}
}

// Entity returns the remote collection name.
func (c *RosterController[T]) Entity() string {
	return c.schema.Entity
}

// Loaded reports whether a load has ever succeeded.
func (c *RosterController[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Load fetches the whole collection. On failure the current collection is kept.
func (c *RosterController[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading++
	c.mu.Unlock()

	records, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if err != nil {
		c.logger.Error("roster load failed", zap.Error(err))
		return err
	}

	c.records = sortByName(records, c.schema.Name)
	c.options = distinctOptions(c.records, c.schema.Filters)
	c.loaded = true
	c.refilter()
	c.logger.Debug("roster loaded", zap.Int("count", len(c.records)))
	return nil
}

// SetSearchTerm updates the name prefix filter.
func (c *RosterController[T]) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
	c.refilter()
}

// SetFilter selects a categorical filter value. value matches exactly, so an
// empty value keeps only records whose field is empty; the filter's "all"
// sentinel keeps everything.
func (c *RosterController[T]) SetFilter(name, value string) error {
	if _, ok := c.schema.filter(name); !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown %s filter %q", c.schema.Entity, name))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters[name] = value
	c.refilter()
	return nil
}

// ResetFilter selects the "all" sentinel of the named filter.
func (c *RosterController[T]) ResetFilter(name string) error {
	filter, ok := c.schema.filter(name)
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown %s filter %q", c.schema.Entity, name))
	}
	return c.SetFilter(name, filter.All)
}

// GoToPage moves to page, clamped to [1, max(totalPages, 1)].
func (c *RosterController[T]) GoToPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	last := totalPages(len(c.filtered))
	if page > last {
		page = last
	}
	if page < 1 {
		page = 1
	}
	c.page = page
}

// BeginCreate opens the form with an empty draft.
func (c *RosterController[T]) BeginCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var blank T
	c.openForm(models.EditModeCreate, blank)
}

// BeginEdit opens the form with a copy of record.
func (c *RosterController[T]) BeginEdit(record T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openForm(models.EditModeEdit, record)
}

// BeginEditByID opens the form for the loaded record with the given id.
func (c *RosterController[T]) BeginEditByID(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range c.records {
		if c.schema.ID(rec) == id {
			c.openForm(models.EditModeEdit, rec)
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s %s not found", c.schema.Label, id))
}

// UpdateDraftField sets one draft field by its wire name.
func (c *RosterController[T]) UpdateDraftField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == models.EditModeNone {
		return appErrors.Clone(appErrors.ErrValidation, "no draft is open")
	}
	return c.schema.SetField(&c.draft, name, value)
}

// ReplaceDraft overwrites every draft field. The draft id is kept.
func (c *RosterController[T]) ReplaceDraft(record T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == models.EditModeNone {
		return appErrors.Clone(appErrors.ErrValidation, "no draft is open")
	}
	c.schema.SetID(&record, c.schema.ID(c.draft))
	c.draft = record
	return nil
}

// CancelDraft discards the draft and closes the form.
func (c *RosterController[T]) CancelDraft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeForm()
}

// Draft returns the open draft and the form mode.
func (c *RosterController[T]) Draft() (T, models.EditMode) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.draft, c.mode
}

// SubmitDraft sends the draft to the remote store. A created record is
// appended and an edited record replaced in place; neither re-sorts. The form
// closes whether or not the request succeeded.
func (c *RosterController[T]) SubmitDraft(ctx context.Context) error {
	c.mu.Lock()
	mode, draft, seq := c.mode, c.draft, c.draftSeq
	c.mu.Unlock()

	switch mode {
	case models.EditModeCreate:
		payload := draft
		if c.schema.Defaults != nil {
			payload = c.schema.Defaults(payload, c.now().Format(DateLayout))
		}
		c.schema.SetID(&payload, "")
		created, err := c.store.Create(ctx, payload)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.closeFormIfCurrent(seq)
		if err != nil {
			c.logger.Error("roster create failed", zap.Error(err))
			return err
		}
		records := make([]T, 0, len(c.records)+1)
		c.records = append(append(records, c.records...), created)
		c.refilter()
		return nil

	case models.EditModeEdit:
		err := c.store.Update(ctx, draft)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.closeFormIfCurrent(seq)
		if err != nil {
			c.logger.Error("roster update failed", zap.String("id", c.schema.ID(draft)), zap.Error(err))
			return err
		}
		id := c.schema.ID(draft)
		records := make([]T, len(c.records))
		for i, rec := range c.records {
			if c.schema.ID(rec) == id {
				rec = draft
			}
			records[i] = rec
		}
		c.records = records
		c.refilter()
		return nil

	default:
		return appErrors.Clone(appErrors.ErrValidation, "no draft to submit")
	}
}

// Remove deletes the record with id after confirm agrees. The record leaves
// the local collection before the delete request is issued and is not restored
// if the request fails.
func (c *RosterController[T]) Remove(ctx context.Context, id string, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(ctx, c.schema.ConfirmPrompt) {
		return nil
	}

	c.mu.Lock()
	records := make([]T, 0, len(c.records))
	for _, rec := range c.records {
		if c.schema.ID(rec) != id {
			records = append(records, rec)
		}
	}
	c.records = records
	c.refilter()
	c.mu.Unlock()

	if err := c.store.Delete(ctx, id); err != nil {
		c.logger.Error("roster delete failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// Records returns the whole collection in its current order.
func (c *RosterController[T]) Records() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.records...)
}

// Filtered returns every record passing the current search and filters.
func (c *RosterController[T]) Filtered() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.filtered...)
}

// CurrentItems returns the visible page.
func (c *RosterController[T]) CurrentItems() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	first, last := pageWindow(c.page, len(c.filtered))
	return append([]T{}, c.filtered[first:last]...)
}

// Page returns the current page number.
func (c *RosterController[T]) Page() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

// TotalPages returns the page count of the filtered collection.
func (c *RosterController[T]) TotalPages() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return totalPages(len(c.filtered))
}

// FilterOptions returns the distinct values observed for a filter.
func (c *RosterController[T]) FilterOptions(name string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.options[name]...)
}

// View renders the current list state.
func (c *RosterController[T]) View() models.RosterView {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := len(c.filtered)
	pages := totalPages(count)
	first, last := pageWindow(c.page, count)

	view := models.RosterView{
		Entity: c.schema.Entity,
		Items:  append([]T{}, c.filtered[first:last]...),
		Search: c.search,
		Pagination: models.Pagination{
			Page:       c.page,
			PageSize:   models.ItemsPerPage,
			TotalCount: count,
			TotalPages: pages,
		},
		ShowingTo: last,
		Controls:  pageControls(c.page, pages),
		HasPrev:   c.page != 1,
		HasNext:   c.page != pages && pages != 0,
		Loading:   c.loading > 0,
		EditMode:  c.mode,
	}
	if count > 0 {
		view.ShowingFrom = first + 1
	}
	for _, f := range c.schema.Filters {
		view.Filters = append(view.Filters, models.FilterOption{
			Name:     f.Name,
			All:      f.All,
			Selected: c.filters[f.Name],
			Values:   append([]string{}, c.options[f.Name]...),
		})
	}
	if c.mode != models.EditModeNone {
		view.Draft = c.draft
		view.FormChoices = c.schema.Choices
	}
	return view
}

// Dataset projects the filtered collection onto the schema's columns.
func (c *RosterController[T]) Dataset() export.Dataset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data := export.Dataset{Headers: make([]string, 0, len(c.schema.Columns))}
	for _, col := range c.schema.Columns {
		data.Headers = append(data.Headers, col.Header)
	}
	for _, rec := range c.filtered {
		row := make(map[string]string, len(c.schema.Columns))
		for _, col := range c.schema.Columns {
			row[col.Header] = col.Value(rec)
		}
		data.Rows = append(data.Rows, row)
		data.Keys = append(data.Keys, c.schema.ID(rec))
	}
	return data
}

// refilter recomputes the filtered view and resets the page. Callers hold mu.
func (c *RosterController[T]) refilter() {
	c.filtered = filterRecords(c.records, c.schema, c.search, c.filters)
	c.page = 1
}

func (c *RosterController[T]) openForm(mode models.EditMode, draft T) {
	c.mode = mode
	c.draft = draft
	c.draftSeq++
}

func (c *RosterController[T]) closeForm() {
	var blank T
	c.mode = models.EditModeNone
	c.draft = blank
	c.draftSeq++
}

// closeFormIfCurrent leaves a form opened after the submission untouched.
func (c *RosterController[T]) closeFormIfCurrent(seq uint64) {
	if c.draftSeq == seq {
		c.closeForm()
	}
}

func filterRecords[T any](records []T, schema RosterSchema[T], search string, selected map[string]string) []T {
	prefix := strings.ToLower(search)
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if !strings.HasPrefix(strings.ToLower(schema.Name(rec)), prefix) {
			continue
		}
		if !matchesFilters(rec, schema.Filters, selected) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesFilters[T any](rec T, filters []CategoryFilter[T], selected map[string]string) bool {
	for _, f := range filters {
		value, ok := selected[f.Name]
		if !ok || value == f.All {
			continue
		}
		if f.Value(rec) != value {
			return false
		}
	}
	return true
}

func sortByName[T any](records []T, name func(T) string) []T {
	sorted := append([]T(nil), records...)
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(sorted, func(i, j int) bool {
		return col.CompareString(name(sorted[i]), name(sorted[j])) < 0
	})
	return sorted
}

func distinctOptions[T any](records []T, filters []CategoryFilter[T]) map[string][]string {
	options := make(map[string][]string, len(filters))
	for _, f := range filters {
		seen := make(map[string]struct{})
		values := []string{}
		for _, rec := range records {
			v := f.Value(rec)
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		options[f.Name] = values
	}
	return options
}

func totalPages(count int) int {
	return (count + models.ItemsPerPage - 1) / models.ItemsPerPage
}

func pageWindow(page, count int) (int, int) {
	first := (page - 1) * models.ItemsPerPage
	last := first + models.ItemsPerPage
	if first > count {
		first = count
	}
	if last > count {
		last = count
	}
	return first, last
}

// pageControls lists pages 1..min(total,3), then an ellipsis and the last
// page when there are more than three.
func pageControls(current, total int) []models.PageControl {
	shown := total
	if shown > 3 {
		shown = 3
	}
	controls := make([]models.PageControl, 0, shown+2)
	for p := 1; p <= shown; p++ {
		controls = append(controls, models.PageControl{Label: strconv.Itoa(p), Page: p, Active: p == current})
	}
	if total > 3 {
		controls = append(controls,
			models.PageControl{Label: "...", Ellipsis: true},
			models.PageControl{Label: strconv.Itoa(total), Page: total, Active: total == current},
		)
	}
	return controls
}
