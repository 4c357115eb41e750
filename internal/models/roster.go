package models

// ItemsPerPage is the fixed roster page size.
const ItemsPerPage = 5

// EditMode describes the state of the roster edit form.
type EditMode string

const (
	EditModeNone   EditMode = ""
	EditModeCreate EditMode = "create"
	EditModeEdit   EditMode = "edit"
)

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// PageControl is one button of the pager. Ellipsis controls carry no page.
type PageControl struct {
	Label    string `json:"label"`
	Page     int    `json:"page,omitempty"`
	Active   bool   `json:"active"`
	Ellipsis bool   `json:"ellipsis,omitempty"`
}

// FilterOption lists the selectable values of one categorical filter.
type FilterOption struct {
	Name     string   `json:"name"`
	All      string   `json:"all"`
	Selected string   `json:"selected"`
	Values   []string `json:"values"`
}

// RosterView is the rendered state of one roster list.
type RosterView struct {
	Entity      string              `json:"entity"`
	Items       interface{}         `json:"items"`
	Search      string              `json:"search"`
	Filters     []FilterOption      `json:"filters"`
	Pagination  Pagination          `json:"pagination"`
	ShowingFrom int                 `json:"showing_from"`
	ShowingTo   int                 `json:"showing_to"`
	Controls    []PageControl       `json:"controls"`
	HasPrev     bool                `json:"has_prev"`
	HasNext     bool                `json:"has_next"`
	Loading     bool                `json:"loading"`
	EditMode    EditMode            `json:"edit_mode,omitempty"`
	Draft       interface{}         `json:"draft,omitempty"`
	FormChoices map[string][]string `json:"form_choices,omitempty"`
}
