package models

// Faculty is a teaching staff member as stored by the roster backend.
type Faculty struct {
	ID             string `db:"id" json:"id,omitempty" csv:"id,omitempty"`
	Name           string `db:"name" json:"name" csv:"name" validate:"required"`
	Department     string `db:"department" json:"department" csv:"department"`
	Education      string `db:"education" json:"education" csv:"education"`
	Email          string `db:"email" json:"email" csv:"email" validate:"omitempty,email"`
	Phone          string `db:"phone" json:"phone" csv:"phone"`
	Specialization string `db:"specialization" json:"specialization" csv:"specialization"`
	IsHod          bool   `db:"is_hod" json:"isHod" csv:"isHod"`
	JoiningDate    string `db:"joining_date" json:"joiningDate" csv:"joiningDate" validate:"omitempty,datetime=2006-01-02"`
}

// Faculty departments offered by the edit form.
var FacultyDepartments = []string{"Degree", "Diploma", "ITI"}
