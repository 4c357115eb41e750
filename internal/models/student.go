package models

// Student is an enrolled learner as stored by the roster backend.
type Student struct {
	ID            string `db:"id" json:"id,omitempty" csv:"id,omitempty"`
	RollNumber    string `db:"roll_number" json:"rollNumber" csv:"rollNumber"`
	Name          string `db:"name" json:"name" csv:"name" validate:"required"`
	Email         string `db:"email" json:"email" csv:"email" validate:"omitempty,email"`
	Phone         string `db:"phone" json:"phone" csv:"phone"`
	Department    string `db:"department" json:"department" csv:"department"`
	Semester      string `db:"semester" json:"semester" csv:"semester"`
	DOB           string `db:"dob" json:"dob" csv:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender        string `db:"gender" json:"gender" csv:"gender" validate:"omitempty,oneof=Male Female Other"`
	Address       string `db:"address" json:"address" csv:"address"`
	GuardianName  string `db:"guardian_name" json:"guardianName" csv:"guardianName"`
	GuardianPhone string `db:"guardian_phone" json:"guardianPhone" csv:"guardianPhone"`
	AdmissionDate string `db:"admission_date" json:"admissionDate" csv:"admissionDate" validate:"omitempty,datetime=2006-01-02"`
}

// Student genders accepted by the edit form. An empty value means unset.
var StudentGenders = []string{"Male", "Female", "Other"}
