package service

import (
	"fmt"

	"github.com/Monalisa-XD/Academix/internal/models"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
)

// Remote collection names.
const (
	EntityFaculties = "faculties"
	EntityStudents  = "students"
)

// CategoryFilter is an exact-match filter over one record field. All is the
// sentinel that disables it.
type CategoryFilter[T any] struct {
	Name  string
	All   string
	Value func(T) string
}

// Column projects a record field for tabular output.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// RosterSchema is the field-accessor table a RosterController runs over.
type RosterSchema[T any] struct {
	Entity        string
	Label         string
	ConfirmPrompt string
	ID            func(T) string
	SetID         func(*T, string)
	Name          func(T) string
	Filters       []CategoryFilter[T]
	Columns       []Column[T]
	// Choices lists the values offered by the form's select fields.
	Choices map[string][]string
	// SetField assigns a draft field by its wire name.
	SetField func(rec *T, name, value string) error
	// Defaults fills unset fields of a record about to be created.
	Defaults func(rec T, today string) T
}

func (s RosterSchema[T]) filter(name string) (CategoryFilter[T], bool) {
	for _, f := range s.Filters {
		if f.Name == name {
			return f, true
		}
	}
	return CategoryFilter[T]{}, false
}

// YesNo converts the Head of Department selector. Only "Yes" is true.
func YesNo(value string) bool {
	return value == "Yes"
}

func yesNoLabel(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func unknownField(entity, name string) error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown %s field %q", entity, name))
}

// FacultySchema describes the faculty roster.
func FacultySchema() RosterSchema[models.Faculty] {
	return RosterSchema[models.Faculty]{
		Entity:        EntityFaculties,
		Label:         "faculty member",
		ConfirmPrompt: "Are you sure you want to delete this faculty member?",
		ID:            func(f models.Faculty) string { return f.ID },
		SetID:         func(f *models.Faculty, id string) { f.ID = id },
		Name:          func(f models.Faculty) string { return f.Name },
		Filters: []CategoryFilter[models.Faculty]{
			{Name: "department", All: "All Departments", Value: func(f models.Faculty) string { return f.Department }},
		},
		Columns: []Column[models.Faculty]{
			{Header: "Name", Value: func(f models.Faculty) string { return f.Name }},
			{Header: "Email", Value: func(f models.Faculty) string { return f.Email }},
			{Header: "Department", Value: func(f models.Faculty) string { return f.Department }},
			{Header: "Specialization", Value: func(f models.Faculty) string { return f.Specialization }},
			{Header: "HOD", Value: func(f models.Faculty) string { return yesNoLabel(f.IsHod) }},
			{Header: "Joined", Value: func(f models.Faculty) string { return f.JoiningDate }},
		},
		Choices: map[string][]string{
			"department": models.FacultyDepartments,
			"isHod":      {"Yes", "No"},
		},
		SetField: setFacultyField,
		Defaults: func(f models.Faculty, today string) models.Faculty {
			if f.JoiningDate == "" {
				f.JoiningDate = today
			}
			return f
		},
	}
}

func setFacultyField(f *models.Faculty, name, value string) error {
	switch name {
	case "name":
		f.Name = value
	case "department":
		f.Department = value
	case "education":
		f.Education = value
	case "email":
		f.Email = value
	case "phone":
		f.Phone = value
	case "specialization":
		f.Specialization = value
	case "isHod":
		f.IsHod = YesNo(value)
	case "joiningDate":
		f.JoiningDate = value
	default:
		return unknownField("faculty", name)
	}
	return nil
}

// StudentSchema describes the student roster.
func StudentSchema() RosterSchema[models.Student] {
	return RosterSchema[models.Student]{
		Entity:        EntityStudents,
		Label:         "student",
		ConfirmPrompt: "Are you sure you want to delete this student?",
		ID:            func(s models.Student) string { return s.ID },
		SetID:         func(s *models.Student, id string) { s.ID = id },
		Name:          func(s models.Student) string { return s.Name },
		Filters: []CategoryFilter[models.Student]{
			{Name: "department", All: "All Departments", Value: func(s models.Student) string { return s.Department }},
			{Name: "semester", All: "All Semesters", Value: func(s models.Student) string { return s.Semester }},
		},
		Columns: []Column[models.Student]{
			{Header: "Roll No", Value: func(s models.Student) string { return s.RollNumber }},
			{Header: "Name", Value: func(s models.Student) string { return s.Name }},
			{Header: "Department", Value: func(s models.Student) string { return s.Department }},
			{Header: "Semester", Value: func(s models.Student) string { return s.Semester }},
			{Header: "Email", Value: func(s models.Student) string { return s.Email }},
			{Header: "Admitted", Value: func(s models.Student) string { return s.AdmissionDate }},
		},
		Choices: map[string][]string{
			"gender": models.StudentGenders,
		},
		SetField: setStudentField,
		Defaults: func(s models.Student, today string) models.Student {
			if s.AdmissionDate == "" {
				s.AdmissionDate = today
			}
			return s
		},
	}
}

func setStudentField(s *models.Student, name, value string) error {
	switch name {
	case "rollNumber":
		s.RollNumber = value
	case "name":
		s.Name = value
	case "email":
		s.Email = value
	case "phone":
		s.Phone = value
	case "department":
		s.Department = value
	case "semester":
		s.Semester = value
	case "dob":
		s.DOB = value
	case "gender":
		s.Gender = value
	case "address":
		s.Address = value
	case "guardianName":
		s.GuardianName = value
	case "guardianPhone":
		s.GuardianPhone = value
	case "admissionDate":
		s.AdmissionDate = value
	default:
		return unknownField("student", name)
	}
	return nil
}
