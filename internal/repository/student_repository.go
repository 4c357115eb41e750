package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Monalisa-XD/Academix/internal/models"
)

const studentColumns = `id, roll_number, name, email, phone, department, semester,
	COALESCE(to_char(dob, 'YYYY-MM-DD'), '') AS dob, gender, address, guardian_name, guardian_phone,
	COALESCE(to_char(admission_date, 'YYYY-MM-DD'), '') AS admission_date`

// StudentRepository persists students for the reference roster API.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns every student ordered by name.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY name, id`
	records := []models.Student{}
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return records, nil
}

// Create inserts student with a fresh id and returns the stored record.
func (r *StudentRepository) Create(ctx context.Context, student models.Student) (*models.Student, error) {
	student.ID = uuid.NewString()
	const query = `INSERT INTO students (id, roll_number, name, email, phone, department, semester, dob, gender, address,
		guardian_name, guardian_phone, admission_date)
		VALUES (:id, :roll_number, :name, :email, :phone, :department, :semester, CAST(NULLIF(:dob, '') AS DATE), :gender,
		:address, :guardian_name, :guardian_phone, CAST(NULLIF(:admission_date, '') AS DATE))`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return &student, nil
}

// Update overwrites every field of the student with student.ID.
func (r *StudentRepository) Update(ctx context.Context, student models.Student) error {
	const query = `UPDATE students SET roll_number = :roll_number, name = :name, email = :email, phone = :phone,
		department = :department, semester = :semester, dob = CAST(NULLIF(:dob, '') AS DATE), gender = :gender,
		address = :address, guardian_name = :guardian_name, guardian_phone = :guardian_phone,
		admission_date = CAST(NULLIF(:admission_date, '') AS DATE), updated_at = NOW() WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return requireAffected(res, "update student")
}

// Delete removes the student with id.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return requireAffected(res, "delete student")
}
