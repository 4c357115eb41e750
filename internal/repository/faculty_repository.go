package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Monalisa-XD/Academix/internal/models"
)

const facultyColumns = `id, name, department, education, email, phone, specialization, is_hod,
	COALESCE(to_char(joining_date, 'YYYY-MM-DD'), '') AS joining_date`

// FacultyRepository persists faculty members for the reference roster API.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository creates a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// List returns every faculty member ordered by name.
func (r *FacultyRepository) List(ctx context.Context) ([]models.Faculty, error) {
	query := `SELECT ` + facultyColumns + ` FROM faculties ORDER BY name, id`
	records := []models.Faculty{}
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list faculties: %w", err)
	}
	return records, nil
}

// Create inserts faculty with a fresh id and returns the stored record.
func (r *FacultyRepository) Create(ctx context.Context, faculty models.Faculty) (*models.Faculty, error) {
	faculty.ID = uuid.NewString()
	const query = `INSERT INTO faculties (id, name, department, education, email, phone, specialization, is_hod, joining_date)
		VALUES (:id, :name, :department, :education, :email, :phone, :specialization, :is_hod, CAST(NULLIF(:joining_date, '') AS DATE))`
	if _, err := r.db.NamedExecContext(ctx, query, faculty); err != nil {
		return nil, fmt.Errorf("create faculty: %w", err)
	}
	return &faculty, nil
}

// Update overwrites every field of the faculty member with faculty.ID.
// It returns sql.ErrNoRows when no such member exists.
func (r *FacultyRepository) Update(ctx context.Context, faculty models.Faculty) error {
	const query = `UPDATE faculties SET name = :name, department = :department, education = :education, email = :email,
		phone = :phone, specialization = :specialization, is_hod = :is_hod,
		joining_date = CAST(NULLIF(:joining_date, '') AS DATE), updated_at = NOW() WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, faculty)
	if err != nil {
		return fmt.Errorf("update faculty: %w", err)
	}
	return requireAffected(res, "update faculty")
}

// Delete removes the faculty member with id. It returns sql.ErrNoRows when
// no such member exists.
func (r *FacultyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM faculties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete faculty: %w", err)
	}
	return requireAffected(res, "delete faculty")
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
