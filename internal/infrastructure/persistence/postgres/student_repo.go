package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sansa-learn/fee-ledger/internal/domain/shared"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
)

const studentColumns = `
	admission_no, name, father_name, class, mobile,
	fee_per_month::text, discount::text, admission_date, active,
	created_at, updated_at`

// StudentRepository implements student.Repository using PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// Create stores a new student.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO students (
			admission_no, name, father_name, class, mobile,
			fee_per_month, discount, admission_date, active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8, $9, $10, $11)`,
		s.AdmissionNo.String(), s.Name, s.FatherName, s.Class, s.Mobile,
		s.FeePerMonth.String(), s.Discount.String(), s.AdmissionDate, s.Active,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrStudentAlreadyExists
		}
		return storageErr("create student", err)
	}
	return nil
}

// GetByAdmissionNo returns the student with the given admission number.
func (r *StudentRepository) GetByAdmissionNo(ctx context.Context, no student.AdmissionNumber) (*student.Student, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE admission_no = $1`,
		no.String(),
	)

	s, err := scanStudent(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, storageErr("get student", err)
	}
	return s, nil
}

// List returns students ordered by admission number, optionally filtered by a
// case-insensitive substring match on admission number or name.
func (r *StudentRepository) List(ctx context.Context, search string) ([]*student.Student, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if search == "" {
		rows, err = r.conn.Query(ctx,
			`SELECT `+studentColumns+` FROM students ORDER BY admission_no`)
	} else {
		rows, err = r.conn.Query(ctx,
			`SELECT `+studentColumns+` FROM students
			 WHERE admission_no ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%'
			 ORDER BY admission_no`,
			search,
		)
	}
	if err != nil {
		return nil, storageErr("list students", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// ListActive returns all currently studying students.
func (r *StudentRepository) ListActive(ctx context.Context) ([]*student.Student, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+studentColumns+` FROM students WHERE active ORDER BY admission_no`)
	if err != nil {
		return nil, storageErr("list active students", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// Update stores changes to an existing student's mutable fields.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) error {
	tag, err := r.conn.Exec(ctx, `
		UPDATE students
		SET name = $2, father_name = $3, class = $4, mobile = $5,
		    fee_per_month = $6::numeric, discount = $7::numeric,
		    admission_date = $8, active = $9, updated_at = $10
		WHERE admission_no = $1`,
		s.AdmissionNo.String(), s.Name, s.FatherName, s.Class, s.Mobile,
		s.FeePerMonth.String(), s.Discount.String(),
		s.AdmissionDate, s.Active, s.UpdatedAt,
	)
	if err != nil {
		return storageErr("update student", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}
	return nil
}

// Delete removes the student. Fee obligations cascade via the foreign key.
func (r *StudentRepository) Delete(ctx context.Context, no student.AdmissionNumber) error {
	tag, err := r.conn.Exec(ctx,
		`DELETE FROM students WHERE admission_no = $1`, no.String())
	if err != nil {
		return storageErr("delete student", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}
	return nil
}

// Count returns the number of registered students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, storageErr("count students", err)
	}
	return count, nil
}

func scanStudent(row pgx.Row) (*student.Student, error) {
	var (
		s             student.Student
		admissionNo   string
		fee, discount string
	)
	err := row.Scan(
		&admissionNo, &s.Name, &s.FatherName, &s.Class, &s.Mobile,
		&fee, &discount, &s.AdmissionDate, &s.Active,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.AdmissionNo = student.AdmissionNumber(admissionNo)
	if s.FeePerMonth, err = decimal.NewFromString(fee); err != nil {
		return nil, fmt.Errorf("invalid fee_per_month %q: %w", fee, err)
	}
	if s.Discount, err = decimal.NewFromString(discount); err != nil {
		return nil, fmt.Errorf("invalid discount %q: %w", discount, err)
	}
	return &s, nil
}

func scanStudents(rows pgx.Rows) ([]*student.Student, error) {
	var students []*student.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, storageErr("scan student", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate students", err)
	}
	return students, nil
}
