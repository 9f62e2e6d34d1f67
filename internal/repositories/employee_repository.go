package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"brewery_backend/internal/models"
)

// EmployeeRepository defines the roster's database operations.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, executor SQLExecutor, emp *models.Employee) (*models.Employee, error)
	GetEmployeeByID(ctx context.Context, id int64) (*models.Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error)
	GetEmployees(ctx context.Context) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, executor SQLExecutor, emp *models.Employee) (*models.Employee, error)
	SetPasswordHash(ctx context.Context, executor SQLExecutor, id int64, hash string) error
	DeleteEmployee(ctx context.Context, executor SQLExecutor, id int64) error
}

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository.
func NewEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, name, email, phone, is_admin, password_hash, created_at, updated_at`

func scanEmployee(row scanner) (*models.Employee, error) {
	var emp models.Employee
	var email, phone, hash sql.NullString
	if err := row.Scan(&emp.ID, &emp.Name, &email, &phone, &emp.IsAdmin, &hash, &emp.CreatedAt, &emp.UpdatedAt); err != nil {
		return nil, err
	}
	emp.Email = stringPtr(email)
	emp.Phone = stringPtr(phone)
	emp.PasswordHash = stringPtr(hash)
	return &emp, nil
}

func (r *employeeRepository) CreateEmployee(ctx context.Context, executor SQLExecutor, emp *models.Employee) (*models.Employee, error) {
	query := `INSERT INTO employees (name, email, phone, is_admin, password_hash, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`

	now := time.Now()
	err := executor.QueryRowContext(ctx, query,
		emp.Name, nullString(emp.Email), nullString(emp.Phone), emp.IsAdmin, nullString(emp.PasswordHash), now, now,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "creating employee")
	}
	return emp, nil
}

func (r *employeeRepository) GetEmployeeByID(ctx context.Context, id int64) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	emp, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "getting employee by id")
	}
	return emp, nil
}

func (r *employeeRepository) GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE LOWER(email) = LOWER($1)`
	emp, err := scanEmployee(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translateError(err, "getting employee by email")
	}
	return emp, nil
}

func (r *employeeRepository) GetEmployees(ctx context.Context) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying employees: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning employee: %v", ErrDatabaseError, err)
		}
		employees = append(employees, *emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating employees: %v", ErrDatabaseError, err)
	}
	return employees, nil
}

func (r *employeeRepository) UpdateEmployee(ctx context.Context, executor SQLExecutor, emp *models.Employee) (*models.Employee, error) {
	query := `UPDATE employees SET name = $1, email = $2, phone = $3, is_admin = $4, updated_at = $5
	          WHERE id = $6
	          RETURNING created_at, updated_at`

	err := executor.QueryRowContext(ctx, query,
		emp.Name, nullString(emp.Email), nullString(emp.Phone), emp.IsAdmin, time.Now(), emp.ID,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "updating employee")
	}
	return emp, nil
}

func (r *employeeRepository) SetPasswordHash(ctx context.Context, executor SQLExecutor, id int64, hash string) error {
	res, err := executor.ExecContext(ctx, `UPDATE employees SET password_hash = $1, updated_at = $2 WHERE id = $3`, hash, time.Now(), id)
	if err != nil {
		return translateError(err, "setting password hash")
	}
	return requireAffected(res, "setting password hash")
}

// DeleteEmployee removes the employee. Shift rows keep their denormalized name
// and lose the reference; event assignments are removed by cascade.
func (r *employeeRepository) DeleteEmployee(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting employee")
	}
	return requireAffected(res, "deleting employee")
}
