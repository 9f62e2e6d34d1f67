package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"brewery_backend/internal/models"
	"brewery_backend/internal/repositories"
	"brewery_backend/pkg/utils"
)

// --- Custom Service Errors for Employees ---
var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeValidation  = errors.New("employee data validation error")
	ErrEmployeeEmailExists = errors.New("email is already used by another employee")
)

const minPasswordLength = 8

// --- Employee DTOs ---
type CreateEmployeeRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	IsAdmin  bool    `json:"is_admin"`
	Password *string `json:"password"`
}

type UpdateEmployeeRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	IsAdmin  *bool   `json:"is_admin"`
	Password *string `json:"password"`
}

// --- EmployeeService Interface ---
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error)
	GetEmployeeByID(ctx context.Context, id int64) (*models.Employee, error)
	GetEmployees(ctx context.Context) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, req UpdateEmployeeRequest) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

type employeeService struct {
	employeeRepo repositories.EmployeeRepository
	db           *sql.DB
}

// NewEmployeeService creates a new instance of EmployeeService.
func NewEmployeeService(er repositories.EmployeeRepository, db *sql.DB) EmployeeService {
	return &employeeService{employeeRepo: er, db: db}
}

func normalizeEmail(email *string) (*string, error) {
	e := utils.NewNullString(utils.DerefString(email))
	if e == nil {
		return nil, nil
	}
	lower := strings.ToLower(*e)
	if !utils.IsValidEmail(lower) {
		return nil, fmt.Errorf("%w: invalid email %q", ErrEmployeeValidation, *e)
	}
	return &lower, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", ErrEmployeeValidation, minPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func mapEmployeeRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrEmployeeNotFound
	case errors.Is(err, repositories.ErrDuplicateKey):
		return ErrEmployeeEmailExists
	}
	return err
}

func (s *employeeService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrEmployeeValidation)
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	emp := &models.Employee{
		Name:    name,
		Email:   email,
		Phone:   utils.NewNullString(utils.DerefString(req.Phone)),
		IsAdmin: req.IsAdmin,
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		emp.PasswordHash = &hash
	}

	created, err := s.employeeRepo.CreateEmployee(ctx, s.db, emp)
	if err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", mapEmployeeRepoError(err))
	}
	utils.LogInfo("Employee created", map[string]interface{}{"employee_id": created.ID})
	return created, nil
}

func (s *employeeService) GetEmployeeByID(ctx context.Context, id int64) (*models.Employee, error) {
	emp, err := s.employeeRepo.GetEmployeeByID(ctx, id)
	if err != nil {
		return nil, mapEmployeeRepoError(err)
	}
	return emp, nil
}

func (s *employeeService) GetEmployees(ctx context.Context) ([]models.Employee, error) {
	return s.employeeRepo.GetEmployees(ctx)
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id int64, req UpdateEmployeeRequest) (*models.Employee, error) {
	emp, err := s.employeeRepo.GetEmployeeByID(ctx, id)
	if err != nil {
		return nil, mapEmployeeRepoError(err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrEmployeeValidation)
		}
		emp.Name = name
	}
	if req.Email != nil {
		if emp.Email, err = normalizeEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		emp.Phone = utils.NewNullString(*req.Phone)
	}
	if req.IsAdmin != nil {
		emp.IsAdmin = *req.IsAdmin
	}

	var hash string
	if req.Password != nil && *req.Password != "" {
		if hash, err = hashPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.employeeRepo.UpdateEmployee(ctx, tx, emp); err != nil {
			return err
		}
		if hash != "" {
			return s.employeeRepo.SetPasswordHash(ctx, tx, emp.ID, hash)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", mapEmployeeRepoError(err))
	}
	return emp, nil
}

// DeleteEmployee removes an employee; their event assignments go with them and
// their schedule rows remain, keyed by name only.
func (s *employeeService) DeleteEmployee(ctx context.Context, id int64) error {
	if err := s.employeeRepo.DeleteEmployee(ctx, s.db, id); err != nil {
		return mapEmployeeRepoError(err)
	}
	utils.LogInfo("Employee deleted", map[string]interface{}{"employee_id": id})
	return nil
}
