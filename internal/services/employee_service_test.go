package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateEmployee(t *testing.T) {
	db, _ := newMockDB(t)
	repo := newFakeEmployeeRepo(testRoster()...)
	svc := NewEmployeeService(repo, db)
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, CreateEmployeeRequest{
		Name:     "  Kim Cellar ",
		Email:    strPtr("Kim@Brewery.test"),
		Password: strPtr("long-enough"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Kim Cellar", emp.Name)
	assert.Equal(t, "kim@brewery.test", *emp.Email)
	require.NotNil(t, emp.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*emp.PasswordHash), []byte("long-enough")))

	_, err = svc.CreateEmployee(ctx, CreateEmployeeRequest{Name: "Dup", Email: strPtr("matt@brewery.test")})
	assert.ErrorIs(t, err, ErrEmployeeEmailExists)

	tests := []struct {
		name string
		req  CreateEmployeeRequest
	}{
		{"blank name", CreateEmployeeRequest{Name: " "}},
		{"bad email", CreateEmployeeRequest{Name: "A", Email: strPtr("not-an-email")}},
		{"short password", CreateEmployeeRequest{Name: "A", Password: strPtr("short")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEmployee(ctx, tt.req)
			assert.ErrorIs(t, err, ErrEmployeeValidation)
		})
	}
}

func TestUpdateEmployeeSetsPasswordInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newFakeEmployeeRepo(testRoster()...)
	svc := NewEmployeeService(repo, db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	admin := false
	emp, err := svc.UpdateEmployee(ctx, 3, UpdateEmployeeRequest{
		Name:     strPtr("Jo Hops"),
		IsAdmin:  &admin,
		Password: strPtr("new-password"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Jo Hops", emp.Name)

	stored, err := svc.GetEmployeeByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Jo Hops", stored.Name)
	require.NotNil(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("new-password")))

	_, err = svc.UpdateEmployee(ctx, 99, UpdateEmployeeRequest{Name: strPtr("Ghost")})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
	_, err = svc.UpdateEmployee(ctx, 3, UpdateEmployeeRequest{Name: strPtr("")})
	assert.ErrorIs(t, err, ErrEmployeeValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEmployee(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewEmployeeService(newFakeEmployeeRepo(testRoster()...), db)

	require.NoError(t, svc.DeleteEmployee(context.Background(), 2))
	assert.ErrorIs(t, svc.DeleteEmployee(context.Background(), 2), ErrEmployeeNotFound)

	all, err := svc.GetEmployees(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
