package handlers

import (
	"errors"
	"net/http"

	"brewery_backend/internal/models"
	"brewery_backend/internal/services"
	"brewery_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// EmployeeHandler holds the employee service.
type EmployeeHandler struct {
	employeeService services.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(es services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: es}
}

// CreateEmployee handles the creation of a new employee.
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req services.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "CreateEmployee", err)
		return
	}

	emp, err := h.employeeService.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		utils.LogError(err, "CreateEmployee: Error from employeeService.CreateEmployee")
		if errors.Is(err, services.ErrEmployeeValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrEmployeeEmailExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email is already used by another employee.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create employee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, emp)
}

// GetEmployees returns the full roster ordered by name.
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	employees, err := h.employeeService.GetEmployees(c.Request.Context())
	if err != nil {
		utils.RespondInternal(c, err, "Failed to fetch employees.")
		return
	}
	if employees == nil {
		employees = []models.Employee{}
	}
	c.JSON(http.StatusOK, gin.H{"data": employees, "total": len(employees)})
}

// GetEmployeeByID handles fetching a single employee by ID.
func (h *EmployeeHandler) GetEmployeeByID(c *gin.Context) {
	id, ok := parseIDParam(c, "employee")
	if !ok {
		return
	}

	emp, err := h.employeeService.GetEmployeeByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found.", err.Error()))
		} else {
			utils.RespondInternal(c, err, "Failed to fetch employee.")
		}
		return
	}
	c.JSON(http.StatusOK, emp)
}

// UpdateEmployee handles updating an employee.
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := parseIDParam(c, "employee")
	if !ok {
		return
	}

	var req services.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "UpdateEmployee", err)
		return
	}

	emp, err := h.employeeService.UpdateEmployee(c.Request.Context(), id, req)
	if err != nil {
		utils.LogError(err, "UpdateEmployee: Error from employeeService.UpdateEmployee", map[string]interface{}{"employee_id": id})
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found to update.", err.Error()))
		} else if errors.Is(err, services.ErrEmployeeValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrEmployeeEmailExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email is already used by another employee.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update employee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, emp)
}

// DeleteEmployee handles deleting an employee.
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, ok := parseIDParam(c, "employee")
	if !ok {
		return
	}

	if err := h.employeeService.DeleteEmployee(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found to delete.", err.Error()))
		} else {
			utils.RespondInternal(c, err, "Failed to delete employee.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}
