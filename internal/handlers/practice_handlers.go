package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"studenthub/internal/store"
)

type EmployeeDTO struct {
	ID       uint      `json:"id"` // exposed so clients can pass it back as last_id
	Name     string    `json:"name"`
	Position string    `json:"position"`
	Salary   float64   `json:"salary"`
	HireDate time.Time `json:"hire_date"`
}

type PagedResult struct {
	Items []EmployeeDTO `json:"items"`
}

type PracticeHandlers struct {
	repo *store.PracticeRepository
}

func NewPracticeHandlers(repo *store.PracticeRepository) *PracticeHandlers {
	return &PracticeHandlers{repo: repo}
}

// GetDepartments GET /api/practice/departments
func (h *PracticeHandlers) GetDepartments(c *fiber.Ctx) error {
	departments, err := h.repo.GetAllDepartments()
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(departments)
}

// GetDepartment GET /api/practice/department/:id
func (h *PracticeHandlers) GetDepartment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	department, err := h.repo.GetDepartmentByID(uint(id))
	if err != nil {
		if errors.Is(err, store.ErrDepartmentNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(department)
}

// GetEmployees GET /api/practice/department/:id/employees?pageSize=&lastHireDate=&lastId=
// Keyset pagination: pass the hire date and id of the previous page's last
// row to fetch the next page.
func (h *PracticeHandlers) GetEmployees(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	pageSize := c.QueryInt("pageSize", 10)
	if pageSize < 1 {
		return c.Status(fiber.StatusBadRequest).SendString("Page size must be positive.")
	}

	var lastHireDate *time.Time
	if raw := c.Query("lastHireDate"); raw != "" {
		t, err := parseQueryTime(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid lastHireDate.")
		}
		lastHireDate = &t
	}

	var lastID *uint
	if raw := c.QueryInt("lastId", 0); raw > 0 {
		v := uint(raw)
		lastID = &v
	}

	employees, err := h.repo.GetEmployeesByDepartment(uint(id), pageSize, lastHireDate, lastID)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	result := PagedResult{
		Items: lo.Map(employees, func(e store.Employee, _ int) EmployeeDTO {
			return EmployeeDTO{
				ID:       e.ID,
				Name:     e.Name,
				Position: e.Position,
				Salary:   e.Salary,
				HireDate: e.HireDate,
			}
		}),
	}
	return c.JSON(result)
}

func parseQueryTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
