package store

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// ErrDepartmentNotFound is returned when an id resolves to no department.
var ErrDepartmentNotFound = errors.New("department not found")

type PracticeRepository struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewPracticeRepository(db *gorm.DB, log *slog.Logger) *PracticeRepository {
	return &PracticeRepository{db: db, log: log}
}

func (r *PracticeRepository) GetAllDepartments() ([]Department, error) {
	var departments []Department
	if err := r.db.Order("id ASC").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch departments: %w", err)
	}
	return departments, nil
}

func (r *PracticeRepository) GetDepartmentByID(id uint) (*Department, error) {
	var department Department
	if err := r.db.First(&department, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch department %d: %w", id, err)
	}
	return &department, nil
}

// GetEmployeesByDepartment pages through a department's employees using
// keyset pagination on (hire_date, id). Pass the last row of the previous
// page to get the next one; nil cursors fetch the first page.
func (r *PracticeRepository) GetEmployeesByDepartment(departmentID uint, pageSize int, lastHireDate *time.Time, lastID *uint) ([]Employee, error) {
	query := r.db.Where("department_id = ?", departmentID)
	if lastHireDate != nil && lastID != nil {
		query = query.Where("(hire_date > ?) OR (hire_date = ? AND id > ?)", *lastHireDate, *lastHireDate, *lastID)
	}

	var employees []Employee
	err := query.Order("hire_date ASC, id ASC").Limit(pageSize).Find(&employees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees for department %d: %w", departmentID, err)
	}
	return employees, nil
}
