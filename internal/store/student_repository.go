package store

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrStudentNotFound is returned when an id resolves to no student.
	ErrStudentNotFound = errors.New("student not found")
	// ErrEmailTaken is returned when another student already uses the email.
	ErrEmailTaken = errors.New("email already exists in the database")
)

type StudentRepository struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewStudentRepository(db *gorm.DB, log *slog.Logger) *StudentRepository {
	return &StudentRepository{db: db, log: log}
}

func (r *StudentRepository) Create(student *Student) error {
	var count int64
	if err := r.db.Model(&Student{}).Where("email = ?", student.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if count > 0 {
		return ErrEmailTaken
	}

	student.CreatedDate = time.Now()
	if err := r.db.Create(student).Error; err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	r.log.Info("student added", "student_id", student.ID, "email", student.Email)
	return nil
}

// Update replaces the student row. When the incoming ImageURL is empty the
// stored one is kept, so updates without a new upload don't drop the image.
func (r *StudentRepository) Update(student *Student) error {
	var existing Student
	if err := r.db.First(&existing, student.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to load student %d: %w", student.ID, err)
	}

	var count int64
	err := r.db.Model(&Student{}).
		Where("email = ? AND id <> ?", student.Email, student.ID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if count > 0 {
		return ErrEmailTaken
	}

	if student.ImageURL == "" {
		student.ImageURL = existing.ImageURL
	}
	student.CreatedDate = existing.CreatedDate

	if err := r.db.Save(student).Error; err != nil {
		return fmt.Errorf("failed to update student %d: %w", student.ID, err)
	}
	return nil
}

func (r *StudentRepository) GetAll() ([]Student, error) {
	var students []Student
	if err := r.db.Order("id ASC").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch students: %w", err)
	}
	return students, nil
}

func (r *StudentRepository) GetByID(id uint) (*Student, error) {
	var student Student
	if err := r.db.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to fetch student %d: %w", id, err)
	}
	return &student, nil
}

func (r *StudentRepository) Delete(id uint) error {
	result := r.db.Delete(&Student{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete student %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}
