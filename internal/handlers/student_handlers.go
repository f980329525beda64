package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studenthub/internal/store"
)

// StudentForm carries the multipart fields of the add/update endpoints.
// The rules mirror the students table constraints.
type StudentForm struct {
	StudentID   uint   `form:"student_id"`
	FirstName   string `form:"first_name" validate:"required,max=50"`
	LastName    string `form:"last_name" validate:"required,max=50"`
	Email       string `form:"email" validate:"required,email,max=100"`
	DateOfBirth string `form:"date_of_birth" validate:"required"`
	Gender      string `form:"gender" validate:"required,max=10"`
	Major       string `form:"major" validate:"max=50"`
}

type StudentHandlers struct {
	repo       *store.StudentRepository
	validate   *validator.Validate
	uploadsDir string
}

func NewStudentHandlers(repo *store.StudentRepository, uploadsDir string) *StudentHandlers {
	return &StudentHandlers{
		repo:       repo,
		validate:   validator.New(),
		uploadsDir: uploadsDir,
	}
}

// AddStudent POST /api/students
func (h *StudentHandlers) AddStudent(c *fiber.Ctx) error {
	form, dob, ferr := h.parseForm(c)
	if ferr != nil {
		return c.Status(ferr.status).JSON(ferr.body)
	}

	student := store.Student{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		DateOfBirth: dob,
		Gender:      form.Gender,
		Major:       form.Major,
	}

	imageURL, err := h.saveImage(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store image."})
	}
	student.ImageURL = imageURL

	if err := h.repo.Create(&student); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred while adding the student."})
	}
	return c.JSON(fiber.Map{"student_id": student.ID, "message": "Student added successfully"})
}

// UpdateStudent PUT /api/students/:id
func (h *StudentHandlers) UpdateStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	form, dob, ferr := h.parseForm(c)
	if ferr != nil {
		return c.Status(ferr.status).JSON(ferr.body)
	}
	if uint(id) != form.StudentID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Student ID mismatch."})
	}

	student := store.Student{
		ID:          uint(id),
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		DateOfBirth: dob,
		Gender:      form.Gender,
		Major:       form.Major,
	}

	// When no new image is uploaded the repository keeps the stored one.
	imageURL, err := h.saveImage(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store image."})
	}
	student.ImageURL = imageURL

	if err := h.repo.Update(&student); err != nil {
		switch {
		case errors.Is(err, store.ErrStudentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found."})
		case errors.Is(err, store.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred while updating the student."})
		}
	}
	return c.JSON(fiber.Map{"message": "Student updated successfully"})
}

// GetAllStudents GET /api/students
func (h *StudentHandlers) GetAllStudents(c *fiber.Ctx) error {
	students, err := h.repo.GetAll()
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(students)
}

// GetStudent GET /api/students/:id
func (h *StudentHandlers) GetStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	student, err := h.repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, store.ErrStudentNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(student)
}

// DeleteStudent DELETE /api/students/:id
func (h *StudentHandlers) DeleteStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if err := h.repo.Delete(uint(id)); err != nil {
		if errors.Is(err, store.ErrStudentNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred while deleting the student."})
	}
	return c.JSON(fiber.Map{"message": "Student deleted successfully"})
}

// formError carries a ready-to-send rejection from parseForm.
type formError struct {
	status int
	body   any
}

// parseForm binds and validates the multipart form.
func (h *StudentHandlers) parseForm(c *fiber.Ctx) (StudentForm, time.Time, *formError) {
	var form StudentForm
	if err := c.BodyParser(&form); err != nil {
		return form, time.Time{}, &formError{fiber.StatusBadRequest, fiber.Map{"error": "Invalid form data."}}
	}

	if err := h.validate.Struct(form); err != nil {
		fields := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fmt.Sprintf("failed on the %q rule", fe.Tag())
			}
		}
		return form, time.Time{}, &formError{fiber.StatusBadRequest, fiber.Map{"errors": fields}}
	}

	dob, err := time.Parse("2006-01-02", form.DateOfBirth)
	if err != nil {
		return form, time.Time{}, &formError{fiber.StatusBadRequest, fiber.Map{"error": "Invalid date format."}}
	}
	return form, dob, nil
}

// saveImage stores an uploaded image under the uploads directory with a
// fresh name. No file on the request is not an error.
func (h *StudentHandlers) saveImage(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("image")
	if err != nil || file == nil {
		return "", nil
	}
	name := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveFile(file, filepath.Join(h.uploadsDir, name)); err != nil {
		return "", err
	}
	return "/images/" + name, nil
}
