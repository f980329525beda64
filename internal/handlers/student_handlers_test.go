package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"studenthub/internal/store"
)

func testSlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func studentApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testDB(t)
	h := NewStudentHandlers(store.NewStudentRepository(db, testSlog()), t.TempDir())
	app := fiber.New()
	app.Post("/api/students", h.AddStudent)
	app.Put("/api/students/:id", h.UpdateStudent)
	app.Get("/api/students", h.GetAllStudents)
	app.Get("/api/students/:id", h.GetStudent)
	app.Delete("/api/students/:id", h.DeleteStudent)
	return app
}

func postStudent(t *testing.T, app *fiber.App, method, target string, fields map[string]string) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	require.NoError(t, w.Close())

	httpReq := httptest.NewRequest(method, target, &buf)
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(httpReq)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func validStudentFields() map[string]string {
	return map[string]string{
		"first_name":    "Ada",
		"last_name":     "Lovelace",
		"email":         "ada@x.edu",
		"date_of_birth": "1998-12-10",
		"gender":        "female",
		"major":         "CS",
	}
}

func Test_AddStudent_Endpoint(t *testing.T) {
	req := require.New(t)
	app := studentApp(t)

	status, body := postStudent(t, app, "POST", "/api/students", validStudentFields())
	req.Equal(fiber.StatusOK, status)

	var result struct {
		StudentID uint   `json:"student_id"`
		Message   string `json:"message"`
	}
	req.NoError(json.Unmarshal(body, &result))
	req.NotZero(result.StudentID)
	req.Equal("Student added successfully", result.Message)
}

func Test_AddStudent_Validation_Errors(t *testing.T) {
	req := require.New(t)
	app := studentApp(t)

	fields := validStudentFields()
	fields["email"] = "not-an-email"
	delete(fields, "first_name")

	status, body := postStudent(t, app, "POST", "/api/students", fields)
	req.Equal(fiber.StatusBadRequest, status)

	var result struct {
		Errors map[string]string `json:"errors"`
	}
	req.NoError(json.Unmarshal(body, &result))
	req.Contains(result.Errors, "Email")
	req.Contains(result.Errors, "FirstName")
}

func Test_AddStudent_Duplicate_Email(t *testing.T) {
	req := require.New(t)
	app := studentApp(t)

	status, _ := postStudent(t, app, "POST", "/api/students", validStudentFields())
	req.Equal(fiber.StatusOK, status)

	status, _ = postStudent(t, app, "POST", "/api/students", validStudentFields())
	req.Equal(fiber.StatusConflict, status)
}

func Test_UpdateStudent_Id_Mismatch(t *testing.T) {
	req := require.New(t)
	app := studentApp(t)

	status, _ := postStudent(t, app, "POST", "/api/students", validStudentFields())
	req.Equal(fiber.StatusOK, status)

	fields := validStudentFields()
	fields["student_id"] = "2"
	status, _ = postStudent(t, app, "PUT", "/api/students/1", fields)
	req.Equal(fiber.StatusBadRequest, status)
}

func Test_Student_Get_And_Delete_Endpoints(t *testing.T) {
	req := require.New(t)
	app := studentApp(t)

	status, _ := postStudent(t, app, "POST", "/api/students", validStudentFields())
	req.Equal(fiber.StatusOK, status)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/students/1", nil))
	req.NoError(err)
	req.Equal(fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/students/1", nil))
	req.NoError(err)
	req.Equal(fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/students/1", nil))
	req.NoError(err)
	req.Equal(fiber.StatusNotFound, resp.StatusCode)
}
