package main

import (
	"log/slog"
	"os"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"studenthub/internal/chat"
	"studenthub/internal/chatbot"
	"studenthub/internal/config"
	"studenthub/internal/handlers"
	"studenthub/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Error("failed to open store", "path", cfg.DatabasePath, "err", err)
		os.Exit(1)
	}

	tree, err := chatbot.Load(cfg.QuestionsPath)
	if err != nil {
		log.Error("failed to load question tree", "path", cfg.QuestionsPath, "err", err)
		os.Exit(1)
	}

	hub := chat.NewHub(store.NewChatRepository(db, log), log)

	chatHandlers := handlers.NewChatHandlers(hub)
	studentHandlers := handlers.NewStudentHandlers(store.NewStudentRepository(db, log), cfg.UploadsDir)
	practiceHandlers := handlers.NewPracticeHandlers(store.NewPracticeRepository(db, log))
	chatbotHandlers := handlers.NewChatbotHandlers(tree)

	app := fiber.New()

	app.Static("/", "./public")

	// real-time chat relay
	app.Get("/api/ws/chat", websocket.New(chatHandlers.Register))

	// students CRUD
	app.Post("/api/students", studentHandlers.AddStudent)
	app.Put("/api/students/:id", studentHandlers.UpdateStudent)
	app.Get("/api/students", studentHandlers.GetAllStudents)
	app.Get("/api/students/:id", studentHandlers.GetStudent)
	app.Delete("/api/students/:id", studentHandlers.DeleteStudent)

	// department / employee lookup
	app.Get("/api/practice/departments", practiceHandlers.GetDepartments)
	app.Get("/api/practice/department/:id", practiceHandlers.GetDepartment)
	app.Get("/api/practice/department/:id/employees", practiceHandlers.GetEmployees)

	// chatbot
	app.Get("/api/chatbot/questions", chatbotHandlers.GetTopQuestions)
	app.Get("/api/chatbot/question/:id", chatbotHandlers.GetNode)

	log.Info("listening", "addr", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
