package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"studenthub/internal/chatbot"
)

type ChatbotHandlers struct {
	tree *chatbot.Tree
}

func NewChatbotHandlers(tree *chatbot.Tree) *ChatbotHandlers {
	return &ChatbotHandlers{tree: tree}
}

// GetTopQuestions GET /api/chatbot/questions
func (h *ChatbotHandlers) GetTopQuestions(c *fiber.Ctx) error {
	return c.JSON(h.tree.Top())
}

// GetNode GET /api/chatbot/question/:id
// A leaf answers, a branch lists its sub-questions.
func (h *ChatbotHandlers) GetNode(c *fiber.Ctx) error {
	id := c.Params("id")
	answer, children, err := h.tree.Find(id)
	if err != nil {
		if errors.Is(err, chatbot.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": fmt.Sprintf("Question %q not found.", id),
			})
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	if answer != nil {
		return c.JSON(answer)
	}
	return c.JSON(children)
}
