package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ChatCompleter is the single-turn LLM capability behind the chatbot widget.
type ChatCompleter interface {
	Complete(message string) (string, error)
}

type ChatController struct {
	Chat ChatCompleter
}

type chatRequest struct {
	Message string `json:"message"`
}

func (cc *ChatController) Send(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return c.Status(400).JSON(fiber.Map{"error": "message is required"})
	}

	reply, err := cc.Chat.Complete(msg)
	if err != nil {
		log.Printf("ERROR: chat completion failed: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": "chat service unavailable"})
	}

	return c.JSON(fiber.Map{"reply": reply})
}
