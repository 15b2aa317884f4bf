package handlers

import (
	"errors"
	"io"
	"log/slog"

	"github.com/emanmohamed354/backend-diabetic/internal/services"
	"github.com/gofiber/fiber/v2"
)

// MaxUploadSize is the inbound ceiling for a single image. The outbound
// leg to the inference endpoint is unbounded.
const MaxUploadSize = 10 * 1024 * 1024

type PredictHandler struct {
	client *services.PredictClient
}

func NewPredictHandler(client *services.PredictClient) *PredictHandler {
	return &PredictHandler{client: client}
}

// Predict forwards the uploaded image to the external inference endpoint
// and relays whatever it answers. Size is checked before anything leaves
// the process.
func (h *PredictHandler) Predict(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"msg": "No file uploaded. Please select an image file.",
		})
	}

	if file.Size > MaxUploadSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"msg": "File too large. Maximum size is 10MB",
		})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"msg": "Failed to read uploaded file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"msg": "Failed to read uploaded file",
		})
	}

	slog.Info("forwarding prediction request",
		"filename", file.Filename, "size", file.Size, "endpoint", h.client.Endpoint())

	result, err := h.client.Forward(c.UserContext(), file.Filename, file.Header.Get("Content-Type"), data)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUpstreamTimeout):
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
				"msg":   "Request timeout - ML server took too long to respond",
				"error": err.Error(),
			})
		case errors.Is(err, services.ErrUpstreamUnreachable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"msg":     "External ML server is not reachable",
				"error":   "Cannot connect to " + h.client.Endpoint(),
				"details": err.Error(),
			})
		}
		slog.Error("prediction proxy failed", "error", err, "endpoint", h.client.Endpoint())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"msg":         "Failed to contact external analysis service",
			"error":       err.Error(),
			"mlServerUrl": h.client.Endpoint(),
		})
	}

	contentType := result.ContentType
	if contentType == "" {
		contentType = fiber.MIMEApplicationJSON
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(result.StatusCode).Send(result.Body)
}
