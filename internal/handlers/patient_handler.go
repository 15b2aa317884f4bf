package handlers

import (
	"errors"
	"fmt"

	"github.com/emanmohamed354/backend-diabetic/internal/dto"
	"github.com/emanmohamed354/backend-diabetic/internal/middleware"
	"github.com/emanmohamed354/backend-diabetic/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PatientHandler struct {
	patientService *services.PatientService
}

func NewPatientHandler(patientService *services.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

func (h *PatientHandler) List(c *fiber.Ctx) error {
	doctorID, err := middleware.DoctorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Unauthorized"})
	}

	patients, err := h.patientService.List(doctorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
	}

	return c.JSON(fiber.Map{
		"msg":      "Patients fetched successfully",
		"count":    len(patients),
		"patients": patients,
	})
}

func (h *PatientHandler) Get(c *fiber.Ctx) error {
	doctorID, err := middleware.DoctorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Unauthorized"})
	}

	patientID, err := uuid.Parse(c.Params("patientId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid patient id"})
	}

	patient, analyses, err := h.patientService.Get(doctorID, patientID)
	if err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"msg": "Patient not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
	}

	return c.JSON(fiber.Map{
		"msg":           "Patient details fetched",
		"patient":       patient,
		"analyses":      analyses,
		"analysisCount": len(analyses),
	})
}

func (h *PatientHandler) Create(c *fiber.Ctx) error {
	doctorID, err := middleware.DoctorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Unauthorized"})
	}

	var req dto.CreatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}

	if req.Name == "" || req.Age == 0 || req.Gender == "" || req.DiabetesType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"msg":      "Missing required fields",
			"required": []string{"name", "age", "gender", "diabetesType"},
		})
	}
	if req.Age < 1 || req.Age > 120 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid age"})
	}

	patient, err := h.patientService.Create(doctorID, &req)
	if err != nil {
		var dup *services.DuplicatePatientError
		if errors.As(err, &dup) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"msg":               fmt.Sprintf("Patient %q with age %d already exists in your records", dup.Name, dup.Age),
				"existingPatientId": dup.ExistingID,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"msg":     "Patient created successfully",
		"patient": patient,
	})
}

func (h *PatientHandler) Update(c *fiber.Ctx) error {
	doctorID, err := middleware.DoctorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Unauthorized"})
	}

	patientID, err := uuid.Parse(c.Params("patientId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid patient id"})
	}

	var req dto.UpdatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}

	patient, err := h.patientService.Update(doctorID, patientID, &req)
	if err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"msg": "Patient not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
	}

	return c.JSON(fiber.Map{
		"msg":     "Patient updated successfully",
		"patient": patient,
	})
}

func (h *PatientHandler) Delete(c *fiber.Ctx) error {
	doctorID, err := middleware.DoctorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Unauthorized"})
	}

	patientID, err := uuid.Parse(c.Params("patientId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid patient id"})
	}

	if err := h.patientService.Delete(doctorID, patientID); err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"msg": "Patient not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
	}

	return c.JSON(fiber.Map{"msg": "Patient deleted successfully"})
}

func (h *PatientHandler) Stats(c *fiber.Ctx) error {
	doctorID, err := middleware.DoctorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Unauthorized"})
	}

	patientID, err := uuid.Parse(c.Params("patientId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid patient id"})
	}

	patient, stats, err := h.patientService.Stats(doctorID, patientID)
	if err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"msg": "Patient not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
	}

	return c.JSON(fiber.Map{
		"msg":     "Patient statistics",
		"patient": patient,
		"stats":   stats,
	})
}
