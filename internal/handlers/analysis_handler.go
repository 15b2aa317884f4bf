package handlers

import (
	"errors"
	"math"
	"strconv"

	"github.com/emanmohamed354/backend-diabetic/internal/dto"
	"github.com/emanmohamed354/backend-diabetic/internal/middleware"
	"github.com/emanmohamed354/backend-diabetic/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AnalysisHandler struct {
	analysisService *services.AnalysisService
}

func NewAnalysisHandler(analysisService *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

func (h *AnalysisHandler) Save(c *fiber.Ctx) error {
	doctorID, err := middleware.DoctorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Unauthorized"})
	}

	var req dto.SaveAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}

	if req.PatientID == uuid.Nil || req.RawScore == nil || req.PredictedClass == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Missing required fields"})
	}

	analysis, err := h.analysisService.Save(doctorID, &req)
	if err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"msg": "Patient not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"msg":      "Analysis saved successfully",
		"analysis": analysis,
	})
}

func (h *AnalysisHandler) History(c *fiber.Ctx) error {
	doctorID, err := middleware.DoctorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Unauthorized"})
	}

	patientID, err := uuid.Parse(c.Params("patientId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid patient id"})
	}

	patient, analyses, err := h.analysisService.History(doctorID, patientID)
	if err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"msg": "Patient not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
	}

	return c.JSON(fiber.Map{
		"msg":   "Analysis history retrieved",
		"count": len(analyses),
		"patient": fiber.Map{
			"name":         patient.Name,
			"age":          patient.Age,
			"diabetesType": patient.DiabetesType,
		},
		"analyses": analyses,
	})
}

func (h *AnalysisHandler) Get(c *fiber.Ctx) error {
	doctorID, err := middleware.DoctorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Unauthorized"})
	}

	analysisID, err := uuid.Parse(c.Params("analysisId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid analysis id"})
	}

	analysis, err := h.analysisService.Get(doctorID, analysisID)
	if err != nil {
		return h.mapAnalysisError(c, err)
	}

	return c.JSON(fiber.Map{
		"msg":      "Analysis report retrieved",
		"analysis": analysis,
	})
}

func (h *AnalysisHandler) UpdateNotes(c *fiber.Ctx) error {
	doctorID, err := middleware.DoctorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Unauthorized"})
	}

	analysisID, err := uuid.Parse(c.Params("analysisId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid analysis id"})
	}

	var req dto.UpdateAnalysisNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}

	analysis, err := h.analysisService.UpdateNotes(doctorID, analysisID, &req)
	if err != nil {
		return h.mapAnalysisError(c, err)
	}

	return c.JSON(fiber.Map{
		"msg":      "Analysis updated successfully",
		"analysis": analysis,
	})
}

func (h *AnalysisHandler) ListForDoctor(c *fiber.Ctx) error {
	doctorID, err := middleware.DoctorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Unauthorized"})
	}

	status := c.Query("status")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	analyses, total, err := h.analysisService.ListForDoctor(doctorID, status, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
	}

	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}

	return c.JSON(fiber.Map{
		"msg":      "Analyses retrieved",
		"count":    len(analyses),
		"total":    total,
		"page":     page,
		"pages":    pages,
		"analyses": analyses,
	})
}

func (h *AnalysisHandler) Export(c *fiber.Ctx) error {
	doctorID, err := middleware.DoctorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Unauthorized"})
	}

	analysisID, err := uuid.Parse(c.Params("analysisId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid analysis id"})
	}

	report, err := h.analysisService.Export(doctorID, analysisID)
	if err != nil {
		return h.mapAnalysisError(c, err)
	}

	return c.JSON(fiber.Map{
		"msg":    "Report exported",
		"report": report,
	})
}

func (h *AnalysisHandler) mapAnalysisError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrAnalysisNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"msg": "Analysis not found"})
	case errors.Is(err, services.ErrAccessDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"msg": "Access denied"})
	case errors.Is(err, services.ErrPatientNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"msg": "Patient not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "Server error"})
}
