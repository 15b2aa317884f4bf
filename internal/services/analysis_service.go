package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/emanmohamed354/backend-diabetic/internal/dto"
	"github.com/emanmohamed354/backend-diabetic/internal/models"
	"github.com/emanmohamed354/backend-diabetic/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrAccessDenied     = errors.New("access denied")
)

type AnalysisService struct {
	db *gorm.DB
}

func NewAnalysisService(db *gorm.DB) *AnalysisService {
	return &AnalysisService{db: db}
}

// Save stores an inference report against an owned patient and bumps the
// patient's latest-analysis pointer and counter in the same transaction.
func (s *AnalysisService) Save(doctorID uuid.UUID, req *dto.SaveAnalysisRequest) (*models.Analysis, error) {
	var patient models.Patient
	err := s.db.Scopes(repository.ForDoctor(doctorID)).
		First(&patient, "id = ?", req.PatientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}

	recommendations := req.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}
	recsJSON, err := json.Marshal(recommendations)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recommendations: %w", err)
	}

	analysis := models.Analysis{
		ID:              uuid.New(),
		PatientID:       patient.ID,
		DoctorID:        doctorID,
		Filename:        req.Filename,
		ImagePath:       req.ImagePath,
		RawScore:        *req.RawScore,
		PredictedClass:  *req.PredictedClass,
		Confidence:      req.Confidence,
		Label:           req.Label,
		Severity:        req.Severity,
		Description:     req.Description,
		Color:           req.Color,
		Icon:            req.Icon,
		Recommendations: datatypes.JSON(recsJSON),
		FollowUp:        req.FollowUp,
		ReportID:        fmt.Sprintf("DR-%d", time.Now().UnixMilli()),
		ClinicalNotes:   req.ClinicalNotes,
		Status:          models.AnalysisStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&analysis).Error; err != nil {
			return err
		}
		return tx.Model(&patient).Updates(map[string]interface{}{
			"latest_analysis_id": analysis.ID,
			"total_analyses":     patient.TotalAnalyses + 1,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return &analysis, nil
}

// History returns a patient's analyses, newest first, after an ownership
// check on the patient.
func (s *AnalysisService) History(doctorID, patientID uuid.UUID) (*models.Patient, []models.Analysis, error) {
	var patient models.Patient
	err := s.db.Scopes(repository.ForDoctor(doctorID)).
		First(&patient, "id = ?", patientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load patient: %w", err)
	}

	var analyses []models.Analysis
	err = s.db.Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&analyses).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load analyses: %w", err)
	}
	return &patient, analyses, nil
}

// Get loads one analysis. A record owned by another doctor is reported as
// ErrAccessDenied, not as missing.
func (s *AnalysisService) Get(doctorID, analysisID uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	err := s.db.First(&analysis, "id = ?", analysisID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}
	if analysis.DoctorID != doctorID {
		return nil, ErrAccessDenied
	}
	return &analysis, nil
}

// UpdateNotes attaches clinical notes and a treatment plan, marking the
// analysis reviewed by the caller.
func (s *AnalysisService) UpdateNotes(doctorID, analysisID uuid.UUID, req *dto.UpdateAnalysisNotesRequest) (*models.Analysis, error) {
	analysis, err := s.Get(doctorID, analysisID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Model(analysis).Updates(map[string]interface{}{
		"clinical_notes": req.ClinicalNotes,
		"treatment_plan": req.TreatmentPlan,
		"status":         models.AnalysisStatusReviewed,
		"reviewed_by":    doctorID,
		"review_date":    now,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update analysis: %w", err)
	}
	return analysis, nil
}

// ListForDoctor pages through the doctor's analyses with an optional
// status filter.
func (s *AnalysisService) ListForDoctor(doctorID uuid.UUID, status string, page, limit int) ([]models.Analysis, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := s.db.Model(&models.Analysis{}).Scopes(repository.ForDoctor(doctorID))
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count analyses: %w", err)
	}

	var analyses []models.Analysis
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&analyses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list analyses: %w", err)
	}
	return analyses, total, nil
}

// Export assembles the printable report document for one analysis.
func (s *AnalysisService) Export(doctorID, analysisID uuid.UUID) (*dto.AnalysisReport, error) {
	analysis, err := s.Get(doctorID, analysisID)
	if err != nil {
		return nil, err
	}

	var patient models.Patient
	if err := s.db.First(&patient, "id = ?", analysis.PatientID).Error; err != nil {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}
	var doctor models.User
	if err := s.db.First(&doctor, "id = ?", analysis.DoctorID).Error; err != nil {
		return nil, fmt.Errorf("failed to load doctor: %w", err)
	}

	var recommendations []string
	if len(analysis.Recommendations) > 0 {
		if err := json.Unmarshal(analysis.Recommendations, &recommendations); err != nil {
			return nil, fmt.Errorf("failed to decode recommendations: %w", err)
		}
	}

	report := &dto.AnalysisReport{
		ReportTitle: "Diabetic Retinopathy Analysis Report",
		ReportID:    analysis.ReportID,
		ExportDate:  time.Now().UTC(),
		Timestamp:   analysis.CreatedAt,
		Disclaimer:  "This is an AI-assisted analysis. Clinical decision should be made by qualified ophthalmologists.",
	}
	report.PatientInfo.Name = patient.Name
	report.PatientInfo.Age = patient.Age
	report.PatientInfo.Gender = patient.Gender
	report.PatientInfo.DiabetesType = patient.DiabetesType

	report.DoctorInfo.Name = doctor.UserName + " " + doctor.LastName
	report.DoctorInfo.ID = doctor.ID

	report.AnalysisResults.Filename = analysis.Filename
	report.AnalysisResults.RawScore = analysis.RawScore
	report.AnalysisResults.PredictedClass = analysis.PredictedClass
	report.AnalysisResults.Confidence = analysis.Confidence
	report.AnalysisResults.Label = analysis.Label
	report.AnalysisResults.Severity = analysis.Severity
	report.AnalysisResults.Description = analysis.Description
	report.AnalysisResults.Recommendations = recommendations
	report.AnalysisResults.FollowUp = analysis.FollowUp

	report.ClinicalInfo.ClinicalNotes = analysis.ClinicalNotes
	report.ClinicalInfo.TreatmentPlan = analysis.TreatmentPlan
	report.ClinicalInfo.Status = analysis.Status
	report.ClinicalInfo.ReviewDate = analysis.ReviewDate

	return report, nil
}
