package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emanmohamed354/backend-diabetic/internal/dto"
	"github.com/emanmohamed354/backend-diabetic/internal/models"
	"github.com/emanmohamed354/backend-diabetic/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrPatientNotFound = errors.New("patient not found")

// DuplicatePatientError reports an existing patient with the same name and
// age under the same doctor.
type DuplicatePatientError struct {
	Name       string
	Age        int
	ExistingID uuid.UUID
}

func (e *DuplicatePatientError) Error() string {
	return fmt.Sprintf("patient %q with age %d already exists", e.Name, e.Age)
}

type PatientService struct {
	db *gorm.DB
}

func NewPatientService(db *gorm.DB) *PatientService {
	return &PatientService{db: db}
}

// List returns the doctor's active patients, newest first.
func (s *PatientService) List(doctorID uuid.UUID) ([]models.Patient, error) {
	var patients []models.Patient
	err := s.db.Scopes(repository.ForDoctor(doctorID)).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// Get returns one active patient and their full analysis history.
func (s *PatientService) Get(doctorID, patientID uuid.UUID) (*models.Patient, []models.Analysis, error) {
	var patient models.Patient
	err := s.db.Scopes(repository.ForDoctor(doctorID)).
		Where("id = ? AND is_active = ?", patientID, true).
		First(&patient).Error
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

// Create registers a patient after a case-insensitive duplicate check on
// name and age within the doctor's records.
func (s *PatientService) Create(doctorID uuid.UUID, req *dto.CreatePatientRequest) (*models.Patient, error) {
	var existing models.Patient
	err := s.db.Scopes(repository.ForDoctor(doctorID)).
		Where("LOWER(name) = LOWER(?) AND age = ?", req.Name, req.Age).
		First(&existing).Error
	if err == nil {
		return nil, &DuplicatePatientError{Name: req.Name, Age: req.Age, ExistingID: existing.ID}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate patient: %w", err)
	}

	medications := req.Medications
	if medications == nil {
		medications = []string{}
	}
	medsJSON, err := json.Marshal(medications)
	if err != nil {
		return nil, fmt.Errorf("failed to encode medications: %w", err)
	}

	patient := models.Patient{
		ID:             uuid.New(),
		DoctorID:       doctorID,
		Name:           req.Name,
		Age:            req.Age,
		Gender:         req.Gender,
		DiabetesType:   req.DiabetesType,
		Email:          req.Email,
		Phone:          req.Phone,
		MedicalHistory: req.MedicalHistory,
		Medications:    datatypes.JSON(medsJSON),
		IsActive:       true,
	}
	if err := s.db.Create(&patient).Error; err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return &patient, nil
}

// Update applies the fields present in the request to the doctor's patient.
func (s *PatientService) Update(doctorID, patientID uuid.UUID, req *dto.UpdatePatientRequest) (*models.Patient, error) {
	var patient models.Patient
	err := s.db.Scopes(repository.ForDoctor(doctorID)).
		First(&patient, "id = ?", patientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Age != nil {
		fields["age"] = *req.Age
	}
	if req.Gender != nil {
		fields["gender"] = *req.Gender
	}
	if req.DiabetesType != nil {
		fields["diabetes_type"] = *req.DiabetesType
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.MedicalHistory != nil {
		fields["medical_history"] = *req.MedicalHistory
	}
	if req.Medications != nil {
		medsJSON, err := json.Marshal(*req.Medications)
		if err != nil {
			return nil, fmt.Errorf("failed to encode medications: %w", err)
		}
		fields["medications"] = datatypes.JSON(medsJSON)
	}

	if len(fields) > 0 {
		if err := s.db.Model(&patient).Updates(fields).Error; err != nil {
			return nil, fmt.Errorf("failed to update patient: %w", err)
		}
	}
	return &patient, nil
}

// Delete soft-deletes by flipping is_active; the row and its analyses stay.
func (s *PatientService) Delete(doctorID, patientID uuid.UUID) error {
	var patient models.Patient
	err := s.db.Scopes(repository.ForDoctor(doctorID)).
		First(&patient, "id = ?", patientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPatientNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load patient: %w", err)
	}

	if err := s.db.Model(&patient).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

// Stats aggregates the patient's analyses by predicted severity class.
func (s *PatientService) Stats(doctorID, patientID uuid.UUID) (*models.Patient, *dto.PatientStats, error) {
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
	if err := s.db.Where("patient_id = ?", patientID).Find(&analyses).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load analyses: %w", err)
	}

	stats := dto.PatientStats{TotalAnalyses: len(analyses)}
	var confidenceSum float64
	for _, a := range analyses {
		confidenceSum += a.Confidence
		switch a.PredictedClass {
		case 0:
			stats.NormalCases++
		case 1:
			stats.MildCases++
		case 2:
			stats.ModerateCases++
		case 3:
			stats.SevereCases++
		case 4:
			stats.ProliferativeCases++
		}
	}
	if len(analyses) > 0 {
		stats.AverageConfidence = confidenceSum / float64(len(analyses))
	}
	return &patient, &stats, nil
}
