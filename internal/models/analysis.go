package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Analysis statuses.
const (
	AnalysisStatusPending  = "pending"
	AnalysisStatusReviewed = "reviewed"
	AnalysisStatusArchived = "archived"
)

// Analysis is a stored diabetic-retinopathy report produced by the external
// inference service. PredictedClass ranges 0 (no DR) to 4 (proliferative).
type Analysis struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PatientID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"patientId"`
	DoctorID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"doctorId"`
	Filename       string         `gorm:"size:255" json:"filename,omitempty"`
	ImagePath      string         `gorm:"size:512" json:"imagePath,omitempty"`
	RawScore       float64        `gorm:"not null" json:"rawScore"`
	PredictedClass int            `gorm:"not null" json:"predictedClass"`
	Confidence     float64        `gorm:"not null" json:"confidence"`
	Label          string         `gorm:"size:50" json:"label,omitempty"`
	Severity       string         `gorm:"size:50" json:"severity,omitempty"`
	Description    string         `gorm:"type:text" json:"description,omitempty"`
	Color          string         `gorm:"size:20" json:"color,omitempty"`
	Icon           string         `gorm:"size:50" json:"icon,omitempty"`
	Recommendations datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"recommendations"`
	FollowUp       string         `gorm:"size:255" json:"followUp,omitempty"`
	ReportID       string         `gorm:"size:50;uniqueIndex" json:"reportId"`
	ClinicalNotes  string         `gorm:"type:text" json:"clinicalNotes,omitempty"`
	TreatmentPlan  string         `gorm:"type:text" json:"treatmentPlan,omitempty"`
	Status         string         `gorm:"size:20;default:'pending'" json:"status"`
	ReviewedBy     *uuid.UUID     `gorm:"type:uuid" json:"reviewedBy,omitempty"`
	ReviewDate     *time.Time     `json:"reviewDate,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
