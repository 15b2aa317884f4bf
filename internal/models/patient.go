package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Patient belongs to exactly one doctor. Every query against this table
// must be scoped by doctor_id; rows are soft-deleted via IsActive.
type Patient struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DoctorID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"doctorId"`
	Name             string         `gorm:"size:255;not null" json:"name"`
	Age              int            `gorm:"not null" json:"age"`
	Gender           string         `gorm:"size:20;not null" json:"gender"`
	DiabetesType     string         `gorm:"size:20;not null" json:"diabetesType"`
	Email            string         `gorm:"size:255" json:"email,omitempty"`
	Phone            string         `gorm:"size:30" json:"phone,omitempty"`
	MedicalHistory   string         `gorm:"type:text" json:"medicalHistory,omitempty"`
	Medications      datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"medications"`
	LatestAnalysisID *uuid.UUID     `gorm:"type:uuid" json:"latestAnalysis,omitempty"`
	TotalAnalyses    int            `gorm:"default:0" json:"totalAnalyses"`
	IsActive         bool           `gorm:"default:true" json:"isActive"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
