package dto

import (
	"time"

	"github.com/google/uuid"
)

type SaveAnalysisRequest struct {
	PatientID       uuid.UUID `json:"patientId"`
	Filename        string    `json:"filename"`
	ImagePath       string    `json:"imagePath"`
	RawScore        *float64  `json:"rawScore"`
	PredictedClass  *int      `json:"predictedClass"`
	Confidence      float64   `json:"confidence"`
	Label           string    `json:"label"`
	Severity        string    `json:"severity"`
	Description     string    `json:"description"`
	Color           string    `json:"color"`
	Icon            string    `json:"icon"`
	Recommendations []string  `json:"recommendations"`
	FollowUp        string    `json:"followUp"`
	ClinicalNotes   string    `json:"clinicalNotes"`
}

type UpdateAnalysisNotesRequest struct {
	ClinicalNotes string `json:"clinicalNotes"`
	TreatmentPlan string `json:"treatmentPlan"`
}

// AnalysisReport is the exported report document assembled from an analysis,
// its patient, and the owning doctor.
type AnalysisReport struct {
	ReportTitle string    `json:"reportTitle"`
	ReportID    string    `json:"reportId"`
	ExportDate  time.Time `json:"exportDate"`

	PatientInfo struct {
		Name         string `json:"name"`
		Age          int    `json:"age"`
		Gender       string `json:"gender"`
		DiabetesType string `json:"diabetesType"`
	} `json:"patientInfo"`

	DoctorInfo struct {
		Name string    `json:"name"`
		ID   uuid.UUID `json:"id"`
	} `json:"doctorInfo"`

	AnalysisResults struct {
		Filename        string   `json:"filename"`
		RawScore        float64  `json:"rawScore"`
		PredictedClass  int      `json:"predictedClass"`
		Confidence      float64  `json:"confidence"`
		Label           string   `json:"label"`
		Severity        string   `json:"severity"`
		Description     string   `json:"description"`
		Recommendations []string `json:"recommendations"`
		FollowUp        string   `json:"followUp"`
	} `json:"analysisResults"`

	ClinicalInfo struct {
		ClinicalNotes string     `json:"clinicalNotes"`
		TreatmentPlan string     `json:"treatmentPlan"`
		Status        string     `json:"status"`
		ReviewDate    *time.Time `json:"reviewDate"`
	} `json:"clinicalInfo"`

	Timestamp  time.Time `json:"timestamp"`
	Disclaimer string    `json:"disclaimer"`
}
