package dto

type CreatePatientRequest struct {
	Name           string   `json:"name"`
	Age            int      `json:"age"`
	Gender         string   `json:"gender"`
	DiabetesType   string   `json:"diabetesType"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	MedicalHistory string   `json:"medicalHistory"`
	Medications    []string `json:"medications"`
}

// UpdatePatientRequest is a partial update; nil fields are left untouched.
type UpdatePatientRequest struct {
	Name           *string   `json:"name"`
	Age            *int      `json:"age"`
	Gender         *string   `json:"gender"`
	DiabetesType   *string   `json:"diabetesType"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	MedicalHistory *string   `json:"medicalHistory"`
	Medications    *[]string `json:"medications"`
}

// PatientStats aggregates a patient's analysis history by severity class.
type PatientStats struct {
	TotalAnalyses      int     `json:"totalAnalyses"`
	NormalCases        int     `json:"normalCases"`
	MildCases          int     `json:"mildCases"`
	ModerateCases      int     `json:"moderateCases"`
	SevereCases        int     `json:"severeCases"`
	ProliferativeCases int     `json:"proliferativeCases"`
	AverageConfidence  float64 `json:"averageConfidence"`
}
