package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForDoctor returns a GORM scope restricting rows to one doctor's records.
// Every patient and analysis query goes through it.
func ForDoctor(doctorID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("doctor_id = ?", doctorID)
	}
}
