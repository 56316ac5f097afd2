package model

import (
	"time"

	"github.com/google/uuid"
)

type VisitStatus string

const (
	VisitStatusCompleted VisitStatus = "completed"
	VisitStatusPending   VisitStatus = "pending"
	VisitStatusCancelled VisitStatus = "cancelled"
)

func ValidVisitStatus(s VisitStatus) bool {
	switch s {
	case VisitStatusCompleted, VisitStatusPending, VisitStatusCancelled:
		return true
	}
	return false
}

// Visit is a logged field-sales call. Customer and doctor names are
// denormalized at creation time and never re-synced afterwards.
type Visit struct {
	Base
	UserID          uuid.UUID   `json:"user_id" db:"user_id"`
	CustomerID      uuid.UUID   `json:"customer_id" db:"customer_id"`
	CustomerName    string      `json:"customer_name" db:"customer_name"`
	DoctorID        uuid.UUID   `json:"doctor_id" db:"doctor_id"`
	DoctorName      string      `json:"doctor_name" db:"doctor_name"`
	DoctorSpecialty string      `json:"doctor_specialty" db:"doctor_specialty"`
	Purpose         string      `json:"purpose" db:"purpose"`
	Notes           string      `json:"notes" db:"notes"`
	VisitDate       time.Time   `json:"visit_date" db:"visit_date"`
	Status          VisitStatus `json:"status" db:"status"`
	CalendarEventID *string     `json:"calendar_event_id,omitempty" db:"calendar_event_id"`
}

type CreateVisitRequest struct {
	CustomerID uuid.UUID   `json:"customer_id" binding:"required"`
	DoctorID   uuid.UUID   `json:"doctor_id" binding:"required"`
	Purpose    string      `json:"purpose" binding:"required"`
	Notes      string      `json:"notes"`
	VisitDate  time.Time   `json:"visit_date" binding:"required"`
	Status     VisitStatus `json:"status" binding:"omitempty,oneof=completed pending cancelled"`
}

type VisitFilter struct {
	Status    VisitStatus `form:"status" binding:"omitempty,oneof=completed pending cancelled"`
	StartDate time.Time   `form:"start_date" time_format:"2006-01-02"`
	EndDate   time.Time   `form:"end_date" time_format:"2006-01-02"`
	Limit     int         `form:"limit"`
}

// CreateVisitResult carries the persisted visit plus a non-fatal warning when
// the best-effort calendar sync failed.
type CreateVisitResult struct {
	Visit           *Visit `json:"visit"`
	CalendarWarning string `json:"calendar_warning,omitempty"`
}
