package model

import (
	"time"

	"github.com/google/uuid"
)

// WindowCounts holds visit counts over the rolling dashboard windows.
type WindowCounts struct {
	Today     int `json:"today"`
	Week      int `json:"week"`
	Month     int `json:"month"`
	LastMonth int `json:"last_month"`
}

// PerformanceMetrics are derived from window counts and the full visit set.
type PerformanceMetrics struct {
	MonthlyTarget  int     `json:"monthly_target"`
	CompletionRate float64 `json:"completion_rate"`
	GrowthRate     float64 `json:"growth_rate"`
	AvgPerDay      float64 `json:"avg_visits_per_day"`
	TopCustomer    string  `json:"top_customer"`
}

// DashboardStats is the user dashboard payload.
type DashboardStats struct {
	Windows        WindowCounts       `json:"windows"`
	Metrics        PerformanceMetrics `json:"metrics"`
	TotalCustomers int                `json:"total_customers"`
	TotalDoctors   int                `json:"total_doctors"`
	RecentVisits   []*Visit           `json:"recent_visits"`
}

// UserStats is one row of the admin per-user performance ranking.
type UserStats struct {
	UserID        uuid.UUID  `json:"user_id"`
	Email         string     `json:"email"`
	VisitCount    int        `json:"visit_count"`
	CustomerCount int        `json:"customer_count"`
	DoctorCount   int        `json:"doctor_count"`
	LastVisit     *time.Time `json:"last_visit,omitempty"`
}

// AdminOverview is the admin dashboard payload.
type AdminOverview struct {
	TotalUsers     int          `json:"total_users"`
	TotalVisits    int          `json:"total_visits"`
	TotalCustomers int          `json:"total_customers"`
	TotalDoctors   int          `json:"total_doctors"`
	Windows        WindowCounts `json:"windows"`
	TopPerformers  []*UserStats `json:"top_performers"`
	RecentVisits   []*Visit     `json:"recent_visits"`
}

// TimeframeStats is one bucket of the admin timeframe analysis.
type TimeframeStats struct {
	Period           string    `json:"period"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	TotalVisits      int       `json:"total_visits"`
	UniqueUsers      int       `json:"unique_users"`
	AvgVisitsPerUser float64   `json:"avg_visits_per_user"`
}

type SnapshotPeriod string

const (
	SnapshotPeriodDaily   SnapshotPeriod = "daily"
	SnapshotPeriodWeekly  SnapshotPeriod = "weekly"
	SnapshotPeriodMonthly SnapshotPeriod = "monthly"
)

// ReportSnapshot is a persisted periodic rollup written by the worker.
// A nil UserID marks the organization-wide row.
type ReportSnapshot struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	UserID          *uuid.UUID     `json:"user_id,omitempty" db:"user_id"`
	Period          SnapshotPeriod `json:"period" db:"period"`
	StartDate       time.Time      `json:"start_date" db:"start_date"`
	EndDate         time.Time      `json:"end_date" db:"end_date"`
	TotalVisits     int            `json:"total_visits" db:"total_visits"`
	CompletedVisits int            `json:"completed_visits" db:"completed_visits"`
	TotalCustomers  int            `json:"total_customers" db:"total_customers"`
	TotalDoctors    int            `json:"total_doctors" db:"total_doctors"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
}

// CalendarSettings is the calendar preference payload.
type CalendarSettings struct {
	SyncEnabled bool   `json:"sync_enabled"`
	CalendarID  string `json:"calendar_id,omitempty"`
}

type UpdateCalendarSettingsRequest struct {
	SyncEnabled *bool `json:"sync_enabled" binding:"required"`
}
