package model

import "github.com/google/uuid"

// Doctor works at a customer and is the optional target of a visit.
type Doctor struct {
	Base
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	CustomerID uuid.UUID `json:"customer_id" db:"customer_id"`
	Name       string    `json:"name" db:"name"`
	Title      string    `json:"title" db:"title"`
	Specialty  string    `json:"specialty" db:"specialty"`
	Phone      string    `json:"phone" db:"phone"`
	Email      string    `json:"email" db:"email"`
	Status     string    `json:"status" db:"status"`
	Notes      string    `json:"notes" db:"notes"`
}

type CreateDoctorRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	Name       string    `json:"name" binding:"required"`
	Title      string    `json:"title"`
	Specialty  string    `json:"specialty"`
	Phone      string    `json:"phone" binding:"omitempty,phone"`
	Email      string    `json:"email" binding:"omitempty,email"`
	Notes      string    `json:"notes"`
}

type UpdateDoctorRequest struct {
	Name      *string `json:"name"`
	Title     *string `json:"title"`
	Specialty *string `json:"specialty"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Status    *string `json:"status" binding:"omitempty,oneof=active inactive"`
	Notes     *string `json:"notes"`
}
