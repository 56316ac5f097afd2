package model

import "github.com/google/uuid"

type CustomerType string

const (
	CustomerTypeHospital        CustomerType = "hospital"
	CustomerTypePrivateHospital CustomerType = "private_hospital"
	CustomerTypePrivateClinic   CustomerType = "private_clinic"
	CustomerTypePolyclinic      CustomerType = "polyclinic"
)

// Customer status constants
const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
)

// Customer is a hospital or clinic visited by a field-sales user.
type Customer struct {
	Base
	UserID        uuid.UUID    `json:"user_id" db:"user_id"`
	Name          string       `json:"name" db:"name"`
	Type          CustomerType `json:"type" db:"type"`
	Address       string       `json:"address" db:"address"`
	City          string       `json:"city" db:"city"`
	Phone         string       `json:"phone" db:"phone"`
	Email         string       `json:"email" db:"email"`
	ContactPerson string       `json:"contact_person" db:"contact_person"`
	Status        string       `json:"status" db:"status"`
	Notes         string       `json:"notes" db:"notes"`
}

func ValidCustomerType(t CustomerType) bool {
	switch t {
	case CustomerTypeHospital, CustomerTypePrivateHospital, CustomerTypePrivateClinic, CustomerTypePolyclinic:
		return true
	}
	return false
}

type CreateCustomerRequest struct {
	Name          string       `json:"name" binding:"required"`
	Type          CustomerType `json:"type" binding:"required,oneof=hospital private_hospital private_clinic polyclinic"`
	Address       string       `json:"address"`
	City          string       `json:"city"`
	Phone         string       `json:"phone" binding:"omitempty,phone"`
	Email         string       `json:"email" binding:"omitempty,email"`
	ContactPerson string       `json:"contact_person"`
	Notes         string       `json:"notes"`
}

type UpdateCustomerRequest struct {
	Name          *string       `json:"name"`
	Type          *CustomerType `json:"type" binding:"omitempty,oneof=hospital private_hospital private_clinic polyclinic"`
	Address       *string       `json:"address"`
	City          *string       `json:"city"`
	Phone         *string       `json:"phone"`
	Email         *string       `json:"email" binding:"omitempty,email"`
	ContactPerson *string       `json:"contact_person"`
	Status        *string       `json:"status" binding:"omitempty,oneof=active inactive"`
	Notes         *string       `json:"notes"`
}
