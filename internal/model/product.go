package model

// Product is a catalog item from the medical-supply range.
type Product struct {
	Base
	Name        string  `json:"name" db:"name"`
	Category    string  `json:"category" db:"category"`
	Description string  `json:"description" db:"description"`
	Price       float64 `json:"price" db:"price"`
	Active      bool    `json:"active" db:"active"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Active      *bool    `json:"active"`
}
