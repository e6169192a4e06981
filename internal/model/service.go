package model

import "time"

// Service is a treatment in the clinic catalogue. The engine uses it only
// to resolve category-based condition targets; the pricing flow uses it
// to price cart items.
type Service struct {
	ID         string    `json:"id" db:"id"`
	CategoryID string    `json:"categoryId" db:"category_id"`
	Name       string    `json:"name" db:"name"`
	Price      float64   `json:"price" db:"price"`
	Duration   int       `json:"duration,omitempty" db:"duration"` // minutes
	IsActive   bool      `json:"isActive" db:"is_active"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
