package dto

import "time"

type CreateTripRequest struct {
	FromCity      string    `json:"from_city"`
	ToCity        string    `json:"to_city"`
	DepartureDate time.Time `json:"departure_date"`
	CapacityKg    float64   `json:"capacity_kg"`
	PricePerKg    float64   `json:"price_per_kg"`
	Description   string    `json:"description"`
}

type UpdateTripRequest struct {
	FromCity      string     `json:"from_city"`
	ToCity        string     `json:"to_city"`
	DepartureDate *time.Time `json:"departure_date"`
	CapacityKg    *float64   `json:"capacity_kg"`
	PricePerKg    *float64   `json:"price_per_kg"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
}

type CreateRequestRequest struct {
	FromCity    string     `json:"from_city"`
	ToCity      string     `json:"to_city"`
	WeightKg    float64    `json:"weight_kg"`
	Description string     `json:"description"`
	LimitDate   *time.Time `json:"limit_date"`
}

type UpdateRequestRequest struct {
	FromCity    string     `json:"from_city"`
	ToCity      string     `json:"to_city"`
	WeightKg    *float64   `json:"weight_kg"`
	Description string     `json:"description"`
	LimitDate   *time.Time `json:"limit_date"`
	Status      string     `json:"status"`
}
