package client

type CreateClientRequest struct {
	Name       string  `json:"name" validate:"required,max=160"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      string  `json:"phone" validate:"max=40"`
	Company    string  `json:"company" validate:"max=160"`
	TotalValue float64 `json:"total_value" validate:"gte=0"`
}

// UpdateClientRequest is a partial update: omitted fields keep their value.
type UpdateClientRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=1,max=160"`
	Email      *string  `json:"email" validate:"omitempty,email"`
	Phone      *string  `json:"phone" validate:"omitempty,max=40"`
	Company    *string  `json:"company" validate:"omitempty,max=160"`
	TotalValue *float64 `json:"total_value" validate:"omitempty,gte=0"`
}
