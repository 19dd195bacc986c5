package payment

type CreatePaymentRequest struct {
	ProjectID   int64   `json:"project_id" validate:"required,gt=0"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	PaymentType string  `json:"payment_type" validate:"omitempty,oneof=advance milestone final other"`
	Status      string  `json:"status" validate:"omitempty,oneof=paid pending refunded"`
	PaymentDate string  `json:"payment_date"`
	Note        string  `json:"note" validate:"max=2000"`
}
