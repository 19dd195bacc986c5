package milestone

type CreateMilestoneRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	DueDate     string  `json:"due_date"`
}

// UpdateMilestoneRequest is a partial update of the milestone details.
type UpdateMilestoneRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Amount      *float64 `json:"amount" validate:"omitempty,gte=0"`
	DueDate     *string  `json:"due_date"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}
