package requirement

type CreateRequirementRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

// UpdateRequirementRequest changes details only; status has its own endpoint.
type UpdateRequirementRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}
