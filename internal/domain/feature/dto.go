package feature

type CreateFeatureRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}
