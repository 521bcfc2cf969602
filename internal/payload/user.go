package payload

type UpdateProfileRequest struct {
	Name   *string `json:"name"   validate:"omitempty,min=1,max=100"`
	Avatar *string `json:"avatar" validate:"omitempty,url"`
}
