package payload

// Glasses fields use pointers so that a legitimate zero survives the
// required rule.

type CreateWaterEntryRequest struct {
	Glasses *int   `json:"glasses" validate:"required,min=0,max=50"`
	Date    string `json:"date"    validate:"omitempty,datetime=2006-01-02"`
	Notes   string `json:"notes"   validate:"omitempty,max=500"`
}

type UpdateWaterEntryRequest struct {
	Glasses *int    `json:"glasses" validate:"omitempty,min=0,max=50"`
	Date    *string `json:"date"    validate:"omitempty,datetime=2006-01-02"`
	Notes   *string `json:"notes"   validate:"omitempty,max=500"`
}
