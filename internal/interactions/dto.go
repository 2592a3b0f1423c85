package interactions

// ToggleResultDTO reports the state after a like/save toggle.
type ToggleResultDTO struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}
