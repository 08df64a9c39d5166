package dto

// ContentCheckRequest asks whether text would be accepted as a review.
type ContentCheckRequest struct {
	Text string `json:"text"`
}
