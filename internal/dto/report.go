package dto

// ReportRequest flags a review for moderation.
type ReportRequest struct {
	ReviewID string `json:"reviewId"`
	Reason   string `json:"reason" validate:"max=500"`
}
