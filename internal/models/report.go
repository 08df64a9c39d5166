package models

import "time"

// DefaultReportReason is stored when a reporter gives no reason.
const DefaultReportReason = "No reason provided"

// RatingReport flags a rating for moderation. At most one exists per
// (rating, user) pair.
type RatingReport struct {
	ID        string    `db:"id" json:"id"`
	RatingID  string    `db:"rating_id" json:"reviewId"`
	UserID    string    `db:"user_id" json:"-"`
	Reason    string    `db:"reason" json:"reason"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
