package models

import (
	"time"

	"github.com/lib/pq"
)

// DeliveryMode is how a subject was delivered.
type DeliveryMode string

const (
	ModeOnline     DeliveryMode = "Online"
	ModeFaceToFace DeliveryMode = "Face-to-Face"
	ModeUnknown    DeliveryMode = "Unknown"
)

// Grades lists the accepted letter grades, best first.
var Grades = []string{"A", "A-", "B+", "B", "B-", "C+", "C", "D", "F"}

// Keywords lists the tags a rating may carry.
var Keywords = []string{
	"Tough Grader",
	"Group Projects",
	"Assignment Heavy",
	"Easy A",
	"Lots of Reading",
	"Interactive Class",
	"No Attendance Required",
	"Strict Attendance Policy",
}

// Rating is one user's review of a subject.
type Rating struct {
	ID                  string         `db:"id" json:"id"`
	UserID              string         `db:"user_id" json:"-"`
	CitraID             string         `db:"citra_id" json:"citraId"`
	CourseCode          string         `db:"course_code" json:"courseCode"`
	Difficulty          int            `db:"difficulty" json:"difficulty"`
	Quality             *int           `db:"quality" json:"quality,omitempty"`
	Mode                DeliveryMode   `db:"mode" json:"mode"`
	TakeAgain           bool           `db:"take_again" json:"takeAgain"`
	SlidesProvided      bool           `db:"slides_provided" json:"slidesProvided"`
	AttendanceMandatory bool           `db:"attendance_mandatory" json:"attendanceMandatory"`
	Grade               string         `db:"grade" json:"grade"`
	Keywords            pq.StringArray `db:"keywords" json:"keywords"`
	Review              string         `db:"review" json:"review"`
	CreatedAt           time.Time      `db:"created_at" json:"createdAt"`
	// Mine is set when the caller wrote the review.
	Mine bool `db:"-" json:"mine,omitempty"`
}

// RatingSample holds the rating fields that feed subject statistics.
type RatingSample struct {
	Difficulty int          `db:"difficulty"`
	Quality    *int         `db:"quality"`
	Mode       DeliveryMode `db:"mode"`
	TakeAgain  bool         `db:"take_again"`
}
