package models

import "time"

// Citra is an elective subject that students can rate.
type Citra struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	CourseCode string    `db:"course_code" json:"courseCode"`
	CitraType  string    `db:"citra_type" json:"citraType"`
	Faculty    string    `db:"faculty" json:"faculty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// CitraSort selects the ordering of a subject listing.
type CitraSort string

const (
	// CitraSortNone keeps storage order.
	CitraSortNone CitraSort = "none"
	// CitraSortName orders alphabetically by name.
	CitraSortName CitraSort = "name"
	// CitraSortRatings orders by rating count, most rated first.
	CitraSortRatings CitraSort = "ratings"
)

// Valid reports whether s is a supported sort.
func (s CitraSort) Valid() bool {
	switch s {
	case CitraSortNone, CitraSortName, CitraSortRatings:
		return true
	}
	return false
}

// CitraFilter captures supported filters for listing subjects.
type CitraFilter struct {
	Search    string
	Faculty   string
	CitraType string
	Sort      CitraSort
}

// CitraWithSamples is a subject with its rating samples, oldest first.
type CitraWithSamples struct {
	Citra
	Samples []RatingSample
}

// RatingStats are the statistics derived from a subject's ratings.
type RatingStats struct {
	TotalRatings        int     `json:"totalRatings"`
	AverageQuality      float64 `json:"averageQuality"`
	AverageDifficulty   float64 `json:"averageDifficulty"`
	TakeAgainPercentage float64 `json:"takeAgainPercentage"`
	Mode                string  `json:"mode"`
}

// CitraSummary is a subject decorated with its computed statistics. Every
// listing, detail, search and export path returns this shape.
type CitraSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CourseCode string `json:"courseCode"`
	CitraType  string `json:"citraType"`
	Faculty    string `json:"faculty"`
	RatingStats
}
