// Package aggregate computes subject statistics from rating samples.
package aggregate

import (
	"sort"
	"strings"

	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
)

// Summarize computes the statistics for one subject. Samples must be in join
// order (oldest rating first); the mode is taken from the first sample.
func Summarize(samples []models.RatingSample) models.RatingStats {
	stats := models.RatingStats{
		TotalRatings: len(samples),
		Mode:         string(models.ModeUnknown),
	}
	if len(samples) == 0 {
		return stats
	}

	var difficultySum, qualitySum, takeAgain, qualityCount int
	for _, s := range samples {
		difficultySum += s.Difficulty
		if s.TakeAgain {
			takeAgain++
		}
		if s.Quality != nil {
			qualitySum += *s.Quality
			qualityCount++
		}
	}

	n := float64(len(samples))
	stats.AverageDifficulty = float64(difficultySum) / n
	stats.TakeAgainPercentage = 100 * float64(takeAgain) / n
	if qualityCount > 0 {
		stats.AverageQuality = float64(qualitySum) / float64(qualityCount)
	}
	if mode := samples[0].Mode; mode != "" {
		stats.Mode = string(mode)
	}
	return stats
}

// Decorate pairs a subject with the statistics of its samples.
func Decorate(citra models.Citra, samples []models.RatingSample) models.CitraSummary {
	return models.CitraSummary{
		ID:          citra.ID,
		Name:        citra.Name,
		CourseCode:  citra.CourseCode,
		CitraType:   citra.CitraType,
		Faculty:     citra.Faculty,
		RatingStats: Summarize(samples),
	}
}

// Sort orders summaries in place. CitraSortNone leaves them untouched.
func Sort(items []models.CitraSummary, by models.CitraSort) {
	switch by {
	case models.CitraSortName:
		sort.SliceStable(items, func(i, j int) bool {
			return lessName(items[i], items[j])
		})
	case models.CitraSortRatings:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].TotalRatings != items[j].TotalRatings {
				return items[i].TotalRatings > items[j].TotalRatings
			}
			return lessName(items[i], items[j])
		})
	}
}

func lessName(a, b models.CitraSummary) bool {
	an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if an != bn {
		return an < bn
	}
	return a.CourseCode < b.CourseCode
}
