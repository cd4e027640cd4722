package domain

import (
	"fmt"
	"time"
)

const (
	MinScore = 1
	MaxScore = 5
)

// Rating is one farmer's evaluation of one veterinarian.
// At most one Rating exists per (RaterID, SubjectID).
type Rating struct {
	ID        string    `json:"id" bson:"_id"`
	RaterID   string    `json:"rater_id" bson:"rater_id"`
	SubjectID string    `json:"subject_id" bson:"subject_id"`
	Score     int       `json:"score" bson:"score"`
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("%w: score must be between %d and %d", ErrValidation, MinScore, MaxScore)
	}
	return nil
}

// RatingSummary is the public view of a veterinarian's ratings.
// Average is nil when no rating is stored.
type RatingSummary struct {
	SubjectID string    `json:"subject_id"`
	Ratings   []*Rating `json:"ratings"`
	Count     int       `json:"count"`
	Average   *float64  `json:"average"`
}

// Summarize computes the aggregate over the given ratings.
func Summarize(subjectID string, ratings []*Rating) RatingSummary {
	s := RatingSummary{SubjectID: subjectID, Ratings: ratings, Count: len(ratings)}
	if s.Ratings == nil {
		s.Ratings = []*Rating{}
	}
	if len(ratings) == 0 {
		return s
	}
	total := 0
	for _, r := range ratings {
		total += r.Score
	}
	avg := float64(total) / float64(len(ratings))
	s.Average = &avg
	return s
}
