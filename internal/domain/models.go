package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// RatingMin and RatingMax bound the ordinal satisfaction scale.
const (
	RatingMin = 1
	RatingMax = 5
)

// DefaultRatingLabels is used when a question carries no (or a malformed)
// custom label set.
var DefaultRatingLabels = []string{
	"Très insuffisant",
	"Insuffisant",
	"Satisfaisant",
	"Très satisfaisant",
	"Excellent",
}

// Survey is a named questionnaire composed of ordered segments.
type Survey struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	Segments      []Segment `json:"segments"`
	ResponseCount int       `json:"responseCount"`
}

// Segment is a titled, ordered group of questions within a survey.
type Segment struct {
	ID        string     `json:"id"`
	SurveyID  string     `json:"surveyId"`
	Title     string     `json:"title"`
	Position  int        `json:"order"`
	Questions []Question `json:"questions"`
}

// Question is a single rated prompt with an optional custom 5-point label set.
// RatingLabels holds the serialized JSON array exactly as submitted; use
// Labels to read it with the parse-or-default rule applied.
type Question struct {
	ID           string `json:"id"`
	SegmentID    string `json:"segmentId"`
	Text         string `json:"text"`
	Position     int    `json:"order"`
	RatingLabels string `json:"ratingLabels,omitempty"`
}

// Labels returns the question's 5-element label set. A missing or malformed
// serialized set (bad JSON, wrong length, blank entries) falls back to
// DefaultRatingLabels.
func (q Question) Labels() []string {
	parsed, ok := ParseRatingLabels(q.RatingLabels)
	if !ok {
		return DefaultRatingLabels
	}
	return parsed
}

// ParseRatingLabels decodes a serialized label set and reports whether it is
// usable: a JSON array of exactly 5 non-blank strings.
func ParseRatingLabels(raw string) ([]string, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	var labels []string
	if err := json.Unmarshal([]byte(raw), &labels); err != nil {
		return nil, false
	}
	if len(labels) != RatingMax {
		return nil, false
	}
	for _, l := range labels {
		if strings.TrimSpace(l) == "" {
			return nil, false
		}
	}
	return labels, true
}

// Response is one respondent's full submission against a survey.
type Response struct {
	ID              string    `json:"id"`
	SurveyID        string    `json:"surveyId"`
	RespondentName  string    `json:"respondentName,omitempty"`
	RespondentEmail string    `json:"respondentEmail,omitempty"`
	SubmittedAt     time.Time `json:"submittedAt"`
	Answers         []Answer  `json:"answers"`
}

// Answer ties one rating value to one question within a response.
type Answer struct {
	ID         string `json:"id"`
	ResponseID string `json:"responseId"`
	QuestionID string `json:"questionId"`
	Rating     int    `json:"rating"`
}

// ValidRating reports whether r is inside the 1..5 scale.
func ValidRating(r int) bool {
	return r >= RatingMin && r <= RatingMax
}
