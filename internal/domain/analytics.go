package domain

// QuestionAnalytics holds per-question statistics.
type QuestionAnalytics struct {
	QuestionID    string      `json:"questionId"`
	QuestionText  string      `json:"questionText"`
	AverageRating float64     `json:"averageRating"`
	TotalAnswers  int         `json:"totalAnswers"`
	Distribution  map[int]int `json:"distribution"`
}

// SegmentAnalytics pools the ratings of all questions in one segment.
type SegmentAnalytics struct {
	SegmentID         string              `json:"segmentId"`
	SegmentTitle      string              `json:"segmentTitle"`
	AverageRating     float64             `json:"averageRating"`
	QuestionAnalytics []QuestionAnalytics `json:"questionAnalytics"`
}

// TimePoint counts responses submitted on one UTC calendar date (YYYY-MM-DD).
type TimePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalyticsReport is the derived statistics structure for one survey. It is a
// pure view over survey and response data and is never persisted.
type AnalyticsReport struct {
	SurveyID            string             `json:"surveyId"`
	SurveyTitle         string             `json:"surveyTitle"`
	TotalResponses      int                `json:"totalResponses"`
	OverallAverage      float64            `json:"overallAverage"`
	OverallDistribution map[int]int        `json:"overallDistribution"`
	SegmentAnalytics    []SegmentAnalytics `json:"segmentAnalytics"`
	ResponseData        []TimePoint        `json:"responseData"`
}
