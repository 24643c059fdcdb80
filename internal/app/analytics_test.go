package app_test

import (
	"testing"
	"time"

	"survey-service/internal/app"
	"survey-service/internal/domain"
)

func TestComputeAnalyticsAverages(t *testing.T) {
	survey := twoQuestionSurvey()
	responses := []domain.Response{
		respAt("2025-03-01T10:00:00Z", answer("q1", 2)),
		respAt("2025-03-01T14:00:00Z", answer("q1", 4)),
		respAt("2025-03-02T09:00:00Z", answer("q1", 4)),
	}

	report := app.ComputeAnalytics(survey, responses)

	if report.TotalResponses != 3 {
		t.Fatalf("expected 3 responses, got %d", report.TotalResponses)
	}
	q1 := report.SegmentAnalytics[0].QuestionAnalytics[0]
	if q1.AverageRating != 3.33 {
		t.Fatalf("expected q1 average 3.33, got %v", q1.AverageRating)
	}
	if q1.TotalAnswers != 3 {
		t.Fatalf("expected 3 answers, got %d", q1.TotalAnswers)
	}
	wantDist := map[int]int{1: 0, 2: 1, 3: 0, 4: 2, 5: 0}
	for v, n := range wantDist {
		if q1.Distribution[v] != n {
			t.Fatalf("expected dist[%d]=%d, got %d", v, n, q1.Distribution[v])
		}
	}

	// q2 was never answered
	q2 := report.SegmentAnalytics[0].QuestionAnalytics[1]
	if q2.AverageRating != 0 || q2.TotalAnswers != 0 {
		t.Fatalf("expected empty q2 stats, got avg=%v total=%d", q2.AverageRating, q2.TotalAnswers)
	}
	for v := 1; v <= 5; v++ {
		if q2.Distribution[v] != 0 {
			t.Fatalf("expected zero-filled q2 distribution, got %v", q2.Distribution)
		}
	}

	// segment pools only answered ratings, so it matches q1 here
	if report.SegmentAnalytics[0].AverageRating != 3.33 {
		t.Fatalf("expected segment average 3.33, got %v", report.SegmentAnalytics[0].AverageRating)
	}
	if report.OverallAverage != 3.33 {
		t.Fatalf("expected overall average 3.33, got %v", report.OverallAverage)
	}
}

func TestComputeAnalyticsDistributionSumMatchesTotal(t *testing.T) {
	survey := twoQuestionSurvey()
	responses := []domain.Response{
		respAt("2025-03-01T10:00:00Z", answer("q1", 5), answer("q2", 1)),
		respAt("2025-03-02T10:00:00Z", answer("q1", 3)),
	}

	report := app.ComputeAnalytics(survey, responses)

	sum := 0
	for _, n := range report.OverallDistribution {
		sum += n
	}
	total := 0
	for _, seg := range report.SegmentAnalytics {
		for _, q := range seg.QuestionAnalytics {
			total += q.TotalAnswers
		}
	}
	if sum != total || sum != 3 {
		t.Fatalf("expected distribution sum %d to equal total answers %d (want 3)", sum, total)
	}
}

func TestComputeAnalyticsEmptySurvey(t *testing.T) {
	report := app.ComputeAnalytics(twoQuestionSurvey(), nil)

	if report.TotalResponses != 0 || report.OverallAverage != 0 {
		t.Fatalf("expected zeroed report, got %+v", report)
	}
	for v := 1; v <= 5; v++ {
		if report.OverallDistribution[v] != 0 {
			t.Fatalf("expected zero-filled distribution, got %v", report.OverallDistribution)
		}
	}
	if len(report.ResponseData) != 0 {
		t.Fatalf("expected no time series points, got %v", report.ResponseData)
	}
}

func TestComputeAnalyticsIgnoresUnknownQuestions(t *testing.T) {
	survey := twoQuestionSurvey()
	responses := []domain.Response{
		respAt("2025-03-01T10:00:00Z", answer("q1", 4), answer("other-survey-q", 1)),
	}

	report := app.ComputeAnalytics(survey, responses)

	if report.OverallAverage != 4 {
		t.Fatalf("expected unknown question excluded, got overall %v", report.OverallAverage)
	}
	if report.SegmentAnalytics[0].QuestionAnalytics[0].TotalAnswers != 1 {
		t.Fatalf("expected 1 counted answer, got %d", report.SegmentAnalytics[0].QuestionAnalytics[0].TotalAnswers)
	}
}

func TestResponseTimeSeries(t *testing.T) {
	survey := twoQuestionSurvey()
	// out of order on purpose, two on the same UTC day
	responses := []domain.Response{
		respAt("2025-03-05T08:00:00Z", answer("q1", 3)),
		respAt("2025-03-01T23:59:00Z", answer("q1", 3)),
		respAt("2025-03-01T00:01:00Z", answer("q1", 3)),
	}

	report := app.ComputeAnalytics(survey, responses)

	if len(report.ResponseData) != 2 {
		t.Fatalf("expected 2 dates, got %v", report.ResponseData)
	}
	if report.ResponseData[0].Date != "2025-03-01" || report.ResponseData[0].Count != 2 {
		t.Fatalf("expected 2025-03-01 count 2 first, got %+v", report.ResponseData[0])
	}
	if report.ResponseData[1].Date != "2025-03-05" || report.ResponseData[1].Count != 1 {
		t.Fatalf("expected 2025-03-05 count 1 second, got %+v", report.ResponseData[1])
	}
}

func twoQuestionSurvey() domain.Survey {
	return domain.Survey{
		ID:    "s1",
		Title: "Event feedback",
		Segments: []domain.Segment{
			{
				ID:       "seg1",
				SurveyID: "s1",
				Title:    "Organisation",
				Position: 0,
				Questions: []domain.Question{
					{ID: "q1", SegmentID: "seg1", Text: "How was the venue?", Position: 0},
					{ID: "q2", SegmentID: "seg1", Text: "How was the catering?", Position: 1},
				},
			},
		},
	}
}

func respAt(stamp string, answers ...domain.Answer) domain.Response {
	ts, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		panic(err)
	}
	return domain.Response{
		ID:          "r-" + stamp,
		SurveyID:    "s1",
		SubmittedAt: ts,
		Answers:     answers,
	}
}

func answer(questionID string, rating int) domain.Answer {
	return domain.Answer{QuestionID: questionID, Rating: rating}
}
