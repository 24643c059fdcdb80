package app

import (
	"math"
	"sort"

	"survey-service/internal/domain"
)

// ratingsByQuestion collects the multiset of ratings per question ID from the
// given responses. Only the passed-in response set is read, so answers made
// against another survey can never leak into the counts. Out-of-scale ratings
// are dropped here, which keeps len(ratings) equal to the distribution total.
func ratingsByQuestion(responses []domain.Response) map[string][]int {
	out := make(map[string][]int)
	for _, resp := range responses {
		for _, ans := range resp.Answers {
			if !domain.ValidRating(ans.Rating) {
				continue
			}
			out[ans.QuestionID] = append(out[ans.QuestionID], ans.Rating)
		}
	}
	return out
}

// roundAverage returns the arithmetic mean rounded to 2 decimal places,
// or 0 for an empty multiset.
func roundAverage(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	return math.Round(avg*100) / 100
}

// distribution maps every rating value 1..5 to its count, zero-filled.
func distribution(ratings []int) map[int]int {
	dist := make(map[int]int, domain.RatingMax)
	for v := domain.RatingMin; v <= domain.RatingMax; v++ {
		dist[v] = 0
	}
	for _, r := range ratings {
		dist[r]++
	}
	return dist
}

// ComputeAnalytics derives the full statistics report for a survey from its
// responses: per-question averages and distributions, per-segment pooled
// averages, the overall average and distribution, and the per-day submission
// time series. It is a pure function and never mutates its inputs.
func ComputeAnalytics(survey domain.Survey, responses []domain.Response) domain.AnalyticsReport {
	byQuestion := ratingsByQuestion(responses)

	segments := make([]domain.SegmentAnalytics, 0, len(survey.Segments))
	var all []int
	for _, seg := range survey.Segments {
		var pooled []int
		questions := make([]domain.QuestionAnalytics, 0, len(seg.Questions))
		for _, q := range seg.Questions {
			ratings := byQuestion[q.ID]
			questions = append(questions, domain.QuestionAnalytics{
				QuestionID:    q.ID,
				QuestionText:  q.Text,
				AverageRating: roundAverage(ratings),
				TotalAnswers:  len(ratings),
				Distribution:  distribution(ratings),
			})
			pooled = append(pooled, ratings...)
		}
		segments = append(segments, domain.SegmentAnalytics{
			SegmentID:         seg.ID,
			SegmentTitle:      seg.Title,
			AverageRating:     roundAverage(pooled),
			QuestionAnalytics: questions,
		})
		all = append(all, pooled...)
	}

	return domain.AnalyticsReport{
		SurveyID:            survey.ID,
		SurveyTitle:         survey.Title,
		TotalResponses:      len(responses),
		OverallAverage:      roundAverage(all),
		OverallDistribution: distribution(all),
		SegmentAnalytics:    segments,
		ResponseData:        responsesByDate(responses),
	}
}

// responsesByDate buckets responses by UTC calendar date. Dates with no
// responses are never synthesized.
func responsesByDate(responses []domain.Response) []domain.TimePoint {
	counts := map[string]int{}
	for _, resp := range responses {
		counts[resp.SubmittedAt.UTC().Format("2006-01-02")]++
	}
	days := make([]string, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Strings(days)
	out := make([]domain.TimePoint, 0, len(days))
	for _, d := range days {
		out = append(out, domain.TimePoint{Date: d, Count: counts[d]})
	}
	return out
}
