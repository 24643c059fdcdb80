package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"survey-service/internal/domain"
)

// ReportComputer produces a fresh analytics report straight from the store.
// Caches in internal/infra wrap it to avoid recomputing on every read.
type ReportComputer struct {
	store SurveyStore
}

func NewReportComputer(store SurveyStore) *ReportComputer {
	return &ReportComputer{store: store}
}

// ComputeReport loads the survey tree and its responses concurrently and runs
// the pure aggregation over them. A missing survey surfaces as
// domain.ErrSurveyNotFound.
func (c *ReportComputer) ComputeReport(ctx context.Context, surveyID string) (domain.AnalyticsReport, error) {
	var (
		survey    *domain.Survey
		responses []domain.Response
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sv, err := c.store.GetSurvey(gctx, surveyID)
		survey = sv
		return err
	})
	g.Go(func() error {
		rs, err := c.store.ListResponses(gctx, surveyID)
		responses = rs
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.AnalyticsReport{}, err
	}
	return ComputeAnalytics(*survey, responses), nil
}
