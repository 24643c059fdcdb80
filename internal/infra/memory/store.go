package memory

import (
	"context"
	"sort"
	"sync"

	"survey-service/internal/domain"
)

// Store is an in-memory implementation of app.SurveyStore, used when no
// Postgres URL is configured and throughout the unit tests.
type Store struct {
	mu        sync.RWMutex
	surveys   map[string]*domain.Survey
	responses map[string]*domain.Response
}

func NewStore() *Store {
	return &Store{
		surveys:   make(map[string]*domain.Survey),
		responses: make(map[string]*domain.Response),
	}
}

func (s *Store) CreateSurvey(_ context.Context, survey *domain.Survey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surveys[survey.ID] = cloneSurvey(survey)
	return nil
}

func (s *Store) GetSurvey(_ context.Context, id string) (*domain.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	survey, ok := s.surveys[id]
	if !ok {
		return nil, domain.ErrSurveyNotFound
	}
	out := cloneSurvey(survey)
	out.ResponseCount = s.countResponsesLocked(id)
	return out, nil
}

func (s *Store) ListSurveys(_ context.Context) ([]*domain.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Survey, 0, len(s.surveys))
	for id, survey := range s.surveys {
		c := cloneSurvey(survey)
		c.ResponseCount = s.countResponsesLocked(id)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteSurvey removes the survey tree and cascades to every response (and
// its answers) owned by the survey.
func (s *Store) DeleteSurvey(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.surveys[id]; !ok {
		return domain.ErrSurveyNotFound
	}
	delete(s.surveys, id)
	for rid, resp := range s.responses {
		if resp.SurveyID == id {
			delete(s.responses, rid)
		}
	}
	return nil
}

func (s *Store) CreateResponse(_ context.Context, response *domain.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.surveys[response.SurveyID]; !ok {
		return domain.ErrSurveyNotFound
	}
	s.responses[response.ID] = cloneResponse(response)
	return nil
}

func (s *Store) ListResponses(_ context.Context, surveyID string) ([]domain.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Response{}
	for _, resp := range s.responses {
		if resp.SurveyID == surveyID {
			out = append(out, *cloneResponse(resp))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) countResponsesLocked(surveyID string) int {
	n := 0
	for _, resp := range s.responses {
		if resp.SurveyID == surveyID {
			n++
		}
	}
	return n
}

func cloneSurvey(in *domain.Survey) *domain.Survey {
	out := *in
	out.Segments = make([]domain.Segment, len(in.Segments))
	for i, seg := range in.Segments {
		c := seg
		c.Questions = append([]domain.Question(nil), seg.Questions...)
		out.Segments[i] = c
	}
	return &out
}

func cloneResponse(in *domain.Response) *domain.Response {
	out := *in
	out.Answers = append([]domain.Answer(nil), in.Answers...)
	return &out
}
