package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"survey-service/internal/domain"
)

// SurveyStore abstracts how survey and response data is persisted
// (Postgres, in-memory). Lookups for a missing survey return
// domain.ErrSurveyNotFound.
type SurveyStore interface {
	CreateSurvey(ctx context.Context, survey *domain.Survey) error
	GetSurvey(ctx context.Context, id string) (*domain.Survey, error)
	ListSurveys(ctx context.Context) ([]*domain.Survey, error)
	DeleteSurvey(ctx context.Context, id string) error
	CreateResponse(ctx context.Context, response *domain.Response) error
	ListResponses(ctx context.Context, surveyID string) ([]domain.Response, error)
}

// ReportProvider serves analytics reports, possibly from a cache.
type ReportProvider interface {
	GetReport(ctx context.Context, surveyID string) (domain.AnalyticsReport, error)
	Invalidate(ctx context.Context, surveyID string) error
}

// DocumentEncoder renders export sheets into spreadsheet bytes.
type DocumentEncoder interface {
	Encode(sheets []Sheet) ([]byte, error)
}

// ImageOptions configures the scannable-image encoder.
type ImageOptions struct {
	Size       int
	Margin     int
	Foreground string
	Background string
}

// ImageEncoder renders text into a scannable image.
type ImageEncoder interface {
	Encode(text string, opts ImageOptions) ([]byte, error)
}

// SurveyDraft is the input for creating a survey. Segment and question
// positions are assigned from array order; caller-supplied order is ignored.
type SurveyDraft struct {
	Title       string
	Description string
	Segments    []SegmentDraft
}

// SegmentDraft is one segment of a survey draft.
type SegmentDraft struct {
	Title     string
	Questions []QuestionDraft
}

// QuestionDraft is one question of a segment draft. RatingLabels is either
// nil or exactly 5 non-blank strings.
type QuestionDraft struct {
	Text         string
	RatingLabels []string
}

// AnswerDraft is one rating of a submission.
type AnswerDraft struct {
	QuestionID string
	Rating     int
}

// AccessLink pairs the respondent-facing URL with its scannable PNG image.
type AccessLink struct {
	URL string
	PNG []byte
}

// SurveyService contains the survey management use cases.
type SurveyService struct {
	store   SurveyStore
	reports ReportProvider
	docs    DocumentEncoder
	images  ImageEncoder
	baseURL string
	now     func() time.Time
}

func NewSurveyService(store SurveyStore, reports ReportProvider, docs DocumentEncoder, images ImageEncoder, baseURL string) *SurveyService {
	return &SurveyService{
		store:   store,
		reports: reports,
		docs:    docs,
		images:  images,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// WithClock is test-only for deterministic timestamps.
func (s *SurveyService) WithClock(now func() time.Time) *SurveyService {
	s.now = now
	return s
}

// Create validates a draft and persists the whole Survey→Segment→Question
// tree as one unit.
func (s *SurveyService) Create(ctx context.Context, draft SurveyDraft) (*domain.Survey, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	survey := &domain.Survey{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		IsActive:    true,
		CreatedAt:   s.now().UTC(),
	}
	for i, segDraft := range draft.Segments {
		seg := domain.Segment{
			ID:       uuid.NewString(),
			SurveyID: survey.ID,
			Title:    strings.TrimSpace(segDraft.Title),
			Position: i,
		}
		for j, qDraft := range segDraft.Questions {
			q := domain.Question{
				ID:        uuid.NewString(),
				SegmentID: seg.ID,
				Text:      strings.TrimSpace(qDraft.Text),
				Position:  j,
			}
			if len(qDraft.RatingLabels) > 0 {
				raw, err := json.Marshal(qDraft.RatingLabels)
				if err != nil {
					return nil, fmt.Errorf("serialize rating labels: %w", err)
				}
				q.RatingLabels = string(raw)
			}
			seg.Questions = append(seg.Questions, q)
		}
		survey.Segments = append(survey.Segments, seg)
	}

	if err := s.store.CreateSurvey(ctx, survey); err != nil {
		return nil, fmt.Errorf("create survey: %w", err)
	}
	return survey, nil
}

// Get returns the full ordered survey tree with its response count.
func (s *SurveyService) Get(ctx context.Context, id string) (*domain.Survey, error) {
	return s.store.GetSurvey(ctx, id)
}

// List returns all surveys, newest first.
func (s *SurveyService) List(ctx context.Context) ([]*domain.Survey, error) {
	return s.store.ListSurveys(ctx)
}

// Delete removes a survey and cascades to its segments, questions, responses
// and answers. The cached report for the survey is invalidated.
func (s *SurveyService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteSurvey(ctx, id); err != nil {
		return err
	}
	_ = s.reports.Invalidate(ctx, id)
	return nil
}

// Submit records one respondent's answers against a survey. Every answer must
// reference a question of that survey, carry a rating inside the 1..5 scale,
// and target a distinct question; violations are rejected before persistence.
func (s *SurveyService) Submit(ctx context.Context, surveyID, name, email string, answers []AnswerDraft) (*domain.Response, error) {
	survey, err := s.store.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool)
	for _, seg := range survey.Segments {
		for _, q := range seg.Questions {
			known[q.ID] = true
		}
	}

	response := &domain.Response{
		ID:              uuid.NewString(),
		SurveyID:        survey.ID,
		RespondentName:  strings.TrimSpace(name),
		RespondentEmail: strings.TrimSpace(email),
		SubmittedAt:     s.now().UTC(),
	}

	seen := make(map[string]bool, len(answers))
	for _, ans := range answers {
		if !known[ans.QuestionID] {
			return nil, fmt.Errorf("%w: unknown question %q", domain.ErrValidation, ans.QuestionID)
		}
		if !domain.ValidRating(ans.Rating) {
			return nil, fmt.Errorf("%w: rating %d outside %d..%d", domain.ErrValidation, ans.Rating, domain.RatingMin, domain.RatingMax)
		}
		if seen[ans.QuestionID] {
			return nil, fmt.Errorf("%w: duplicate answer for question %q", domain.ErrValidation, ans.QuestionID)
		}
		seen[ans.QuestionID] = true
		response.Answers = append(response.Answers, domain.Answer{
			ID:         uuid.NewString(),
			ResponseID: response.ID,
			QuestionID: ans.QuestionID,
			Rating:     ans.Rating,
		})
	}

	if err := s.store.CreateResponse(ctx, response); err != nil {
		return nil, fmt.Errorf("create response: %w", err)
	}
	_ = s.reports.Invalidate(ctx, surveyID)
	return response, nil
}

// Responses lists a survey's responses, newest first.
func (s *SurveyService) Responses(ctx context.Context, surveyID string) ([]domain.Response, error) {
	if _, err := s.store.GetSurvey(ctx, surveyID); err != nil {
		return nil, err
	}
	return s.store.ListResponses(ctx, surveyID)
}

// Analytics returns the aggregated report for a survey.
func (s *SurveyService) Analytics(ctx context.Context, surveyID string) (domain.AnalyticsReport, error) {
	return s.reports.GetReport(ctx, surveyID)
}

// Export renders the survey's responses into spreadsheet bytes and returns
// the attachment file name alongside them.
func (s *SurveyService) Export(ctx context.Context, surveyID string) (string, []byte, error) {
	survey, responses, err := s.fetchSurveyData(ctx, surveyID)
	if err != nil {
		return "", nil, err
	}
	data, err := s.docs.Encode(BuildWorkbook(*survey, responses))
	if err != nil {
		return "", nil, fmt.Errorf("%w: workbook: %v", domain.ErrEncoding, err)
	}
	return ExportFileName(surveyID, s.now()), data, nil
}

// Link builds the respondent-facing URL for a survey and encodes it as a QR
// PNG. requestOrigin is used when no public base URL is configured.
func (s *SurveyService) Link(ctx context.Context, surveyID, requestOrigin string, size int) (AccessLink, error) {
	if _, err := s.store.GetSurvey(ctx, surveyID); err != nil {
		return AccessLink{}, err
	}

	base := s.baseURL
	if base == "" {
		base = requestOrigin
	}
	accessURL := BuildAccessURL(base, surveyID)

	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := s.images.Encode(accessURL, ImageOptions{
		Size:       size,
		Margin:     2,
		Foreground: "#1f2937",
		Background: "#ffffff",
	})
	if err != nil {
		return AccessLink{}, fmt.Errorf("%w: qr image: %v", domain.ErrEncoding, err)
	}
	return AccessLink{URL: accessURL, PNG: png}, nil
}

// EnsureSurveys creates every draft whose title is not present yet and
// reports how many were created. Safe to run repeatedly.
func (s *SurveyService) EnsureSurveys(ctx context.Context, drafts []SurveyDraft) (int, error) {
	existing, err := s.store.ListSurveys(ctx)
	if err != nil {
		return 0, err
	}
	titles := make(map[string]bool, len(existing))
	for _, sv := range existing {
		titles[sv.Title] = true
	}

	created := 0
	for _, draft := range drafts {
		if titles[strings.TrimSpace(draft.Title)] {
			continue
		}
		if _, err := s.Create(ctx, draft); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *SurveyService) fetchSurveyData(ctx context.Context, surveyID string) (*domain.Survey, []domain.Response, error) {
	var (
		survey    *domain.Survey
		responses []domain.Response
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sv, err := s.store.GetSurvey(gctx, surveyID)
		survey = sv
		return err
	})
	g.Go(func() error {
		rs, err := s.store.ListResponses(gctx, surveyID)
		responses = rs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return survey, responses, nil
}

func validateDraft(draft SurveyDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return fmt.Errorf("%w: survey title is required", domain.ErrValidation)
	}
	if len(draft.Segments) == 0 {
		return fmt.Errorf("%w: survey needs at least one segment", domain.ErrValidation)
	}
	for i, seg := range draft.Segments {
		if strings.TrimSpace(seg.Title) == "" {
			return fmt.Errorf("%w: segment %d title is required", domain.ErrValidation, i+1)
		}
		if len(seg.Questions) == 0 {
			return fmt.Errorf("%w: segment %q needs at least one question", domain.ErrValidation, seg.Title)
		}
		for j, q := range seg.Questions {
			if strings.TrimSpace(q.Text) == "" {
				return fmt.Errorf("%w: question %d of segment %q text is required", domain.ErrValidation, j+1, seg.Title)
			}
			if len(q.RatingLabels) > 0 {
				if len(q.RatingLabels) != domain.RatingMax {
					return fmt.Errorf("%w: rating labels must have exactly %d entries", domain.ErrValidation, domain.RatingMax)
				}
				for _, l := range q.RatingLabels {
					if strings.TrimSpace(l) == "" {
						return fmt.Errorf("%w: rating labels must not be blank", domain.ErrValidation)
					}
				}
			}
		}
	}
	return nil
}
