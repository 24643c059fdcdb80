package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"survey-service/internal/domain"
)

// Store implements app.SurveyStore on a pgx connection pool. Schema is
// managed by the bun migrations in internal/infra/postgres/migrations.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CreateSurvey persists the whole Survey→Segment→Question tree in one
// transaction; a partial survey is never visible.
func (s *Store) CreateSurvey(ctx context.Context, survey *domain.Survey) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO surveys (id, title, description, is_active, created_at) VALUES ($1, $2, NULLIF($3, ''), $4, $5)`,
		survey.ID, survey.Title, survey.Description, survey.IsActive, survey.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert survey: %w", err)
	}
	for _, seg := range survey.Segments {
		_, err = tx.Exec(ctx,
			`INSERT INTO segments (id, survey_id, title, position) VALUES ($1, $2, $3, $4)`,
			seg.ID, seg.SurveyID, seg.Title, seg.Position)
		if err != nil {
			return fmt.Errorf("insert segment: %w", err)
		}
		for _, q := range seg.Questions {
			_, err = tx.Exec(ctx,
				`INSERT INTO questions (id, segment_id, text, position, rating_labels) VALUES ($1, $2, $3, $4, NULLIF($5, ''))`,
				q.ID, q.SegmentID, q.Text, q.Position, q.RatingLabels)
			if err != nil {
				return fmt.Errorf("insert question: %w", err)
			}
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) GetSurvey(ctx context.Context, id string) (*domain.Survey, error) {
	survey := &domain.Survey{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, COALESCE(description, ''), is_active, created_at FROM surveys WHERE id = $1`, id).
		Scan(&survey.ID, &survey.Title, &survey.Description, &survey.IsActive, &survey.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSurveyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get survey: %w", err)
	}

	if err := s.loadTree(ctx, survey); err != nil {
		return nil, err
	}
	err = s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM responses WHERE survey_id = $1`, id).Scan(&survey.ResponseCount)
	if err != nil {
		return nil, fmt.Errorf("count responses: %w", err)
	}
	return survey, nil
}

func (s *Store) ListSurveys(ctx context.Context) ([]*domain.Survey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, COALESCE(description, ''), is_active, created_at FROM surveys ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	defer rows.Close()

	var surveys []*domain.Survey
	for rows.Next() {
		survey := &domain.Survey{}
		if err := rows.Scan(&survey.ID, &survey.Title, &survey.Description, &survey.IsActive, &survey.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan survey: %w", err)
		}
		surveys = append(surveys, survey)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}

	counts, err := s.responseCounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, survey := range surveys {
		if err := s.loadTree(ctx, survey); err != nil {
			return nil, err
		}
		survey.ResponseCount = counts[survey.ID]
	}
	return surveys, nil
}

// DeleteSurvey removes the survey row; the schema's ON DELETE CASCADE rules
// carry the deletion to segments, questions, responses and answers.
func (s *Store) DeleteSurvey(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM surveys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete survey: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrSurveyNotFound
	}
	return nil
}

// CreateResponse persists a response and its answers in one transaction.
func (s *Store) CreateResponse(ctx context.Context, response *domain.Response) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO responses (id, survey_id, respondent_name, respondent_email, submitted_at)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)`,
		response.ID, response.SurveyID, response.RespondentName, response.RespondentEmail, response.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	for _, ans := range response.Answers {
		_, err = tx.Exec(ctx,
			`INSERT INTO answers (id, response_id, question_id, rating) VALUES ($1, $2, $3, $4)`,
			ans.ID, ans.ResponseID, ans.QuestionID, ans.Rating)
		if err != nil {
			return fmt.Errorf("insert answer: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// ListResponses returns only responses whose owning survey matches surveyID,
// newest first, with answers attached.
func (s *Store) ListResponses(ctx context.Context, surveyID string) ([]domain.Response, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, survey_id, COALESCE(respondent_name, ''), COALESCE(respondent_email, ''), submitted_at
		 FROM responses WHERE survey_id = $1 ORDER BY submitted_at DESC, id`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	responses := []domain.Response{}
	index := map[string]int{}
	for rows.Next() {
		var resp domain.Response
		if err := rows.Scan(&resp.ID, &resp.SurveyID, &resp.RespondentName, &resp.RespondentEmail, &resp.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		index[resp.ID] = len(responses)
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	ansRows, err := s.pool.Query(ctx,
		`SELECT a.id, a.response_id, a.question_id, a.rating
		 FROM answers a JOIN responses r ON a.response_id = r.id
		 WHERE r.survey_id = $1`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer ansRows.Close()

	for ansRows.Next() {
		var ans domain.Answer
		if err := ansRows.Scan(&ans.ID, &ans.ResponseID, &ans.QuestionID, &ans.Rating); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		if i, ok := index[ans.ResponseID]; ok {
			responses[i].Answers = append(responses[i].Answers, ans)
		}
	}
	if err := ansRows.Err(); err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return responses, nil
}

func (s *Store) loadTree(ctx context.Context, survey *domain.Survey) error {
	segRows, err := s.pool.Query(ctx,
		`SELECT id, survey_id, title, position FROM segments WHERE survey_id = $1 ORDER BY position`, survey.ID)
	if err != nil {
		return fmt.Errorf("list segments: %w", err)
	}
	defer segRows.Close()

	survey.Segments = nil
	index := map[string]int{}
	for segRows.Next() {
		var seg domain.Segment
		if err := segRows.Scan(&seg.ID, &seg.SurveyID, &seg.Title, &seg.Position); err != nil {
			return fmt.Errorf("scan segment: %w", err)
		}
		index[seg.ID] = len(survey.Segments)
		survey.Segments = append(survey.Segments, seg)
	}
	if err := segRows.Err(); err != nil {
		return fmt.Errorf("list segments: %w", err)
	}

	qRows, err := s.pool.Query(ctx,
		`SELECT q.id, q.segment_id, q.text, q.position, COALESCE(q.rating_labels, '')
		 FROM questions q JOIN segments seg ON q.segment_id = seg.id
		 WHERE seg.survey_id = $1 ORDER BY seg.position, q.position`, survey.ID)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	defer qRows.Close()

	for qRows.Next() {
		var q domain.Question
		if err := qRows.Scan(&q.ID, &q.SegmentID, &q.Text, &q.Position, &q.RatingLabels); err != nil {
			return fmt.Errorf("scan question: %w", err)
		}
		if i, ok := index[q.SegmentID]; ok {
			survey.Segments[i].Questions = append(survey.Segments[i].Questions, q)
		}
	}
	if err := qRows.Err(); err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	return nil
}

func (s *Store) responseCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT survey_id, COUNT(*) FROM responses GROUP BY survey_id`)
	if err != nil {
		return nil, fmt.Errorf("count responses: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
