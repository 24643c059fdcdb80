package app_test

import (
	"testing"
	"time"

	"survey-service/internal/app"
	"survey-service/internal/domain"
)

func TestBuildWorkbookSheetOrder(t *testing.T) {
	sheets := app.BuildWorkbook(twoQuestionSurvey(), nil)

	want := []string{"Responses", "Questions", "Statistics"}
	if len(sheets) != len(want) {
		t.Fatalf("expected %d sheets, got %d", len(want), len(sheets))
	}
	for i, name := range want {
		if sheets[i].Name != name {
			t.Fatalf("expected sheet %d to be %q, got %q", i, name, sheets[i].Name)
		}
	}
}

func TestRawAnswersSheet(t *testing.T) {
	survey := twoQuestionSurvey()
	older := respAt("2025-03-01T10:00:00Z", answer("q1", 4))
	older.RespondentName = "Alice"
	older.RespondentEmail = "alice@example.com"
	// answers submitted out of question order, anonymous respondent
	newer := respAt("2025-03-02T10:00:00Z", answer("q2", 5), answer("q1", 2))

	sheets := app.BuildWorkbook(survey, []domain.Response{older, newer})
	raw := sheets[0]

	header := raw.Rows[0]
	if header[4] != "ORG - Q1" || header[5] != "ORG - Q2" {
		t.Fatalf("expected segment-prefixed question columns, got %v", header)
	}

	// newest response first
	first := raw.Rows[1]
	if first[1] != "Anonymous" || first[2] != "-" {
		t.Fatalf("expected anonymous placeholders, got %v", first)
	}
	if first[3] != "2025-03-02 10:00" {
		t.Fatalf("expected formatted submission date, got %v", first[3])
	}
	if first[4] != 2 || first[5] != 5 {
		t.Fatalf("expected ratings matched by question, got %v", first)
	}

	second := raw.Rows[2]
	if second[1] != "Alice" || second[2] != "alice@example.com" {
		t.Fatalf("expected respondent identity, got %v", second)
	}
	if second[4] != 4 || second[5] != "-" {
		t.Fatalf("expected dash for unanswered question, got %v", second)
	}
}

func TestCatalogueSheetNumbersPerSegment(t *testing.T) {
	survey := twoQuestionSurvey()
	survey.Segments = append(survey.Segments, domain.Segment{
		ID:       "seg2",
		SurveyID: survey.ID,
		Title:    "Content",
		Position: 1,
		Questions: []domain.Question{
			{ID: "q3", SegmentID: "seg2", Text: "How were the talks?", Position: 0},
		},
	})

	sheets := app.BuildWorkbook(survey, nil)
	catalogue := sheets[1]

	if len(catalogue.Rows) != 4 {
		t.Fatalf("expected header plus 3 questions, got %d rows", len(catalogue.Rows))
	}
	// numbering restarts in the second segment
	if catalogue.Rows[3][0] != "Content" || catalogue.Rows[3][1] != "Q1" {
		t.Fatalf("expected Q1 in second segment, got %v", catalogue.Rows[3])
	}
}

func TestStatisticsSheetMatchesAnalytics(t *testing.T) {
	survey := twoQuestionSurvey()
	responses := []domain.Response{
		respAt("2025-03-01T10:00:00Z", answer("q1", 2)),
		respAt("2025-03-01T14:00:00Z", answer("q1", 4)),
		respAt("2025-03-02T09:00:00Z", answer("q1", 4), answer("q2", 5)),
	}

	report := app.ComputeAnalytics(survey, responses)
	stats := app.BuildWorkbook(survey, responses)[2]

	i := 1
	for _, seg := range report.SegmentAnalytics {
		for _, q := range seg.QuestionAnalytics {
			row := stats.Rows[i]
			if row[2] != q.AverageRating {
				t.Fatalf("row %d: sheet average %v != analytics %v", i, row[2], q.AverageRating)
			}
			for v := 1; v <= 5; v++ {
				if row[2+v] != q.Distribution[v] {
					t.Fatalf("row %d: sheet dist[%d]=%v != analytics %d", i, v, row[2+v], q.Distribution[v])
				}
			}
			i++
		}
	}
}

func TestBuildWorkbookNoResponses(t *testing.T) {
	sheets := app.BuildWorkbook(twoQuestionSurvey(), nil)

	if len(sheets[0].Rows) != 1 {
		t.Fatalf("expected header-only raw sheet, got %d rows", len(sheets[0].Rows))
	}
	stats := sheets[2]
	if len(stats.Rows) != 3 {
		t.Fatalf("expected header plus one row per question, got %d", len(stats.Rows))
	}
	for _, row := range stats.Rows[1:] {
		if row[2] != float64(0) {
			t.Fatalf("expected zero average, got %v", row[2])
		}
	}
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2025, 3, 15, 18, 30, 0, 0, time.UTC)
	got := app.ExportFileName("abc-123", now)
	if got != "survey-abc-123-2025-03-15.xlsx" {
		t.Fatalf("unexpected file name %q", got)
	}
}
