package app

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"survey-service/internal/domain"
)

// Sheet is one tab of an export workbook: a name, per-column widths and
// rows of cells. It is the document encoder's input format.
type Sheet struct {
	Name      string
	ColWidths []float64
	Rows      [][]any
}

const (
	sheetResponses  = "Responses"
	sheetQuestions  = "Questions"
	sheetStatistics = "Statistics"

	anonymousName    = "Anonymous"
	emptyCell        = "-"
	exportTimeLayout = "2006-01-02 15:04"
)

// BuildWorkbook renders a survey and its responses into the three export
// sheets: raw answers, question catalogue and per-question statistics. The
// statistics sheet is derived from the same rating collection pass as
// ComputeAnalytics, so the two can never disagree.
func BuildWorkbook(survey domain.Survey, responses []domain.Response) []Sheet {
	return []Sheet{
		rawAnswersSheet(survey, responses),
		catalogueSheet(survey),
		statisticsSheet(survey, responses),
	}
}

// ExportFileName returns the attachment name for a survey export.
func ExportFileName(surveyID string, now time.Time) string {
	return fmt.Sprintf("survey-%s-%s.xlsx", surveyID, now.UTC().Format("2006-01-02"))
}

func rawAnswersSheet(survey domain.Survey, responses []domain.Response) Sheet {
	header := []any{"#", "Name", "Email", "Submission date"}
	widths := []float64{25, 25, 25, 25}
	for _, seg := range survey.Segments {
		for _, q := range seg.Questions {
			header = append(header, columnToken(seg, q))
			widths = append(widths, 10)
		}
	}

	ordered := newestFirst(responses)
	rows := [][]any{header}
	for i, resp := range ordered {
		byQuestion := answersByQuestion(resp)
		row := []any{
			i + 1,
			fallback(resp.RespondentName, anonymousName),
			fallback(resp.RespondentEmail, emptyCell),
			resp.SubmittedAt.UTC().Format(exportTimeLayout),
		}
		for _, seg := range survey.Segments {
			for _, q := range seg.Questions {
				if ans, ok := byQuestion[q.ID]; ok {
					row = append(row, ans.Rating)
				} else {
					row = append(row, emptyCell)
				}
			}
		}
		rows = append(rows, row)
	}

	return Sheet{Name: sheetResponses, ColWidths: widths, Rows: rows}
}

func catalogueSheet(survey domain.Survey) Sheet {
	rows := [][]any{{"Segment", "Question number", "Question text"}}
	for _, seg := range survey.Segments {
		for i, q := range seg.Questions {
			rows = append(rows, []any{seg.Title, fmt.Sprintf("Q%d", i+1), q.Text})
		}
	}
	return Sheet{Name: sheetQuestions, ColWidths: []float64{25, 12, 80}, Rows: rows}
}

func statisticsSheet(survey domain.Survey, responses []domain.Response) Sheet {
	byQuestion := ratingsByQuestion(responses)
	rows := [][]any{{"Segment", "Question", "Average", "1", "2", "3", "4", "5"}}
	for _, seg := range survey.Segments {
		for _, q := range seg.Questions {
			ratings := byQuestion[q.ID]
			dist := distribution(ratings)
			rows = append(rows, []any{
				seg.Title,
				fmt.Sprintf("Q%d", q.Position+1),
				roundAverage(ratings),
				dist[1], dist[2], dist[3], dist[4], dist[5],
			})
		}
	}
	return Sheet{
		Name:      sheetStatistics,
		ColWidths: []float64{25, 12, 10, 8, 8, 8, 8, 8},
		Rows:      rows,
	}
}

// columnToken labels a question column with a short segment prefix and the
// question's 1-based number within its segment, e.g. "ORG - Q3".
func columnToken(seg domain.Segment, q domain.Question) string {
	prefix := []rune(seg.Title)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("%s - Q%d", strings.ToUpper(string(prefix)), q.Position+1)
}

// answersByQuestion indexes a response's answers by question ID; answers are
// not guaranteed to arrive in question order.
func answersByQuestion(resp domain.Response) map[string]domain.Answer {
	out := make(map[string]domain.Answer, len(resp.Answers))
	for _, ans := range resp.Answers {
		out[ans.QuestionID] = ans
	}
	return out
}

// newestFirst returns a copy of responses sorted by submission time
// descending. The sort is stable so equal timestamps keep their input order.
func newestFirst(responses []domain.Response) []domain.Response {
	out := make([]domain.Response, len(responses))
	copy(out, responses)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}

func fallback(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
