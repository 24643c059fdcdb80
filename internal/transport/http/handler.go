package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"survey-service/internal/app"
	"survey-service/internal/domain"
	"survey-service/internal/infra/xlsx"
)

// Handler exposes the survey use cases over JSON/HTTP.
type Handler struct {
	service *app.SurveyService
	seeds   []app.SurveyDraft
}

func NewHandler(service *app.SurveyService, seeds []app.SurveyDraft) *Handler {
	return &Handler{service: service, seeds: seeds}
}

// CreateSurveyRequest is the request body for creating a survey.
type CreateSurveyRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Segments    []SegmentRequest `json:"segments"`
}

// SegmentRequest is one segment of a survey creation request.
type SegmentRequest struct {
	Title     string            `json:"title"`
	Questions []QuestionRequest `json:"questions"`
}

// QuestionRequest is one question of a segment; ratingLabels is either
// absent or exactly 5 strings.
type QuestionRequest struct {
	Text         string   `json:"text"`
	RatingLabels []string `json:"ratingLabels,omitempty"`
}

// SubmitResponseRequest is the request body for a respondent submission.
type SubmitResponseRequest struct {
	RespondentName  string          `json:"respondentName"`
	RespondentEmail string          `json:"respondentEmail"`
	Answers         []AnswerRequest `json:"answers"`
}

// AnswerRequest is one rating of a submission.
type AnswerRequest struct {
	QuestionID string `json:"questionId"`
	Rating     int    `json:"rating"`
}

// CreateSurvey handles POST /v1/surveys.
func (h *Handler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req CreateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft := app.SurveyDraft{Title: req.Title, Description: req.Description}
	for _, seg := range req.Segments {
		segDraft := app.SegmentDraft{Title: seg.Title}
		for _, q := range seg.Questions {
			segDraft.Questions = append(segDraft.Questions, app.QuestionDraft{
				Text:         q.Text,
				RatingLabels: q.RatingLabels,
			})
		}
		draft.Segments = append(draft.Segments, segDraft)
	}

	survey, err := h.service.Create(r.Context(), draft)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, survey)
}

// ListSurveys handles GET /v1/surveys.
func (h *Handler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"surveys": surveys})
}

// GetSurvey handles GET /v1/surveys/{surveyId}.
func (h *Handler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	survey, err := h.service.Get(r.Context(), mux.Vars(r)["surveyId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// DeleteSurvey handles DELETE /v1/surveys/{surveyId}.
func (h *Handler) DeleteSurvey(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["surveyId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SubmitResponse handles POST /v1/surveys/{surveyId}/responses.
func (h *Handler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answers := make([]app.AnswerDraft, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, app.AnswerDraft{QuestionID: a.QuestionID, Rating: a.Rating})
	}

	response, err := h.service.Submit(r.Context(), mux.Vars(r)["surveyId"], req.RespondentName, req.RespondentEmail, answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response)
}

// ListResponses handles GET /v1/surveys/{surveyId}/responses.
func (h *Handler) ListResponses(w http.ResponseWriter, r *http.Request) {
	responses, err := h.service.Responses(r.Context(), mux.Vars(r)["surveyId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"responses": responses})
}

// Analytics handles GET /v1/surveys/{surveyId}/analytics.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Analytics(r.Context(), mux.Vars(r)["surveyId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Export handles GET /v1/surveys/{surveyId}/export and responds with an xlsx
// attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.service.Export(r.Context(), mux.Vars(r)["surveyId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// QRCode handles GET /v1/surveys/{surveyId}/qrcode?size=N and responds with
// the access URL plus a base64 PNG data URL.
func (h *Handler) QRCode(w http.ResponseWriter, r *http.Request) {
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid size")
			return
		}
		size = parsed
	}

	link, err := h.service.Link(r.Context(), mux.Vars(r)["surveyId"], requestOrigin(r), size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"qrCode": "data:image/png;base64," + base64.StdEncoding.EncodeToString(link.PNG),
		"url":    link.URL,
	})
}

// InitSurveys handles POST /v1/init: create the built-in surveys that are
// not present yet.
func (h *Handler) InitSurveys(w http.ResponseWriter, r *http.Request) {
	created, err := h.service.EnsureSurveys(r.Context(), h.seeds)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "surveys initialized",
		"created": created,
	})
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSurveyNotFound), errors.Is(err, domain.ErrResponseNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
