package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/talentpool/pipeline/internal/auth"
	"github.com/talentpool/pipeline/internal/service/mappers"
	"github.com/talentpool/pipeline/internal/store/model"
)

// (POST /api/v1alpha1/interviews)
func (h *ServiceHandler) ScheduleInterview(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	var req InterviewScheduleRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderBadRequest(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		renderBadRequest(w, r, err)
		return
	}

	form := mappers.InterviewScheduleForm{
		ApplicationID:   req.ApplicationID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Participants:    req.Participants,
	}

	interview, err := h.interviewSrv.Schedule(r.Context(), form, user)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, interviewToApi(interview))
}

// (GET /api/v1alpha1/interviews/pending-reviews)
func (h *ServiceHandler) ListPendingInterviewReviews(w http.ResponseWriter, r *http.Request) {
	interviews, err := h.interviewSrv.ListPendingReviews(r.Context())
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, interviewListToApi(interviews))
}

// (GET /api/v1alpha1/interviews/{id})
func (h *ServiceHandler) GetInterview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, err)
		return
	}

	interview, err := h.interviewSrv.GetInterview(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, interviewToApi(interview))
}

// (POST /api/v1alpha1/interviews/{id}/candidate-response)
func (h *ServiceHandler) CandidateRespond(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, err)
		return
	}

	var req CandidateResponseRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderBadRequest(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		renderBadRequest(w, r, err)
		return
	}

	interview, err := h.interviewSrv.CandidateRespond(r.Context(), id, user, model.CandidateResponse(req.Response), req.Notes, req.SuggestedTime)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, interviewToApi(interview))
}

// (POST /api/v1alpha1/interviews/{id}/reviewer-decision)
func (h *ServiceHandler) ReviewerDecide(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, err)
		return
	}

	var req ReviewerDecisionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderBadRequest(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		renderBadRequest(w, r, err)
		return
	}

	interview, err := h.interviewSrv.ReviewerDecide(r.Context(), id, user, model.ReviewerResponse(req.Decision), req.SuggestedTime, req.Notes)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, interviewToApi(interview))
}

// (DELETE /api/v1alpha1/interviews/{id})
func (h *ServiceHandler) CancelInterview(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, err)
		return
	}

	if err := h.interviewSrv.Cancel(r.Context(), id, user); err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.NoContent(w, r)
}
