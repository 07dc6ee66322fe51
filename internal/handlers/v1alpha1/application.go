package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/talentpool/pipeline/internal/auth"
	"github.com/talentpool/pipeline/internal/service/mappers"
	"github.com/talentpool/pipeline/internal/store"
	"github.com/talentpool/pipeline/internal/store/model"
)

// (POST /api/v1alpha1/applications)
func (h *ServiceHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	var req ApplicationCreateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderBadRequest(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		renderBadRequest(w, r, err)
		return
	}

	form := mappers.ApplicationCreateForm{
		JobID:       req.JobID,
		CandidateID: req.CandidateID,
		ResumeRef:   req.ResumeRef,
	}

	application, err := h.applicationSrv.CreateApplication(r.Context(), form, user)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, applicationToApi(application))
}

// (GET /api/v1alpha1/applications)
func (h *ServiceHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	filter := store.NewApplicationQueryFilter()
	// candidates only ever see their own applications
	if user.Role == auth.RoleCandidate {
		filter = filter.ByCandidateID(user.ID)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter = filter.ByStatus(model.ApplicationStatus(status))
	}
	if jobID, err := uuid.Parse(r.URL.Query().Get("job_id")); err == nil {
		filter = filter.ByJobID(jobID)
	}

	applications, err := h.applicationSrv.ListApplications(r.Context(), filter)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, applicationListToApi(applications))
}

// (GET /api/v1alpha1/applications/{id})
func (h *ServiceHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, err)
		return
	}

	application, err := h.applicationSrv.GetApplication(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, applicationToApi(application))
}

// (POST /api/v1alpha1/applications/{id}/transition)
func (h *ServiceHandler) TransitionApplication(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, err)
		return
	}

	var req TransitionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderBadRequest(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		renderBadRequest(w, r, err)
		return
	}

	application, err := h.applicationSrv.Transition(r.Context(), id, model.ApplicationStatus(req.Status), user, req.Note)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, applicationToApi(application))
}

// (POST /api/v1alpha1/applications/{id}/withdraw)
func (h *ServiceHandler) WithdrawApplication(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, err)
		return
	}

	var req WithdrawRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderBadRequest(w, r, err)
		return
	}

	application, err := h.applicationSrv.Transition(r.Context(), id, model.ApplicationStatusWithdrawn, user, req.Note)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, applicationToApi(application))
}

// (GET /api/v1alpha1/applications/{id}/timeline)
func (h *ServiceHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, err)
		return
	}

	history, err := h.applicationSrv.History(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, timelineToApi(history))
}

// (GET /api/v1alpha1/applications/{id}/interviews)
func (h *ServiceHandler) ListApplicationInterviews(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, err)
		return
	}

	interviews, err := h.interviewSrv.ListByApplication(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, interviewListToApi(interviews))
}
