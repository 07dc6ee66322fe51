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

// (POST /api/v1alpha1/offers)
func (h *ServiceHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	var req OfferCreateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderBadRequest(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		renderBadRequest(w, r, err)
		return
	}

	form := mappers.OfferCreateForm{
		ApplicationID: req.ApplicationID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Notes:         req.Notes,
	}

	offer, err := h.offerSrv.Create(r.Context(), form, user)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, offerToApi(offer))
}

// (GET /api/v1alpha1/offers/pending-reviews)
func (h *ServiceHandler) ListPendingOfferReviews(w http.ResponseWriter, r *http.Request) {
	var creatorID *uuid.UUID
	if id, err := uuid.Parse(r.URL.Query().Get("created_by")); err == nil {
		creatorID = &id
	}

	offers, err := h.offerSrv.ListPendingReviews(r.Context(), creatorID)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, offerListToApi(offers))
}

// (GET /api/v1alpha1/offers/{id})
func (h *ServiceHandler) GetOffer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, err)
		return
	}

	offer, err := h.offerSrv.GetOffer(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, offerToApi(offer))
}

// (POST /api/v1alpha1/offers/{id}/applicant-response)
func (h *ServiceHandler) ApplicantRespond(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, err)
		return
	}

	var req ApplicantResponseRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderBadRequest(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		renderBadRequest(w, r, err)
		return
	}

	offer, err := h.offerSrv.ApplicantRespond(r.Context(), id, user, model.CandidateResponse(req.Response), req.Notes)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, offerToApi(offer))
}

// (POST /api/v1alpha1/offers/{id}/review-decision)
func (h *ServiceHandler) ReviewOffer(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, err)
		return
	}

	var req OfferReviewRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderBadRequest(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		renderBadRequest(w, r, err)
		return
	}

	offer, err := h.offerSrv.ReviewDecision(r.Context(), id, user, model.ReviewerResponse(req.Decision), req.Notes)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, offerToApi(offer))
}
