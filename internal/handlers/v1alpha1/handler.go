package v1alpha1

import (
	"github.com/go-chi/chi/v5"
	"github.com/talentpool/pipeline/internal/handlers/validator"
	"github.com/talentpool/pipeline/internal/service"
)

// ServiceHandler translates role-checked HTTP calls into workflow
// operations. It holds no business rules itself: legality of every move is
// decided by the services.
type ServiceHandler struct {
	applicationSrv *service.ApplicationService
	interviewSrv   *service.InterviewService
	offerSrv       *service.OfferService
	validator      *validator.Validator
}

func NewServiceHandler(applicationSrv *service.ApplicationService, interviewSrv *service.InterviewService, offerSrv *service.OfferService) *ServiceHandler {
	v := validator.NewValidator()
	v.Register(validator.NewWorkflowValidationRules()...)

	return &ServiceHandler{
		applicationSrv: applicationSrv,
		interviewSrv:   interviewSrv,
		offerSrv:       offerSrv,
		validator:      v,
	}
}

func (h *ServiceHandler) Routes(r chi.Router) {
	r.Route("/applications", func(r chi.Router) {
		r.Post("/", h.CreateApplication)
		r.Get("/", h.ListApplications)
		r.Get("/{id}", h.GetApplication)
		r.Post("/{id}/transition", h.TransitionApplication)
		r.Post("/{id}/withdraw", h.WithdrawApplication)
		r.Get("/{id}/timeline", h.GetTimeline)
		r.Get("/{id}/interviews", h.ListApplicationInterviews)
	})

	r.Route("/interviews", func(r chi.Router) {
		r.Post("/", h.ScheduleInterview)
		r.Get("/pending-reviews", h.ListPendingInterviewReviews)
		r.Get("/{id}", h.GetInterview)
		r.Post("/{id}/candidate-response", h.CandidateRespond)
		r.Post("/{id}/reviewer-decision", h.ReviewerDecide)
		r.Delete("/{id}", h.CancelInterview)
	})

	r.Route("/offers", func(r chi.Router) {
		r.Post("/", h.CreateOffer)
		r.Get("/pending-reviews", h.ListPendingOfferReviews)
		r.Get("/{id}", h.GetOffer)
		r.Post("/{id}/applicant-response", h.ApplicantRespond)
		r.Post("/{id}/review-decision", h.ReviewOffer)
	})
}
