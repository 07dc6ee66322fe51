package validator

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/talentpool/pipeline/internal/store/model"
)

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

// NewWorkflowValidationRules returns the custom rules used by the workflow
// payloads.
func NewWorkflowValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("application_status", applicationStatusValidator),
		},
		{
			Rule: registerFn("negotiation_response", negotiationResponseValidator),
		},
		{
			Rule: registerFn("review_decision", reviewDecisionValidator),
		},
		{
			Rule: registerFn("future_time", futureTimeValidator),
		},
	}
}

func applicationStatusValidator(fl validator.FieldLevel) bool {
	return model.ApplicationStatus(fl.Field().String()).Valid()
}

func negotiationResponseValidator(fl validator.FieldLevel) bool {
	switch model.CandidateResponse(fl.Field().String()) {
	case model.ResponseAccepted, model.ResponseRejected:
		return true
	}
	return false
}

func reviewDecisionValidator(fl validator.FieldLevel) bool {
	switch model.ReviewerResponse(fl.Field().String()) {
	case model.ReviewApproved, model.ReviewRejected:
		return true
	}
	return false
}

func futureTimeValidator(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.After(time.Now())
}
