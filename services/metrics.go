package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Forms
const (
	FormContact    = "contact"
	FormNewsletter = "newsletter"
)

// Submission outcomes
const (
	OutcomeOK                 = "ok"
	OutcomeSpam               = "spam"
	OutcomeInvalidBody        = "invalid_body"
	OutcomeInvalid            = "invalid"
	OutcomeNotConfigured      = "not_configured"
	OutcomeDeliveryFailed     = "delivery_failed"
	OutcomeVerificationFailed = "verification_failed"
)

var submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "contact_api_submissions_total",
	Help: "Form submissions by form and outcome.",
}, []string{"form", "outcome"})

// RecordSubmission counts one handled submission.
func RecordSubmission(form, outcome string) {
	submissionsTotal.WithLabelValues(form, outcome).Inc()
}
