package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"quantent_web_api/models"
	"quantent_web_api/services"
)

// HandleNewsletter processes POST /api/newsletter. Nothing is stored or sent;
// the endpoint only tells the form whether the address is acceptable.
func (h *Handlers) HandleNewsletter(c echo.Context) error {
	log := requestLogger(c, services.FormNewsletter)

	var payload models.NewsletterPayload
	if err := decodeJSONBody(c, &payload); err != nil {
		log.WithError(err).Info("Rejected unreadable newsletter body")
		services.RecordSubmission(services.FormNewsletter, services.OutcomeInvalidBody)
		return jsonError(c, http.StatusBadRequest, msgInvalidBody)
	}

	if payload.IsSpam() {
		log.Info("Honeypot filled, discarding newsletter signup")
		services.RecordSubmission(services.FormNewsletter, services.OutcomeSpam)
		return jsonOK(c)
	}

	if !h.passesTurnstile(c, payload.TurnstileToken, log) {
		services.RecordSubmission(services.FormNewsletter, services.OutcomeVerificationFailed)
		return jsonError(c, http.StatusBadRequest, msgVerificationFailed)
	}

	if !payload.Email.IsString || !services.IsValidEmail(payload.Email.Text()) {
		services.RecordSubmission(services.FormNewsletter, services.OutcomeInvalid)
		return jsonError(c, http.StatusBadRequest, msgInvalidNewsletter)
	}

	log.Info("Newsletter signup accepted")
	services.RecordSubmission(services.FormNewsletter, services.OutcomeOK)
	return jsonOK(c)
}
