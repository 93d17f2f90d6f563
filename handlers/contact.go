package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"quantent_web_api/models"
	"quantent_web_api/services"
)

// HandleContact processes POST /api/contact.
// Order matters: honeypot before anything else, then configuration, then the user's input.
func (h *Handlers) HandleContact(c echo.Context) error {
	log := requestLogger(c, services.FormContact)

	var payload models.ContactPayload
	if err := decodeJSONBody(c, &payload); err != nil {
		log.WithError(err).Info("Rejected unreadable contact body")
		services.RecordSubmission(services.FormContact, services.OutcomeInvalidBody)
		return jsonError(c, http.StatusBadRequest, msgInvalidBody)
	}

	// Bots get the same answer as humans
	if payload.IsSpam() {
		log.Info("Honeypot filled, discarding contact submission")
		services.RecordSubmission(services.FormContact, services.OutcomeSpam)
		return jsonOK(c)
	}

	if !h.passesTurnstile(c, payload.TurnstileToken, log) {
		services.RecordSubmission(services.FormContact, services.OutcomeVerificationFailed)
		return jsonError(c, http.StatusBadRequest, msgVerificationFailed)
	}

	settings, err := services.ResolveMailSettings(h.cfg)
	if err != nil {
		log.WithError(err).Error("Contact email transport is not configured")
		services.RecordSubmission(services.FormContact, services.OutcomeNotConfigured)
		return jsonError(c, http.StatusInternalServerError, msgNotConfigured)
	}

	submission, err := services.NormalizeContact(payload)
	if err == nil {
		err = services.ValidateContact(submission)
	}
	if err != nil {
		log.WithError(err).Info("Rejected invalid contact submission")
		services.RecordSubmission(services.FormContact, services.OutcomeInvalid)
		return jsonError(c, http.StatusBadRequest, contactValidationMessage(err))
	}

	log = log.WithField("mode", submission.Mode())

	email, err := services.BuildContactEmail(submission, settings)
	if err != nil {
		log.WithError(err).Error("Failed to render contact email")
		reportError(c, services.FormContact, err)
		services.RecordSubmission(services.FormContact, services.OutcomeDeliveryFailed)
		return jsonError(c, http.StatusInternalServerError, msgSendFailed)
	}

	if err := h.newMailer(settings).Send(c.Request().Context(), email); err != nil {
		log.WithError(err).Error("Failed to deliver contact email")
		reportError(c, services.FormContact, err)
		services.RecordSubmission(services.FormContact, services.OutcomeDeliveryFailed)
		return jsonError(c, http.StatusInternalServerError, msgSendFailed)
	}

	log.Info("Contact request delivered")
	services.RecordSubmission(services.FormContact, services.OutcomeOK)
	return jsonOK(c)
}
