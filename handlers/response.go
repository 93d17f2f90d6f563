package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"quantent_web_api/services"
)

// User facing messages. Clients show these verbatim.
const (
	msgInvalidBody         = "Invalid request body."
	msgMissingFields       = "Please complete all required fields and consent to be contacted."
	msgInvalidContactEmail = "Please use a valid email address."
	msgReviewFields        = "Please review the form fields and try again."
	msgNotConfigured       = "Email service is not configured."
	msgSendFailed          = "Failed to send email. Please try again."
	msgInvalidNewsletter   = "Invalid email address."
	msgVerificationFailed  = "Verification failed. Please try again."
)

type okResponse struct {
	OK bool `json:"ok"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func jsonOK(c echo.Context) error {
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

func jsonError(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message})
}

// contactValidationMessage maps normalizer/validator errors to the message shown under the form.
func contactValidationMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrMissingFields):
		return msgMissingFields
	case errors.Is(err, services.ErrInvalidEmail):
		return msgInvalidContactEmail
	default:
		return msgReviewFields
	}
}

// decodeJSONBody reads the whole body and unmarshals it into dst.
// Any read or syntax problem is reported the same way to the client.
// Valid JSON that is not an object (array, string, number, null) leaves dst empty.
func decodeJSONBody(c echo.Context, dst interface{}) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("parse body: %w", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("parse body: %w", err)
	}
	return nil
}
