package models

// NewsletterPayload is the raw body of POST /api/newsletter.
type NewsletterPayload struct {
	Email          FormValue `json:"email"`
	HP             FormValue `json:"hp"`
	TurnstileToken FormValue `json:"turnstileToken"`
}

func (p NewsletterPayload) IsSpam() bool {
	return p.HP.Filled()
}
