package models

// ContactPayload is the raw body of POST /api/contact.
// It supports both the basic (name + message) and the advanced (multi-field)
// contact forms. Nothing in it is trusted until services.NormalizeContact has run.
type ContactPayload struct {
	FirstName       FormValue `json:"firstName"`
	LastName        FormValue `json:"lastName"`
	Name            FormValue `json:"name"`
	Email           FormValue `json:"email"`
	Phone           FormValue `json:"phone"`
	Company         FormValue `json:"company"`
	Role            FormValue `json:"role"`
	CompanySize     FormValue `json:"companySize"`
	ProductInterest FormValue `json:"productInterest"`
	Timeline        FormValue `json:"timeline"`
	Message         FormValue `json:"message"`
	Consent         Consent   `json:"consent"`

	// Honeypots, hidden from humans by the form markup
	HP      FormValue `json:"hp"`
	Website FormValue `json:"website"`

	// Cloudflare Turnstile token, only checked when a secret key is configured
	TurnstileToken FormValue `json:"turnstileToken"`
}

// IsSpam reports whether any honeypot field was filled in.
func (p ContactPayload) IsSpam() bool {
	return p.HP.Filled() || p.Website.Filled()
}

// WantsAdvanced reports whether the submitter touched any business field,
// which switches the form into advanced mode.
func (p ContactPayload) WantsAdvanced() bool {
	return p.Company.Filled() ||
		p.Role.Filled() ||
		p.CompanySize.Filled() ||
		p.ProductInterest.Filled() ||
		p.Timeline.Filled()
}
