package services

import (
	"errors"
	"strings"

	"quantent_web_api/models"
)

var (
	ErrMissingFields = errors.New("missing required contact fields")
	ErrFieldTooLong  = errors.New("contact field exceeds maximum length")
	ErrInvalidEmail  = errors.New("invalid email address")
)

// Contact modes, as shown in the notification email
const (
	ContactModeBasic    = "basic"
	ContactModeAdvanced = "advanced"
)

// Placeholders rendered for the business fields of a basic contact
const (
	placeholderValue    = "N/A"
	placeholderInterest = "General contact"
)

// ContactSubmission is a normalized contact request: either *BasicContact or *AdvancedContact.
type ContactSubmission interface {
	Mode() string
	ContactEmail() string
	Subject() string
	details() contactDetails
}

// BasicContact comes from the short name/email/message form.
type BasicContact struct {
	FullName  string `validate:"required,maxutf16=160"`
	FirstName string `validate:"maxutf16=80"`
	LastName  string `validate:"maxutf16=80"`
	Email     string `validate:"required,maxutf16=120,contactemail"`
	Phone     string
	Message   string `validate:"required,maxutf16=2000"`
}

// AdvancedContact comes from the multi-step sales form; every business field is required.
type AdvancedContact struct {
	FirstName       string `validate:"required,maxutf16=80"`
	LastName        string `validate:"required,maxutf16=80"`
	FullName        string `validate:"required,maxutf16=160"`
	Email           string `validate:"required,maxutf16=120,contactemail"`
	Phone           string
	Company         string `validate:"required,maxutf16=120"`
	Role            string `validate:"required,maxutf16=120"`
	CompanySize     string `validate:"required,maxutf16=120"`
	ProductInterest string `validate:"required,maxutf16=120"`
	Timeline        string `validate:"required,maxutf16=120"`
	Message         string `validate:"required,maxutf16=2000"`
}

func (b *BasicContact) Mode() string         { return ContactModeBasic }
func (b *BasicContact) ContactEmail() string { return b.Email }

func (b *BasicContact) Subject() string {
	return "New basic contact from " + b.FullName
}

func (b *BasicContact) details() contactDetails {
	return contactDetails{
		Mode:            ContactModeBasic,
		Name:            b.FullName,
		Email:           b.Email,
		Phone:           b.Phone,
		Company:         placeholderValue,
		Role:            placeholderValue,
		CompanySize:     placeholderValue,
		ProductInterest: placeholderInterest,
		Timeline:        placeholderValue,
		Message:         b.Message,
	}
}

func (a *AdvancedContact) Mode() string         { return ContactModeAdvanced }
func (a *AdvancedContact) ContactEmail() string { return a.Email }

func (a *AdvancedContact) Subject() string {
	return "New contact request from " + a.FirstName + " " + a.LastName
}

func (a *AdvancedContact) details() contactDetails {
	return contactDetails{
		Mode:            ContactModeAdvanced,
		Name:            a.FirstName + " " + a.LastName,
		Email:           a.Email,
		Phone:           a.Phone,
		Company:         a.Company,
		Role:            a.Role,
		CompanySize:     a.CompanySize,
		ProductInterest: a.ProductInterest,
		Timeline:        a.Timeline,
		Message:         a.Message,
	}
}

// NormalizeContact turns an untrusted payload into a ContactSubmission.
// It returns ErrMissingFields when a required value is absent, whichever form was used.
func NormalizeContact(p models.ContactPayload) (ContactSubmission, error) {
	email := p.Email.Text()
	message := p.Message.Text()
	if email == "" || message == "" || !bool(p.Consent) {
		return nil, ErrMissingFields
	}

	phone := p.Phone.Text()
	if phone == "" {
		phone = placeholderValue
	}

	if p.WantsAdvanced() {
		c := &AdvancedContact{
			FirstName:       p.FirstName.Text(),
			LastName:        p.LastName.Text(),
			Email:           email,
			Phone:           phone,
			Company:         p.Company.Text(),
			Role:            p.Role.Text(),
			CompanySize:     p.CompanySize.Text(),
			ProductInterest: p.ProductInterest.Text(),
			Timeline:        p.Timeline.Text(),
			Message:         message,
		}
		for _, v := range []string{c.FirstName, c.LastName, c.Company, c.Role, c.CompanySize, c.ProductInterest, c.Timeline} {
			if v == "" {
				return nil, ErrMissingFields
			}
		}
		c.FullName = strings.TrimSpace(c.FirstName + " " + c.LastName)
		return c, nil
	}

	name := p.Name.Text()
	if name == "" {
		name = p.FirstName.Text() + " " + p.LastName.Text()
	}
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return nil, ErrMissingFields
	}

	return &BasicContact{
		FullName:  strings.Join(parts, " "),
		FirstName: parts[0],
		LastName:  strings.Join(parts[1:], " "),
		Email:     email,
		Phone:     phone,
		Message:   message,
	}, nil
}
