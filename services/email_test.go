package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quantent_web_api/models"
)

var testSettings = MailSettings{
	Provider: "smtp",
	Host:     "smtp.example.com",
	Port:     587,
	Username: "mailer@quant-ent.com",
	Password: "secret",
	From:     "mailer@quant-ent.com",
	To:       "sales@quant-ent.com",
}

func TestLoadTemplate(t *testing.T) {
	t.Run("Contact template", func(t *testing.T) {
		html, text, err := loadTemplate(contactRequestTemplate, contactDetails{Name: "Jo", Message: "hey"})
		assert.NoError(t, err)
		assert.Contains(t, html, "<strong>Name:</strong> Jo")
		assert.Contains(t, text, "Name: Jo")
	})

	t.Run("Template Not Found", func(t *testing.T) {
		_, _, err := loadTemplate("non_existent", nil)
		assert.Error(t, err)
	})
}

func TestBuildContactEmailAdvanced(t *testing.T) {
	p := advancedPayload()
	p.Message = models.NewFormValue("<script>alert(1)</script>\nSecond line & more")
	p.Company = models.NewFormValue(`"Quotes" & 'Apostrophes'`)
	sub, err := NormalizeContact(p)
	require.NoError(t, err)

	email, err := BuildContactEmail(sub, testSettings)
	require.NoError(t, err)

	assert.Equal(t, "mailer@quant-ent.com", email.From)
	assert.Equal(t, []string{"sales@quant-ent.com"}, email.To)
	assert.Equal(t, "ada@analytical.io", email.ReplyTo)
	assert.Equal(t, "New contact request from Ada Lovelace", email.Subject)

	for _, want := range []string{
		"Contact mode: advanced",
		"Name: Ada Lovelace",
		"Email: ada@analytical.io",
		"Phone: +1 555 0100",
		`Company: "Quotes" & 'Apostrophes'`,
		"Role: CTO",
		"Company size: 51-200",
		"Interest: Data catalog",
		"Timeline: This quarter",
		"Message:\n<script>alert(1)</script>\nSecond line & more",
	} {
		assert.Contains(t, email.TextBody, want)
	}

	assert.Contains(t, email.HTMLBody, "&lt;script&gt;alert(1)&lt;/script&gt;<br/>Second line &amp; more")
	assert.NotContains(t, email.HTMLBody, "<script>")
	assert.Contains(t, email.HTMLBody, "&#34;Quotes&#34; &amp; &#39;Apostrophes&#39;")
	assert.Contains(t, email.HTMLBody, "&#43;1 555 0100")
	assert.Contains(t, email.HTMLBody, "<strong>Contact mode:</strong> advanced")
	assert.Contains(t, email.HTMLBody, "<strong>Company size:</strong> 51-200")
	assert.Contains(t, email.HTMLBody, "<strong>Timeline:</strong> This quarter")
}

func TestBuildContactEmailBasic(t *testing.T) {
	p := basicPayload()
	p.Name = models.NewFormValue("<b>Jordan</b> Lee")
	sub, err := NormalizeContact(p)
	require.NoError(t, err)

	email, err := BuildContactEmail(sub, testSettings)
	require.NoError(t, err)

	assert.Equal(t, "New basic contact from <b>Jordan</b> Lee", email.Subject)
	assert.Equal(t, "j@x.com", email.ReplyTo)
	assert.Contains(t, email.TextBody, "Contact mode: basic")
	assert.Contains(t, email.TextBody, "Phone: N/A")
	assert.Contains(t, email.TextBody, "Company: N/A")
	assert.Contains(t, email.TextBody, "Interest: General contact")
	assert.Contains(t, email.HTMLBody, "<strong>Name:</strong> &lt;b&gt;Jordan&lt;/b&gt; Lee")
	assert.NotContains(t, email.HTMLBody, "<b>Jordan</b>")
}

func TestMessageToHTML(t *testing.T) {
	assert.Equal(t, "a<br/>b<br/>c", string(messageToHTML("a\r\nb\nc")))
	assert.Equal(t, "&lt;i&gt;", string(messageToHTML("<i>")))
}

func TestConsoleMailer(t *testing.T) {
	err := ConsoleMailer{}.Send(context.Background(), &Email{
		To:       []string{"test@example.com"},
		Subject:  "Test",
		HTMLBody: strings.Repeat("x", 600),
	})
	assert.NoError(t, err)
}

func TestTruncate(t *testing.T) {
	s := "Hello World"
	assert.Equal(t, "Hello", truncate(s, 5))
	assert.Equal(t, "Hello World", truncate(s, 20))
}
