package services

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"path"
	"strings"
	texttemplate "text/template"

	"github.com/sirupsen/logrus"
)

//go:embed templates/emails/*
var emailTemplates embed.FS

const contactRequestTemplate = "contact_request"

// Email represents an email message
type Email struct {
	From     string
	To       []string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
}

// contactDetails is the data shared by the text and HTML contact templates.
type contactDetails struct {
	Mode            string
	Name            string
	Email           string
	Phone           string
	Company         string
	Role            string
	CompanySize     string
	ProductInterest string
	Timeline        string
	Message         string
	MessageHTML     htmltemplate.HTML
}

// BuildContactEmail renders the notification sent to the sales inbox for a submission.
// Every user supplied value in the HTML body is escaped by html/template.
func BuildContactEmail(sub ContactSubmission, settings MailSettings) (*Email, error) {
	data := sub.details()
	data.MessageHTML = messageToHTML(data.Message)

	htmlBody, textBody, err := loadTemplate(contactRequestTemplate, data)
	if err != nil {
		return nil, err
	}

	return &Email{
		From:     settings.From,
		To:       []string{settings.To},
		ReplyTo:  sub.ContactEmail(),
		Subject:  sub.Subject(),
		HTMLBody: htmlBody,
		TextBody: textBody,
	}, nil
}

// messageToHTML escapes a free-text message and keeps its line breaks.
func messageToHTML(message string) htmltemplate.HTML {
	escaped := htmltemplate.HTMLEscapeString(message)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return htmltemplate.HTML(strings.ReplaceAll(escaped, "\n", "<br/>"))
}

// loadTemplate renders templateName.html with html/template and templateName.txt
// with text/template from the embedded templates/emails directory.
func loadTemplate(templateName string, data interface{}) (html string, text string, err error) {
	basePath := "templates/emails"

	htmlPath := path.Join(basePath, templateName+".html")
	htmlTmpl, err := htmltemplate.ParseFS(emailTemplates, htmlPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %w", htmlPath, err)
	}
	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", htmlPath, err)
	}

	textPath := path.Join(basePath, templateName+".txt")
	textTmpl, err := texttemplate.ParseFS(emailTemplates, textPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %w", textPath, err)
	}
	var textBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", textPath, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// logEmailToConsole logs email details instead of sending them (test mode)
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	logrus.Infof("\n%s\nEMAIL (test mode - not actually sent)\n%s", separator, separator)
	logrus.Infof("From: %s", email.From)
	logrus.Infof("To: %v", email.To)
	logrus.Infof("Reply-To: %s", email.ReplyTo)
	logrus.Infof("Subject: %s", email.Subject)
	logrus.Infof("\n--- TEXT BODY ---\n%s", email.TextBody)
	logrus.Infof("\n--- HTML BODY (first 500 chars) ---\n%s...", truncate(email.HTMLBody, 500))
	logrus.Infof("%s\n", separator)
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
