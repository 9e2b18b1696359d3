package core

import (
	"bytes"
	"fmt"
	htmltmpl "html/template"
	"io/fs"
	"net/mail"
	"sync"
	texttmpl "text/template"
)

var (
	textTemplates *texttmpl.Template
	htmlTemplates *htmltmpl.Template
	tmplInit      sync.Once
)

type (
	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// ParseEmailTemplates loads all email templates from the given FS.
// Each template exists as <name>.txt and optionally <name>.html.
func ParseEmailTemplates(tmplFS fs.FS, logger Logger) {
	tmplInit.Do(func() {
		var err error
		if textTemplates, err = texttmpl.ParseFS(tmplFS, "templates/email/*.txt"); err != nil {
			logger.Fatal(fmt.Sprintf("parsing text email templates: %v", err), err)
		}
		if htmlTemplates, err = htmltmpl.ParseFS(tmplFS, "templates/email/*.html"); err != nil {
			logger.Fatal(fmt.Sprintf("parsing html email templates: %v", err), err)
		}
	})
}

// Render populates TextContent and HTMLContent from the message template, if any.
func (m *EmailMessage) Render(conf *Config) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.TemplateName == "" {
		return nil
	}

	data := ContextData{
		AppName:         conf.AppName,
		FrontendBaseURL: conf.FrontendBaseURL,
		Data:            m.TemplateData,
	}

	var txt bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&txt, m.TemplateName+".txt", data); err != nil {
		return err
	}
	m.TextContent = txt.String()

	if htmlTemplates != nil {
		if tmpl := htmlTemplates.Lookup(m.TemplateName + ".html"); tmpl != nil {
			var html bytes.Buffer
			if err := tmpl.Execute(&html, data); err != nil {
				return err
			}
			m.HTMLContent = html.String()
		}
	}
	return nil
}

// HasRecipients reports whether the message has at least one recipient.
func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0 || len(m.Cc) > 0 || len(m.Bcc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.TextContent != "" || m.HTMLContent != ""
}

func (m *EmailMessage) HasAttachments() bool {
	return len(m.Attachments) > 0
}
