package mail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Template renders the subject and body of a message from shared data.
type Template struct {
	subject *template.Template
	body    *template.Template
}

// NewTemplate parses the subject and body sources. Both are text templates.
func NewTemplate(name, subject, body string) (*Template, error) {
	subj, err := template.New(name + ".subject").Option("missingkey=error").Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("mail: parse subject template: %w", err)
	}
	content, err := template.New(name + ".body").Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("mail: parse body template: %w", err)
	}
	return &Template{subject: subj, body: content}, nil
}

// MustTemplate is NewTemplate for package level templates.
func MustTemplate(name, subject, body string) *Template {
	tpl, err := NewTemplate(name, subject, body)
	if err != nil {
		panic(err)
	}
	return tpl
}

// Render builds a Message addressed to the supplied recipients.
func (t *Template) Render(data any, to ...string) (Message, error) {
	var subject, body bytes.Buffer
	if err := t.subject.Execute(&subject, data); err != nil {
		return Message{}, fmt.Errorf("mail: render subject: %w", err)
	}
	if err := t.body.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("mail: render body: %w", err)
	}
	return Message{
		To:      to,
		Subject: strings.TrimSpace(subject.String()),
		Body:    body.String(),
	}, nil
}
