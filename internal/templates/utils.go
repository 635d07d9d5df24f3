package templates

import (
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// DefaultTransitionMessage is the success message of a ticket transition.
const DefaultTransitionMessage = `Ticket {{ .TicketKey }} transitioned to '{{ .Status }}'{{ if .HasComment }} with a comment{{ end }}.`

// TemplateFuncMap returns all helper functions for message templates.
func TemplateFuncMap() template.FuncMap {
	return sprig.TxtFuncMap()
}

// ParseMessage compiles a message template. Empty text selects DefaultTransitionMessage.
func ParseMessage(name, text string) (*template.Template, error) {
	if text == "" {
		text = DefaultTransitionMessage
	}
	return template.New(name).
		Funcs(TemplateFuncMap()).
		Option("missingkey=error").
		Parse(text)
}
