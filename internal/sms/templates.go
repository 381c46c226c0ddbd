package sms

import (
	"bytes"
	"fmt"
	"text/template"
)

// MessageData carries the fields available to message templates
type MessageData struct {
	WinnerName       string
	ContestName      string
	SponsorName      string
	PrizeDescription string
	EndTime          string
}

var templates = template.Must(template.New("sms").Parse(`
{{- define "winner" -}}
Congratulations! You won {{.ContestName}}{{if .PrizeDescription}}: {{.PrizeDescription}}{{end}}. {{if .SponsorName}}Brought to you by {{.SponsorName}}. {{end}}Reply STOP to opt out.
{{- end -}}

{{- define "reminder" -}}
{{.ContestName}} ends {{.EndTime}}. Good luck! Reply STOP to opt out.
{{- end -}}

{{- define "entry_confirmation" -}}
You're in! Your entry to {{.ContestName}} has been received. Reply STOP to opt out.
{{- end -}}
`))

// RenderMessage renders a stock message template by notification type.
func RenderMessage(kind string, data MessageData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, kind, data); err != nil {
		return "", fmt.Errorf("failed to render %s message: %w", kind, err)
	}
	return buf.String(), nil
}

// RenderCustom renders an operator-authored message template against the
// same data fields the stock templates use.
func RenderCustom(text string, data MessageData) (string, error) {
	tmpl, err := template.New("custom").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("invalid message template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render message: %w", err)
	}
	return buf.String(), nil
}
