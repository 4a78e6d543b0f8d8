package notification

import "strings"

// Template is a provider-registered message shape with positional parameters.
// Values are built fresh per call and never mutated afterwards.
type Template struct {
	Name       string      `json:"name"`
	Language   Language    `json:"language"`
	Components []Component `json:"components"`
}

type Language struct {
	Code string `json:"code"`
}

type Component struct {
	Type       string      `json:"type"`
	Parameters []Parameter `json:"parameters"`
}

type Parameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Preview is a human readable rendering stored alongside the notification.
func (t Template) Preview() string {
	var b strings.Builder
	b.WriteString(t.Name)
	for _, c := range t.Components {
		for _, p := range c.Parameters {
			b.WriteString(" | ")
			b.WriteString(p.Text)
		}
	}
	return b.String()
}
