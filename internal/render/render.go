// Package render builds card faces from card templates and note values.
package render

import (
	"regexp"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
)

var placeholder = regexp.MustCompile(`{{\s*([\w\-]+)\s*}}`)

// Template replaces every {{ name }} token with context[name]. Tokens without
// a value render as the empty string.
func Template(template string, context map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(token string) string {
		m := placeholder.FindStringSubmatch(token)
		return context[m[1]]
	})
}

// NoteContext maps field names to values. A value that references a media
// asset renders as the asset URL.
func NoteContext(values []entities.NoteFieldValue) map[string]string {
	ctx := make(map[string]string, len(values))
	for _, v := range values {
		if v.FieldName == "" {
			continue
		}
		var data string
		if v.ValueText != nil {
			data = *v.ValueText
		}
		if v.MediaURL != nil {
			data = *v.MediaURL
		}
		ctx[v.FieldName] = data
	}
	return ctx
}

// Face is the rendered front and back of a card.
type Face struct {
	Front string
	Back  string
}

// Card renders both sides of a card template.
func Card(tpl entities.CardTemplate, values []entities.NoteFieldValue) Face {
	ctx := NoteContext(values)
	return Face{
		Front: Template(tpl.FrontTemplate, ctx),
		Back:  Template(tpl.BackTemplate, ctx),
	}
}
