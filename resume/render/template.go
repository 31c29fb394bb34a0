package render

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTemplate indicates a template name outside the fixed set.
var ErrUnknownTemplate = errors.New("unknown template")

// Template is one of the three fixed layouts.
type Template string

const (
	TemplateMarquee     Template = "marquee"
	TemplateInfographic Template = "infographic"
	TemplateTimeline    Template = "timeline"
)

// Templates returns every layout in selector order.
func Templates() []Template {
	return []Template{TemplateMarquee, TemplateInfographic, TemplateTimeline}
}

// ParseTemplate resolves a template name. An empty name selects marquee.
func ParseTemplate(name string) (Template, error) {
	switch t := Template(strings.ToLower(strings.TrimSpace(name))); t {
	case "":
		return TemplateMarquee, nil
	case TemplateMarquee, TemplateInfographic, TemplateTimeline:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
}

// DisplayName is the label shown in the selector and used in export file names.
func (t Template) DisplayName() string {
	switch t {
	case TemplateMarquee:
		return "Marquee"
	case TemplateInfographic:
		return "Infographic"
	case TemplateTimeline:
		return "Timeline"
	default:
		return ""
	}
}
