package render

import (
	"fmt"

	"resume-builder/resume/model"
)

// Body renders the sheet contents of one layout.
func Body(rec model.Record, t Template) (string, error) {
	f, err := body(rec.Normalize(), t)
	if err != nil {
		return "", err
	}
	return string(f), nil
}

func body(rec model.Record, t Template) (fragment, error) {
	switch t {
	case TemplateMarquee:
		return marquee(rec), nil
	case TemplateInfographic:
		return infographic(rec), nil
	case TemplateTimeline:
		return timeline(rec), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, string(t))
	}
}

func marquee(rec model.Record) fragment {
	return join(
		el("div", "marquee-header",
			el("h1", "", text(rec.Name)),
			el("div", "contact-info", contactItems(rec)...),
		),
		el("div", "marquee-content",
			summarySection(rec),
			experienceAndEducation(rec, entryList),
			projectsSection(rec),
			skillsSection(rec, skillTags),
			certificationsSection(rec),
		),
	)
}

func infographic(rec model.Record) fragment {
	sidebar := append(contactItems(rec), skillsSection(rec, skillBars))
	return join(
		el("div", "infographic-main",
			el("h1", "", text(rec.Name)),
			summarySection(rec),
			experienceAndEducation(rec, entryList),
			projectsSection(rec),
			certificationsSection(rec),
		),
		el("div", "infographic-sidebar", sidebar...),
	)
}

func timeline(rec model.Record) fragment {
	return join(
		el("div", "timeline-header",
			el("h1", "", text(rec.Name)),
			el("div", "contact-info", joinNonEmpty(" | ", contactItems(rec)...)),
		),
		summarySection(rec),
		experienceAndEducation(rec, entryTimeline),
		projectsSection(rec),
		skillsSection(rec, skillTags),
		certificationsSection(rec),
	)
}
