package render

import (
	"resume-builder/resume/model"
)

type entryMode int

const (
	entryList entryMode = iota
	entryTimeline
)

type skillMode int

const (
	skillTags skillMode = iota
	skillBars
)

func section(title string, body ...fragment) fragment {
	return el("div", "section", append([]fragment{el("h2", "section-title", text(title))}, body...)...)
}

func contactItem(icon, value, protocol string) fragment {
	if value == "" {
		return ""
	}
	return join(
		fragment(`<span class="contact-item"><i class="fa `+EscapeHTML(icon)+` fa-fw"></i> `),
		link(protocol+value, value),
		"</span>",
	)
}

func contactItems(rec model.Record) []fragment {
	return []fragment{
		contactItem("fa-envelope", rec.Email, "mailto:"),
		contactItem("fa-phone", rec.Phone, "tel:"),
		contactItem("fab fa-linkedin", rec.LinkedIn, ""),
		contactItem("fab fa-github", rec.GitHub, ""),
	}
}

func summarySection(rec model.Record) fragment {
	if rec.Summary == "" {
		return ""
	}
	return section("Professional Summary", el("p", "", multiline(rec.Summary)))
}

func entry(mode entryMode, content ...fragment) fragment {
	if mode == entryTimeline {
		return el("div", "timeline-item",
			el("div", "timeline-marker"),
			el("div", "timeline-content", content...),
		)
	}
	return el("div", "item", content...)
}

func entries(mode entryMode, items []fragment) fragment {
	class := ""
	if mode == entryTimeline {
		class = "timeline-container"
	}
	return el("div", class, items...)
}

func experienceSection(rec model.Record, mode entryMode) fragment {
	if len(rec.Experience) == 0 {
		return ""
	}
	items := make([]fragment, 0, len(rec.Experience))
	for _, exp := range rec.Experience {
		items = append(items, entry(mode,
			el("p", "item-title", text(exp.JobTitle)),
			el("p", "item-subtitle", joinNonEmpty(" | ", text(exp.Company), text(exp.Duration))),
			el("p", "item-desc", multiline(exp.JobDesc)),
		))
	}
	return section("Experience", entries(mode, items))
}

func educationSection(rec model.Record, mode entryMode) fragment {
	if len(rec.Education) == 0 {
		return ""
	}
	items := make([]fragment, 0, len(rec.Education))
	for _, edu := range rec.Education {
		var cgpa fragment
		if edu.CGPA != "" {
			cgpa = el("p", "item-detail", "CGPA/Percentage: ", text(edu.CGPA))
		}
		items = append(items, entry(mode,
			el("p", "item-title", text(edu.Degree)),
			el("p", "item-subtitle", joinNonEmpty(" | ", text(edu.Institution), text(edu.GradYear))),
			cgpa,
		))
	}
	return section("Education", entries(mode, items))
}

func experienceAndEducation(rec model.Record, mode entryMode) fragment {
	return join(experienceSection(rec, mode), educationSection(rec, mode))
}

func skillsSection(rec model.Record, mode skillMode) fragment {
	if len(rec.Skills) == 0 {
		return ""
	}
	items := make([]fragment, 0, len(rec.Skills))
	if mode == skillBars {
		for _, s := range rec.Skills {
			items = append(items, el("div", "skill-bar-item",
				el("p", "", text(s)),
				el("div", "skill-bar", el("div", "skill-level")),
			))
		}
		return section("Skills", items...)
	}
	for _, s := range rec.Skills {
		items = append(items, el("span", "skill-tag", text(s)))
	}
	return section("Skills", el("div", "skill-tags", items...))
}

func projectsSection(rec model.Record) fragment {
	if len(rec.Projects) == 0 {
		return ""
	}
	items := make([]fragment, 0, len(rec.Projects))
	for _, p := range rec.Projects {
		var projLink, stack fragment
		if p.ProjLink != "" {
			projLink = el("p", "item-link", link(p.ProjLink, ""))
		}
		if p.TechStack != "" {
			stack = el("p", "item-detail", el("strong", "", "Tech Stack:"), " ", text(p.TechStack))
		}
		items = append(items, el("div", "item",
			el("p", "item-title", text(p.ProjTitle)),
			projLink,
			el("p", "item-desc", multiline(p.ProjDesc)),
			stack,
		))
	}
	return section("Projects", items...)
}

func certificationsSection(rec model.Record) fragment {
	if len(rec.Certifications) == 0 {
		return ""
	}
	items := make([]fragment, 0, len(rec.Certifications))
	for _, c := range rec.Certifications {
		line := text(c.CertTitle)
		if c.CertIssuer != "" {
			line = join(line, " — ", text(c.CertIssuer))
		}
		if c.CertYear != "" {
			line = join(line, " (", text(c.CertYear), ")")
		}
		items = append(items, el("p", "", line))
	}
	return section("Certifications", items...)
}
