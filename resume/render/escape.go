package render

import "strings"

// fragment is markup that is safe to emit as is. User text becomes a fragment
// only through text, multiline or link, which escape it.
type fragment string

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes & < > " and ' for use in element content and quoted attributes.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

func text(s string) fragment {
	return fragment(EscapeHTML(s))
}

// multiline escapes s and turns line feeds into <br>.
func multiline(s string) fragment {
	return fragment(strings.ReplaceAll(EscapeHTML(s), "\n", "<br>"))
}

func join(parts ...fragment) fragment {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(string(p))
	}
	return fragment(b.String())
}

// joinNonEmpty joins the non-empty parts with sep.
func joinNonEmpty(sep fragment, parts ...fragment) fragment {
	var b strings.Builder
	n := 0
	for _, p := range parts {
		if p == "" {
			continue
		}
		if n > 0 {
			b.WriteString(string(sep))
		}
		b.WriteString(string(p))
		n++
	}
	return fragment(b.String())
}

// el wraps children in a tag. class is emitted only when non-empty.
func el(tag, class string, children ...fragment) fragment {
	var b strings.Builder
	b.WriteString("<" + tag)
	if class != "" {
		b.WriteString(` class="` + EscapeHTML(class) + `"`)
	}
	b.WriteString(">")
	for _, c := range children {
		b.WriteString(string(c))
	}
	b.WriteString("</" + tag + ">")
	return fragment(b.String())
}

// link renders an anchor opening in a new context, or nothing when url is
// empty. The URL is escaped like any other text; its scheme is not checked.
func link(url, label string) fragment {
	if url == "" {
		return ""
	}
	if label == "" {
		label = url
	}
	return fragment(`<a href="` + EscapeHTML(url) + `" target="_blank" rel="noopener noreferrer">` + EscapeHTML(label) + `</a>`)
}

var templateLiteralEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"$", `\$`,
)

// templateLiteral escapes markup for embedding between backticks in a script.
func templateLiteral(f fragment) string {
	return templateLiteralEscaper.Replace(string(f))
}
