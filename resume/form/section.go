package form

import "fmt"

// Section names one of the repeatable block lists.
type Section string

const (
	SectionEducation      Section = "education"
	SectionExperience     Section = "experience"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
)

// sectionFields is the fixed template every block of a section is instantiated from.
var sectionFields = map[Section][]string{
	SectionEducation:      {"degree", "institution", "gradYear", "cgpa"},
	SectionExperience:     {"jobTitle", "company", "duration", "jobDesc"},
	SectionProjects:       {"projTitle", "projDesc", "techStack", "projLink"},
	SectionCertifications: {"certTitle", "certIssuer", "certYear"},
}

// Sections returns the block sections in document order.
func Sections() []Section {
	return []Section{SectionEducation, SectionExperience, SectionProjects, SectionCertifications}
}

// ParseSection maps a section name to a Section.
func ParseSection(name string) (Section, error) {
	s := Section(name)
	if _, ok := sectionFields[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	return s, nil
}

// Fields lists the sub-field names of the section's blocks.
func (s Section) Fields() []string {
	return append([]string(nil), sectionFields[s]...)
}

// Block is one independently removable entry of a section. It carries no
// identifier; its position in the section is its identity.
type Block struct {
	section Section
	values  []string
}

func newBlock(s Section) Block {
	return Block{section: s, values: make([]string, len(sectionFields[s]))}
}

// Section reports which section the block belongs to.
func (b Block) Section() Section {
	return b.section
}

// Get returns the value of a sub-field, or "" when the field is unknown.
func (b Block) Get(field string) string {
	if i := b.index(field); i >= 0 {
		return b.values[i]
	}
	return ""
}

// Values returns the sub-field values keyed by name.
func (b Block) Values() map[string]string {
	out := make(map[string]string, len(b.values))
	for i, name := range sectionFields[b.section] {
		out[name] = b.values[i]
	}
	return out
}

func (b Block) set(field, value string) bool {
	i := b.index(field)
	if i < 0 {
		return false
	}
	b.values[i] = value
	return true
}

func (b Block) index(field string) int {
	for i, name := range sectionFields[b.section] {
		if name == field {
			return i
		}
	}
	return -1
}
