// Package form holds the editable state of a resume: scalar controls, ordered
// dynamic blocks, skill tags and the selected photo.
package form

import (
	"fmt"
	"strings"
	"sync"

	"resume-builder/resume/model"
)

// controls are the scalar inputs of the form. The photo is a file input and
// is handled separately.
var controls = []string{"name", "email", "phone", "linkedin", "github", "summary"}

// Form is not safe for concurrent use except for the photo, which may be
// replaced by a background decode while the owner keeps editing.
type Form struct {
	fields map[string]string
	blocks map[Section][]Block
	skills []string

	photoMu sync.Mutex
	photo   string
}

// New returns an empty form.
func New() *Form {
	f := &Form{}
	f.Clear()
	return f
}

// Clear resets every control, removes all blocks and skill tags and drops the held photo.
func (f *Form) Clear() {
	f.fields = make(map[string]string, len(controls))
	for _, name := range controls {
		f.fields[name] = ""
	}
	f.blocks = make(map[Section][]Block, len(sectionFields))
	f.skills = nil
	f.setPhoto("")
}

// Field returns the value of a scalar control.
func (f *Form) Field(name string) (string, error) {
	v, ok := f.fields[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return v, nil
}

// SetField assigns a scalar control.
func (f *Form) SetField(name, value string) error {
	if _, ok := f.fields[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	f.fields[name] = value
	return nil
}

// AddBlock appends an empty block to the section and returns its index.
func (f *Form) AddBlock(s Section) (int, error) {
	if _, ok := sectionFields[s]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return f.addBlock(s), nil
}

func (f *Form) addBlock(s Section) int {
	f.blocks[s] = append(f.blocks[s], newBlock(s))
	return len(f.blocks[s]) - 1
}

// RemoveBlock deletes one block. Siblings keep their values and order.
func (f *Form) RemoveBlock(s Section, index int) error {
	blocks, err := f.sectionBlocks(s, index)
	if err != nil {
		return err
	}
	f.blocks[s] = append(blocks[:index:index], blocks[index+1:]...)
	return nil
}

// SetBlockField assigns one sub-field of a block.
func (f *Form) SetBlockField(s Section, index int, field, value string) error {
	blocks, err := f.sectionBlocks(s, index)
	if err != nil {
		return err
	}
	if !blocks[index].set(field, value) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, s, field)
	}
	return nil
}

// Blocks returns a copy of the section's blocks in order.
func (f *Form) Blocks(s Section) []Block {
	src := f.blocks[s]
	out := make([]Block, len(src))
	for i, b := range src {
		out[i] = Block{section: b.section, values: append([]string(nil), b.values...)}
	}
	return out
}

func (f *Form) sectionBlocks(s Section, index int) ([]Block, error) {
	if _, ok := sectionFields[s]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	blocks := f.blocks[s]
	if index < 0 || index >= len(blocks) {
		return nil, fmt.Errorf("%w: %s[%d]", ErrBlockIndex, s, index)
	}
	return blocks, nil
}

// AddSkill appends a skill tag. The label is trimmed and must not be empty.
func (f *Form) AddSkill(text string) error {
	label := strings.TrimSpace(text)
	if label == "" {
		return ErrEmptySkill
	}
	f.skills = append(f.skills, label)
	return nil
}

// RemoveSkill deletes one skill tag.
func (f *Form) RemoveSkill(index int) error {
	if index < 0 || index >= len(f.skills) {
		return fmt.Errorf("%w: %d", ErrSkillIndex, index)
	}
	f.skills = append(f.skills[:index:index], f.skills[index+1:]...)
	return nil
}

// Skills returns the skill tags in insertion order.
func (f *Form) Skills() []string {
	return append([]string(nil), f.skills...)
}

// Gather reads the whole form into a record. Nothing is validated: empty
// controls become empty strings and sections without blocks become empty lists.
func (f *Form) Gather() model.Record {
	rec := model.Record{
		Name:     f.fields["name"],
		Email:    f.fields["email"],
		Phone:    f.fields["phone"],
		LinkedIn: f.fields["linkedin"],
		GitHub:   f.fields["github"],
		Summary:  f.fields["summary"],
		Photo:    f.Photo(),
	}.Normalize()

	for _, b := range f.blocks[SectionEducation] {
		rec.Education = append(rec.Education, model.Education{
			Degree:      b.Get("degree"),
			Institution: b.Get("institution"),
			GradYear:    b.Get("gradYear"),
			CGPA:        b.Get("cgpa"),
		})
	}
	for _, b := range f.blocks[SectionExperience] {
		rec.Experience = append(rec.Experience, model.Experience{
			JobTitle: b.Get("jobTitle"),
			Company:  b.Get("company"),
			Duration: b.Get("duration"),
			JobDesc:  b.Get("jobDesc"),
		})
	}
	for _, b := range f.blocks[SectionProjects] {
		rec.Projects = append(rec.Projects, model.Project{
			ProjTitle: b.Get("projTitle"),
			ProjDesc:  b.Get("projDesc"),
			TechStack: b.Get("techStack"),
			ProjLink:  b.Get("projLink"),
		})
	}
	for _, b := range f.blocks[SectionCertifications] {
		rec.Certifications = append(rec.Certifications, model.Certification{
			CertTitle:  b.Get("certTitle"),
			CertIssuer: b.Get("certIssuer"),
			CertYear:   b.Get("certYear"),
		})
	}
	for _, s := range f.skills {
		rec.Skills = append(rec.Skills, strings.TrimSpace(s))
	}
	return rec
}

// Populate replaces the form contents with stored data. A nil map leaves the
// form untouched. Keys without a matching control, entries that are not
// objects and values that are not strings are skipped.
func (f *Form) Populate(stored map[string]any) {
	if stored == nil {
		return
	}
	f.Clear()

	for key, v := range stored {
		if _, ok := f.fields[key]; !ok {
			continue
		}
		if s, ok := v.(string); ok {
			f.fields[key] = s
		}
	}
	if photo, ok := stored["photo"].(string); ok {
		f.setPhoto(photo)
	}

	for _, s := range Sections() {
		items, ok := stored[string(s)].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			values, ok := item.(map[string]any)
			if !ok {
				continue
			}
			b := f.blocks[s][f.addBlock(s)]
			for field, v := range values {
				if str, ok := v.(string); ok {
					b.set(field, str)
				}
			}
		}
	}

	if skills, ok := stored["skills"].([]any); ok {
		for _, v := range skills {
			if s, ok := v.(string); ok {
				f.skills = append(f.skills, s)
			}
		}
	}
}

// PopulateRecord replaces the form contents with a typed record.
func (f *Form) PopulateRecord(rec model.Record) {
	f.Populate(rec.Map())
}
