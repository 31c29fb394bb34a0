package model

// Record is the complete set of resume data for one session. It is the single
// unit of persistence: one Record per storage key.
type Record struct {
	Name           string          `json:"name" yaml:"name"`
	Email          string          `json:"email" yaml:"email"`
	Phone          string          `json:"phone" yaml:"phone"`
	LinkedIn       string          `json:"linkedin" yaml:"linkedin"`
	GitHub         string          `json:"github" yaml:"github"`
	Summary        string          `json:"summary" yaml:"summary"`
	Photo          string          `json:"photo" yaml:"photo"`
	Education      []Education     `json:"education" yaml:"education"`
	Experience     []Experience    `json:"experience" yaml:"experience"`
	Projects       []Project       `json:"projects" yaml:"projects"`
	Certifications []Certification `json:"certifications" yaml:"certifications"`
	Skills         []string        `json:"skills" yaml:"skills"`
}

// Education is one degree entry.
type Education struct {
	Degree      string `json:"degree" yaml:"degree"`
	Institution string `json:"institution" yaml:"institution"`
	GradYear    string `json:"gradYear" yaml:"gradYear"`
	CGPA        string `json:"cgpa" yaml:"cgpa"`
}

// Experience is one job entry.
type Experience struct {
	JobTitle string `json:"jobTitle" yaml:"jobTitle"`
	Company  string `json:"company" yaml:"company"`
	Duration string `json:"duration" yaml:"duration"`
	JobDesc  string `json:"jobDesc" yaml:"jobDesc"`
}

// Project is one project entry. ProjLink is rendered as a hyperlink target.
type Project struct {
	ProjTitle string `json:"projTitle" yaml:"projTitle"`
	ProjDesc  string `json:"projDesc" yaml:"projDesc"`
	TechStack string `json:"techStack" yaml:"techStack"`
	ProjLink  string `json:"projLink" yaml:"projLink"`
}

// Certification is one certificate entry.
type Certification struct {
	CertTitle  string `json:"certTitle" yaml:"certTitle"`
	CertIssuer string `json:"certIssuer" yaml:"certIssuer"`
	CertYear   string `json:"certYear" yaml:"certYear"`
}

// Normalize returns a copy whose list fields are never nil.
func (r Record) Normalize() Record {
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	if r.Certifications == nil {
		r.Certifications = []Certification{}
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
	return r
}

// Map converts the record into the loosely typed shape stored records decode
// into, so typed and stored data can share one population path.
func (r Record) Map() map[string]any {
	out := map[string]any{
		"name":     r.Name,
		"email":    r.Email,
		"phone":    r.Phone,
		"linkedin": r.LinkedIn,
		"github":   r.GitHub,
		"summary":  r.Summary,
		"photo":    r.Photo,
	}

	education := make([]any, 0, len(r.Education))
	for _, e := range r.Education {
		education = append(education, map[string]any{
			"degree":      e.Degree,
			"institution": e.Institution,
			"gradYear":    e.GradYear,
			"cgpa":        e.CGPA,
		})
	}
	out["education"] = education

	experience := make([]any, 0, len(r.Experience))
	for _, e := range r.Experience {
		experience = append(experience, map[string]any{
			"jobTitle": e.JobTitle,
			"company":  e.Company,
			"duration": e.Duration,
			"jobDesc":  e.JobDesc,
		})
	}
	out["experience"] = experience

	projects := make([]any, 0, len(r.Projects))
	for _, p := range r.Projects {
		projects = append(projects, map[string]any{
			"projTitle": p.ProjTitle,
			"projDesc":  p.ProjDesc,
			"techStack": p.TechStack,
			"projLink":  p.ProjLink,
		})
	}
	out["projects"] = projects

	certifications := make([]any, 0, len(r.Certifications))
	for _, c := range r.Certifications {
		certifications = append(certifications, map[string]any{
			"certTitle":  c.CertTitle,
			"certIssuer": c.CertIssuer,
			"certYear":   c.CertYear,
		})
	}
	out["certifications"] = certifications

	skills := make([]any, 0, len(r.Skills))
	for _, s := range r.Skills {
		skills = append(skills, s)
	}
	out["skills"] = skills

	return out
}
