package domain

import (
	"fmt"
	"strings"
)

// Profile is the underlying professional record. It is loaded once at
// process start and never mutated; both the vector populate path and
// the keyword fallback corpus derive from it.
type Profile struct {
	Personal       Personal       `json:"personal" yaml:"personal"`
	Projects       []Project      `json:"projects_star_format" yaml:"projects_star_format"`
	Experience     []Experience   `json:"experience" yaml:"experience"`
	Skills         Skills         `json:"skills" yaml:"skills"`
	Education      Education      `json:"education" yaml:"education"`
	SalaryLocation SalaryLocation `json:"salary_location" yaml:"salary_location"`
}

type Personal struct {
	Name          string `json:"name" yaml:"name"`
	Title         string `json:"title" yaml:"title"`
	Summary       string `json:"summary" yaml:"summary"`
	ElevatorPitch string `json:"elevator_pitch" yaml:"elevator_pitch"`
	Location      string `json:"location" yaml:"location"`
}

type Project struct {
	Name         string   `json:"project_name" yaml:"project_name"`
	Situation    string   `json:"situation" yaml:"situation"`
	Task         string   `json:"task" yaml:"task"`
	Action       string   `json:"action" yaml:"action"`
	Result       string   `json:"result" yaml:"result"`
	Technologies []string `json:"technologies" yaml:"technologies"`
	Duration     string   `json:"duration" yaml:"duration"`
}

type AchievementSTAR struct {
	Situation string `json:"situation" yaml:"situation"`
	Task      string `json:"task" yaml:"task"`
	Action    string `json:"action" yaml:"action"`
	Result    string `json:"result" yaml:"result"`
}

type Experience struct {
	Title          string            `json:"title" yaml:"title"`
	Company        string            `json:"company" yaml:"company"`
	Duration       string            `json:"duration" yaml:"duration"`
	CompanyContext string            `json:"company_context" yaml:"company_context"`
	Achievements   []AchievementSTAR `json:"achievements_star" yaml:"achievements_star"`
}

type ProgrammingLanguage struct {
	Language    string `json:"language" yaml:"language"`
	Proficiency int    `json:"proficiency_1to5" yaml:"proficiency_1to5"`
	Years       string `json:"years" yaml:"years"`
}

type TechnicalSkills struct {
	ProgrammingLanguages []ProgrammingLanguage `json:"programming_languages" yaml:"programming_languages"`
	AIML                 []string              `json:"ai_ml" yaml:"ai_ml"`
	CloudPlatforms       []string              `json:"cloud_platforms" yaml:"cloud_platforms"`
	BusinessTools        []string              `json:"business_tools" yaml:"business_tools"`
}

type Skills struct {
	Technical TechnicalSkills `json:"technical" yaml:"technical"`
}

type Degree struct {
	Program     string   `json:"program" yaml:"program"`
	Institution string   `json:"institution" yaml:"institution"`
	Timeline    string   `json:"timeline" yaml:"timeline"`
	Highlights  []string `json:"projects_highlights" yaml:"projects_highlights"`
}

type Education struct {
	Degrees []Degree `json:"degrees" yaml:"degrees"`
}

type SalaryLocation struct {
	SalaryExpectations  string   `json:"salary_expectations" yaml:"salary_expectations"`
	LocationPreferences []string `json:"location_preferences" yaml:"location_preferences"`
	WorkAuthorization   string   `json:"work_authorization" yaml:"work_authorization"`
	RemoteExperience    string   `json:"remote_experience" yaml:"remote_experience"`
}

// Introduction is the fixed answer used when retrieval yields nothing.
// It is assembled from the personal section only, so it can never
// hallucinate beyond the record.
func (p Profile) Introduction() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Hello! I'm %s, %s", p.Personal.Name, p.Personal.Title))
	if p.Personal.Location != "" {
		b.WriteString(fmt.Sprintf(" based in %s", p.Personal.Location))
	}
	b.WriteString(". ")
	if p.Personal.Summary != "" {
		b.WriteString(p.Personal.Summary)
		b.WriteString(" ")
	}
	b.WriteString("I'd be happy to tell you more about my experience, projects, technical skills, or career goals.")
	return b.String()
}

// BuildCorpus derives the deterministic keyword-search corpus from the
// profile: one chunk per topical unit, categorized by intent bucket.
func BuildCorpus(p Profile) []RetrievedChunk {
	var corpus []RetrievedChunk

	if p.Personal.Name != "" {
		corpus = append(corpus, RetrievedChunk{
			Source:     SourceKeyword,
			Title:      "Personal Information",
			Content:    fmt.Sprintf("%s - %s. %s. %s", p.Personal.Name, p.Personal.Title, p.Personal.Summary, p.Personal.ElevatorPitch),
			Category:   string(IntentPersonal),
			Tags:       []string{"personal", "summary"},
			Importance: ImportanceHigh,
		})
	}

	for _, project := range p.Projects {
		corpus = append(corpus, RetrievedChunk{
			Source:     SourceKeyword,
			Title:      "Project: " + project.Name,
			Content:    fmt.Sprintf("%s %s %s %s Technologies: %s", project.Situation, project.Task, project.Action, project.Result, strings.Join(project.Technologies, ", ")),
			Category:   string(IntentProjects),
			Tags:       append([]string{"project", "portfolio"}, project.Technologies...),
			Importance: ImportanceHigh,
		})
	}

	for _, exp := range p.Experience {
		achievements := make([]string, 0, len(exp.Achievements))
		for _, a := range exp.Achievements {
			achievements = append(achievements, fmt.Sprintf("%s %s %s %s", a.Situation, a.Task, a.Action, a.Result))
		}
		corpus = append(corpus, RetrievedChunk{
			Source:     SourceKeyword,
			Title:      fmt.Sprintf("%s at %s", exp.Title, exp.Company),
			Content:    fmt.Sprintf("%s at %s (%s). %s", exp.Title, exp.Company, exp.Duration, strings.Join(achievements, " ")),
			Category:   string(IntentExperience),
			Tags:       []string{"work", "experience"},
			Importance: ImportanceHigh,
		})
	}

	if tech := p.Skills.Technical; len(tech.ProgrammingLanguages) > 0 || len(tech.AIML) > 0 || len(tech.CloudPlatforms) > 0 {
		languages := make([]string, 0, len(tech.ProgrammingLanguages))
		for _, lang := range tech.ProgrammingLanguages {
			languages = append(languages, fmt.Sprintf("%s (%d/5, %s years)", lang.Language, lang.Proficiency, lang.Years))
		}
		corpus = append(corpus, RetrievedChunk{
			Source:     SourceKeyword,
			Title:      "Technical Skills",
			Content:    fmt.Sprintf("Programming languages: %s. AI/ML: %s. Cloud platforms: %s.", strings.Join(languages, ", "), strings.Join(tech.AIML, ", "), strings.Join(tech.CloudPlatforms, ", ")),
			Category:   string(IntentSkills),
			Tags:       []string{"skills", "technical"},
			Importance: ImportanceHigh,
		})
	}

	for _, degree := range p.Education.Degrees {
		corpus = append(corpus, RetrievedChunk{
			Source:     SourceKeyword,
			Title:      "Education: " + degree.Program,
			Content:    fmt.Sprintf("%s at %s (%s). Projects: %s", degree.Program, degree.Institution, degree.Timeline, strings.Join(degree.Highlights, ", ")),
			Category:   string(IntentEducation),
			Tags:       []string{"education", "degree"},
			Importance: ImportanceHigh,
		})
	}

	if p.SalaryLocation.SalaryExpectations != "" {
		corpus = append(corpus, RetrievedChunk{
			Source:     SourceKeyword,
			Title:      "Career & Location Preferences",
			Content:    fmt.Sprintf("Salary expectations: %s. Location preferences: %s. Work authorization: %s. Remote experience: %s", p.SalaryLocation.SalaryExpectations, strings.Join(p.SalaryLocation.LocationPreferences, ", "), p.SalaryLocation.WorkAuthorization, p.SalaryLocation.RemoteExperience),
			Category:   string(IntentCareerGoals),
			Tags:       []string{"salary", "location", "remote", "career"},
			Importance: ImportanceHigh,
		})
	}

	return corpus
}
