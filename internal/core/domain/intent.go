package domain

import "strings"

// QueryIntent is the topical bucket a question is routed to. It drives
// category weighting in keyword search and emphasis in generation.
type QueryIntent string

const (
	IntentExperience  QueryIntent = "experience"
	IntentSkills      QueryIntent = "skills"
	IntentProjects    QueryIntent = "projects"
	IntentEducation   QueryIntent = "education"
	IntentCareerGoals QueryIntent = "career_goals"
	IntentPersonal    QueryIntent = "personal"
)

// intentRules is ordered: the first rule with any matching keyword
// wins, so "what projects did you work on" classifies as experience
// only if an experience keyword appears first.
var intentRules = []struct {
	intent   QueryIntent
	keywords []string
}{
	{IntentExperience, []string{"experience", "work", "job"}},
	{IntentSkills, []string{"skill", "python", "ai", "ml", "technology", "programming"}},
	{IntentProjects, []string{"project", "build", "built"}},
	{IntentEducation, []string{"education", "degree", "university", "certification"}},
	{IntentCareerGoals, []string{"salary", "career", "goal", "remote", "location"}},
}

// ClassifyIntent buckets a question by keyword match in priority
// order, defaulting to personal.
func ClassifyIntent(question string) QueryIntent {
	lower := strings.ToLower(question)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}
	return IntentPersonal
}
