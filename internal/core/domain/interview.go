package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

type InterviewType string

const (
	InterviewTechnical     InterviewType = "technical_interview"
	InterviewBehavioral    InterviewType = "behavioral_interview"
	InterviewExecutive     InterviewType = "executive_interview"
	InterviewCulturalFit   InterviewType = "cultural_fit"
	InterviewSystemDesign  InterviewType = "system_design"
	InterviewQuickResponse InterviewType = "quick_response"
)

type ResponseTone string

const (
	ToneConfident ResponseTone = "confident"
	ToneHumble    ResponseTone = "humble"
	ToneBalanced  ResponseTone = "balanced"
)

// InterviewConfig is a static, immutable generation profile for one
// class of interview questions. Loaded once at process start.
type InterviewConfig struct {
	Type              InterviewType `json:"type"`
	QueryModel        string        `json:"query_model"`
	ResponseModel     string        `json:"response_model"`
	Temperature       float64       `json:"temperature"`
	MaxTokens         int           `json:"max_tokens"`
	TopK              int           `json:"top_k"`
	Tone              ResponseTone  `json:"tone"`
	EnableEnhancement bool          `json:"enable_enhancement"`
	EnableFormatting  bool          `json:"enable_formatting"`
	FocusAreas        []string      `json:"focus_areas"`
	Emphasis          []string      `json:"emphasis"`
	Description       string        `json:"description"`
}

const (
	ModelFast      = "llama-3.1-8b-instant"
	ModelVersatile = "llama-3.1-70b-versatile"
)

var interviewConfigs = map[InterviewType]InterviewConfig{
	InterviewTechnical: {
		Type:              InterviewTechnical,
		QueryModel:        ModelFast,
		ResponseModel:     ModelVersatile,
		Temperature:       0.3,
		MaxTokens:         600,
		TopK:              5,
		Tone:              ToneConfident,
		EnableEnhancement: true,
		EnableFormatting:  true,
		FocusAreas:        []string{"technical skills", "problem solving", "architecture", "code quality"},
		Emphasis:          []string{"specific technologies", "quantifiable outcomes", "technical depth"},
		Description:       "Technical questions with detailed examples, metrics, and code quality focus",
	},
	InterviewBehavioral: {
		Type:              InterviewBehavioral,
		QueryModel:        ModelFast,
		ResponseModel:     ModelVersatile,
		Temperature:       0.7,
		MaxTokens:         700,
		TopK:              5,
		Tone:              ToneBalanced,
		EnableEnhancement: true,
		EnableFormatting:  true,
		FocusAreas:        []string{"leadership", "teamwork", "communication", "conflict resolution"},
		Emphasis:          []string{"team dynamics", "interpersonal skills", "problem resolution"},
		Description:       "STAR-format responses emphasizing leadership, teamwork, and interpersonal skills",
	},
	InterviewExecutive: {
		Type:              InterviewExecutive,
		QueryModel:        ModelVersatile,
		ResponseModel:     ModelVersatile,
		Temperature:       0.5,
		MaxTokens:         800,
		TopK:              7,
		Tone:              ToneConfident,
		EnableEnhancement: true,
		EnableFormatting:  true,
		FocusAreas:        []string{"strategic thinking", "business impact", "vision", "leadership"},
		Emphasis:          []string{"business outcomes", "strategic decisions", "organizational impact"},
		Description:       "High-level strategic responses with business impact and organizational metrics",
	},
	InterviewCulturalFit: {
		Type:              InterviewCulturalFit,
		QueryModel:        ModelFast,
		ResponseModel:     ModelVersatile,
		Temperature:       0.6,
		MaxTokens:         500,
		TopK:              4,
		Tone:              ToneHumble,
		EnableEnhancement: true,
		EnableFormatting:  true,
		FocusAreas:        []string{"values", "work style", "collaboration", "adaptability"},
		Emphasis:          []string{"personal values", "team fit", "adaptability examples"},
		Description:       "Authentic personal stories revealing values, work style, and team collaboration",
	},
	InterviewSystemDesign: {
		Type:              InterviewSystemDesign,
		QueryModel:        ModelFast,
		ResponseModel:     ModelVersatile,
		Temperature:       0.2,
		MaxTokens:         900,
		TopK:              6,
		Tone:              ToneConfident,
		EnableEnhancement: true,
		EnableFormatting:  true,
		FocusAreas:        []string{"system architecture", "scalability", "trade-offs", "design decisions"},
		Emphasis:          []string{"architectural patterns", "scalability considerations", "trade-off analysis"},
		Description:       "Structured technical analysis for architecture, scalability, and design decisions",
	},
	InterviewQuickResponse: {
		Type:              InterviewQuickResponse,
		QueryModel:        ModelFast,
		ResponseModel:     ModelFast,
		Temperature:       0.4,
		MaxTokens:         300,
		TopK:              3,
		Tone:              ToneBalanced,
		EnableEnhancement: false,
		EnableFormatting:  false,
		FocusAreas:        []string{"key points", "concise answers"},
		Emphasis:          []string{"conciseness", "clarity", "key achievements"},
		Description:       "Fast, concise answers for rapid-fire questions or initial screening",
	},
}

func GetInterviewConfig(interviewType InterviewType) (InterviewConfig, error) {
	config, ok := interviewConfigs[interviewType]
	if !ok {
		return InterviewConfig{}, WrapError(ErrInvalidInput, "interview config", fmt.Errorf("unknown interview type %q", interviewType))
	}
	return config, nil
}

func AvailableInterviewTypes() []InterviewType {
	types := make([]InterviewType, 0, len(interviewConfigs))
	for t := range interviewConfigs {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// interviewTypeRule pairs a keyword pattern with the type it selects.
// Rules are evaluated in priority order, first match wins, so the
// precedence policy is data rather than control flow.
type interviewTypeRule struct {
	pattern *regexp.Regexp
	result  InterviewType
}

var interviewTypeRules = []interviewTypeRule{
	{regexp.MustCompile(`\b(design|architect|scale|system|database|cache|load balancing|microservices)\b`), InterviewSystemDesign},
	{regexp.MustCompile(`\b(code|implement|algorithm|debug|optimize|technical|programming|framework)\b`), InterviewTechnical},
	{regexp.MustCompile(`\b(tell me about|describe a time|how did you|conflict|challenge|leadership|team)\b`), InterviewBehavioral},
	{regexp.MustCompile(`\b(strategy|business|vision|roi|revenue|growth|market|organizational)\b`), InterviewExecutive},
	{regexp.MustCompile(`\b(culture|values|fit|work style|environment|why|motivates you)\b`), InterviewCulturalFit},
}

// DetectInterviewType classifies a question into an interview type by
// ordered keyword matching. Unmatched questions default to behavioral.
func DetectInterviewType(question string) InterviewType {
	lower := strings.ToLower(question)
	for _, rule := range interviewTypeRules {
		if rule.pattern.MatchString(lower) {
			return rule.result
		}
	}
	return InterviewBehavioral
}
