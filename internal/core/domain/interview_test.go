package domain

import "testing"

func TestDetectInterviewTypePrecedence(t *testing.T) {
	cases := []struct {
		question string
		want     InterviewType
	}{
		{"How would you design a scalable architecture for this?", InterviewSystemDesign},
		{"Walk me through your technical implementation of the API", InterviewTechnical},
		{"Tell me about a time you had a conflict with a teammate", InterviewBehavioral},
		{"What is your vision for growing the business?", InterviewExecutive},
		{"What company culture and values suit you best?", InterviewCulturalFit},
		{"Hello there", InterviewBehavioral},
	}
	for _, tc := range cases {
		if got := DetectInterviewType(tc.question); got != tc.want {
			t.Errorf("DetectInterviewType(%q) = %s, want %s", tc.question, got, tc.want)
		}
	}
}

func TestGetInterviewConfigKnownTypes(t *testing.T) {
	cfg, err := GetInterviewConfig(InterviewTechnical)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ResponseModel != ModelVersatile {
		t.Fatalf("expected versatile response model for technical interviews, got %s", cfg.ResponseModel)
	}
	if cfg.Temperature != 0.3 {
		t.Fatalf("expected temperature 0.3, got %v", cfg.Temperature)
	}

	quick, err := GetInterviewConfig(InterviewQuickResponse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quick.ResponseModel != ModelFast {
		t.Fatalf("expected fast response model for quick responses, got %s", quick.ResponseModel)
	}
	if quick.EnableEnhancement || quick.EnableFormatting {
		t.Fatal("quick responses must skip enhancement and formatting")
	}
}

func TestGetInterviewConfigUnknownType(t *testing.T) {
	if _, err := GetInterviewConfig("press_conference"); err == nil {
		t.Fatal("expected error for unknown interview type")
	}
}

func TestAvailableInterviewTypesSorted(t *testing.T) {
	types := AvailableInterviewTypes()
	if len(types) != 6 {
		t.Fatalf("expected 6 interview types, got %d", len(types))
	}
	for i := 1; i < len(types); i++ {
		if types[i-1] >= types[i] {
			t.Fatalf("expected sorted types, got %v", types)
		}
	}
}
