package analyzer

import "testing"

func TestAnalyzeTopics(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, a Analysis)
	}{
		{
			name: "course fees question",
			text: "What are the fees for the BTech course?",
			check: func(t *testing.T, a Analysis) {
				if !a.Topics.Courses {
					t.Fatalf("expected courses topic")
				}
			},
		},
		{
			name: "hindi transliteration",
			text: "btech ka shulk kitna hai",
			check: func(t *testing.T, a Analysis) {
				if !a.Topics.Courses {
					t.Fatalf("expected courses topic for shulk")
				}
			},
		},
		{
			name: "multiple independent topics",
			text: "Where is the cabin of the CSE professor and what is his phone number?",
			check: func(t *testing.T, a Analysis) {
				if !a.Topics.Staff || !a.Topics.Contact || !a.Topics.Location || !a.Topics.Departments {
					t.Fatalf("expected staff+contact+location+departments, got %+v", a.Topics)
				}
			},
		},
		{
			name: "empty input",
			text: "   ",
			check: func(t *testing.T, a Analysis) {
				if a.Topics != (Topics{}) {
					t.Fatalf("expected zero topics for blank input")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Analyze(tt.text))
		})
	}
}

func TestAnalyzeEntityMentions(t *testing.T) {
	a := Analyze("tell me about the MBA and BCA programs")
	found := map[string]bool{}
	for _, m := range a.EntityMentions {
		found[m] = true
	}
	if !found["mba"] || !found["bca"] {
		t.Fatalf("expected mba and bca mentions, got %v", a.EntityMentions)
	}
}

func TestNeedsDetailedInfo(t *testing.T) {
	if Analyze("courses?").NeedsDetailedInfo {
		t.Fatalf("short question should not need detail")
	}
	if !Analyze("explain everything about the scholarship options").NeedsDetailedInfo {
		t.Fatalf("detail keyword should trigger the flag")
	}
}

func TestFetchStrategy(t *testing.T) {
	a := Analyze("What scholarships and events are coming up?")
	plan := FetchStrategy(a)

	tables := map[string]int{}
	for _, f := range plan {
		tables[f.Table] = f.Limit
	}
	if tables["scholarships"] == 0 || tables["events"] == 0 {
		t.Fatalf("expected scholarships and events in plan, got %v", plan)
	}

	// Unrecognized questions still get light notice-board context.
	fallback := FetchStrategy(Analyze("hello there"))
	if len(fallback) != 1 || fallback[0].Table != "notices" || fallback[0].Limit != 3 {
		t.Fatalf("unexpected fallback plan: %v", fallback)
	}

	// Detail requests raise limits.
	detailed := FetchStrategy(Analyze("explain everything about courses in detail"))
	for _, f := range detailed {
		if f.Table == "courses" && f.Limit != 15 {
			t.Fatalf("expected raised limit for detailed ask, got %d", f.Limit)
		}
	}
}

func TestAnalyzeCourt(t *testing.T) {
	a := AnalyzeCourt("Where do I pay the court fee challan?")
	if !a.Topics.Fees || !a.Topics.Location {
		t.Fatalf("expected fees+location, got %+v", a.Topics)
	}
	b := AnalyzeCourt("sunwai ki tareekh kab hai")
	if !b.Topics.Hearings {
		t.Fatalf("expected hearings topic for transliterated hindi")
	}
}
