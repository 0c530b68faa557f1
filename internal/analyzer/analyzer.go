// Package analyzer maps raw visitor questions to the catalog tables worth
// fetching before a model call. Classification is a set of independent
// keyword membership tests; there is no scoring or ranking.
package analyzer

import "strings"

// Topics flags every subject the question touches. Tests are independent ORs,
// so several topics can be set at once.
type Topics struct {
	Courses      bool `json:"courses"`
	Staff        bool `json:"staff"`
	Events       bool `json:"events"`
	Notices      bool `json:"notices"`
	Departments  bool `json:"departments"`
	Scholarships bool `json:"scholarships"`
	Contact      bool `json:"contact"`
	Location     bool `json:"location"`
	Web          bool `json:"web"`
}

// Analysis is the full classification result for one question.
type Analysis struct {
	Topics            Topics   `json:"topics"`
	EntityMentions    []string `json:"entity_mentions"`
	NeedsDetailedInfo bool     `json:"needs_detailed_info"`
}

// Keyword lists carry both English and transliterated Hindi forms, matching
// how visitors actually phrase questions at the kiosk.
var topicKeywords = map[string][]string{
	"courses": {
		"course", "courses", "program", "degree", "btech", "b.tech", "mba", "bca",
		"admission", "syllabus", "semester", "fees", "fee structure", "eligibility",
		"pravesh", "dakhila", "shulk", "padhai",
	},
	"staff": {
		"professor", "faculty", "teacher", "staff", "hod", "principal", "dean",
		"lecturer", "cabin", "office of",
		"shikshak", "pradhyapak", "adhyapak",
	},
	"events": {
		"event", "events", "fest", "festival", "workshop", "seminar", "competition",
		"hackathon", "celebration", "function",
		"karyakram", "utsav",
	},
	"notices": {
		"notice", "notices", "announcement", "circular", "holiday", "exam date",
		"result", "schedule",
		"suchna", "chutti", "pariksha",
	},
	"departments": {
		"department", "departments", "branch", "cse", "ece", "mechanical", "civil",
		"electrical", "computer science",
		"vibhag", "shakha",
	},
	"scholarships": {
		"scholarship", "scholarships", "financial aid", "stipend", "fee waiver",
		"merit", "freeship",
		"chatravritti", "vajifa",
	},
	"contact": {
		"phone", "email", "contact", "call", "number", "reach",
		"sampark",
	},
	"location": {
		"where", "location", "building", "room", "floor", "block", "direction",
		"way to", "how to reach", "map",
		"kahan", "kidhar", "rasta",
	},
	"web": {
		"latest news", "current", "today's weather", "search the web", "google",
		"internet",
	},
}

var detailKeywords = []string{
	"detail", "details", "explain", "everything", "complete", "full information",
	"all about", "elaborate", "vistar",
}

// Analyze classifies a question. Pure function, no I/O.
func Analyze(text string) Analysis {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Analysis{}
	}

	var a Analysis
	a.Topics.Courses = matchesAny(normalized, topicKeywords["courses"])
	a.Topics.Staff = matchesAny(normalized, topicKeywords["staff"])
	a.Topics.Events = matchesAny(normalized, topicKeywords["events"])
	a.Topics.Notices = matchesAny(normalized, topicKeywords["notices"])
	a.Topics.Departments = matchesAny(normalized, topicKeywords["departments"])
	a.Topics.Scholarships = matchesAny(normalized, topicKeywords["scholarships"])
	a.Topics.Contact = matchesAny(normalized, topicKeywords["contact"])
	a.Topics.Location = matchesAny(normalized, topicKeywords["location"])
	a.Topics.Web = matchesAny(normalized, topicKeywords["web"])

	a.EntityMentions = extractMentions(normalized)
	a.NeedsDetailedInfo = matchesAny(normalized, detailKeywords) || len(normalized) > 120

	return a
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// extractMentions picks out capitalizable entity-ish tokens the prompt
// builder can echo back: course codes and department shorthands.
func extractMentions(text string) []string {
	known := []string{
		"btech", "b.tech", "mba", "bca", "mca", "bba",
		"cse", "ece", "mechanical", "civil", "electrical",
	}
	var mentions []string
	for _, k := range known {
		if strings.Contains(text, k) {
			mentions = append(mentions, k)
		}
	}
	return mentions
}

// TableFetch names one table to read and how many rows to take.
type TableFetch struct {
	Table string
	Limit int
}

// FetchStrategy maps topic booleans to the reads the ask handler should
// issue. Plain table lookup; detailed questions just get higher limits.
func FetchStrategy(a Analysis) []TableFetch {
	limit := 5
	if a.NeedsDetailedInfo {
		limit = 15
	}

	var plan []TableFetch
	if a.Topics.Courses {
		plan = append(plan, TableFetch{Table: "courses", Limit: limit})
	}
	if a.Topics.Staff {
		plan = append(plan, TableFetch{Table: "staff_members", Limit: limit})
	}
	if a.Topics.Events {
		plan = append(plan, TableFetch{Table: "events", Limit: limit})
	}
	if a.Topics.Notices {
		plan = append(plan, TableFetch{Table: "notices", Limit: limit})
	}
	if a.Topics.Departments {
		plan = append(plan, TableFetch{Table: "departments", Limit: limit})
	}
	if a.Topics.Scholarships {
		plan = append(plan, TableFetch{Table: "scholarships", Limit: limit})
	}
	if len(plan) == 0 {
		// Nothing recognized: give the model the notice board as light context.
		plan = append(plan, TableFetch{Table: "notices", Limit: 3})
	}
	return plan
}
