package analyzer

import "strings"

// CourtTopics flags the court-side subjects of a visitor question.
type CourtTopics struct {
	Offices  bool `json:"offices"`
	Hearings bool `json:"hearings"`
	Filings  bool `json:"filings"`
	Fees     bool `json:"fees"`
	Location bool `json:"location"`
}

// CourtAnalysis is the classification result for a courthouse question.
type CourtAnalysis struct {
	Topics            CourtTopics `json:"topics"`
	NeedsDetailedInfo bool        `json:"needs_detailed_info"`
}

var courtKeywords = map[string][]string{
	"offices": {
		"office", "registrar", "clerk", "counter", "window", "cashier",
		"copying", "record room", "karyalay",
	},
	"hearings": {
		"hearing", "case status", "cause list", "courtroom", "judge", "bench",
		"date of hearing", "sunwai", "tareekh", "peshi",
	},
	"filings": {
		"file a case", "filing", "petition", "affidavit", "stamp", "notary",
		"e-filing", "submit documents", "arji", "davedari",
	},
	"fees": {
		"fee", "fees", "court fee", "fine", "payment", "challan", "shulk",
	},
	"location": {
		"where", "room", "floor", "building", "wing", "direction", "way to",
		"kahan", "kidhar", "rasta",
	},
}

// AnalyzeCourt classifies a courthouse question. Same independent-OR shape
// as the college analyzer with the court keyword sets.
func AnalyzeCourt(text string) CourtAnalysis {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return CourtAnalysis{}
	}

	var a CourtAnalysis
	a.Topics.Offices = matchesAny(normalized, courtKeywords["offices"])
	a.Topics.Hearings = matchesAny(normalized, courtKeywords["hearings"])
	a.Topics.Filings = matchesAny(normalized, courtKeywords["filings"])
	a.Topics.Fees = matchesAny(normalized, courtKeywords["fees"])
	a.Topics.Location = matchesAny(normalized, courtKeywords["location"])
	a.NeedsDetailedInfo = matchesAny(normalized, detailKeywords) || len(normalized) > 120
	return a
}
