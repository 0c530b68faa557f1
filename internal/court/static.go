// Package court answers common courthouse wayfinding questions from a fixed
// lookup table, short-circuiting before any model call.
package court

import (
	"fmt"
	"regexp"
	"strings"
)

// Info is a resolved wayfinding answer.
type Info struct {
	Service  string `json:"service,omitempty"`
	Room     string `json:"room,omitempty"`
	Building string `json:"building"`
	Floor    string `json:"floor,omitempty"`
	Answer   string `json:"answer"`
}

type serviceEntry struct {
	keyword  string
	room     string
	building string
	floor    string
}

// Service keyword table, matched as lowercase substrings in declaration
// order. More specific keywords sit above their prefixes (e-filing before
// filing).
var serviceRooms = []serviceEntry{
	{"certified copy", "104", "Main Building", "Ground"},
	{"copying", "104", "Main Building", "Ground"},
	{"court fee", "112", "Main Building", "Ground"},
	{"challan", "112", "Main Building", "Ground"},
	{"cashier", "112", "Main Building", "Ground"},
	{"e-filing", "203", "Main Building", "First"},
	{"filing", "201", "Main Building", "First"},
	{"petition", "201", "Main Building", "First"},
	{"registrar", "210", "Main Building", "First"},
	{"notary", "G-2", "Annexe", "Ground"},
	{"affidavit", "G-2", "Annexe", "Ground"},
	{"stamp", "G-4", "Annexe", "Ground"},
	{"record room", "B-1", "Annexe", "Basement"},
	{"cause list", "115", "Main Building", "Ground"},
	{"legal aid", "118", "Main Building", "Ground"},
	{"mediation", "301", "Annexe", "Second"},
	{"lost and found", "105", "Main Building", "Ground"},
	{"public prosecutor", "214", "Main Building", "First"},
}

type roomEntry struct {
	building string
	floor    string
}

// Room number → building, for questions that already name a room.
var roomBuildings = map[string]roomEntry{
	"104": {"Main Building", "Ground"},
	"105": {"Main Building", "Ground"},
	"112": {"Main Building", "Ground"},
	"115": {"Main Building", "Ground"},
	"118": {"Main Building", "Ground"},
	"201": {"Main Building", "First"},
	"203": {"Main Building", "First"},
	"210": {"Main Building", "First"},
	"214": {"Main Building", "First"},
	"301": {"Annexe", "Second"},
	"G-2": {"Annexe", "Ground"},
	"G-4": {"Annexe", "Ground"},
	"B-1": {"Annexe", "Basement"},
}

var buildingDescriptions = []struct {
	name string
	desc string
}{
	{"main building", "The Main Building is straight ahead from the security gate, past the lawn."},
	{"annexe", "The Annexe is the smaller block to the left of the Main Building entrance."},
}

var roomPattern = regexp.MustCompile(`(?i)\broom\s*(?:no\.?|number)?\s*([A-Za-z]?-?\d{1,3})\b`)

// Lookup resolves a wayfinding query in fixed priority order: service keyword,
// explicit room number, then building name. First match wins; a nil result
// means the caller should fall through to the assistant.
func Lookup(query string) *Info {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil
	}

	for _, e := range serviceRooms {
		if strings.Contains(normalized, e.keyword) {
			return &Info{
				Service:  e.keyword,
				Room:     e.room,
				Building: e.building,
				Floor:    e.floor,
				Answer: fmt.Sprintf("For %s, go to room %s, %s floor, %s.",
					e.keyword, e.room, strings.ToLower(e.floor), e.building),
			}
		}
	}

	if match := roomPattern.FindStringSubmatch(query); match != nil {
		room := strings.ToUpper(match[1])
		if o, ok := roomBuildings[room]; ok {
			return &Info{
				Room:     room,
				Building: o.building,
				Floor:    o.floor,
				Answer: fmt.Sprintf("Room %s is on the %s floor of the %s.",
					room, strings.ToLower(o.floor), o.building),
			}
		}
	}

	for _, b := range buildingDescriptions {
		if strings.Contains(normalized, b.name) {
			return &Info{Building: b.name, Answer: b.desc}
		}
	}

	return nil
}
