// Package speech rewrites assistant replies into text a TTS engine reads
// aloud naturally: numbers, times, phone numbers, emails and URLs become
// their spoken forms.
package speech

import (
	"fmt"
	"regexp"
	"strings"
)

// A rule is one pass of the pipeline. Order is explicit data, not accident:
// protected classes (URLs, emails, phone numbers, times) run before the
// generic digit passes so their digits are already consumed. Every rule's
// output contains no pattern any rule matches, which makes Normalize
// idempotent.
type rule struct {
	name  string
	apply func(string) string
}

var pipeline = []rule{
	{"pronunciations", applyPronunciations},
	{"urls", normalizeURLs},
	{"emails", normalizeEmails},
	{"phones", normalizePhones},
	{"years", normalizeYears},
	{"times", normalizeTimes},
	{"ordinals", normalizeOrdinals},
	{"acronyms", normalizeAcronyms},
	{"numbers", normalizeNumbers},
	{"whitespace", normalizeWhitespace},
}

// Normalize runs the full pipeline.
func Normalize(text string) string {
	for _, r := range pipeline {
		text = r.apply(text)
	}
	return text
}

// Spoken substitutions for tokens TTS engines mangle.
var pronunciations = strings.NewReplacer(
	"Dr.", "Doctor",
	"Prof.", "Professor",
	"Mrs.", "Missus",
	"Mr.", "Mister",
	"Rs.", "rupees",
	"₹", "rupees ",
	"&", " and ",
	"%", " percent",
)

func applyPronunciations(text string) string {
	return pronunciations.Replace(text)
}

var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)[^\s,]+|\bhttps?://[^\s,]+`)

func normalizeURLs(text string) string {
	return urlPattern.ReplaceAllStringFunc(text, func(raw string) string {
		s := strings.TrimRight(raw, ".")
		s = strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
		s = strings.ReplaceAll(s, "www.", "w w w dot ")
		s = strings.ReplaceAll(s, ".", " dot ")
		s = strings.ReplaceAll(s, "/", " slash ")
		return normalizeWhitespace(s)
	})
}

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(?:\.[A-Za-z0-9-]+)+\b`)

func normalizeEmails(text string) string {
	return emailPattern.ReplaceAllStringFunc(text, func(raw string) string {
		s := strings.ReplaceAll(raw, "@", " at ")
		s = strings.ReplaceAll(s, ".", " dot ")
		s = strings.ReplaceAll(s, "_", " underscore ")
		return normalizeWhitespace(s)
	})
}

// Indian mobile numbers with an optional +91 prefix, and dashed office lines.
var phonePattern = regexp.MustCompile(`(?:\+91[\s-]?)?\b\d{10}\b|\b\d{3,5}[-\s]\d{5,7}\b`)

func normalizePhones(text string) string {
	return phonePattern.ReplaceAllStringFunc(text, func(raw string) string {
		var words []string
		if strings.HasPrefix(raw, "+91") {
			words = append(words, "plus nine one")
			raw = raw[3:]
		}
		for _, ch := range raw {
			if ch >= '0' && ch <= '9' {
				words = append(words, digitWords[ch-'0'])
			}
		}
		return strings.Join(words, " ")
	})
}

var yearPattern = regexp.MustCompile(`\b(19|20)(\d{2})\b`)

func normalizeYears(text string) string {
	return yearPattern.ReplaceAllStringFunc(text, func(raw string) string {
		century := raw[:2]
		rest := raw[2:]
		head := "nineteen"
		if century == "20" {
			head = "twenty"
		}
		switch {
		case rest == "00":
			if century == "20" {
				return "two thousand"
			}
			return head + " hundred"
		case rest[0] == '0':
			if century == "20" {
				// 2005 reads better as "two thousand five".
				return "two thousand " + digitWords[rest[1]-'0']
			}
			return head + " oh " + digitWords[rest[1]-'0']
		default:
			return head + " " + twoDigitWords(rest)
		}
	})
}

var timePattern = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*(?i:([ap])\.?m\.?)?\b`)

func normalizeTimes(text string) string {
	return timePattern.ReplaceAllStringFunc(text, func(raw string) string {
		m := timePattern.FindStringSubmatch(raw)
		hour := smallNumberWord(m[1])
		minutes := m[2]
		suffix := ""
		switch strings.ToLower(m[3]) {
		case "a":
			suffix = " am"
		case "p":
			suffix = " pm"
		}
		switch {
		case minutes == "00":
			return hour + suffix
		case minutes[0] == '0':
			return hour + " oh " + digitWords[minutes[1]-'0'] + suffix
		default:
			return hour + " " + twoDigitWords(minutes) + suffix
		}
	})
}

var ordinalPattern = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)

func normalizeOrdinals(text string) string {
	return ordinalPattern.ReplaceAllStringFunc(text, func(raw string) string {
		m := ordinalPattern.FindStringSubmatch(raw)
		return ordinalWord(m[1])
	})
}

// Letters-spoken acronyms, deliberately a fixed list rather than a generic
// all-caps rule so ordinary capitalized words survive.
var acronyms = []string{"NAAC", "AICTE", "UGC", "CSE", "ECE", "EEE", "HOD", "NSS", "NCC", "ATM", "FIR"}

var acronymPattern = func() *regexp.Regexp {
	return regexp.MustCompile(`\b(` + strings.Join(acronyms, "|") + `)\b`)
}()

func normalizeAcronyms(text string) string {
	return acronymPattern.ReplaceAllStringFunc(text, func(raw string) string {
		letters := strings.Split(raw, "")
		return strings.Join(letters, " ")
	})
}

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

func normalizeNumbers(text string) string {
	return numberPattern.ReplaceAllStringFunc(text, func(raw string) string {
		if dot := strings.IndexByte(raw, '.'); dot >= 0 {
			whole := numberToWords(raw[:dot])
			var frac []string
			for _, ch := range raw[dot+1:] {
				frac = append(frac, digitWords[ch-'0'])
			}
			return whole + " point " + strings.Join(frac, " ")
		}
		return numberToWords(raw)
	})
}

var spacePattern = regexp.MustCompile(`\s+`)

func normalizeWhitespace(text string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

var digitWords = [...]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
}

var teenWords = map[string]string{
	"10": "ten", "11": "eleven", "12": "twelve", "13": "thirteen",
	"14": "fourteen", "15": "fifteen", "16": "sixteen", "17": "seventeen",
	"18": "eighteen", "19": "nineteen",
}

var tensWords = map[byte]string{
	'2': "twenty", '3': "thirty", '4': "forty", '5': "fifty",
	'6': "sixty", '7': "seventy", '8': "eighty", '9': "ninety",
}

// twoDigitWords speaks a two-digit string (10-99).
func twoDigitWords(s string) string {
	if w, ok := teenWords[s]; ok {
		return w
	}
	tens := tensWords[s[0]]
	if s[1] == '0' {
		return tens
	}
	return tens + " " + digitWords[s[1]-'0']
}

// smallNumberWord speaks 0-99 from a digit string, tolerating a leading zero.
func smallNumberWord(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "zero"
	}
	if len(s) == 1 {
		return digitWords[s[0]-'0']
	}
	return twoDigitWords(s)
}

// numberToWords speaks an integer digit string. Anything longer than five
// digits is read digit by digit, which is how reference numbers are spoken.
func numberToWords(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "zero"
	}
	if len(s) > 5 {
		var words []string
		for _, ch := range s {
			words = append(words, digitWords[ch-'0'])
		}
		return strings.Join(words, " ")
	}

	n := 0
	for _, ch := range s {
		n = n*10 + int(ch-'0')
	}
	return intToWords(n)
}

func intToWords(n int) string {
	switch {
	case n < 10:
		return digitWords[n]
	case n < 100:
		return twoDigitWords(fmt.Sprintf("%02d", n))
	case n < 1000:
		out := digitWords[n/100] + " hundred"
		if rem := n % 100; rem != 0 {
			out += " " + intToWords(rem)
		}
		return out
	default:
		out := intToWords(n/1000) + " thousand"
		if rem := n % 1000; rem != 0 {
			out += " " + intToWords(rem)
		}
		return out
	}
}

var ordinalSmall = map[string]string{
	"1": "first", "2": "second", "3": "third", "4": "fourth", "5": "fifth",
	"6": "sixth", "7": "seventh", "8": "eighth", "9": "ninth", "10": "tenth",
	"11": "eleventh", "12": "twelfth", "13": "thirteenth", "14": "fourteenth",
	"15": "fifteenth", "16": "sixteenth", "17": "seventeenth", "18": "eighteenth",
	"19": "nineteenth",
}

var tensOrdinal = map[byte]string{
	'2': "twentieth", '3': "thirtieth", '4': "fortieth", '5': "fiftieth",
	'6': "sixtieth", '7': "seventieth", '8': "eightieth", '9': "ninetieth",
}

func ordinalWord(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "zeroth"
	}
	if w, ok := ordinalSmall[s]; ok {
		return w
	}
	// 20th .. 99th: tens ordinal, or tens word plus small ordinal.
	if len(s) == 2 {
		if s[1] == '0' {
			return tensOrdinal[s[0]]
		}
		return tensWords[s[0]] + " " + ordinalSmall[string(s[1])]
	}
	return s + "th"
}
