package speech

import "testing"

func TestNormalizeTimes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5:00 PM", "five pm"},
		{"5:30 pm", "five thirty pm"},
		{"9:05 AM", "nine oh five am"},
		{"11:45", "eleven forty five"},
	}
	for _, tt := range tests {
		if got := normalizeTimes(tt.in); got != tt.want {
			t.Errorf("normalizeTimes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"The office opens at 5:00 PM on the 2nd floor.",
		"Call +91 9876543210 or mail admissions@college.edu before 2025.",
		"Visit www.college.edu/fees for the Rs. 45000 fee details.",
		"The CSE HOD sits in room 104.",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("normalization not idempotent:\n once: %q\ntwice: %q", once, twice)
		}
	}
}

func TestNormalizePhones(t *testing.T) {
	got := Normalize("Call +91 9876543210 now")
	want := "Call plus nine one nine eight seven six five four three two one zero now"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizeEmails(t *testing.T) {
	got := Normalize("Write to admissions@college.edu today")
	want := "Write to admissions at college dot edu today"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizeURLs(t *testing.T) {
	got := Normalize("See www.college.edu/fees now")
	want := "See w w w dot college dot edu slash fees now"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizeYears(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"founded in 1995", "founded in nineteen ninety five"},
		{"batch of 2025", "batch of twenty twenty five"},
		{"since 2005", "since two thousand five"},
		{"back in 2000", "back in two thousand"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeOrdinalsAndNumbers(t *testing.T) {
	got := Normalize("The 3rd seminar hall holds 250 seats")
	want := "The third seminar hall holds two hundred fifty seats"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Long digit runs are spoken digit by digit.
	got = Normalize("reference 5501234")
	want = "reference five five zero one two three four"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizeAcronyms(t *testing.T) {
	got := Normalize("The CSE department is NAAC accredited")
	want := "The C S E department is N A A C accredited"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizePronunciations(t *testing.T) {
	got := Normalize("Dr. Sharma charges Rs. 500")
	want := "Doctor Sharma charges rupees five hundred"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// Phone digits must be consumed before the generic number pass; a ten-digit
// number embedded next to other digits keeps its digit-by-digit reading.
func TestPhoneBeforeGenericNumbers(t *testing.T) {
	got := Normalize("dial 9876543210, room 12")
	want := "dial nine eight seven six five four three two one zero, room twelve"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
