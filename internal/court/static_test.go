package court

import "testing"

func TestLookupServiceKeywordWins(t *testing.T) {
	info := Lookup("Where can I get a certified copy of the judgment?")
	if info == nil {
		t.Fatalf("expected a hit for certified copy")
	}
	if info.Room != "104" || info.Building != "Main Building" {
		t.Fatalf("unexpected office: %+v", info)
	}
}

func TestLookupSpecificKeywordBeforePrefix(t *testing.T) {
	info := Lookup("how does e-filing work here")
	if info == nil || info.Room != "203" {
		t.Fatalf("e-filing must resolve before the bare filing keyword, got %+v", info)
	}
	info = Lookup("where do I do the filing of a petition")
	if info == nil || info.Room != "201" {
		t.Fatalf("expected filing counter 201, got %+v", info)
	}
}

func TestLookupRoomNumber(t *testing.T) {
	for _, q := range []string{
		"which building is room 210 in",
		"where is Room No. 210",
		"room number 210?",
	} {
		info := Lookup(q)
		if info == nil {
			t.Fatalf("expected room hit for %q", q)
		}
		if info.Room != "210" || info.Building != "Main Building" {
			t.Fatalf("unexpected result for %q: %+v", q, info)
		}
	}

	if info := Lookup("where is room 999"); info != nil {
		t.Fatalf("unknown room must fall through, got %+v", info)
	}
}

func TestLookupBuildingName(t *testing.T) {
	info := Lookup("how do I get to the annexe")
	if info == nil || info.Building != "annexe" {
		t.Fatalf("expected annexe description, got %+v", info)
	}
}

func TestLookupMiss(t *testing.T) {
	if info := Lookup("what is the punishment for contempt"); info != nil {
		t.Fatalf("legal questions must fall through to the assistant, got %+v", info)
	}
	if info := Lookup(""); info != nil {
		t.Fatalf("empty query must miss")
	}
}

func TestLookupPriorityServiceOverRoom(t *testing.T) {
	// Both a service keyword and a room number appear; the service wins.
	info := Lookup("is the notary near room 104?")
	if info == nil || info.Room != "G-2" {
		t.Fatalf("expected service keyword priority, got %+v", info)
	}
}
