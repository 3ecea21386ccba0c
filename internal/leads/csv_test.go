package leads

import (
	"strings"
	"testing"
)

func TestParseContacts_RecognizedColumns(t *testing.T) {
	in := "name,phone_number,city\nAsha,+911111111111,Pune\nRavi,+912222222222,Mumbai\n"
	res, err := ParseContacts(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	if res.Rows[0].PhoneNumber != "+911111111111" || res.Rows[0].Name != "Asha" {
		t.Fatalf("unexpected first row: %+v", res.Rows[0])
	}
	if res.Dropped != 0 {
		t.Fatalf("expected no drops, got %d", res.Dropped)
	}
}

func TestParseContacts_DropsRowsWithoutPhone(t *testing.T) {
	in := "phone_number,name\n+1111,A\n+2222,B\n+3333,\n,D\n"
	res, err := ParseContacts(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// Row 3 has an empty name but a phone; it must be kept.
	if len(res.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(res.Rows))
	}
	if res.Rows[2].PhoneNumber != "+3333" || res.Rows[2].Name != "" {
		t.Fatalf("unexpected third row: %+v", res.Rows[2])
	}
	if res.Dropped != 1 {
		t.Fatalf("expected 1 dropped row, got %d", res.Dropped)
	}
}

func TestParseContacts_SkipsEmptyLines(t *testing.T) {
	in := "phone_number,name\n\n+1111,A\n\n\n+2222,B\n"
	res, err := ParseContacts(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	if res.Dropped != 0 {
		t.Fatalf("expected no drops, got %d", res.Dropped)
	}
}

func TestParseContacts_HeaderMatchingIsCaseInsensitive(t *testing.T) {
	in := "Phone_Number, Name \n+1111,A\n"
	res, err := ParseContacts(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].Name != "A" {
		t.Fatalf("unexpected rows: %+v", res.Rows)
	}
}

func TestParseContacts_MissingPhoneHeader(t *testing.T) {
	if _, err := ParseContacts(strings.NewReader("name,city\nA,Pune\n")); err != ErrMissingHeader {
		t.Fatalf("expected ErrMissingHeader, got %v", err)
	}
	if _, err := ParseContacts(strings.NewReader("")); err != ErrMissingHeader {
		t.Fatalf("expected ErrMissingHeader for empty input, got %v", err)
	}
}

func TestParseContacts_PreservesOrder(t *testing.T) {
	in := "phone_number\n+3\n+1\n+2\n"
	res, err := ParseContacts(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"+3", "+1", "+2"}
	for i, w := range want {
		if res.Rows[i].PhoneNumber != w {
			t.Fatalf("expected %q at %d, got %q", w, i, res.Rows[i].PhoneNumber)
		}
	}
}
