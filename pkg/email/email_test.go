package email

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Jane@Co.com":       "jane@co.com",
		"  JANE@CO.COM  ":   "jane@co.com",
		"jane@co.com":       "jane@co.com",
		"":                  "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("Jane@Co.com", "jane@co.com") {
		t.Error("expected case-insensitive equality")
	}
	if Equal("", "") {
		t.Error("two empty emails must not identify the same person")
	}
	if Equal("a@x.com", "b@x.com") {
		t.Error("distinct addresses must not be equal")
	}
}

func TestDeriveNameFromEmail(t *testing.T) {
	t.Run("dotted local part", func(t *testing.T) {
		first, last := DeriveNameFromEmail("jane.doe@studio.com")
		if first != "Jane" || last != "Doe" {
			t.Errorf("got %q %q", first, last)
		}
	})

	t.Run("single segment falls back to User", func(t *testing.T) {
		first, last := DeriveNameFromEmail("jane@studio.com")
		if first != "Jane" || last != "User" {
			t.Errorf("got %q %q", first, last)
		}
	})

	t.Run("empty local part", func(t *testing.T) {
		first, last := DeriveNameFromEmail("@studio.com")
		if first != "User" || last != "User" {
			t.Errorf("got %q %q", first, last)
		}
	})
}
