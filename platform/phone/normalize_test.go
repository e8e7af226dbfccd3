package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		input  string
		region string
		want   string
	}{
		{"(650) 253-0000", "US", "+16502530000"},
		{"+31 6 12345678", "US", "+31612345678"},
		{"06 12345678", "NL", "+31612345678"},
		{"  not a phone ", "US", "not a phone"},
		{"", "US", ""},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.input, tc.region); got != tc.want {
			t.Fatalf("NormalizeE164(%q, %q): expected %q, got %q", tc.input, tc.region, tc.want, got)
		}
	}
}

func TestIsValidDefaultsRegion(t *testing.T) {
	if !IsValid("650-253-0000", "") {
		t.Fatal("expected US number to be valid with default region")
	}
	if IsValid("12", "") {
		t.Fatal("expected short number to be invalid")
	}
}
