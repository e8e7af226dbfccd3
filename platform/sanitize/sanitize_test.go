package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Jane Doe", "Jane Doe"},
		{"  <b>Acme</b> Corp ", "Acme Corp"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;", "alert(1)"},
		{"R&amp;D", "R&D"},
		{"5 < 6", "5 < 6"},
	}
	for _, tc := range cases {
		if got := StripHTML(tc.in); got != tc.want {
			t.Fatalf("StripHTML(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
