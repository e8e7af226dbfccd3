package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestAttributesUnmarshalKeepsOrder(t *testing.T) {
	var attrs Attributes
	payload := `{"name":"Ana","age":35,"loan":"no","flag":true,"note":null,"age":36}`
	if err := json.Unmarshal([]byte(payload), &attrs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantKeys := []string{"name", "age", "loan", "flag", "note"}
	if !reflect.DeepEqual(attrs.Keys(), wantKeys) {
		t.Fatalf("expected keys %v, got %v", wantKeys, attrs.Keys())
	}
	if age, ok := attrs.Number("age"); !ok || age != 36 {
		t.Fatalf("expected duplicate key to keep last value 36, got %v (%v)", age, ok)
	}
	if _, ok := attrs.Number("loan"); ok {
		t.Fatal("expected string value not to be a number")
	}
	if !attrs.Has("note") || attrs.Text("note") != "N/A" {
		t.Fatalf("expected explicit null to render N/A, got %q", attrs.Text("note"))
	}

	out, err := json.Marshal(attrs)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}
	want := `{"name":"Ana","age":36,"loan":"no","flag":true,"note":null}`
	if string(out) != want {
		t.Fatalf("expected %s, got %s", want, out)
	}
}

func TestAttributesUnmarshalRejectsNonObject(t *testing.T) {
	var attrs Attributes
	if err := json.Unmarshal([]byte(`[1,2]`), &attrs); err == nil {
		t.Fatal("expected error for array payload")
	}
	if err := json.Unmarshal([]byte(`null`), &attrs); err != nil || attrs.Len() != 0 {
		t.Fatalf("expected null to decode to empty attributes, got %v", err)
	}
}

func TestCanonicalizeMergesDotAliases(t *testing.T) {
	attrs := NewAttributes(
		"emp.var.rate", -1.8,
		"age", 35,
		"cons.price.idx", 92.893,
		"cons_price_idx", 93.2,
		"nr.employed", 5099.1,
	)

	got := attrs.Canonicalize()

	wantKeys := []string{"emp_var_rate", "age", "cons_price_idx", "nr_employed"}
	if !reflect.DeepEqual(got.Keys(), wantKeys) {
		t.Fatalf("expected keys %v, got %v", wantKeys, got.Keys())
	}
	if v, _ := got.Number("cons_price_idx"); v != 93.2 {
		t.Fatalf("expected underscore spelling to win, got %v", v)
	}
	if v, _ := got.Number("emp_var_rate"); v != -1.8 {
		t.Fatalf("expected emp_var_rate -1.8, got %v", v)
	}
	if attrs.Has("emp_var_rate") {
		t.Fatal("expected Canonicalize not to mutate its receiver")
	}
}

func TestTitleKey(t *testing.T) {
	cases := map[string]string{
		"day_of_week":        "Day Of Week",
		"name":               "Name",
		"euribor3m":          "Euribor3m",
		"emp.var.rate":       "Emp.Var.Rate",
		"content_downloaded": "Content Downloaded",
		"__x":                "  X",
	}
	for in, want := range cases {
		if got := TitleKey(in); got != want {
			t.Fatalf("TitleKey(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{float64(80), "80"},
		{0.65, "0.65"},
		{"tertiary", "tertiary"},
		{false, "false"},
		{nil, "N/A"},
		{[]any{"a", float64(1)}, `["a",1]`},
	}
	for _, tc := range cases {
		if got := FormatValue(tc.in); got != tc.want {
			t.Fatalf("FormatValue(%v): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestLeadName(t *testing.T) {
	if got := NewAttributes("name", "  Jane Doe ").LeadName(); got != "Jane Doe" {
		t.Fatalf("expected trimmed name, got %q", got)
	}
	if got := NewAttributes("name", "   ").LeadName(); got != AnonymousLead {
		t.Fatalf("expected anonymous fallback, got %q", got)
	}
	if got := NewAttributes("name", 42).LeadName(); got != AnonymousLead {
		t.Fatalf("expected anonymous fallback for non-string, got %q", got)
	}
}
