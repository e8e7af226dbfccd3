package storage

import "testing"

func TestValidateContentType(t *testing.T) {
	cases := map[string]bool{
		"text/html; charset=utf-8": true,
		"APPLICATION/PDF":          true,
		"image/png":                false,
		"":                         false,
	}
	for ct, ok := range cases {
		err := validateContentType(ct)
		if ok && err != nil {
			t.Fatalf("expected %q to be allowed, got %v", ct, err)
		}
		if !ok && err == nil {
			t.Fatalf("expected %q to be rejected", ct)
		}
	}
}

func TestValidateFileSize(t *testing.T) {
	if err := validateFileSize(0, 100); err == nil {
		t.Fatal("expected empty body to be rejected")
	}
	if err := validateFileSize(101, 100); err == nil {
		t.Fatal("expected oversized body to be rejected")
	}
	if err := validateFileSize(1<<30, 0); err != nil {
		t.Fatalf("expected no limit when max is 0, got %v", err)
	}
}
