package services

import (
	"errors"
	"testing"
)

func TestFieldErrorsMessageIsStable(t *testing.T) {
	errs := FieldErrors{"slug": "Slug is required.", "brand": "Brand is required.", "title": "Title is required."}
	want := "brand: Brand is required.; slug: Slug is required.; title: Title is required."
	for i := 0; i < 20; i++ {
		if got := errs.Error(); got != want {
			t.Fatalf("Error() = %q, want %q", got, want)
		}
	}

	if got := (FieldErrors{}).Error(); got != ErrValidation.Error() {
		t.Fatalf("empty FieldErrors = %q", got)
	}
	if !errors.Is(errs, ErrValidation) {
		t.Fatalf("FieldErrors must unwrap to ErrValidation")
	}
}
