package entity_test

import (
	"errors"
	"fmt"
	"testing"

	"agora-forum/internal/domain/entity"
)

func TestValidationError_Error(t *testing.T) {
	err := &entity.ValidationError{Field: "title", Message: "is required"}
	want := "validation error on field 'title': is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestValidationError_MatchesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("validate submission: %w",
		&entity.ValidationError{Field: "content", Message: "is required"})

	var verr *entity.ValidationError
	if !errors.As(wrapped, &verr) {
		t.Fatal("wrapped ValidationError not matched by errors.As")
	}
	if verr.Field != "content" {
		t.Errorf("Field = %q, want %q", verr.Field, "content")
	}
}
