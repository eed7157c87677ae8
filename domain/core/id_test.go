package core

import (
	"errors"
	"fmt"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseAnalysisID tests analysis ID parsing
func TestParseAnalysisID(t *testing.T) {
	valid := NewID().String()

	tests := []struct {
		input    string
		expected AnalysisID
		hasError bool
	}{
		{valid, AnalysisID(valid), false},
		{"", "", true},
		{"   ", "", true},
		{"not-a-uuid", "", true},
	}

	for _, test := range tests {
		result, err := ParseAnalysisID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("solving effect size: %w", ErrRootBracket)
	if !IsNumericalError(wrapped) {
		t.Error("Expected wrapped bracket error to be numerical")
	}
	if IsInputError(wrapped) {
		t.Error("Bracket error should not be an input error")
	}

	if !IsInputError(NewInsufficientDataError(3, 4)) {
		t.Error("Expected insufficient data to be an input error")
	}
	if !errors.Is(NewLengthMismatchError("row 2", 1, 3), ErrLengthMismatch) {
		t.Error("Expected length mismatch sentinel")
	}
	if !IsNotFoundError(NewNotFoundError("analysis", "abc")) {
		t.Error("Expected not found error")
	}
}
