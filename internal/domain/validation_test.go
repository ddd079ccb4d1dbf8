package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidatePartName(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"Brake Pad", true},
		{"Ölfilter 5W-30", true},
		{"", false},
		{"   ", false},
		{" Brake Pad", false},
		{strings.Repeat("x", MaxPartNameLength), true},
		{strings.Repeat("x", MaxPartNameLength+1), false},
	}

	for _, tt := range tests {
		err := ValidatePartName(tt.input)
		if tt.valid && err != nil {
			t.Errorf("ValidatePartName(%q) unexpected error: %v", tt.input, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalidPartName) {
			t.Errorf("ValidatePartName(%q) expected ErrInvalidPartName, got %v", tt.input, err)
		}
	}
}

func TestValidateUnitPrice(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"25.50", true},
		{"0.01", true},
		{"99999999.99", true},
		{"0", false},
		{"-1", false},
		{"1.005", false},
		{"100000000", false},
	}

	for _, tt := range tests {
		err := ValidateUnitPrice(decimal.RequireFromString(tt.input))
		if tt.valid && err != nil {
			t.Errorf("ValidateUnitPrice(%s) unexpected error: %v", tt.input, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ValidateUnitPrice(%s) expected ErrInvalidInput, got %v", tt.input, err)
		}
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, 20, 0},
		{50, 10, 50, 10},
		{1000, -5, 100, 0},
	}

	for _, tt := range tests {
		limit, offset := ValidatePagination(tt.limit, tt.offset)
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("ValidatePagination(%d, %d) = (%d, %d), want (%d, %d)",
				tt.limit, tt.offset, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Errorf("expected ErrPasswordTooWeak, got %v", err)
	}
	if err := ValidatePassword("long-enough-secret"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePassword(strings.Repeat("p", MaxPasswordLength+1)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
