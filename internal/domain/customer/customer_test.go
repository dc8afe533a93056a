package customer_test

import (
	"testing"

	"customer-api/internal/domain/customer"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected customer.Status
		ok       bool
	}{
		{"Uppercase active", "ACTIVE", customer.StatusActive, true},
		{"Lowercase active", "active", customer.StatusActive, true},
		{"Mixed case inactive", "Inactive", customer.StatusInactive, true},
		{"Surrounding whitespace", "  ACTIVE  ", customer.StatusActive, true},
		{"Unknown value", "SUSPENDED", "", false},
		{"Empty string", "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, ok := customer.ParseStatus(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, status)
		})
	}
}

func TestPageQueryNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    customer.PageQuery
		expected customer.PageQuery
	}{
		{
			name:     "Zero value gets defaults",
			input:    customer.PageQuery{},
			expected: customer.PageQuery{Page: 0, Size: 10, SortBy: "id", SortDir: "asc"},
		},
		{
			name:     "Negative page clamped to zero",
			input:    customer.PageQuery{Page: -3, Size: 20},
			expected: customer.PageQuery{Page: 0, Size: 20, SortBy: "id", SortDir: "asc"},
		},
		{
			name:     "Oversized page size clamped to max",
			input:    customer.PageQuery{Size: 500},
			expected: customer.PageQuery{Page: 0, Size: 100, SortBy: "id", SortDir: "asc"},
		},
		{
			name:     "Descending direction preserved case-insensitively",
			input:    customer.PageQuery{SortDir: "DESC", SortBy: "email"},
			expected: customer.PageQuery{Page: 0, Size: 10, SortBy: "email", SortDir: "desc"},
		},
		{
			name:     "Garbage direction falls back to ascending",
			input:    customer.PageQuery{SortDir: "sideways"},
			expected: customer.PageQuery{Page: 0, Size: 10, SortBy: "id", SortDir: "asc"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.input.Normalize())
		})
	}
}
