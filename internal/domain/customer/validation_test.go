package customer_test

import (
	"strings"
	"testing"

	"customer-api/internal/domain/customer"
	"customer-api/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validDraft() customer.Draft {
	return customer.Draft{
		Code:     "C123",
		FullName: "Jane Doe",
		Email:    "jane.doe@example.com",
	}
}

func fieldsOf(ve *apperrors.ValidationError) map[string]string {
	out := make(map[string]string, len(ve.Fields))
	for _, fe := range ve.Fields {
		out[fe.Field] = fe.Message
	}
	return out
}

func TestDraftValidate(t *testing.T) {
	t.Run("Valid draft passes", func(t *testing.T) {
		assert.Nil(t, validDraft().Validate())
	})

	t.Run("Valid draft with optional fields passes", func(t *testing.T) {
		d := validDraft()
		d.Phone = strPtr("+6281234567890")
		d.Address = strPtr("1 Main Street")
		d.Status = customer.StatusInactive
		assert.Nil(t, d.Validate())
	})

	t.Run("Code with too few digits fails", func(t *testing.T) {
		d := validDraft()
		d.Code = "C12"
		ve := d.Validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldsOf(ve), "customerCode")
	})

	t.Run("Code over twenty characters fails", func(t *testing.T) {
		d := validDraft()
		d.Code = "C1234567890123456789012345"
		ve := d.Validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldsOf(ve), "customerCode")
	})

	t.Run("Missing required fields are aggregated", func(t *testing.T) {
		ve := customer.Draft{}.Validate()
		require.NotNil(t, ve)
		fields := fieldsOf(ve)
		assert.Len(t, fields, 3)
		assert.Equal(t, "customer code is required", fields["customerCode"])
		assert.Equal(t, "full name is required", fields["fullName"])
		assert.Equal(t, "email is required", fields["email"])
	})

	t.Run("Single-character name fails", func(t *testing.T) {
		d := validDraft()
		d.FullName = "J"
		ve := d.Validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldsOf(ve), "fullName")
	})

	t.Run("Malformed email fails", func(t *testing.T) {
		d := validDraft()
		d.Email = "not-an-email"
		ve := d.Validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldsOf(ve), "email")
	})

	t.Run("Short phone fails", func(t *testing.T) {
		d := validDraft()
		d.Phone = strPtr("12345")
		ve := d.Validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldsOf(ve), "phone")
	})

	t.Run("Longest allowed phone passes", func(t *testing.T) {
		d := validDraft()
		d.Phone = strPtr("+" + strings.Repeat("9", 20))
		assert.Nil(t, d.Validate())
	})

	t.Run("Address at the 500-character bound passes", func(t *testing.T) {
		d := validDraft()
		d.Address = strPtr(strings.Repeat("a", 500))
		assert.Nil(t, d.Validate())
	})

	t.Run("Address over 500 characters fails", func(t *testing.T) {
		d := validDraft()
		d.Address = strPtr(strings.Repeat("a", 501))
		ve := d.Validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldsOf(ve), "address")
	})

	t.Run("Multibyte name is measured in characters, not bytes", func(t *testing.T) {
		d := validDraft()
		d.FullName = strings.Repeat("å", 100) // 200 bytes, 100 characters
		assert.Nil(t, d.Validate())
	})

	t.Run("Name over 100 characters fails", func(t *testing.T) {
		d := validDraft()
		d.FullName = strings.Repeat("a", 101)
		ve := d.Validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldsOf(ve), "fullName")
	})

	t.Run("Empty phone string is treated as absent", func(t *testing.T) {
		d := validDraft()
		d.Phone = strPtr("")
		assert.Nil(t, d.Validate())
	})

	t.Run("Unknown status fails", func(t *testing.T) {
		d := validDraft()
		d.Status = customer.Status("SUSPENDED")
		ve := d.Validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldsOf(ve), "status")
	})
}

func TestPatchValidate(t *testing.T) {
	t.Run("Empty patch passes", func(t *testing.T) {
		assert.Nil(t, customer.Patch{}.Validate())
	})

	t.Run("Only supplied fields are checked", func(t *testing.T) {
		p := customer.Patch{Phone: strPtr("+6281234567890")}
		assert.Nil(t, p.Validate())
	})

	t.Run("Supplied empty code fails", func(t *testing.T) {
		p := customer.Patch{Code: strPtr("")}
		ve := p.Validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldsOf(ve), "customerCode")
	})

	t.Run("Supplied bad email fails", func(t *testing.T) {
		p := customer.Patch{Email: strPtr("@@")}
		ve := p.Validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldsOf(ve), "email")
	})

	t.Run("Bad status in patch fails", func(t *testing.T) {
		p := customer.Patch{Status: strPtr("GONE")}
		ve := p.Validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldsOf(ve), "status")
	})

	t.Run("Lowercase status in patch passes", func(t *testing.T) {
		p := customer.Patch{Status: strPtr("inactive")}
		assert.Nil(t, p.Validate())
	})
}
