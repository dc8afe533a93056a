package customer

import (
	"strings"
	"time"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// ParseStatus maps external input onto the status enum, case-insensitively.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, true
	case StatusInactive:
		return StatusInactive, true
	}
	return "", false
}

type Customer struct {
	CustomerID int64     `json:"customerId"`
	Code       string    `json:"customerCode"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone,omitempty"`
	Address    *string   `json:"address,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Draft is the mutable-field input for create and full update. An empty
// Status means "not supplied" and defaults to ACTIVE on create.
type Draft struct {
	Code     string
	FullName string
	Email    string
	Phone    *string
	Address  *string
	Status   Status
}

// Patch carries only the fields supplied in a partial update; nil means the
// stored value is kept.
type Patch struct {
	Code     *string
	FullName *string
	Email    *string
	Phone    *string
	Address  *string
	Status   *string
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageQuery is a zero-based page request. Out-of-range values are clamped
// silently rather than rejected.
type PageQuery struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

func (q PageQuery) Normalize() PageQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	if strings.EqualFold(q.SortDir, "desc") {
		q.SortDir = "desc"
	} else {
		q.SortDir = "asc"
	}
	if q.SortBy == "" {
		q.SortBy = "id"
	}
	return q
}

type Page struct {
	Customers   []*Customer
	CurrentPage int
	TotalItems  int64
	TotalPages  int
}
