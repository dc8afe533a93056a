package dto

import (
	"strconv"
	"time"

	"customer-api/internal/domain/customer"
)

// CustomerRequest is the payload for create and full update. It never
// carries id or timestamps; those are server-assigned.
type CustomerRequest struct {
	CustomerCode string  `json:"customerCode"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	Status       string  `json:"status,omitempty"`
}

func (r *CustomerRequest) ToDraft() customer.Draft {
	return customer.Draft{
		Code:     r.CustomerCode,
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
		Status:   customer.Status(r.Status),
	}
}

// CustomerPatchRequest is the partial-update payload; nil fields were not
// supplied and keep their stored value.
type CustomerPatchRequest struct {
	CustomerCode *string `json:"customerCode,omitempty"`
	FullName     *string `json:"fullName,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	Status       *string `json:"status,omitempty"`
}

func (r *CustomerPatchRequest) ToPatch() customer.Patch {
	return customer.Patch{
		Code:     r.CustomerCode,
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
		Status:   r.Status,
	}
}

type CustomerResponse struct {
	CustomerID   string    `json:"customerId"`
	CustomerCode string    `json:"customerCode"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	return CustomerResponse{
		CustomerID:   strconv.FormatInt(cust.CustomerID, 10),
		CustomerCode: cust.Code,
		FullName:     cust.FullName,
		Email:        cust.Email,
		Phone:        cust.Phone,
		Address:      cust.Address,
		Status:       string(cust.Status),
		CreatedAt:    cust.CreatedAt,
		UpdatedAt:    cust.UpdatedAt,
	}
}

func NewCustomerResponseList(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, len(customers))
	for i, cust := range customers {
		resp[i] = NewCustomerResponse(cust)
	}
	return resp
}

type CustomerPageResponse struct {
	Customers   []CustomerResponse `json:"customers"`
	CurrentPage int                `json:"currentPage"`
	TotalItems  int64              `json:"totalItems"`
	TotalPages  int                `json:"totalPages"`
}

func NewCustomerPageResponse(page *customer.Page) CustomerPageResponse {
	if page == nil {
		return CustomerPageResponse{Customers: []CustomerResponse{}}
	}
	return CustomerPageResponse{
		Customers:   NewCustomerResponseList(page.Customers),
		CurrentPage: page.CurrentPage,
		TotalItems:  page.TotalItems,
		TotalPages:  page.TotalPages,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

// ErrorResponse is the uniform error body. FieldErrors is present only for
// validation failures and maps field name to message.
type ErrorResponse struct {
	Timestamp   time.Time         `json:"timestamp"`
	Status      int               `json:"status"`
	Message     string            `json:"message"`
	Path        string            `json:"path"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}
