package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"customer-api/internal/api/handler/dto"
	"customer-api/internal/domain/customer"
	"customer-api/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

func getCustomerIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "customerID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: customerID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid customerID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"message":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// respondError is the single place business errors become HTTP statuses:
// validation 400, duplicates 409, missing resources 404, everything else 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := http.StatusInternalServerError, "An unexpected error occurred."
	var fieldErrors map[string]string

	var validationErr *apperrors.ValidationError
	var duplicateErr *apperrors.DuplicateError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.As(err, &validationErr):
		status, message = http.StatusBadRequest, "Validation failed."
		fieldErrors = make(map[string]string, len(validationErr.Fields))
		for _, f := range validationErr.Fields {
			fieldErrors[f.Field] = f.Message
		}
	case errors.As(err, &duplicateErr):
		status, message = http.StatusConflict, duplicateErr.Error()
	case errors.Is(err, apperrors.ErrAlreadyExists):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Timestamp:   time.Now().UTC(),
		Status:      status,
		Message:     message,
		Path:        r.URL.Path,
		FieldErrors: fieldErrors,
	}
	respondJSON(w, status, resp)
}

func errorLogLevel(err error) slog.Level {
	if errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrAlreadyExists) ||
		errors.Is(err, apperrors.ErrInvalidArgument) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// CreateCustomer handles POST /customers
// @Summary Create a new customer
// @Description Creates a customer record. Customer code and email must be unique; status defaults to ACTIVE.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CustomerRequest true "Customer creation request"
// @Success 201 {object} dto.CustomerResponse "Customer successfully created"
// @Failure 400 {object} dto.ErrorResponse "Validation failure with per-field messages"
// @Failure 409 {object} dto.ErrorResponse "Duplicate customer code or email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers [post]
// @Security BearerAuth
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create customer request")

	var req dto.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, r, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.CreateCustomer(r.Context(), req.ToDraft())
	if err != nil {
		h.logger.Log(r.Context(), errorLogLevel(err), "Service failed to create customer", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	resp := dto.NewCustomerResponse(created)
	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.String("customerID", resp.CustomerID))
	respondJSON(w, http.StatusCreated, resp)
}

// GetCustomer handles GET /customers/{customerID}
// @Summary Retrieve customer details
// @Description Retrieves a single customer by ID.
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CustomerResponse "Customer details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [get]
// @Security BearerAuth
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	cust, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		h.logger.Log(r.Context(), errorLogLevel(err), "Service failed to get customer", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(cust))
}

// ListCustomers handles GET /customers
// @Summary List customers
// @Description Retrieves a page of customers. Sort field is restricted to id, customerCode, fullName, email, status, createdAt; unknown fields fall back to id. Page size is capped at 100.
// @Tags Customers
// @Produce json
// @Param page query int false "Zero-based page index" default(0)
// @Param size query int false "Page size" default(10)
// @Param sortBy query string false "Sort field" default(id)
// @Param sortDir query string false "Sort direction (asc|desc)" default(asc)
// @Success 200 {object} dto.CustomerPageResponse "Page of customers"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers [get]
// @Security BearerAuth
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received list customers request")

	query := customer.PageQuery{
		Page:    0,
		Size:    customer.DefaultPageSize,
		SortBy:  r.URL.Query().Get("sortBy"),
		SortDir: r.URL.Query().Get("sortDir"),
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			query.Page = page
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			query.Size = size
		}
	}

	page, err := h.service.ListCustomers(r.Context(), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list customers", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	resp := dto.NewCustomerPageResponse(page)
	h.logger.InfoContext(r.Context(), "Customers listed successfully", slog.Int("count", len(resp.Customers)))
	respondJSON(w, http.StatusOK, resp)
}

// UpdateCustomer handles PUT /customers/{customerID}
// @Summary Fully update a customer
// @Description Replaces every mutable field of the customer. The record keeps its creation timestamp; updatedAt is refreshed.
// @Tags Customers
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.CustomerRequest true "Full replacement payload"
// @Success 200 {object} dto.CustomerResponse "Customer successfully updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID or validation failure"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate customer code or email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [put]
// @Security BearerAuth
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	var req dto.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, r, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	updated, err := h.service.UpdateCustomer(r.Context(), customerID, req.ToDraft())
	if err != nil {
		h.logger.Log(r.Context(), errorLogLevel(err), "Service failed to update customer", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer updated successfully", slog.Int64("customerID", customerID))
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(updated))
}

// PatchCustomer handles PATCH /customers/{customerID}
// @Summary Partially update a customer
// @Description Updates only the supplied fields; absent fields keep their stored value.
// @Tags Customers
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.CustomerPatchRequest true "Partial update payload"
// @Success 200 {object} dto.CustomerResponse "Customer successfully updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID or validation failure"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate customer code or email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [patch]
// @Security BearerAuth
func (h *CustomerHandler) PatchCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	var req dto.CustomerPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, r, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	updated, err := h.service.PatchCustomer(r.Context(), customerID, req.ToPatch())
	if err != nil {
		h.logger.Log(r.Context(), errorLogLevel(err), "Service failed to patch customer", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer patched successfully", slog.Int64("customerID", customerID))
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(updated))
}

// DeleteCustomer handles DELETE /customers/{customerID}
// @Summary Delete a customer
// @Description Permanently removes the customer record. Deleting the same ID twice yields 404 on the second call.
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.MessageResponse "Customer successfully deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [delete]
// @Security BearerAuth
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), customerID); err != nil {
		h.logger.Log(r.Context(), errorLogLevel(err), "Service failed to delete customer", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer deleted successfully", slog.Int64("customerID", customerID))
	respondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Customer deleted successfully"})
}

// SearchCustomers handles GET /customers/search
// @Summary Search customers
// @Description Case-insensitive substring search over full name, email and customer code. A blank keyword returns all customers.
// @Tags Customers
// @Produce json
// @Param keyword query string false "Search keyword"
// @Success 200 {array} dto.CustomerResponse "Matching customers, possibly empty"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/search [get]
// @Security BearerAuth
func (h *CustomerHandler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	h.logger.DebugContext(r.Context(), "Received search customers request", slog.String("keyword", keyword))

	customers, err := h.service.SearchCustomers(r.Context(), keyword)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to search customers", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	resp := dto.NewCustomerResponseList(customers)
	h.logger.InfoContext(r.Context(), "Customer search completed", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}

// ListCustomersByStatus handles GET /customers/status/{status}
// @Summary List customers by status
// @Description Retrieves all customers with the given status (ACTIVE or INACTIVE).
// @Tags Customers
// @Produce json
// @Param status path string true "Customer status" Enums(ACTIVE, INACTIVE)
// @Success 200 {array} dto.CustomerResponse "Matching customers, possibly empty"
// @Failure 400 {object} dto.ErrorResponse "Unrecognized status value"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/status/{status} [get]
// @Security BearerAuth
func (h *CustomerHandler) ListCustomersByStatus(w http.ResponseWriter, r *http.Request) {
	status := chi.URLParam(r, "status")
	h.logger.DebugContext(r.Context(), "Received list customers by status request", slog.String("status", status))

	customers, err := h.service.ListCustomersByStatus(r.Context(), status)
	if err != nil {
		h.logger.Log(r.Context(), errorLogLevel(err), "Service failed to list customers by status", slog.Any("error", err))
		respondError(w, r, err)
		return
	}

	resp := dto.NewCustomerResponseList(customers)
	h.logger.InfoContext(r.Context(), "Customers listed by status successfully", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}
