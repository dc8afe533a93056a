package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"customer-api/internal/event"
	"customer-api/internal/pkg/apperrors"
)

const customerNotFound = "Customer not found by repository"

type CustomerService interface {
	CreateCustomer(ctx context.Context, draft Draft) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context, query PageQuery) (*Page, error)
	UpdateCustomer(ctx context.Context, customerID int64, draft Draft) (*Customer, error)
	PatchCustomer(ctx context.Context, customerID int64, patch Patch) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
	SearchCustomers(ctx context.Context, keyword string) ([]*Customer, error)
	ListCustomersByStatus(ctx context.Context, status string) ([]*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, publisher event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	return &customerService{
		repo:   repo,
		pub:    publisher,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func newEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID: cust.CustomerID,
		Code:       cust.Code,
		FullName:   cust.FullName,
		Email:      cust.Email,
		Phone:      cust.Phone,
		Address:    cust.Address,
		Status:     string(cust.Status),
		CreatedAt:  cust.CreatedAt,
		UpdatedAt:  cust.UpdatedAt,
	}
}

// publishCustomerEvent fires one of the customer lifecycle events. A failed
// or missing publisher never fails the request.
func (s *customerService) publishCustomerEvent(ctx context.Context, action string, cust *Customer) {
	if s.pub == nil {
		return
	}
	payload := newEventPayload(cust)
	ts := time.Now()

	var err error
	switch action {
	case "created":
		err = s.pub.PublishCustomerCreated(ctx, event.CustomerCreatedEvent{Timestamp: ts, Payload: payload})
	case "updated":
		err = s.pub.PublishCustomerUpdated(ctx, event.CustomerUpdatedEvent{Timestamp: ts, Payload: payload})
	case "deleted":
		err = s.pub.PublishCustomerDeleted(ctx, event.CustomerDeletedEvent{Timestamp: ts, Payload: payload})
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish customer event", slog.String("action", action), slog.Any("error", err))
	}
}

// ensureUnique runs the uniqueness pre-checks, code first, then email. The
// database unique indexes remain authoritative when a concurrent writer wins
// the race between this check and the commit.
func (s *customerService) ensureUnique(ctx context.Context, code, email string, excludeID int64, checkCode, checkEmail bool) error {
	if checkCode {
		exists, err := s.repo.ExistsByCode(ctx, code, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check customer code uniqueness: %w", err)
		}
		if exists {
			s.logger.WarnContext(ctx, "Duplicate customer code detected", slog.String("customerCode", code))
			return apperrors.NewDuplicateError("customerCode", code)
		}
	}
	if checkEmail {
		exists, err := s.repo.ExistsByEmail(ctx, email, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if exists {
			s.logger.WarnContext(ctx, "Duplicate email detected", slog.String("email", email))
			return apperrors.NewDuplicateError("email", email)
		}
	}
	return nil
}

func (s *customerService) CreateCustomer(ctx context.Context, draft Draft) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer", slog.String("customerCode", draft.Code))

	if ve := draft.Validate(); ve != nil {
		s.logger.WarnContext(ctx, "Validation failed for create request", slog.Int("violations", len(ve.Fields)))
		return nil, apperrors.WrapValidationError(ve)
	}

	if err := s.ensureUnique(ctx, draft.Code, draft.Email, 0, true, true); err != nil {
		return nil, err
	}

	status := StatusActive
	if draft.Status != "" {
		status, _ = ParseStatus(string(draft.Status))
	}

	now := time.Now().UTC()
	cust := &Customer{
		Code:      draft.Code,
		FullName:  draft.FullName,
		Email:     draft.Email,
		Phone:     draft.Phone,
		Address:   draft.Address,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to insert new customer", slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Successfully created new customer", slog.Int64("customerID", cust.CustomerID))
	s.publishCustomerEvent(ctx, "created", cust)
	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to get customer by ID", slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context, query PageQuery) (*Page, error) {
	q := query.Normalize()
	s.logger.InfoContext(ctx, "Attempting to list customers",
		slog.Int("page", q.Page), slog.Int("size", q.Size),
		slog.String("sortBy", q.SortBy), slog.String("sortDir", q.SortDir))

	customers, total, err := s.repo.FindAll(ctx, q)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(q.Size) - 1) / int64(q.Size))
	}

	s.logger.InfoContext(ctx, "Successfully listed customers", slog.Int("count", len(customers)), slog.Int64("totalItems", total))
	return &Page{
		Customers:   customers,
		CurrentPage: q.Page,
		TotalItems:  total,
		TotalPages:  totalPages,
	}, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int64, draft Draft) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to update customer", slog.Int64("customerID", customerID))

	existing, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer for update", slog.Any("error", err))
		return nil, fmt.Errorf("cannot find customer %d to update: %w", customerID, err)
	}

	if ve := draft.Validate(); ve != nil {
		s.logger.WarnContext(ctx, "Validation failed for update request", slog.Int("violations", len(ve.Fields)))
		return nil, apperrors.WrapValidationError(ve)
	}

	if err := s.ensureUnique(ctx, draft.Code, draft.Email, customerID, true, true); err != nil {
		return nil, err
	}

	status := existing.Status
	if draft.Status != "" {
		status, _ = ParseStatus(string(draft.Status))
	}

	existing.Code = draft.Code
	existing.FullName = draft.FullName
	existing.Email = draft.Email
	existing.Phone = draft.Phone
	existing.Address = draft.Address
	existing.Status = status
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save updated customer", slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Successfully updated customer", slog.Int64("customerID", customerID))
	s.publishCustomerEvent(ctx, "updated", existing)
	return existing, nil
}

func (s *customerService) PatchCustomer(ctx context.Context, customerID int64, patch Patch) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to partially update customer", slog.Int64("customerID", customerID))

	existing, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer for partial update", slog.Any("error", err))
		return nil, fmt.Errorf("cannot find customer %d to patch: %w", customerID, err)
	}

	if ve := patch.Validate(); ve != nil {
		s.logger.WarnContext(ctx, "Validation failed for partial update request", slog.Int("violations", len(ve.Fields)))
		return nil, apperrors.WrapValidationError(ve)
	}

	var code, email string
	if patch.Code != nil {
		code = *patch.Code
	}
	if patch.Email != nil {
		email = *patch.Email
	}
	if err := s.ensureUnique(ctx, code, email, customerID, patch.Code != nil, patch.Email != nil); err != nil {
		return nil, err
	}

	if patch.Code != nil {
		existing.Code = *patch.Code
	}
	if patch.FullName != nil {
		existing.FullName = *patch.FullName
	}
	if patch.Email != nil {
		existing.Email = *patch.Email
	}
	if patch.Phone != nil {
		existing.Phone = patch.Phone
	}
	if patch.Address != nil {
		existing.Address = patch.Address
	}
	if patch.Status != nil {
		status, _ := ParseStatus(*patch.Status)
		existing.Status = status
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save patched customer", slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Successfully patched customer", slog.Int64("customerID", customerID))
	s.publishCustomerEvent(ctx, "updated", existing)
	return existing, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	s.logger.InfoContext(ctx, "Attempting to delete customer", slog.Int64("customerID", customerID))

	existing, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return err
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer for delete", slog.Any("error", err))
		return fmt.Errorf("cannot find customer %d to delete: %w", customerID, err)
	}

	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer disappeared before delete completed", slog.Int64("customerID", customerID))
			return err
		}
		s.logger.ErrorContext(ctx, "Repository failed to delete customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	s.logger.InfoContext(ctx, "Successfully deleted customer", slog.Int64("customerID", customerID))
	s.publishCustomerEvent(ctx, "deleted", existing)
	return nil
}

func (s *customerService) SearchCustomers(ctx context.Context, keyword string) ([]*Customer, error) {
	// A blank keyword matches every record, mirroring the substring query
	// it feeds into.
	s.logger.InfoContext(ctx, "Attempting to search customers", slog.String("keyword", keyword))

	customers, err := s.repo.Search(ctx, keyword)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error searching customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully searched customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) ListCustomersByStatus(ctx context.Context, status string) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to list customers by status", slog.String("status", status))

	parsed, ok := ParseStatus(status)
	if !ok {
		s.logger.WarnContext(ctx, "Validation failed: unrecognized status", slog.String("status", status))
		return nil, apperrors.NewValidationError("status", msgStatusInvalid)
	}

	customers, err := s.repo.FindByStatus(ctx, parsed)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers by status", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers by status %s: %w", parsed, err)
	}

	s.logger.InfoContext(ctx, "Successfully listed customers by status", slog.Int("count", len(customers)))
	return customers, nil
}
