package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"customer-api/internal/domain/customer"
	"customer-api/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

const customerColumns = `id, customer_code, full_name, email, phone, address, status, created_at, updated_at`

// sortColumns is the allow-list mapping from API sort fields to columns.
// Anything else falls back to id.
var sortColumns = map[string]string{
	"id":           "id",
	"customerCode": "customer_code",
	"fullName":     "full_name",
	"email":        "email",
	"status":       "status",
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
}

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var cust customer.Customer
	var status string
	err := row.Scan(
		&cust.CustomerID,
		&cust.Code,
		&cust.FullName,
		&cust.Email,
		&cust.Phone,
		&cust.Address,
		&status,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	cust.Status = customer.Status(status)
	return &cust, nil
}

func (r *CustomerRepository) queryList(ctx context.Context, query string, args ...any) ([]*customer.Customer, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, cust)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating customer rows: %w", apperrors.ErrDatabase, err)
	}

	return customers, nil
}

func (r *CustomerRepository) Create(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("customerCode", cust.Code))

	query := `
        INSERT INTO customers (customer_code, full_name, email, phone, address, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`

	err := r.db.QueryRow(ctx, query,
		cust.Code,
		cust.FullName,
		cust.Email,
		cust.Phone,
		cust.Address,
		string(cust.Status),
		cust.CreatedAt,
		cust.UpdatedAt,
	).Scan(&cust.CustomerID)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation", slog.String("customerCode", cust.Code))
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert customer: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.CustomerID))
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	r.logger.InfoContext(ctx, "Attempting to find customer by ID", slog.Int64("customerID", customerID))

	query := `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE id = $1`

	cust, err := scanCustomer(r.db.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan customer by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by ID: %w", apperrors.ErrDatabase, err)
	}

	return cust, nil
}

func (r *CustomerRepository) FindByCode(ctx context.Context, code string) (*customer.Customer, error) {
	r.logger.InfoContext(ctx, "Attempting to find customer by code", slog.String("customerCode", code))

	query := `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE customer_code = $1`

	cust, err := scanCustomer(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found for the given code")
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan customer by code", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by code: %w", apperrors.ErrDatabase, err)
	}

	return cust, nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	r.logger.InfoContext(ctx, "Attempting to find customer by email")

	query := `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE email = $1`

	cust, err := scanCustomer(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found for the given email")
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan customer by email", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by email: %w", apperrors.ErrDatabase, err)
	}

	return cust, nil
}

// ExistsByCode excludes excludeID so an update never collides with the row
// it is updating. IDs start at 1, so 0 excludes nothing.
func (r *CustomerRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM customers WHERE customer_code = $1 AND id <> $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, code, excludeID).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check customer code existence", slog.Any("error", err))
		return false, fmt.Errorf("%w: failed to check customer code existence: %w", apperrors.ErrDatabase, err)
	}
	return exists, nil
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM customers WHERE email = $1 AND id <> $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check email existence", slog.Any("error", err))
		return false, fmt.Errorf("%w: failed to check email existence: %w", apperrors.ErrDatabase, err)
	}
	return exists, nil
}

func (r *CustomerRepository) Update(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to update customer", slog.Int64("customerID", cust.CustomerID))

	query := `
        UPDATE customers
        SET customer_code = $1,
            full_name = $2,
            email = $3,
            phone = $4,
            address = $5,
            status = $6,
            updated_at = $7
        WHERE id = $8`

	cmdTag, err := r.db.Exec(ctx, query,
		cust.Code,
		cust.FullName,
		cust.Email,
		cust.Phone,
		cust.Address,
		string(cust.Status),
		cust.UpdatedAt,
		cust.CustomerID,
	)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to update customer due to unique constraint violation", slog.Any("error", err))
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to update customer: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Update affected zero rows, customer likely not found")
		return apperrors.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Customer updated successfully")
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) error {
	r.logger.InfoContext(ctx, "Attempting to delete customer", slog.Int64("customerID", customerID))

	query := `DELETE FROM customers WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to execute delete customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to delete customer: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, customer likely not found")
		return apperrors.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Customer deleted successfully")
	return nil
}

func (r *CustomerRepository) FindAll(ctx context.Context, query customer.PageQuery) ([]*customer.Customer, int64, error) {
	q := query.Normalize()

	r.logger.InfoContext(ctx, "Attempting to find all customers",
		slog.Int("page", q.Page), slog.Int("size", q.Size))

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		r.logger.ErrorContext(ctx, "Failed to count customers", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to count customers: %w", apperrors.ErrDatabase, err)
	}

	sortColumn, ok := sortColumns[q.SortBy]
	if !ok {
		sortColumn = "id"
	}
	direction := "ASC"
	if q.SortDir == "desc" {
		direction = "DESC"
	}

	// sortColumn and direction come from fixed allow-lists, never from the
	// raw request, so interpolation here is safe.
	listQuery := fmt.Sprintf(`
        SELECT `+customerColumns+`
        FROM customers
        ORDER BY %s %s
        LIMIT $1 OFFSET $2`, sortColumn, direction)

	customers, err := r.queryList(ctx, listQuery, q.Size, q.Page*q.Size)
	if err != nil {
		return nil, 0, err
	}

	r.logger.InfoContext(ctx, "Finished finding customers", slog.Int("count", len(customers)), slog.Int64("total", total))
	return customers, total, nil
}

func (r *CustomerRepository) Search(ctx context.Context, keyword string) ([]*customer.Customer, error) {
	r.logger.InfoContext(ctx, "Attempting to search customers", slog.String("keyword", keyword))

	query := `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE full_name ILIKE '%' || $1 || '%'
           OR email ILIKE '%' || $1 || '%'
           OR customer_code ILIKE '%' || $1 || '%'
        ORDER BY id ASC`

	customers, err := r.queryList(ctx, query, keyword)
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "Finished searching customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) FindByStatus(ctx context.Context, status customer.Status) ([]*customer.Customer, error) {
	r.logger.InfoContext(ctx, "Attempting to find customers by status", slog.String("status", string(status)))

	query := `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE status = $1
        ORDER BY id ASC`

	customers, err := r.queryList(ctx, query, string(status))
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "Finished finding customers by status", slog.Int("count", len(customers)))
	return customers, nil
}

// translateDBError maps driver errors onto the application taxonomy. A
// unique-index violation is resolved to the conflicting field via the
// constraint name, so a pre-check race still surfaces as the same
// duplicate error the pre-check would have produced.
func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			switch pgErr.ConstraintName {
			case "customers_customer_code_key":
				return apperrors.NewDuplicateError("customerCode", "")
			case "customers_email_key":
				return apperrors.NewDuplicateError("email", "")
			}
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf("%w: %w", apperrors.ErrDatabase, err)
}
