package customer

import (
	"context"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindByCode(ctx context.Context, code string) (*Customer, error)

	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// ExistsByCode reports whether another record already uses the code.
	// excludeID skips the record under update; pass 0 to exclude nothing.
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)

	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)

	Update(ctx context.Context, customer *Customer) error

	Delete(ctx context.Context, customerID int64) error

	FindAll(ctx context.Context, query PageQuery) ([]*Customer, int64, error)

	Search(ctx context.Context, keyword string) ([]*Customer, error)

	FindByStatus(ctx context.Context, status Status) ([]*Customer, error)
}
