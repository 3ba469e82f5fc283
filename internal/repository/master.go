package repository

import (
	"context"

	"hatchops/internal/model"
)

// CompanyRepository persists companies.
type CompanyRepository interface {
	Create(ctx context.Context, c *model.Company) (*model.Company, error)
	FindByID(ctx context.Context, id string) (*model.Company, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Company], error)
	Update(ctx context.Context, c *model.Company) (*model.Company, error)
	// Delete returns sql.ErrNoRows when nothing was deleted.
	Delete(ctx context.Context, id string) error
}

// ShedRepository persists sheds.
type ShedRepository interface {
	Create(ctx context.Context, s *model.Shed) (*model.Shed, error)
	FindByID(ctx context.Context, id string) (*model.Shed, error)
	// List returns sheds, optionally restricted to one company.
	List(ctx context.Context, companyID string, pq PageQuery) (*PageResult[model.Shed], error)
	Update(ctx context.Context, s *model.Shed) (*model.Shed, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository persists operator accounts.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.User], error)
	Count(ctx context.Context) (int, error)
}
