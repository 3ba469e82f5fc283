package postgres

import (
	"context"
	"database/sql"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

// CompanyPostgres is a PostgreSQL implementation of repository.CompanyRepository.
type CompanyPostgres struct {
	db *sql.DB
}

// NewCompanyPostgres creates a new CompanyPostgres repository.
func NewCompanyPostgres(db *sql.DB) *CompanyPostgres {
	return &CompanyPostgres{db: db}
}

var _ repository.CompanyRepository = (*CompanyPostgres)(nil)

const companyColumns = `id, code, name, kind, created_at, updated_at`

func scanCompany(row interface{ Scan(...any) error }) (*model.Company, error) {
	var c model.Company
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Kind, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompanyPostgres) Create(ctx context.Context, c *model.Company) (*model.Company, error) {
	const q = `
		INSERT INTO companies (id, code, name, kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + companyColumns
	return scanCompany(r.db.QueryRowContext(ctx, q, c.ID, c.Code, c.Name, c.Kind, c.CreatedAt, c.UpdatedAt))
}

func (r *CompanyPostgres) FindByID(ctx context.Context, id string) (*model.Company, error) {
	const q = `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(r.db.QueryRowContext(ctx, q, id))
}

func (r *CompanyPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Company], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&total); err != nil {
		return nil, err
	}
	const q = `SELECT ` + companyColumns + ` FROM companies ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Company]{Items: items, Total: total}, nil
}

func (r *CompanyPostgres) Update(ctx context.Context, c *model.Company) (*model.Company, error) {
	const q = `
		UPDATE companies SET code = $2, name = $3, kind = $4, updated_at = $5
		WHERE id = $1
		RETURNING ` + companyColumns
	return scanCompany(r.db.QueryRowContext(ctx, q, c.ID, c.Code, c.Name, c.Kind, c.UpdatedAt))
}

func (r *CompanyPostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ShedPostgres is a PostgreSQL implementation of repository.ShedRepository.
type ShedPostgres struct {
	db *sql.DB
}

// NewShedPostgres creates a new ShedPostgres repository.
func NewShedPostgres(db *sql.DB) *ShedPostgres {
	return &ShedPostgres{db: db}
}

var _ repository.ShedRepository = (*ShedPostgres)(nil)

const shedColumns = `id, company_id, code, name, capacity, levels, created_at, updated_at`

func scanShed(row interface{ Scan(...any) error }) (*model.Shed, error) {
	var s model.Shed
	if err := row.Scan(&s.ID, &s.CompanyID, &s.Code, &s.Name, &s.Capacity, &s.Levels, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ShedPostgres) Create(ctx context.Context, s *model.Shed) (*model.Shed, error) {
	const q = `
		INSERT INTO sheds (id, company_id, code, name, capacity, levels, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + shedColumns
	return scanShed(r.db.QueryRowContext(ctx, q, s.ID, s.CompanyID, s.Code, s.Name, s.Capacity, s.Levels, s.CreatedAt, s.UpdatedAt))
}

func (r *ShedPostgres) FindByID(ctx context.Context, id string) (*model.Shed, error) {
	const q = `SELECT ` + shedColumns + ` FROM sheds WHERE id = $1`
	return scanShed(r.db.QueryRowContext(ctx, q, id))
}

func (r *ShedPostgres) List(ctx context.Context, companyID string, pq repository.PageQuery) (*repository.PageResult[model.Shed], error) {
	var w where
	w.eq("company_id", companyID)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheds`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, err
	}
	suffix, args := w.page(pq)
	rows, err := r.db.QueryContext(ctx, `SELECT `+shedColumns+` FROM sheds`+w.sql()+` ORDER BY company_id, code`+suffix, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Shed, 0)
	for rows.Next() {
		s, err := scanShed(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Shed]{Items: items, Total: total}, nil
}

func (r *ShedPostgres) Update(ctx context.Context, s *model.Shed) (*model.Shed, error) {
	const q = `
		UPDATE sheds SET company_id = $2, code = $3, name = $4, capacity = $5, levels = $6, updated_at = $7
		WHERE id = $1
		RETURNING ` + shedColumns
	return scanShed(r.db.QueryRowContext(ctx, q, s.ID, s.CompanyID, s.Code, s.Name, s.Capacity, s.Levels, s.UpdatedAt))
}

func (r *ShedPostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sheds WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, name, email, role, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, name, email, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, q, u.ID, u.Name, u.Email, u.Role, u.PasswordHash, u.CreatedAt, u.UpdatedAt))
}

func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *UserPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY name, id LIMIT $1 OFFSET $2`, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.User]{Items: items, Total: total}, nil
}

func (r *UserPostgres) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
