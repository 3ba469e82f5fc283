package service

import (
	"context"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

var companyKinds = []string{model.CompanyKindHatchery, model.CompanyKindFarm, model.CompanyKindBreeder}

// CompanyService manages companies.
type CompanyService interface {
	Create(ctx context.Context, in *model.Company) (*model.Company, error)
	Get(ctx context.Context, id string) (*model.Company, error)
	List(ctx context.Context, limit, offset int) (*ListResult[model.Company], error)
	Update(ctx context.Context, id string, in *model.Company) (*model.Company, error)
	Delete(ctx context.Context, id string) error
}

type companyService struct {
	repo repository.CompanyRepository
	clock
}

func NewCompanyService(repo repository.CompanyRepository) CompanyService {
	return &companyService{repo: repo, clock: defaultClock()}
}

func validateCompany(c *model.Company) error {
	c.Code = strings.TrimSpace(c.Code)
	c.Name = strings.TrimSpace(c.Name)
	if err := required("code", c.Code); err != nil {
		return err
	}
	if err := required("name", c.Name); err != nil {
		return err
	}
	if !slices.Contains(companyKinds, c.Kind) {
		return invalid("kind", "must be one of %s", strings.Join(companyKinds, ", "))
	}
	return nil
}

func (s *companyService) Create(ctx context.Context, in *model.Company) (*model.Company, error) {
	if err := validateCompany(in); err != nil {
		return nil, err
	}
	c := *in
	c.ID = s.newID()
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt

	out, err := s.repo.Create(ctx, &c)
	if err != nil {
		return nil, storeErr(err, "company")
	}
	return out, nil
}

func (s *companyService) Get(ctx context.Context, id string) (*model.Company, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "company")
	}
	return c, nil
}

func (s *companyService) List(ctx context.Context, limit, offset int) (*ListResult[model.Company], error) {
	res, err := s.repo.List(ctx, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *companyService) Update(ctx context.Context, id string, in *model.Company) (*model.Company, error) {
	if err := validateCompany(in); err != nil {
		return nil, err
	}
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "company")
	}
	c := *in
	c.ID = cur.ID
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = s.now()

	out, err := s.repo.Update(ctx, &c)
	if err != nil {
		return nil, storeErr(err, "company")
	}
	return out, nil
}

func (s *companyService) Delete(ctx context.Context, id string) error {
	return storeErr(s.repo.Delete(ctx, id), "company")
}

// ShedService manages sheds.
type ShedService interface {
	Create(ctx context.Context, in *model.Shed) (*model.Shed, error)
	Get(ctx context.Context, id string) (*model.Shed, error)
	List(ctx context.Context, companyID string, limit, offset int) (*ListResult[model.Shed], error)
	Update(ctx context.Context, id string, in *model.Shed) (*model.Shed, error)
	Delete(ctx context.Context, id string) error
}

type shedService struct {
	repo      repository.ShedRepository
	companies repository.CompanyRepository
	clock
}

func NewShedService(repo repository.ShedRepository, companies repository.CompanyRepository) ShedService {
	return &shedService{repo: repo, companies: companies, clock: defaultClock()}
}

func (s *shedService) validate(ctx context.Context, sh *model.Shed) error {
	sh.Code = strings.TrimSpace(sh.Code)
	sh.Name = strings.TrimSpace(sh.Name)
	if err := required("company_id", sh.CompanyID); err != nil {
		return err
	}
	if err := required("code", sh.Code); err != nil {
		return err
	}
	if err := required("name", sh.Name); err != nil {
		return err
	}
	if sh.Capacity <= 0 {
		return invalid("capacity", "must be positive")
	}
	if sh.Levels < 1 {
		return invalid("levels", "must be at least 1")
	}
	if _, err := s.companies.FindByID(ctx, sh.CompanyID); err != nil {
		if repository.IsNoRows(err) {
			return invalid("company_id", "company %s does not exist", sh.CompanyID)
		}
		return err
	}
	return nil
}

func (s *shedService) Create(ctx context.Context, in *model.Shed) (*model.Shed, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	sh := *in
	sh.ID = s.newID()
	sh.CreatedAt = s.now()
	sh.UpdatedAt = sh.CreatedAt

	out, err := s.repo.Create(ctx, &sh)
	if err != nil {
		return nil, storeErr(err, "shed")
	}
	return out, nil
}

func (s *shedService) Get(ctx context.Context, id string) (*model.Shed, error) {
	sh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "shed")
	}
	return sh, nil
}

func (s *shedService) List(ctx context.Context, companyID string, limit, offset int) (*ListResult[model.Shed], error) {
	res, err := s.repo.List(ctx, companyID, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *shedService) Update(ctx context.Context, id string, in *model.Shed) (*model.Shed, error) {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "shed")
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	sh := *in
	sh.ID = cur.ID
	sh.CreatedAt = cur.CreatedAt
	sh.UpdatedAt = s.now()

	out, err := s.repo.Update(ctx, &sh)
	if err != nil {
		return nil, storeErr(err, "shed")
	}
	return out, nil
}

func (s *shedService) Delete(ctx context.Context, id string) error {
	return storeErr(s.repo.Delete(ctx, id), "shed")
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// NewUser is the input for creating an operator account.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// UserService manages operator accounts.
type UserService interface {
	Create(ctx context.Context, in NewUser) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, limit, offset int) (*ListResult[model.User], error)
}

type userService struct {
	repo repository.UserRepository
	clock
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo, clock: defaultClock()}
}

func (s *userService) Create(ctx context.Context, in NewUser) (*model.User, error) {
	return createUser(ctx, s.repo, s.clock, in)
}

func createUser(ctx context.Context, repo repository.UserRepository, clk clock, in NewUser) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.TrimSpace(in.Role)
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, invalid("email", "is not a valid address")
	}
	if err := required("role", in.Role); err != nil {
		return nil, err
	}
	if len(in.Password) < MinPasswordLength {
		return nil, invalid("password", "must be at least %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := clk.now()
	u := &model.User{
		ID:           clk.newID(),
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	out, err := repo.Create(ctx, u)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return out, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return u, nil
}

func (s *userService) List(ctx context.Context, limit, offset int) (*ListResult[model.User], error) {
	res, err := s.repo.List(ctx, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}
