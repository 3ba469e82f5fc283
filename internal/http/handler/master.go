package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"hatchops/internal/model"
	"hatchops/internal/service"
)

// @Summary List companies
// @Tags master
// @Produce json
// @Param limit query int false "page size"
// @Param offset query int false "offset"
// @Success 200 {object} service.ListResult[model.Company]
// @Router /api/v1/companies [get]
func ListCompanies(svc service.CompanyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := page(c)
		if err != nil {
			return respond(c, err)
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(res)
	}
}

func GetCompany(svc service.CompanyService) fiber.Handler    { return getOne(svc.Get) }
func CreateCompany(svc service.CompanyService) fiber.Handler { return createOne(svc.Create) }
func UpdateCompany(svc service.CompanyService) fiber.Handler { return updateOne(svc.Update) }
func DeleteCompany(svc service.CompanyService) fiber.Handler { return deleteOne(svc.Delete) }

// ListSheds accepts an optional company_id filter.
func ListSheds(svc service.ShedService) fiber.Handler {
	return listBy("company_id", svc.List)
}

func GetShed(svc service.ShedService) fiber.Handler    { return getOne(svc.Get) }
func CreateShed(svc service.ShedService) fiber.Handler { return createOne(svc.Create) }
func UpdateShed(svc service.ShedService) fiber.Handler { return updateOne(svc.Update) }
func DeleteShed(svc service.ShedService) fiber.Handler { return deleteOne(svc.Delete) }

func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := page(c)
		if err != nil {
			return respond(c, err)
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(res)
	}
}

func GetUser(svc service.UserService) fiber.Handler { return getOne(svc.Get) }

// CreateUser takes the plain password; only its bcrypt hash is stored.
func CreateUser(svc service.UserService) fiber.Handler {
	return createOne(func(ctx context.Context, in *service.NewUser) (*model.User, error) {
		return svc.Create(ctx, *in)
	})
}
