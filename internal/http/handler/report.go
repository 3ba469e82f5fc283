package handler

import (
	"github.com/gofiber/fiber/v2"

	"hatchops/internal/service"
)

// Dashboard serves the polling snapshot for ?date, today by default.
//
// @Summary Operations dashboard
// @Tags report
// @Produce json
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} model.Dashboard
// @Router /api/v1/reports/dashboard [get]
func Dashboard(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := queryDate(c, "date")
		if err != nil {
			return respond(c, err)
		}
		d, err := svc.Dashboard(c.UserContext(), day)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(d)
	}
}

// BatchPerformance reports a batch between ?from and ?to.
func BatchPerformance(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return respond(c, err)
		}
		from, to, err := dateRange(c)
		if err != nil {
			return respond(c, err)
		}
		p, err := svc.Performance(c.UserContext(), id, from, to)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(p)
	}
}

// ExportBatchPerformance uploads the report workbook and returns a presigned link.
//
// @Summary Export batch performance to Excel
// @Tags report
// @Produce json
// @Param id path string true "batch assign id"
// @Success 201 {object} model.ReportExport
// @Router /api/v1/reports/batches/{id}/performance/export [post]
func ExportBatchPerformance(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respond(c, err)
		}
		id, err := pathID(c, "id")
		if err != nil {
			return respond(c, err)
		}
		from, to, err := dateRange(c)
		if err != nil {
			return respond(c, err)
		}
		exp, err := svc.ExportPerformance(c.UserContext(), id, from, to, a)
		if err != nil {
			return respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(exp)
	}
}
