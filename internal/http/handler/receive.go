package handler

import (
	"github.com/gofiber/fiber/v2"

	"hatchops/internal/model"
	"hatchops/internal/service"
)

// psReceiveView adds the derived quantities to a PS receive response.
type psReceiveView struct {
	*model.PsReceive
	Summary model.PsReceiveSummary `json:"summary"`
}

func viewPsReceive(p *model.PsReceive) psReceiveView {
	return psReceiveView{PsReceive: p, Summary: p.Summary()}
}

// ListPsReceives filters by receive_date with optional from/to.
//
// @Summary List PS receives
// @Tags receive
// @Produce json
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Router /api/v1/ps-receives [get]
func ListPsReceives(svc service.PsReceiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := dateRange(c)
		if err != nil {
			return respond(c, err)
		}
		limit, offset, err := page(c)
		if err != nil {
			return respond(c, err)
		}
		res, err := svc.List(c.UserContext(), from, to, limit, offset)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(res)
	}
}

func GetPsReceive(svc service.PsReceiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return respond(c, err)
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(viewPsReceive(p))
	}
}

// CreatePsReceive stores the shipment with its chick counts and lab transfers.
func CreatePsReceive(svc service.PsReceiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respond(c, err)
		}
		var in model.PsReceive
		if err := parseBody(c, &in); err != nil {
			return respond(c, err)
		}
		p, err := svc.Create(c.UserContext(), &in, a)
		if err != nil {
			return respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(viewPsReceive(p))
	}
}

func UpdatePsReceive(svc service.PsReceiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respond(c, err)
		}
		id, err := pathID(c, "id")
		if err != nil {
			return respond(c, err)
		}
		var in model.PsReceive
		if err := parseBody(c, &in); err != nil {
			return respond(c, err)
		}
		p, err := svc.Update(c.UserContext(), id, &in, a)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(viewPsReceive(p))
	}
}

func DeletePsReceive(svc service.PsReceiveService) fiber.Handler { return deleteOne(svc.Delete) }

func ListFirmReceives(svc service.FirmReceiveService) fiber.Handler {
	return listBy("ps_receive_id", svc.List)
}

func GetFirmReceive(svc service.FirmReceiveService) fiber.Handler    { return getOne(svc.Get) }
func CreateFirmReceive(svc service.FirmReceiveService) fiber.Handler { return createAs(svc.Create) }
func UpdateFirmReceive(svc service.FirmReceiveService) fiber.Handler { return updateAs(svc.Update) }
func DeleteFirmReceive(svc service.FirmReceiveService) fiber.Handler { return deleteOne(svc.Delete) }

func ListShedReceives(svc service.ShedReceiveService) fiber.Handler {
	return listBy("firm_receive_id", svc.List)
}

func GetShedReceive(svc service.ShedReceiveService) fiber.Handler    { return getOne(svc.Get) }
func CreateShedReceive(svc service.ShedReceiveService) fiber.Handler { return createAs(svc.Create) }
func UpdateShedReceive(svc service.ShedReceiveService) fiber.Handler { return updateAs(svc.Update) }
func DeleteShedReceive(svc service.ShedReceiveService) fiber.Handler { return deleteOne(svc.Delete) }
