package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"hatchops/internal/model"
	"hatchops/internal/service"
)

type stageRequest struct {
	Notes string `json:"notes"`
}

func ListVaccineSchedules(svc service.VaccineScheduleService) fiber.Handler {
	return listBy("batch_assign_id", svc.List)
}

func GetVaccineSchedule(svc service.VaccineScheduleService) fiber.Handler { return getOne(svc.Get) }
func CreateVaccineSchedule(svc service.VaccineScheduleService) fiber.Handler {
	return createAs(svc.Create)
}
func UpdateVaccineSchedule(svc service.VaccineScheduleService) fiber.Handler {
	return updateOne(svc.Update)
}
func DeleteVaccineSchedule(svc service.VaccineScheduleService) fiber.Handler {
	return deleteOne(svc.Delete)
}

// CompleteVaccineStage marks a pending stage done by the caller.
//
// @Summary Complete a vaccine stage
// @Tags vaccine
// @Accept json
// @Produce json
// @Param id path string true "schedule id"
// @Param stageId path string true "stage id"
// @Success 200 {object} model.VaccineStage
// @Failure 409 {object} errorPayload
// @Router /api/v1/vaccine-schedules/{id}/stages/{stageId}/complete [post]
func CompleteVaccineStage(svc service.VaccineScheduleService) fiber.Handler {
	return stageTransition(svc.CompleteStage)
}

// SkipVaccineStage marks a pending stage skipped; notes are required.
func SkipVaccineStage(svc service.VaccineScheduleService) fiber.Handler {
	return stageTransition(svc.SkipStage)
}

type stageFunc func(ctx context.Context, scheduleID, stageID string, actor model.Actor, notes string) (*model.VaccineStage, error)

func stageTransition(move stageFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respond(c, err)
		}
		scheduleID, err := pathID(c, "id")
		if err != nil {
			return respond(c, err)
		}
		stageID, err := pathID(c, "stageId")
		if err != nil {
			return respond(c, err)
		}
		var in stageRequest
		if len(c.Body()) > 0 {
			if err := parseBody(c, &in); err != nil {
				return respond(c, err)
			}
		}
		stage, err := move(c.UserContext(), scheduleID, stageID, a, in.Notes)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(stage)
	}
}

// DueVaccineStages lists pending stages between from and to, today by default.
func DueVaccineStages(svc service.VaccineScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := dateRange(c)
		if err != nil {
			return respond(c, err)
		}
		due, err := svc.Due(c.UserContext(), from, to)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(fiber.Map{"data": due, "total": len(due)})
	}
}

func ListEggClassifications(svc service.EggClassificationService) fiber.Handler {
	return datedList("batch_assign_id", svc.List)
}

func GetEggClassification(svc service.EggClassificationService) fiber.Handler {
	return getOne(svc.Get)
}
func CreateEggClassification(svc service.EggClassificationService) fiber.Handler {
	return createAs(svc.Create)
}
func UpdateEggClassification(svc service.EggClassificationService) fiber.Handler {
	return updateOne(svc.Update)
}
func DeleteEggClassification(svc service.EggClassificationService) fiber.Handler {
	return deleteOne(svc.Delete)
}

func ListDailyOperations(svc service.DailyOperationService) fiber.Handler {
	return datedList("batch_assign_id", svc.List)
}

func GetDailyOperation(svc service.DailyOperationService) fiber.Handler { return getOne(svc.Get) }
func CreateDailyOperation(svc service.DailyOperationService) fiber.Handler {
	return createAs(svc.Create)
}
func UpdateDailyOperation(svc service.DailyOperationService) fiber.Handler {
	return updateOne(svc.Update)
}
func DeleteDailyOperation(svc service.DailyOperationService) fiber.Handler {
	return deleteOne(svc.Delete)
}
