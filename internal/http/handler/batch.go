package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"hatchops/internal/service"
)

func ListBatchAssigns(svc service.BatchAssignService) fiber.Handler {
	return listBy("shed_receive_id", svc.List)
}

func GetBatchAssign(svc service.BatchAssignService) fiber.Handler    { return getOne(svc.Get) }
func CreateBatchAssign(svc service.BatchAssignService) fiber.Handler { return createAs(svc.Create) }
func UpdateBatchAssign(svc service.BatchAssignService) fiber.Handler { return updateAs(svc.Update) }
func DeleteBatchAssign(svc service.BatchAssignService) fiber.Handler { return deleteOne(svc.Delete) }

// BatchBalance returns assigned minus mortality, culling and transfers out,
// plus transfers in.
//
// @Summary Live balance of a batch
// @Tags batch
// @Produce json
// @Param id path string true "batch assign id"
// @Success 200 {object} model.BatchBalance
// @Router /api/v1/batch-assigns/{id}/balance [get]
func BatchBalance(svc service.BatchAssignService) fiber.Handler { return getOne(svc.Balance) }

// ListBirdTransfers filters by source batch and transfer date.
func ListBirdTransfers(svc service.BirdTransferService) fiber.Handler {
	return datedList("batch_assign_id", svc.List)
}

func GetBirdTransfer(svc service.BirdTransferService) fiber.Handler    { return getOne(svc.Get) }
func CreateBirdTransfer(svc service.BirdTransferService) fiber.Handler { return createAs(svc.Create) }
func UpdateBirdTransfer(svc service.BirdTransferService) fiber.Handler { return updateAs(svc.Update) }
func DeleteBirdTransfer(svc service.BirdTransferService) fiber.Handler { return deleteOne(svc.Delete) }

// datedList is listBy with an additional from/to date range.
func datedList[R any](param string, list func(ctx context.Context, id string, from, to time.Time, limit, offset int) (R, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := dateRange(c)
		if err != nil {
			return respond(c, err)
		}
		return listBy(param, func(ctx context.Context, id string, limit, offset int) (R, error) {
			return list(ctx, id, from, to, limit, offset)
		})(c)
	}
}
