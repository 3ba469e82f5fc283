package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"hatchops/internal/model"
	"hatchops/internal/service"
)

type decisionRequest struct {
	Comment string `json:"comment"`
}

// ListApprovalConfigs accepts an optional module filter.
func ListApprovalConfigs(svc service.ApprovalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfgs, err := svc.ListConfigs(c.UserContext(), c.Query("module"))
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(fiber.Map{"data": cfgs, "total": len(cfgs)})
	}
}

func GetApprovalConfig(svc service.ApprovalService) fiber.Handler { return getOne(svc.GetConfig) }
func CreateApprovalConfig(svc service.ApprovalService) fiber.Handler {
	return createOne(svc.CreateConfig)
}
func UpdateApprovalConfig(svc service.ApprovalService) fiber.Handler {
	return updateOne(svc.UpdateConfig)
}
func DeleteApprovalConfig(svc service.ApprovalService) fiber.Handler {
	return deleteOne(svc.DeleteConfig)
}

// ListApprovals filters requests by ?status and ?module.
//
// @Summary List approval requests
// @Tags approval
// @Produce json
// @Param status query string false "pending|approved|rejected|expired"
// @Param module query string false "module"
// @Router /api/v1/approvals [get]
func ListApprovals(svc service.ApprovalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := page(c)
		if err != nil {
			return respond(c, err)
		}
		res, err := svc.List(c.UserContext(), c.Query("status"), c.Query("module"), limit, offset)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(res)
	}
}

// ApprovalInbox lists the pending requests waiting on the caller's role.
func ApprovalInbox(svc service.ApprovalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respond(c, err)
		}
		reqs, err := svc.Inbox(c.UserContext(), a)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(fiber.Map{"data": reqs, "total": len(reqs)})
	}
}

func GetApproval(svc service.ApprovalService) fiber.Handler { return getOne(svc.Get) }

// ApproveRequest signs off the current layer of a pending request.
//
// @Summary Approve the current layer
// @Tags approval
// @Accept json
// @Produce json
// @Param id path string true "approval request id"
// @Success 200 {object} model.ApprovalRequest
// @Failure 403 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/v1/approvals/{id}/approve [post]
func ApproveRequest(svc service.ApprovalService) fiber.Handler { return decide(svc.Approve) }

// RejectRequest rejects a pending request; a comment is required.
func RejectRequest(svc service.ApprovalService) fiber.Handler { return decide(svc.Reject) }

type decideFunc func(ctx context.Context, id string, actor model.Actor, comment string) (*model.ApprovalRequest, error)

func decide(fn decideFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respond(c, err)
		}
		id, err := pathID(c, "id")
		if err != nil {
			return respond(c, err)
		}
		var in decisionRequest
		if len(c.Body()) > 0 {
			if err := parseBody(c, &in); err != nil {
				return respond(c, err)
			}
		}
		req, err := fn(c.UserContext(), id, a, in.Comment)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(req)
	}
}
