package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"hatchops/internal/model"
)

// The helpers below build the handlers shared by every resource: decode,
// call the service method, render the result or the error envelope.

func getOne[T any](get func(context.Context, string) (*T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return respond(c, err)
		}
		out, err := get(c.UserContext(), id)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(out)
	}
}

func deleteOne(del func(context.Context, string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return respond(c, err)
		}
		if err := del(c.UserContext(), id); err != nil {
			return respond(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func createOne[In, Out any](create func(context.Context, *In) (*Out, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := new(In)
		if err := parseBody(c, in); err != nil {
			return respond(c, err)
		}
		out, err := create(c.UserContext(), in)
		if err != nil {
			return respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}

// createAs is createOne for services that record the acting user.
func createAs[T any](create func(context.Context, *T, model.Actor) (*T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respond(c, err)
		}
		return createOne(func(ctx context.Context, in *T) (*T, error) {
			return create(ctx, in, a)
		})(c)
	}
}

func updateOne[T any](update func(context.Context, string, *T) (*T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return respond(c, err)
		}
		in := new(T)
		if err := parseBody(c, in); err != nil {
			return respond(c, err)
		}
		out, err := update(c.UserContext(), id, in)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(out)
	}
}

func updateAs[T any](update func(context.Context, string, *T, model.Actor) (*T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respond(c, err)
		}
		return updateOne(func(ctx context.Context, id string, in *T) (*T, error) {
			return update(ctx, id, in, a)
		})(c)
	}
}

// listBy serves a paginated listing filtered by an optional UUID query parameter.
func listBy[R any](param string, list func(ctx context.Context, id string, limit, offset int) (R, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := queryID(c, param)
		if err != nil {
			return respond(c, err)
		}
		limit, offset, err := page(c)
		if err != nil {
			return respond(c, err)
		}
		res, err := list(c.UserContext(), id, limit, offset)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(res)
	}
}
