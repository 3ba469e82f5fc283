package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hatchops/internal/http/middleware"
	"hatchops/internal/model"
	"hatchops/internal/service"
)

// pathID returns the named route parameter when it is a UUID.
func pathID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", errInvalidID
	}
	return id, nil
}

// queryID returns an optional UUID filter from the query string.
func queryID(c *fiber.Ctx, name string) (string, error) {
	id := c.Query(name)
	if id == "" {
		return "", nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", badQuery("INVALID_ID", "invalid "+name)
	}
	return id, nil
}

// page reads limit and offset. Bounds are applied by the services.
func page(c *fiber.Ctx) (limit, offset int, err error) {
	limit, err = strconv.Atoi(c.Query("limit", strconv.Itoa(service.DefaultLimit)))
	if err != nil {
		return 0, 0, badQuery("INVALID_LIMIT", "invalid limit")
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, badQuery("INVALID_OFFSET", "invalid offset")
	}
	return limit, offset, nil
}

// queryDate parses an optional YYYY-MM-DD (or RFC 3339) query value.
func queryDate(c *fiber.Ctx, name string) (time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Time{}, badQuery("INVALID_DATE", "invalid "+name+", expected YYYY-MM-DD")
}

// dateRange reads the optional from/to query pair.
func dateRange(c *fiber.Ctx) (from, to time.Time, err error) {
	if from, err = queryDate(c, "from"); err != nil {
		return
	}
	to, err = queryDate(c, "to")
	return
}

func actor(c *fiber.Ctx) (model.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return model.Actor{}, errNoActor
	}
	return a, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return nil
}
