package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ActorHeader carries the identifier of whoever performs the request. It is
// recorded in audit fields; authenticating it is the gateway's job.
const ActorHeader = "X-Actor-ID"

// ActorLocalsKey is the fiber.Ctx locals key holding the actor ID as int64.
const ActorLocalsKey = "actor_id"

// ActorRequired rejects requests without a positive numeric X-Actor-ID header.
func ActorRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(ActorHeader)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": ActorHeader + " header is required",
			})
		}

		actorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || actorID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": ActorHeader + " header must be a positive integer",
			})
		}

		c.Locals(ActorLocalsKey, actorID)
		return c.Next()
	}
}

// ActorID returns the actor stored by ActorRequired.
func ActorID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(ActorLocalsKey).(int64)
	return id
}
