package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/creatorstation/tweetbot/pkg/convert/img"
)

const statusMessage = "Twitter bot is running"

// Publisher posts a tweet with an optional image fetched from imageURL.
type Publisher interface {
	Post(ctx context.Context, text, imageURL string) (string, error)
}

type controller struct {
	publisher Publisher
	logger    *zap.Logger
}

// MountHealth answers every method on / and /api. It reports the process is up,
// not whether the last job succeeded.
func MountHealth(router fiber.Router) {
	router.All("/", Health)
	router.All("/api", Health)
}

// MountController mounts the render and manual tweet routes behind auth.
func MountController(router fiber.Router, publisher Publisher, logger *zap.Logger, auth fiber.Handler) {
	c := &controller{publisher: publisher, logger: logger}

	router.Post("/render", auth, RenderImage)
	router.Post("/tweets", auth, c.PostTweet)
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": statusMessage})
}

func RenderImage(c *fiber.Ctx) error {
	var body RenderBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := body.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	png, err := img.RenderTextImage(body.Text)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Context().SetContentType("image/png")
	return c.Status(fiber.StatusOK).Send(png)
}

func (ctl *controller) PostTweet(c *fiber.Ctx) error {
	var body TweetBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := body.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	id, err := ctl.publisher.Post(c.UserContext(), body.Text, body.ImageURL)
	if err != nil {
		ctl.logger.Warn("Manual tweet failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}
