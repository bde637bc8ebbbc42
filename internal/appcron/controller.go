package appcron

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const defaultRunsLimit = 20

// MountController mounts the job trigger and inspection routes
func MountController(router fiber.Router, s *Scheduler) {
	router.Get("/", func(c *fiber.Ctx) error {
		jobs := make([]fiber.Map, 0, len(s.jobs))
		for _, name := range s.Jobs() {
			job := fiber.Map{"name": name}
			if next := s.Next(name); !next.IsZero() {
				job["next_run"] = next.Format(time.RFC3339)
			}
			jobs = append(jobs, job)
		}
		return c.JSON(fiber.Map{"jobs": jobs})
	})

	router.Get("/runs", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", defaultRunsLimit)
		if limit <= 0 || limit > 100 {
			limit = defaultRunsLimit
		}

		runs, err := s.recorder.Recent(c.UserContext(), c.Query("job"), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"runs": runs})
	})

	router.Post("/:name/run", func(c *fiber.Ctx) error {
		name := c.Params("name")
		if _, ok := s.jobs[name]; !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "unknown job " + name,
			})
		}

		if err := s.Trigger(name, TriggerManual); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": name + " job started",
		})
	})
}
