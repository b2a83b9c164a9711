package deps

import (
	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/Alwanly/fleet-dashboard/pkg/poll"
	"github.com/Alwanly/fleet-dashboard/pkg/pubsub"
	"github.com/Alwanly/fleet-dashboard/pkg/visibility"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// App carries the shared dependencies handed to every HTTP handler.
// Fields a service does not use stay nil.
type App struct {
	Fiber    *fiber.App
	Logger   *logger.CanonicalLogger
	Database *gorm.DB
	Poller   poll.Poller
	Pub      pubsub.PubSub
	Signal   *visibility.Signal
}
