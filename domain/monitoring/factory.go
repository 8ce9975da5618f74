package monitoring

import (
	"time"

	"github.com/AryanCoding77/muscle-ai-waitlist/config/router"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	ping      DatabasePinger
	logger    *log.Logger
	startTime time.Time
}

func NewMonitoringControllerFactory(ping DatabasePinger, logger *log.Logger, startTime time.Time) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		ping:      ping,
		logger:    logger,
		startTime: startTime,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.ping, f.logger, f.startTime)
}
