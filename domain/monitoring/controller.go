package monitoring

import (
	"context"
	"time"

	"github.com/AryanCoding77/muscle-ai-waitlist/config/router"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
)

const healthCheckTimeout = 2 * time.Second

// DatabasePinger is satisfied by a closure over config.PingDatabase.
type DatabasePinger func(ctx context.Context) error

type HealthStatus struct {
	Database int `json:"database"` // 1 = healthy, 0 = unhealthy
	Uptime   int `json:"uptime"`   // uptime in seconds
}

type MonitoringController struct {
	ping      DatabasePinger
	logger    *log.Logger
	startTime time.Time
}

func NewMonitoringController(ping DatabasePinger, logger *log.Logger, startTime time.Time) *router.RESTController {
	if startTime.IsZero() {
		startTime = time.Now()
	}

	ctrl := &MonitoringController{
		ping:      ping,
		logger:    logger,
		startTime: startTime,
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			routerService.AddGetHandler(controller, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})
		},
	)
}

func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	healthStatus := ctrl.performHealthChecks(ctx, logger)

	return router.OKResult(healthStatus, "Health check completed")
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	if ctrl.checkDatabase(ctx) {
		status.Database = 1
		logger.Debug("Database health check passed")
	} else {
		logger.Error("Database health check failed")
	}

	return status
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) bool {
	if ctrl.ping == nil {
		return false
	}
	return ctrl.ping(ctx) == nil
}
