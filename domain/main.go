package domain

import (
	"context"

	"github.com/AryanCoding77/muscle-ai-waitlist/config"
	"github.com/AryanCoding77/muscle-ai-waitlist/domain/monitoring"
	"github.com/AryanCoding77/muscle-ai-waitlist/domain/page"
	"github.com/AryanCoding77/muscle-ai-waitlist/domain/waitlist"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	rs := appConfig.RouterService

	var waitlistConfig config.WaitlistConfig
	if appConfig.Config != nil {
		waitlistConfig = appConfig.Config.Waitlist
	}

	pingDatabase := func(ctx context.Context) error {
		return config.PingDatabase(ctx, appConfig.DB)
	}

	waitlistFactory := waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger, &waitlist.ServiceConfig{
		FoldEmailCase: waitlistConfig.FoldEmailCase,
		Metrics:       rs.MetricsRegistry(),
	})

	rs.MountController(monitoring.NewMonitoringControllerFactory(pingDatabase, appConfig.Logger, appConfig.StartedAt).CreateController())
	rs.MountController(waitlistFactory.CreateController())
	rs.MountController(page.NewPageController(waitlistFactory.CreateService(), waitlistConfig.ProductName))
}
