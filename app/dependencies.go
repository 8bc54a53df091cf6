package app

import (
	"os"

	"github.com/vetcare/vetportal/authz"
	"github.com/vetcare/vetportal/client"
	"github.com/vetcare/vetportal/config"
	"github.com/vetcare/vetportal/logger"
	"github.com/vetcare/vetportal/navigation"
	"github.com/vetcare/vetportal/report"
	"github.com/vetcare/vetportal/resources"
	"github.com/vetcare/vetportal/session"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Dependencies returns the providers of the portal DI graph
func Dependencies() []fx.Option {
	return []fx.Option{
		fx.Provide(
			config.NewFromEnv,
			logger.NewProductionLogger,
			logger.Suggar,
			session.NewStore,
			client.New,
			resources.NewService,
			authz.NewGuard,
			NewNavigator,
			navigation.NewController,
			report.NewAggregator,
			fx.Annotate(report.NewPhotoFetcher, fx.As(new(report.PhotoLoader))),
			NewPDFRenderer,
		),
	}
}

func NewNavigator() navigation.Navigator {
	return navigation.NewTerminalNavigator(os.Stderr)
}

func NewPDFRenderer(cfg *config.Config, photos report.PhotoLoader, logger *zap.SugaredLogger) *report.PDFRenderer {
	return report.NewPDFRenderer(cfg, photos, logger)
}
