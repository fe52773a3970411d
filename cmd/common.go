package cmd

import (
	"curse-update-proxy/config"
	"curse-update-proxy/curseforge"
	"curse-update-proxy/logger"
	"curse-update-proxy/promos"
	"curse-update-proxy/proxy"
	"curse-update-proxy/resolve"

	"go.uber.org/zap"
)

// bootstrap handles shared initialization logic for commands.
func bootstrap(path string) (config.Config, *proxy.Service) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.InitLogger("info")
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}
	logger.InitLogger(cfg.LogLevel)

	client, err := curseforge.NewClient(cfg)
	if err != nil {
		logger.Log.Fatalw("Failed to create CurseForge client", zap.Error(err))
	}

	return cfg, newService(cfg, client)
}

// newService assembles the proxy around client. The version cache lives as
// long as the returned service.
func newService(cfg config.Config, client *curseforge.Client) *proxy.Service {
	aggregator := &promos.Aggregator{}
	if cfg.ResolutionStrategy == config.StrategyArchive {
		aggregator.Resolver = resolve.NewCache(client, logger.Log.Named("resolve"))
	}

	logger.Log.Infow("Proxy configured",
		zap.String("api", cfg.CurseAPIURL),
		zap.String("resolution_strategy", cfg.ResolutionStrategy),
		zap.Bool("author_restricted", cfg.AllowedAuthor != ""),
	)

	return &proxy.Service{
		Mods:          client,
		Aggregator:    aggregator,
		AllowedAuthor: cfg.AllowedAuthor,
		Log:           logger.Log,
	}
}
