package app

import (
	"github.com/rs/zerolog"

	"dealscope/internal/config"
	"dealscope/internal/display"
	"dealscope/internal/export"
	"dealscope/internal/fetcher"
	"dealscope/internal/metrics"
	"dealscope/internal/service"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Metrics *metrics.Registry
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config:  cfg,
		Logger:  logger.With().Str("component", "app").Logger(),
		Metrics: metrics.NewRegistry(),
	}
}

func (a *App) newService() *service.Service {
	client := fetcher.NewClient(fetcher.Options{
		BaseURL:   a.Config.SteamDB.BaseURL,
		Timeout:   a.Config.SteamDB.RequestTimeout,
		UserAgent: a.Config.SteamDB.UserAgent,
	}, a.Logger)

	opts := display.Options{
		ChunkBudget: a.Config.Display.ChunkBudget,
		MaxChunks:   a.Config.Display.MaxChunks,
	}

	return service.New(client, client, a.Metrics, opts, a.Logger)
}

func (a *App) openStore() (*export.Store, func(), error) {
	store, err := export.NewStore(a.Config.Export.StorePath)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if err := store.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("failed to close artifact store")
		}
	}
	return store, closer, nil
}

func (a *App) resolveCountry(override string) string {
	if override != "" {
		return override
	}
	return a.Config.SteamDB.Country
}

// AnalyzeOptions configure the analyze command.
type AnalyzeOptions struct {
	Target  string
	Country string
}

// ExportOptions configure the export command.
type ExportOptions struct {
	Target    string
	Country   string
	Requester string
	PNGPath   string
}

// RedeemOptions configure the redeem command.
type RedeemOptions struct {
	Token     string
	Requester string
	OutPath   string
}
