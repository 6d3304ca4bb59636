package commands

import (
	"context"
	"fmt"
	"log/slog"

	"gradescope-reminder/internal/components/httpclient"
	"gradescope-reminder/internal/components/telemetry"
	"gradescope-reminder/internal/config"
	"gradescope-reminder/internal/scrapers/gradescope"
)

func loadConfig() (config.Config, telemetry.API, error) {
	cfg, err := config.Load(config.Options{
		EnvFile:    envFile,
		ConfigFile: configFile,
	})

	level := telemetry.ParseLevel(cfg.LogLevel)
	if verbose || cfg.Smtp.Debug {
		level = slog.LevelDebug
	}
	telemetry.InitSlog(level)

	tel := telemetry.SlogAPI{}
	if err != nil {
		tel.ReportBroken("config.load", err)
		return config.Config{}, nil, err
	}
	return cfg, tel, nil
}

func newScraper(cfg config.Config, tel telemetry.API) (*gradescope.Scraper, error) {
	site, err := gradescope.NewSite(cfg.BaseUrl)
	if err != nil {
		return nil, err
	}
	opts := cfg.Http.Options()
	opts.RedirectHost = site.Hostname()

	client, err := httpclient.New(opts, tel)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	return gradescope.NewScraper(client, site, tel), nil
}

// login loads the config and returns an authenticated scraper.
func login(ctx context.Context) (config.Config, *gradescope.Scraper, telemetry.API, error) {
	cfg, tel, err := loadConfig()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	scraper, err := newScraper(cfg, tel)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	err = scraper.Login(ctx, cfg.Email, cfg.Password)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, scraper, tel, nil
}
