package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"staplecheck/lib/collection"
	"staplecheck/lib/configutil"
	"staplecheck/lib/scryfall"
	"staplecheck/lib/staples"
)

// Config tunes the upstream endpoints and concurrency. All fields are
// optional; the zero value uses production defaults.
type Config struct {
	ScryfallBaseUrl string `json:"scryfall_base_url"`
	GoldfishBaseUrl string `json:"goldfish_base_url"`
	Top8BaseUrl     string `json:"top8_base_url"`
	// bounds concurrent card/printings fetches per resolver, default 8
	FetchLimit int64 `json:"fetch_limit"`
	// bounds concurrent mtgtop8 page requests, 0 means unbounded
	Top8PageConcurrency int `json:"top8_page_concurrency"`
}

func loadConfig() (Config, error) {
	cfg, err := configutil.ReadRecursively[Config]("config.json5")
	if errors.Is(err, configutil.ErrNoConfig) {
		return Config{}, nil
	}
	return cfg, err
}

func collectionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(dir, "staplecheck", "collection.json"), nil
}

func openCollection() (*collection.Collection, error) {
	path, err := collectionPath()
	if err != nil {
		return nil, err
	}
	return collection.Open(path)
}

// env wires the pipeline together: config, collection, resolvers and
// both scrapers.
type env struct {
	cfg       Config
	col       *collection.Collection
	cards     *scryfall.CardResolver
	printings *scryfall.PrintingsResolver
	fetcher   staples.Fetcher
}

func newEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	col, err := openCollection()
	if err != nil {
		return nil, err
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("locate user cache dir: %w", err)
	}
	cacheDir = filepath.Join(cacheDir, "staplecheck")

	client := scryfall.NewClient(scryfall.ClientOptions{BaseUrl: cfg.ScryfallBaseUrl})
	cards, err := scryfall.NewCardResolver(client, filepath.Join(cacheDir, "cards.json"), cfg.FetchLimit)
	if err != nil {
		return nil, err
	}
	printings, err := scryfall.NewPrintingsResolver(client, filepath.Join(cacheDir, "printings.json"), cfg.FetchLimit)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:       cfg,
		col:       col,
		cards:     cards,
		printings: printings,
		fetcher: staples.Fetcher{
			Goldfish: staples.NewGoldfishScraper(cards, staples.GoldfishOptions{
				BaseUrl: cfg.GoldfishBaseUrl,
			}),
			Top8: staples.NewTop8Scraper(cards, staples.Top8Options{
				BaseUrl:         cfg.Top8BaseUrl,
				PageConcurrency: cfg.Top8PageConcurrency,
			}),
		},
	}, nil
}
