package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bitpunk-fm/zinecast/internal/base"
	"github.com/bitpunk-fm/zinecast/internal/ingest"
	"github.com/bitpunk-fm/zinecast/internal/task"
)

// Feedlet is the import worker: it long-polls the main server for feed
// jobs, does the slow fetching and scraping off-process, and hands the
// parsed feed back for persisting.

type Config struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`

	Qiniu struct {
		Ak     string `json:"ak"`
		Sk     string `json:"sk"`
		Bucket string `json:"bucket"`
		Domain string `json:"domain"`
	} `json:"qiniu"`
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if config.ServerURL == "" {
		return nil, fmt.Errorf("server_url is required")
	}
	return &config, nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	config, err := loadConfig("feedlet.json")
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// artwork mirroring reads the shared qiniu config block
	base.Config.QiniuAK = config.Qiniu.Ak
	base.Config.QiniuSK = config.Qiniu.Sk
	base.Config.QiniuBucket = config.Qiniu.Bucket
	base.Config.QiniuDomain = config.Qiniu.Domain

	client := task.NewClient(config.ServerURL, config.Token)
	log.Info().Str("server", config.ServerURL).Msg("feedlet started")

	ctx := context.Background()
	for {
		t, err := client.GetTask(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("poll failed")
			time.Sleep(5 * time.Second)
			continue
		}
		if t == nil {
			continue // poll timed out, go again
		}

		log.Info().Str("id", t.ID).Str("type", t.Type).Msg("task received")
		result := processTask(ctx, t)
		if err := client.SubmitResult(result); err != nil {
			log.Warn().Err(err).Str("id", t.ID).Msg("result submit failed")
		}
	}
}

func processTask(ctx context.Context, t *task.Task) *task.Result {
	switch t.Type {
	case "feed:import":
		feedURL := t.Data["feedUrl"]
		if feedURL == "" {
			return task.NewResultWithError(t.ID, "missing feedUrl")
		}

		fetchCtx, cancel := context.WithTimeout(ctx, 90*time.Second)
		defer cancel()
		payload, err := ingest.FetchAndParse(fetchCtx, feedURL)
		if err != nil {
			log.Warn().Err(err).Str("url", feedURL).Msg("feed fetch failed")
			return task.NewResultWithError(t.ID, err.Error())
		}

		data, err := ingest.Encode(payload)
		if err != nil {
			return task.NewResultWithError(t.ID, err.Error())
		}
		log.Info().Str("feed", payload.Feed.GUID).Int("items", len(payload.Feed.Items)).Msg("feed scraped")
		return task.NewResultWithData(t.ID, data)

	default:
		return task.NewResultWithError(t.ID, "unknown task type: "+t.Type)
	}
}
