package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/validationly/signalscan/internal/cache"
	"github.com/validationly/signalscan/internal/config"
	"github.com/validationly/signalscan/internal/digest"
	httpapi "github.com/validationly/signalscan/internal/interfaces/http"
	"github.com/validationly/signalscan/internal/normalize"
	"github.com/validationly/signalscan/internal/pain"
	"github.com/validationly/signalscan/internal/scan"
	"github.com/validationly/signalscan/internal/score"
	"github.com/validationly/signalscan/internal/source"
	"github.com/validationly/signalscan/internal/textgen"
)

const (
	appName = "signalscan"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	_ = godotenv.Load()

	var configPath string

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Multi-source market signal scanner",
		Version: version,
		Long: `signalscan fans a query out to public community, developer, product,
media, and content sources, normalizes each into a comparable signal, and
scores aggregate demand, pain points, and cross-platform arbitrage.`,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")

	scanCmd := &cobra.Command{
		Use:   "scan [query]",
		Short: "Scan sources and compute the demand index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, configPath, args[0])
		},
	}

	painCmd := &cobra.Command{
		Use:   "pain [query]",
		Short: "Scan sources and extract persona-weighted pain clusters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPain(cmd, configPath, args[0])
		},
	}
	painCmd.Flags().String("persona", "founder", "Persona lens (founder|pm|dev|vc)")

	digestCmd := &cobra.Command{
		Use:   "digest [category]",
		Short: "Scan sources and build a social arbitrage digest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(cmd, configPath, args[0])
		},
	}
	digestCmd.Flags().Bool("prose", false, "Generate shareable prose for the digest")

	for _, cmd := range []*cobra.Command{scanCmd, painCmd, digestCmd} {
		cmd.Flags().StringSlice("sources", nil, "Sources to scan (default: all)")
		cmd.Flags().Int("max-items", 0, "Maximum items per source")
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")

	rootCmd.AddCommand(scanCmd, painCmd, digestCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func runScan(cmd *cobra.Command, configPath, query string) error {
	scanner, _, err := buildScanner(configPath)
	if err != nil {
		return err
	}
	req, err := requestFromFlags(cmd, query)
	if err != nil {
		return err
	}

	result, err := scanner.Scan(cmd.Context(), req)
	if err != nil {
		return err
	}
	return printJSON(struct {
		scan.Result
		Score score.Result `json:"score"`
	}{Result: result, Score: score.Score(result.Signals)})
}

func runPain(cmd *cobra.Command, configPath, query string) error {
	persona, _ := cmd.Flags().GetString("persona")
	scanner, _, err := buildScanner(configPath)
	if err != nil {
		return err
	}
	req, err := requestFromFlags(cmd, query)
	if err != nil {
		return err
	}

	result, err := scanner.Scan(cmd.Context(), req)
	if err != nil {
		return err
	}
	extraction, err := pain.NewExtractor().Extract(result.Signals, query, pain.Persona(persona))
	if err != nil {
		return err
	}
	return printJSON(extraction)
}

func runDigest(cmd *cobra.Command, configPath, category string) error {
	prose, _ := cmd.Flags().GetBool("prose")
	scanner, cfg, err := buildScanner(configPath)
	if err != nil {
		return err
	}
	req, err := requestFromFlags(cmd, category)
	if err != nil {
		return err
	}

	result, err := scanner.Scan(cmd.Context(), req)
	if err != nil {
		return err
	}
	d := digest.NewBuilder().Build(result.Signals, category)

	out := struct {
		digest.Digest
		ShareText string `json:"share_text,omitempty"`
	}{Digest: d}
	if prose {
		if gen := newGenerator(cfg); gen != nil {
			text, err := digest.ShareText(cmd.Context(), gen, d)
			if err != nil {
				log.Warn().Err(err).Msg("prose generation failed")
			} else {
				out.ShareText = text
			}
		}
	}
	return printJSON(out)
}

func runServe(cmd *cobra.Command, configPath string) error {
	scanner, cfg, err := buildScanner(configPath)
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	server := httpapi.NewServer(scanner, pain.NewExtractor(), digest.NewBuilder(), newGenerator(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.ListenAndServe(ctx, addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
}

// buildScanner loads config and assembles the cache, adapter registry, and
// scanner shared by every command.
func buildScanner(configPath string) (*scan.Scanner, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, cfg, err
	}

	store, err := buildCache(cfg.Cache)
	if err != nil {
		return nil, cfg, err
	}

	registry := source.Registry{
		source.Reddit:        source.NewRedditAdapter(cfg.SourceConfig(source.Reddit), store),
		source.HackerNews:    source.NewHackerNewsAdapter(cfg.SourceConfig(source.HackerNews), store),
		source.ProductHunt:   source.NewProductHuntAdapter(cfg.SourceConfig(source.ProductHunt), store),
		source.GitHub:        source.NewGitHubAdapter(cfg.SourceConfig(source.GitHub), store),
		source.StackOverflow: source.NewStackOverflowAdapter(cfg.SourceConfig(source.StackOverflow), store),
		source.GoogleNews:    source.NewGoogleNewsAdapter(cfg.SourceConfig(source.GoogleNews), store),
		source.YouTube:       source.NewYouTubeAdapter(cfg.SourceConfig(source.YouTube), store),
	}

	scanner := scan.NewScanner(registry, normalize.NewNormalizer(),
		scan.WithPerSourceTimeout(cfg.Scan.PerSourceTimeout))
	return scanner, cfg, nil
}

func buildCache(cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return cache.NewRedis(client, appName), nil
	default:
		return cache.NewMemory(cfg.MaxEntries), nil
	}
}

func newGenerator(cfg config.Config) textgen.Generator {
	key := os.Getenv(cfg.TextGen.APIKeyEnv)
	if key == "" {
		log.Warn().Str("env", cfg.TextGen.APIKeyEnv).Msg("text generation key missing, prose disabled")
		return nil
	}
	return textgen.NewOpenAI(key, cfg.TextGen.Model)
}

func requestFromFlags(cmd *cobra.Command, query string) (scan.Request, error) {
	names, _ := cmd.Flags().GetStringSlice("sources")
	maxItems, _ := cmd.Flags().GetInt("max-items")

	req := scan.Request{Query: query, MaxItems: maxItems}
	for _, name := range names {
		req.Sources = append(req.Sources, source.ID(name))
	}
	return req, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
