package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"vecindario/internal/api"
	"vecindario/internal/cmdlog"
	"vecindario/internal/config"
	"vecindario/internal/jobs"
	"vecindario/internal/logging"
	"vecindario/internal/metrics"
	"vecindario/internal/model"
	"vecindario/internal/recommend"
	"vecindario/internal/signals"
	"vecindario/internal/store/sqlitestore"
	"vecindario/internal/theme"
	"vecindario/internal/weights"
)

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	var run func() error
	switch cmd {
	case "init":
		run = cmdInit
	case "seed":
		run = cmdSeed
	case "weights":
		run = cmdWeights
	case "recommend":
		run = cmdRecommend
	case "serve":
		run = cmdServe
	case "warm":
		run = cmdWarm
	default:
		printHelp()
		return
	}
	if err := cmdlog.Run(cmd, run); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Println("Usage: vecindario <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init        Create a config file at ./vecindario.yaml")
	fmt.Println("  seed        Load the neighborhood list into the store")
	fmt.Println("  weights     Print the weight vector derived from a profile")
	fmt.Println("  recommend   Rank neighborhoods for a profile")
	fmt.Println("  serve       Run the HTTP API")
	fmt.Println("  warm        Refresh cached signals from the signals API")
}

// loadConfig reads path on top of the defaults. A missing file is not an error.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
		cfg.ResolveEnv()
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}

func loadProfile(path string) (model.UserProfile, error) {
	var p model.UserProfile
	if path == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &p)
	default:
		err = json.Unmarshal(b, &p)
	}
	if err != nil {
		return p, fmt.Errorf("unmarshal profile: %w", err)
	}
	return p, nil
}

// buildProviders returns the provider runs read from and the upstream the warm
// job refreshes from. Without a signals API both are the fixture provider.
func buildProviders(cfg config.Config, db *sqlitestore.DB) (signals.Provider, signals.Provider, error) {
	if cfg.Signals.BaseURL == "" {
		if cfg.Signals.FixturesPath == "" {
			return nil, nil, errors.New("no signals source: set signals.baseURL or signals.fixturesPath")
		}
		static, err := signals.LoadStaticProvider(cfg.Signals.FixturesPath)
		if err != nil {
			return nil, nil, err
		}
		return static, static, nil
	}
	if cfg.Signals.APIKey == "" {
		logging.Warn("signals_api_key_missing", map[string]any{"base_url": cfg.Signals.BaseURL})
	}
	upstream := signals.NewBreakerProvider("signals", signals.NewHTTPClient(cfg.Signals), cfg.Signals.Breaker)
	if db == nil || cfg.Storage.CacheTTL <= 0 {
		return upstream, upstream, nil
	}
	return signals.NewCachingProvider(upstream, db, cfg.Storage.CacheTTL), upstream, nil
}

func cmdInit() error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "./vecindario.yaml", "path to write config")
	_ = fs.Parse(os.Args[2:])
	if err := config.Save(*path, config.Default()); err != nil {
		return err
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner()
	fmt.Println("Config written to:", abs)
	return nil
}

func cmdSeed() error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	cfgPath := fs.String("config", "./vecindario.yaml", "config path")
	file := fs.String("file", "", "neighborhood list (JSON or YAML)")
	_ = fs.Parse(os.Args[2:])
	if *file == "" {
		return errors.New("seed: -file is required")
	}
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	items, err := sqlitestore.LoadNeighborhoodsFromFile(*file)
	if err != nil {
		return err
	}
	db, err := sqlitestore.Open(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.UpsertNeighborhoods(context.Background(), items); err != nil {
		return err
	}
	fmt.Printf("Seeded %d neighborhoods into %s\n", len(items), cfg.Storage.DBPath)
	return nil
}

func cmdWeights() error {
	fs := flag.NewFlagSet("weights", flag.ExitOnError)
	profilePath := fs.String("profile", "", "profile file (JSON or YAML)")
	explain := fs.Bool("explain", false, "list the rule contributions")
	_ = fs.Parse(os.Args[2:])
	p, err := loadProfile(*profilePath)
	if err != nil {
		return err
	}
	w := weights.Derive(p)
	for _, c := range model.Categories {
		fmt.Printf("%-16s %4d\n", c, w[c])
	}
	if *explain {
		fmt.Println("---")
		for _, c := range weights.Contributions(p) {
			fmt.Printf("%s=%s %s %+d\n", c.Field, c.Answer, c.Category, c.Delta)
		}
	}
	return nil
}

type recommendFlags struct {
	configPath    string
	profilePath   string
	neighborhoods string
	limit         int
	seed          int64
	// seedSet distinguishes -seed 0 from no -seed at all
	seedSet bool
	asJSON  bool
}

func parseRecommendFlags(args []string) (recommendFlags, error) {
	var f recommendFlags
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "./vecindario.yaml", "config path")
	fs.StringVar(&f.profilePath, "profile", "", "profile file (JSON or YAML)")
	fs.StringVar(&f.neighborhoods, "neighborhoods", "", "neighborhood list; defaults to the store")
	fs.IntVar(&f.limit, "limit", 0, "max results (0 uses recommend.defaultLimit)")
	fs.Int64Var(&f.seed, "seed", 0, "replay a run's tie-break seed")
	fs.BoolVar(&f.asJSON, "json", false, "print the full response as JSON")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "seed" {
			f.seedSet = true
		}
	})
	return f, nil
}

// needsStore reports whether a recommend run reads the neighborhood list or the
// signal cache from SQLite.
func needsStore(f recommendFlags, cfg config.Config) bool {
	if f.neighborhoods == "" {
		return true
	}
	return cfg.Signals.BaseURL != "" && cfg.Storage.CacheTTL > 0
}

func cmdRecommend() error {
	f, err := parseRecommendFlags(os.Args[2:])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runRecommend(ctx, f, cfg, os.Stdout)
}

func runRecommend(ctx context.Context, f recommendFlags, cfg config.Config, out io.Writer) error {
	p, err := loadProfile(f.profilePath)
	if err != nil {
		return err
	}
	var db *sqlitestore.DB
	if needsStore(f, cfg) {
		db, err = sqlitestore.Open(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	var ns []model.Neighborhood
	if f.neighborhoods != "" {
		ns, err = sqlitestore.LoadNeighborhoodsFromFile(f.neighborhoods)
	} else {
		ns, err = db.ListNeighborhoods(ctx)
	}
	if err != nil {
		return err
	}

	provider, _, err := buildProviders(cfg, db)
	if err != nil {
		return err
	}
	r := recommend.New(provider, recommend.Options{Concurrency: cfg.Recommend.Concurrency})
	var resp *model.RecommendationResponse
	if f.seedSet {
		resp, err = r.RecommendWithSeed(ctx, p, ns, f.seed)
	} else {
		resp, err = r.Recommend(ctx, p, ns)
	}
	if err != nil {
		return err
	}

	n := f.limit
	if n <= 0 {
		n = cfg.Recommend.DefaultLimit
	}
	if n > 0 && len(resp.Recommendations) > n {
		resp.Recommendations = resp.Recommendations[:n]
	}
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	for i, rec := range resp.Recommendations {
		fmt.Fprintf(out, "%2d. %-24s final=%7.2f base=%7.2f noise=%+.2f tier=%s\n",
			i+1, rec.Name, rec.FinalScore, rec.BaseScore, rec.AppliedNoise, rec.LifestyleExtras.SalaryTier)
	}
	fmt.Fprintf(out, "run=%s seed=%d total=%d\n", resp.Metadata.RunID, resp.Metadata.Seed, resp.Metadata.TotalNeighborhoods)
	return nil
}

func cmdServe() error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "./vecindario.yaml", "config path")
	addr := fs.String("addr", "", "listen address (overrides server.addr)")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	db, err := sqlitestore.Open(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	provider, upstream, err := buildProviders(cfg, db)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(cfg.Metrics.Addr)
	if cfg.Signals.BaseURL != "" && cfg.Warm.Interval > 0 {
		go func() { _ = jobs.WarmLoop(ctx, db, upstream, cfg.Storage.CacheTTL, cfg.Warm.Interval) }()
	}

	r := recommend.New(provider, recommend.Options{Concurrency: cfg.Recommend.Concurrency})
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewServer(r, db, cfg.Recommend.DefaultLimit).Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logging.Info("serve_listening", map[string]any{"addr": cfg.Server.Addr})

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logging.Info("serve_shutdown", nil)
	return srv.Shutdown(shutdownCtx)
}

func cmdWarm() error {
	fs := flag.NewFlagSet("warm", flag.ExitOnError)
	cfgPath := fs.String("config", "./vecindario.yaml", "config path")
	loop := fs.Bool("loop", false, "keep refreshing every warm.interval")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if cfg.Signals.BaseURL == "" {
		return errors.New("warm: signals.baseURL is not configured")
	}
	db, err := sqlitestore.Open(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	_, upstream, err := buildProviders(cfg, db)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *loop {
		if cfg.Warm.Interval <= 0 {
			return errors.New("warm: warm.interval must be positive with -loop")
		}
		err := jobs.WarmLoop(ctx, db, upstream, cfg.Storage.CacheTTL, cfg.Warm.Interval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	res, err := jobs.WarmOnce(ctx, db, upstream, cfg.Storage.CacheTTL)
	if err != nil {
		return err
	}
	fmt.Printf("refreshed=%d failed=%d purged=%d\n", res.Refreshed, res.Failed, res.Purged)
	return nil
}
