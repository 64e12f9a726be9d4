package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/geodossier"
	"github.com/fwojciec/geodossier/analyze"
	"github.com/fwojciec/geodossier/cel"
	"github.com/fwojciec/geodossier/correlate"
	"github.com/fwojciec/geodossier/docx"
	"github.com/fwojciec/geodossier/etree"
	"github.com/fwojciec/geodossier/fpdf"
	"github.com/fwojciec/geodossier/fs"
	"github.com/fwojciec/geodossier/gemini"
	"github.com/fwojciec/geodossier/gofeed"
	"github.com/fwojciec/geodossier/goquery"
	"github.com/fwojciec/geodossier/harvest"
	geohttp "github.com/fwojciec/geodossier/http"
	"github.com/fwojciec/geodossier/nominatim"
	"github.com/fwojciec/geodossier/prometheus"
	"github.com/fwojciec/geodossier/redis"
	"github.com/fwojciec/geodossier/rod"
	"github.com/fwojciec/geodossier/s3"
	geoslog "github.com/fwojciec/geodossier/slog"
	"github.com/fwojciec/geodossier/sqlite"
	"github.com/fwojciec/geodossier/yaml"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		// Application errors have already been reported by the command.
		if geodossier.ErrorCode(err) == geodossier.EINTERNAL {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when neither --db nor GEODOSSIER_DB is set.
	DBPath string

	// SQLite database used by the vector index services.
	DB *sqlite.DB

	// Services for end-to-end testing.
	IndexService geodossier.IndexService
	VectorIndex  geodossier.VectorIndex

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("geodossier"),
		kong.Description("Territorial intelligence dossiers for addresses in the configured jurisdictions."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'geodossier --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := yaml.LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", geodossier.ErrorMessage(err))
		fmt.Fprintln(stderr, "Hint: Set GEODOSSIER_CONFIG or --config to a valid YAML file")
		return err
	}
	deps.Config = cfg

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	defer m.Close()

	switch command := strings.Fields(kongCtx.Command()); command[0] {
	case "analyze":
		if err := m.openDB(cli.DB, stderr); err != nil {
			return err
		}
		if err := m.wireAnalyze(ctx, cli, deps); err != nil {
			return err
		}
	case "index":
		if err := m.openDB(cli.DB, stderr); err != nil {
			return err
		}
		deps.Index = m.IndexService
		if len(command) > 1 && command[1] == "add" {
			if err := m.wireEmbedding(ctx, cli.APIKey, gemini.TaskRetrievalDocument, deps); err != nil {
				return err
			}
			if deps.Embedder != nil {
				tokens, err := gemini.NewTokenCounter(gemini.TokenizerModel)
				if err != nil {
					return fmt.Errorf("failed to create token counter: %w", err)
				}
				deps.Tokens = tokens
			}
		}
	}

	return kongCtx.Run(deps)
}

// openDB opens the vector index database and wires the services over it.
func (m *Main) openDB(path string, stderr io.Writer) error {
	if path == "" {
		path = m.DBPath
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set GEODOSSIER_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.IndexService = sqlite.NewIndexService(m.DB)
	m.VectorIndex = sqlite.NewVectorIndex(m.DB)
	return nil
}

// wireEmbedding connects a Gemini embedder when an API key is available.
// Without a key deps.Embedder stays nil.
func (m *Main) wireEmbedding(ctx context.Context, apiKey, taskType string, deps *Dependencies) error {
	if apiKey == "" {
		return nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	deps.Embedder = geoslog.NewLoggingEmbedder(
		gemini.NewEmbedder(client, deps.Config.Correlation.EmbeddingModel, taskType),
		deps.Logger,
	)
	return nil
}

// wireAnalyze assembles the analysis pipeline from the configuration and
// the analyze command flags.
func (m *Main) wireAnalyze(ctx context.Context, cli *CLI, deps *Dependencies) error {
	cfg := deps.Config
	logger := deps.Logger
	cmd := cli.Analyze

	fetcher, err := m.newFetcher(cmd.Browser, cfg, deps.Stderr)
	if err != nil {
		return err
	}
	fetcher = geoslog.NewLoggingFetcher(fetcher, logger)
	if cmd.MetricsFile != "" {
		deps.Metrics = prometheus.NewMetrics()
		fetcher = prometheus.NewFetcher(fetcher, deps.Metrics)
	}

	limiter, err := m.newLimiter(ctx, cfg.Harvest, deps.Stderr)
	if err != nil {
		return err
	}

	var filter geodossier.SourceFilter
	if len(cfg.Harvest.Exclude) > 0 {
		f, err := cel.NewSourceFilter(cfg.Harvest.Exclude)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", geodossier.ErrorMessage(err))
			fmt.Fprintln(deps.Stderr, "Hint: harvest.exclude rules are CEL expressions such as source.site == \"facebook\"")
			return err
		}
		f.Logger = logger
		filter = f
	}

	geocoder := nominatim.NewGeocoder(cfg.Geocoding.UserAgent,
		nominatim.WithBaseURL(cfg.Geocoding.BaseURL),
		nominatim.WithLanguage(cfg.Geocoding.Language),
		nominatim.WithTimeout(cfg.Geocoding.Timeout),
	)

	indexID := cfg.Correlation.IndexID
	if cmd.Index != "" {
		indexID = cmd.Index
	}
	if indexID != "" {
		if err := m.wireEmbedding(ctx, cli.APIKey, gemini.TaskRetrievalQuery, deps); err != nil {
			return err
		}
	}

	correlator := &correlate.Client{
		Embedder: deps.Embedder,
		Index:    geoslog.NewLoggingVectorIndex(m.VectorIndex, logger),
		Limit:    cfg.Correlation.Limit,
		Timeout:  cfg.Correlation.Timeout,
		Logger:   logger,
	}

	var compiler geodossier.Compiler = fpdf.NewCompiler(cfg.Dossier)
	if cmd.Format == "docx" {
		compiler = docx.NewCompiler(cfg.Dossier)
	}

	store, err := newStore(ctx, cmd.Output, cfg.Storage, deps.Stderr)
	if err != nil {
		return err
	}
	deps.Store = store

	var analyzer geodossier.Analyzer = &analyze.Analyzer{
		Resolver: analyze.NewResolver(geoslog.NewLoggingGeocoder(geocoder, logger), cfg),
		Harvester: &harvest.Harvester{
			Fetcher:     fetcher,
			Surfaces:    buildSurfaces(cfg.Harvest),
			Queries:     cfg.Harvest.Queries,
			PerQueryCap: cfg.Harvest.PerQueryCap,
			Timeout:     cfg.Harvest.Timeout,
			Limiter:     limiter,
			Filter:      filter,
			Logger:      logger,
		},
		Correlator: correlator,
		Compiler:   geoslog.NewLoggingCompiler(compiler, logger),
		IndexID:    indexID,
		Progress: func(stage analyze.Stage) {
			logger.Debug("analysis stage", "stage", string(stage))
		},
		Logger: logger,
	}
	if deps.Metrics != nil {
		analyzer = prometheus.NewAnalyzer(analyzer, deps.Metrics)
	}
	deps.Analyzer = analyzer
	return nil
}

// newFetcher returns the plain HTTP fetcher, or a headless browser when
// requested. The fetcher is closed with Main.
func (m *Main) newFetcher(browser bool, cfg geodossier.Config, stderr io.Writer) (geodossier.Fetcher, error) {
	if browser {
		f, err := rod.NewFetcher(
			rod.WithFetchTimeout(cfg.Harvest.Timeout),
			rod.WithUserAgent(cfg.Harvest.UserAgent),
			rod.WithLanguage(cfg.Geocoding.Language),
		)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		m.closers = append(m.closers, f)
		return f, nil
	}

	f := geohttp.NewFetcher(
		geohttp.WithTimeout(cfg.Harvest.Timeout),
		geohttp.WithUserAgent(cfg.Harvest.UserAgent),
		geohttp.WithLanguage(cfg.Geocoding.Language),
	)
	m.closers = append(m.closers, f)
	return f, nil
}

// newLimiter returns the in-process host limiter, or the Redis-backed one
// when a shared pacing server is configured.
func (m *Main) newLimiter(ctx context.Context, cfg geodossier.HarvestConfig, stderr io.Writer) (harvest.Limiter, error) {
	if cfg.RedisURL == "" {
		return harvest.NewHostLimiter(cfg.Pacing), nil
	}

	l, err := redis.NewHostLimiter(cfg.RedisURL, cfg.Pacing)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", geodossier.ErrorMessage(err))
		fmt.Fprintln(stderr, "Hint: harvest.redis_url must look like redis://host:6379/0")
		return nil, err
	}
	m.closers = append(m.closers, l)
	if err := l.Ping(ctx); err != nil {
		fmt.Fprintln(stderr, "Hint: Remove harvest.redis_url to pace requests in-process")
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return l, nil
}

// newStore returns the object store for s3:// outputs and the directory
// store otherwise.
func newStore(ctx context.Context, output string, cfg geodossier.StorageConfig, stderr io.Writer) (geodossier.ArtifactStore, error) {
	if !strings.HasPrefix(output, s3.Scheme) {
		return fs.NewArtifactStore(output), nil
	}

	bucket, prefix, err := s3.ParseLocation(output)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", geodossier.ErrorMessage(err))
		return nil, err
	}
	client, err := s3.NewClient(ctx, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Set AWS_REGION and AWS credentials, or storage.region in the config")
		return nil, err
	}
	return s3.NewArtifactStore(client, bucket, prefix), nil
}

// buildSurfaces binds each configured surface to the parser for its format.
func buildSurfaces(cfg geodossier.HarvestConfig) map[string]geodossier.SearchSurface {
	surfaces := make(map[string]geodossier.SearchSurface, len(cfg.Surfaces))
	for name, s := range cfg.Surfaces {
		var parser geodossier.ResultParser
		switch s.Format {
		case geodossier.SurfaceFormatRSS:
			parser = etree.NewFeedParser()
		case geodossier.SurfaceFormatFeed:
			parser = gofeed.NewFeedParser(s.MaxAge)
		default:
			parser = goquery.NewResultParser(s.Selector)
		}
		surfaces[name] = geodossier.SearchSurface{Name: name, URL: s.URL, Parser: parser}
	}
	return surfaces
}

func defaultDBPath() string {
	if path := os.Getenv("GEODOSSIER_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "geodossier.db"
	}
	dir := filepath.Join(home, ".geodossier")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "index.db")
}
