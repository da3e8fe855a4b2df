package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/models"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/app"
	cfgPkg "github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/config"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/index"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/source"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/server"
)

type Flags struct {
	ConfigPath string
	DataFile   string
	BaseURL    string
	Model      string
	DBUrl      string
	IndexPath  string
	TopK       int
	Rebuild    bool
	Serve      bool
	Addr       string
}

func main() {
	flags := parseFlags()

	if err := run(flags); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() Flags {
	var flags Flags

	flag.StringVar(&flags.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&flags.DataFile, "data", "", "Path to the property spreadsheet (.xlsx or .csv)")
	flag.StringVar(&flags.BaseURL, "ollama-url", "", "Ollama server URL")
	flag.StringVar(&flags.Model, "model", "", "LLM model to use")
	flag.StringVar(&flags.DBUrl, "db-url", "", "PostgreSQL connection string (pgvector backend)")
	flag.StringVar(&flags.IndexPath, "index", "", "Path to the persisted vector index")
	flag.IntVar(&flags.TopK, "top-k", 0, "Number of chunks to retrieve per query")
	flag.BoolVar(&flags.Rebuild, "rebuild", false, "Rebuild the vector index from the source table")
	flag.BoolVar(&flags.Serve, "serve", false, "Run the WebSocket server instead of the chat loop")
	flag.StringVar(&flags.Addr, "addr", ":8080", "Listen address for the WebSocket server")
	flag.Parse()

	return flags
}

// mergeFlags overrides config values with the flags that were explicitly set.
func mergeFlags(cfg *cfgPkg.Config, flags Flags) {
	if flags.DataFile != "" {
		cfg.Source.DataFile = flags.DataFile
	}
	if flags.BaseURL != "" {
		cfg.LLM.BaseURL = flags.BaseURL
		cfg.Embedder.BaseURL = flags.BaseURL
	}
	if flags.Model != "" {
		cfg.LLM.Model = flags.Model
	}
	if flags.DBUrl != "" {
		cfg.Index.Backend = "pgvector"
		cfg.Index.Database.URL = flags.DBUrl
	}
	if flags.IndexPath != "" {
		cfg.Index.Path = flags.IndexPath
	}
	if flags.TopK > 0 {
		cfg.Pipeline.TopK = flags.TopK
	}
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// loadTable fetches the newest spreadsheet from Google Drive when a folder is
// configured and falls back to the local data file when the fetch fails.
func loadTable(ctx context.Context, cfg *cfgPkg.Config) (*models.Table, error) {
	if cfg.Source.Drive.FolderID != "" {
		drv, err := source.NewDriveSource(ctx, cfg.Source.Drive.CredentialsFile, cfg.Source.Drive.FolderID)
		if err == nil {
			table, name, err := drv.FetchLatestTable(ctx)
			if err == nil {
				color.Green("✓ Fetched %s from Google Drive\n", name)
				return table, nil
			}
			color.Yellow("Drive fetch failed (%v), falling back to %s\n", err, cfg.Source.DataFile)
		} else {
			color.Yellow("Drive unavailable (%v), falling back to %s\n", err, cfg.Source.DataFile)
		}
	}

	return source.LoadFile(cfg.Source.DataFile)
}

func rebuildIndex(ctx context.Context, a *app.App, cfg *cfgPkg.Config) error {
	table, err := loadTable(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to load property table: %w", err)
	}
	color.Blue("\nIndexing %d property rows\n", len(table.Rows))

	bar := getSpinner(" Embedding and indexing properties...")
	chunks, err := a.Ingest(ctx, table)
	bar.Finish()
	fmt.Print("\r")
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	color.Green("✓ Indexed %d chunks\n", chunks)
	return nil
}

func run(flags Flags) error {
	// .env is optional; environment still wins over config defaults
	_ = godotenv.Load()

	cfg, err := cfgPkg.LoadConfig(flags.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	mergeFlags(cfg, flags)

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %s\n", e)
		}
		return fmt.Errorf("invalid configuration")
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()

	if flags.Rebuild {
		if err := rebuildIndex(ctx, a, cfg); err != nil {
			return err
		}
	} else if err := a.LoadIndex(ctx); err != nil {
		if os.IsNotExist(err) {
			color.Yellow("No persisted index found, building a fresh one\n")
		} else if errors.Is(err, index.ErrCorruptIndex) {
			color.Yellow("Persisted index unusable (%v), rebuilding\n", err)
		} else {
			return fmt.Errorf("failed to load index: %w", err)
		}
		if err := rebuildIndex(ctx, a, cfg); err != nil {
			return err
		}
	} else {
		color.Green("✓ Loaded index with %d chunks\n", a.IndexSize())
	}

	if flags.Serve {
		return server.Serve(a, flags.Addr)
	}

	return chatLoop(ctx, a)
}

func chatLoop(ctx context.Context, a *app.App) error {
	color.Cyan("\nAsk about our properties in Bali and Yogyakarta (type 'exit' to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()
	sourceLine := color.New(color.Faint).PrintfFunc()

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.ToLower(query) == "exit" {
			break
		}

		spinner := getSpinner(" Searching properties...")
		resp := a.Answer(ctx, query)
		spinner.Finish()
		fmt.Print("\r")

		assistantPrompt("\nAssistant: %s\n", resp.Text)
		for _, src := range resp.Sources {
			sourceLine("  • %s (%.3f)\n", src.Chunk.Record.Title, src.Score)
		}
	}

	return nil
}
