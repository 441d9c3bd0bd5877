package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	settingsPath    string
	apiKey          string
	instructionPath string
	schemaPath      string
	dbPath          string
	csvPath         string
	jsonPath        string
	runTimeout      time.Duration
	debugMode       bool
)

var rootCmd = &cobra.Command{
	Use:   "newscrawl",
	Short: "Scrape a university news listing into structured story records",
	Long: `Crawls the configured news listing page by page, extracts structured
story records with an LLM, filters incomplete and duplicate records, and
persists the result for the dashboard.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCrawl()
	},
}

func init() {
	rootCmd.Flags().StringVar(&settingsPath, "config", "", "Path to settings YAML file")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "Anthropic API key")
	rootCmd.Flags().StringVar(&instructionPath, "instruction", "", "Path to custom extraction instruction file")
	rootCmd.Flags().StringVar(&schemaPath, "schema", "", "Path to custom story schema file")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.Flags().StringVar(&csvPath, "csv", "", "Path to CSV export")
	rootCmd.Flags().StringVar(&jsonPath, "json", "", "Path to JSON export")
	rootCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "Overall run timeout")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

func runCrawl() error {
	if debugMode {
		log.SetLevel(log.DebugLevel)
	}

	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key required: use --api-key flag or ANTHROPIC_API_KEY environment variable")
	}

	if err := ensureConfigExists(); err != nil {
		return err
	}

	overrides := &ConfigOverrides{}
	if settingsPath != "" {
		overrides.SettingsPath = &settingsPath
	}
	if instructionPath != "" {
		overrides.InstructionPath = &instructionPath
	}
	if schemaPath != "" {
		overrides.SchemaPath = &schemaPath
	}

	config, err := NewConfig(overrides)
	if err != nil {
		return err
	}
	applyOutputFlags(config.Settings)

	browser, err := NewBrowser(config.Settings)
	if err != nil {
		return err
	}
	defer browser.Close()

	extractor, err := NewStoryExtractor(apiKey, config)
	if err != nil {
		return err
	}

	fetcher := NewPageFetcher(browser, config.Settings)
	scraper := NewScraper(config.Settings, fetcher, extractor)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	spin := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	spin.Suffix = " crawling news pages..."
	spin.Start()
	report := scraper.Run(ctx)
	spin.Stop()

	if len(report.Stories) == 0 {
		log.Warn("no stories found")
	}

	return saveResults(config.Settings, report)
}

// applyOutputFlags lets CLI flags win over settings file values.
func applyOutputFlags(settings *Settings) {
	if dbPath != "" {
		settings.Output.Database = dbPath
	}
	if csvPath != "" {
		settings.Output.CSV = csvPath
	}
	if jsonPath != "" {
		settings.Output.JSON = jsonPath
	}
}

// saveResults persists the run and writes the dashboard export files.
func saveResults(settings *Settings, report *CrawlReport) error {
	store, err := NewStoryStore(settings.Output.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveRun(report); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	log.Info("run saved", "database", settings.Output.Database, "run_id", report.RunID)

	if settings.Output.CSV != "" {
		if err := WriteCSV(settings.Output.CSV, report.Stories); err != nil {
			return err
		}
		log.Info("wrote CSV export", "path", settings.Output.CSV)
	}
	if settings.Output.JSON != "" {
		if err := WriteJSON(settings.Output.JSON, report.Stories); err != nil {
			return err
		}
		log.Info("wrote JSON export", "path", settings.Output.JSON)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
