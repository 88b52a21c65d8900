package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/datastrand/schematic"
	"github.com/datastrand/schematic/factory"
)

var (
	jsonOutput bool
	outputFile string
	schemaDir  string

	dbHost     string
	dbPort     int
	dbName     string
	dbUser     string
	dbPassword string
	dbSSLMode  string
)

var rootCmd = &cobra.Command{
	Use:          "schematic",
	Short:        "Validate schema documents and synthesize PostgreSQL DDL",
	Long:         `Schematic parses hybrid relational+JSONB schema documents, validates their structure (primary keys, foreign key integrity, cycles, naming) and synthesizes deterministic PostgreSQL DDL.`,
	SilenceUsage: true,
}

var validateCmd = &cobra.Command{
	Use:   "validate <schema-file>",
	Short: "Validate a schema document and print diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var generateCmd = &cobra.Command{
	Use:   "generate <schema-file>",
	Short: "Generate PostgreSQL DDL from a validated schema document",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

var applyCmd = &cobra.Command{
	Use:   "apply <schema-file>",
	Short: "Generate DDL and execute it against PostgreSQL in one transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runApply,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List schema documents in a directory",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	validateCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the diagnostics report as JSON")

	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")

	applyCmd.Flags().StringVar(&dbHost, "db-host", getenvDefault("DB_HOST", "localhost"), "database host")
	applyCmd.Flags().IntVar(&dbPort, "db-port", getenvDefaultInt("DB_PORT", 5432), "database port")
	applyCmd.Flags().StringVar(&dbName, "db-name", getenvDefault("DB_NAME", "schematic"), "database name")
	applyCmd.Flags().StringVar(&dbUser, "db-user", getenvDefault("DB_USER", "postgres"), "database user")
	applyCmd.Flags().StringVar(&dbPassword, "db-password", getenvDefault("DB_PASSWORD", ""), "database password")
	applyCmd.Flags().StringVar(&dbSSLMode, "db-ssl-mode", getenvDefault("DB_SSL_MODE", "disable"), "database sslmode")

	listCmd.Flags().StringVar(&schemaDir, "dir", ".", "directory containing schema documents")

	rootCmd.AddCommand(validateCmd, generateCmd, applyCmd, listCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	syn, err := factory.NewSynthesizerWithConfig(schematic.DefaultConfig(), nil, nil)
	if err != nil {
		return err
	}
	doc, err := loadDocumentFile(args[0])
	if err != nil {
		return err
	}

	report := syn.Validate(doc)
	if jsonOutput {
		if err := report.RenderJSON(os.Stdout); err != nil {
			return err
		}
	} else {
		report.Render(os.Stdout)
	}

	if !report.Pass() {
		return fmt.Errorf("%d validation error(s)", len(report.Errors()))
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	syn, err := factory.NewSynthesizerWithConfig(schematic.DefaultConfig(), nil, nil)
	if err != nil {
		return err
	}
	doc, err := loadDocumentFile(args[0])
	if err != nil {
		return err
	}

	report := syn.Validate(doc)
	if !report.Pass() {
		report.Render(os.Stderr)
		return fmt.Errorf("refusing to generate DDL: %d validation error(s)", len(report.Errors()))
	}

	ddl, err := syn.Generate(doc, report)
	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Print(ddl)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(ddl), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("wrote %d bytes to %s\n", len(ddl), outputFile)
	return nil
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	resolveDBEnv(cmd)

	doc, err := loadDocumentFile(args[0])
	if err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, buildConnString())
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	syn, err := factory.NewSynthesizerWithConfig(schematic.DefaultConfig(), nil, pool)
	if err != nil {
		return err
	}

	report := syn.Validate(doc)
	if !report.Pass() {
		report.Render(os.Stderr)
		return fmt.Errorf("refusing to apply DDL: %d validation error(s)", len(report.Errors()))
	}

	runID, err := syn.Apply(ctx, doc, report)
	if err != nil {
		return err
	}
	fmt.Printf("applied schema document '%s' (run %s)\n", doc.Name, runID)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	registry, err := factory.NewDirRegistry(schemaDir)
	if err != nil {
		return err
	}
	for _, name := range registry.ListDocuments() {
		fmt.Println(name)
	}
	return nil
}

// loadDocumentFile reads and parses a schema file, dispatching on extension.
// The raw document is shape-checked against the meta-schema before binding so
// grossly malformed input fails with one clear error.
func loadDocumentFile(path string) (*schematic.SchemaDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	name := documentName(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var plain any
		if err := yaml.Unmarshal(data, &plain); err != nil {
			return nil, schematic.NewMalformedDocumentError("invalid YAML: " + err.Error()).WithCause(err)
		}
		if err := schematic.ValidateDocumentShape(plain); err != nil {
			return nil, err
		}
		return schematic.FromYAML(name, data)
	default:
		var plain any
		if err := json.Unmarshal(data, &plain); err != nil {
			return nil, schematic.NewMalformedDocumentError("invalid JSON: " + err.Error()).WithCause(err)
		}
		if err := schematic.ValidateDocumentShape(plain); err != nil {
			return nil, err
		}
		return schematic.FromJSON(name, data)
	}
}

// documentName derives the document name from the file path.
func documentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// resolveDBEnv lets values loaded from .env take effect for flags the user
// did not set explicitly (flag defaults are captured before godotenv runs).
func resolveDBEnv(cmd *cobra.Command) {
	if !cmd.Flags().Changed("db-host") {
		dbHost = getenvDefault("DB_HOST", dbHost)
	}
	if !cmd.Flags().Changed("db-port") {
		dbPort = getenvDefaultInt("DB_PORT", dbPort)
	}
	if !cmd.Flags().Changed("db-name") {
		dbName = getenvDefault("DB_NAME", dbName)
	}
	if !cmd.Flags().Changed("db-user") {
		dbUser = getenvDefault("DB_USER", dbUser)
	}
	if !cmd.Flags().Changed("db-password") {
		dbPassword = getenvDefault("DB_PASSWORD", dbPassword)
	}
	if !cmd.Flags().Changed("db-ssl-mode") {
		dbSSLMode = getenvDefault("DB_SSL_MODE", dbSSLMode)
	}
}

func buildConnString() string {
	hostPort := fmt.Sprintf("%s:%d", dbHost, dbPort)

	var userInfo *url.Userinfo
	if dbPassword != "" {
		userInfo = url.UserPassword(dbUser, dbPassword)
	} else {
		userInfo = url.User(dbUser)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   hostPort,
		Path:   "/" + dbName,
	}

	q := url.Values{}
	if dbSSLMode != "" {
		q.Set("sslmode", dbSSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func getenvDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getenvDefaultInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func main() {
	// .env is optional; flags and the environment win over it.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
