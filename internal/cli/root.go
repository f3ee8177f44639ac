// Package cli implements the skillgraph command line: the same analyses the MCP
// server offers, run once against a local SQLite corpus.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/honeycarbs/skillgraph/internal/domain"
	"github.com/honeycarbs/skillgraph/internal/domain/analysis"
	sqlitestorage "github.com/honeycarbs/skillgraph/internal/storage/sqlite"
	"github.com/honeycarbs/skillgraph/pkg/logging"
	n4j "github.com/honeycarbs/skillgraph/pkg/neo4j"
	"github.com/honeycarbs/skillgraph/pkg/sqlite"
)

const envPrefix = "SKILLGRAPH"

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

type app struct {
	v       *viper.Viper
	cfgFile string
	log     *logging.Logger
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree with its own configuration registry
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "skillgraph",
		Short: "Skill coverage and co-occurrence analytics over job postings",
		Long: `skillgraph reads job postings annotated with required skills and answers
which skills to learn next, which skills are requested together, and
which postings are nearly within reach.

Examples:
  skillgraph coverage --known python,sql
  skillgraph graph --min-edge-weight 3 --persist
  skillgraph gaps --known python --max-missing 2
  skillgraph demand --limit 20 --format json
  skillgraph import --neo4j-uri bolt://localhost:7687`,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.init() },
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.skillgraph.yaml)")
	flags.String("db", "jobs.db", "SQLite corpus path")
	flags.String("format", FormatText, "Output format: text, json")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.Bool("required-only", true, "Only count skills flagged as required")
	flags.Float64("max-salary", 0, "Drop postings above this average salary (0 keeps all)")
	flags.String("neo4j-uri", "", "Neo4j URI for import and --persist")
	flags.String("neo4j-username", "neo4j", "Neo4j username")
	flags.String("neo4j-password", "", "Neo4j password")
	flags.String("neo4j-database", "", "Neo4j database (default: server default)")

	for key, flag := range map[string]string{
		"db":             "db",
		"format":         "format",
		"log_level":      "log-level",
		"required_only":  "required-only",
		"max_salary":     "max-salary",
		"neo4j.uri":      "neo4j-uri",
		"neo4j.username": "neo4j-username",
		"neo4j.password": "neo4j-password",
		"neo4j.database": "neo4j-database",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	a.v.SetDefault("max_skills", analysis.DefaultDefaults.MaxSkills)
	a.v.SetDefault("min_edge_weight", analysis.DefaultDefaults.MinEdgeWeight)
	a.v.SetDefault("min_node_degree", analysis.DefaultDefaults.MinNodeDegree)
	a.v.SetDefault("max_missing", analysis.DefaultDefaults.MaxMissing)

	root.AddCommand(
		newCoverageCmd(a),
		newGraphCmd(a),
		newGapsCmd(a),
		newDemandCmd(a),
		newImportCmd(a),
	)
	return root
}

// init reads the config file and environment, then validates the shared settings
func (a *app) init() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(home)
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".skillgraph")
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	switch a.format() {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown format %q (want text or json)", a.v.GetString("format"))
	}

	a.log = logging.New(a.v.GetString("log_level"), "console")
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug("using config file", "path", used)
	}
	return nil
}

func (a *app) format() string {
	return strings.ToLower(a.v.GetString("format"))
}

// bind attaches command-local flags to configuration keys. Binding happens when
// the command runs so keys never point at another command's flags.
func (a *app) bind(cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) filter() domain.PostingFilter {
	f := domain.PostingFilter{RequiredOnly: a.v.GetBool("required_only")}
	if maxSalary := a.v.GetFloat64("max_salary"); maxSalary > 0 {
		f.MaxSalary = &maxSalary
	}
	return f
}

// openCorpus opens the SQLite corpus, creating the schema if the file is new
func (a *app) openCorpus(ctx context.Context) (*sqlite.Client, error) {
	client, err := sqlite.NewClient(sqlite.Config{Path: a.v.GetString("db")})
	if err != nil {
		return nil, err
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}
	return client, nil
}

// openService builds an analysis service over the SQLite corpus. The returned
// func releases the database.
func (a *app) openService(ctx context.Context, opts ...analysis.Option) (*analysis.Service, func(), error) {
	client, err := a.openCorpus(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]analysis.Option{
		analysis.WithFilter(a.filter()),
		analysis.WithDefaults(analysis.Defaults{
			MaxSkills:     a.v.GetInt("max_skills"),
			MinEdgeWeight: a.v.GetInt("min_edge_weight"),
			MinNodeDegree: a.v.GetInt("min_node_degree"),
			MaxMissing:    a.v.GetInt("max_missing"),
		}),
	}, opts...)

	svc := analysis.NewService(sqlitestorage.NewPostingRepository(client), a.log.Named("analysis"), opts...)
	return svc, func() { _ = client.Close(ctx) }, nil
}

func (a *app) openNeo4j() (*n4j.Client, error) {
	uri := a.v.GetString("neo4j.uri")
	if uri == "" {
		return nil, errors.New("neo4j: --neo4j-uri (or SKILLGRAPH_NEO4J_URI) is required")
	}
	return n4j.NewClient(n4j.Config{
		URI:      uri,
		Username: a.v.GetString("neo4j.username"),
		Password: a.v.GetString("neo4j.password"),
		Database: a.v.GetString("neo4j.database"),
	})
}
