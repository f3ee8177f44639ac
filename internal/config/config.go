package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Source names a posting corpus backend
const (
	SourceSQLite = "sqlite"
	SourceNeo4j  = "neo4j"
)

// Config contains runtime settings for the MCP server
type Config struct {
	LogLevel  string
	LogFormat string // json or console
	Host      string // default 0.0.0.0
	Port      string // default PORT env or 8080

	Source string // sqlite or neo4j
	SQLite struct {
		Path string
	}
	Neo4j struct {
		URI      string
		Username string
		Password string
		Database string
	}
	Sheets struct {
		CredentialsPath string
	}

	Analysis struct {
		MaxSkills     int
		MinEdgeWeight int
		MinNodeDegree int
		MaxMissing    int
		MaxSalary     *float64
		RequiredOnly  bool
	}
}

// Load populates config from environment variables
func Load() (Config, error) {
	cfg := Config{
		LogLevel:  "info",
		LogFormat: "json",
		Host:      "0.0.0.0",
		Port:      "8080",
		Source:    SourceSQLite,
	}
	cfg.SQLite.Path = "jobs.db"
	cfg.Analysis.MaxSkills = 30
	cfg.Analysis.MinEdgeWeight = 5
	cfg.Analysis.MinNodeDegree = 3
	cfg.Analysis.MaxMissing = 3
	cfg.Analysis.RequiredOnly = true

	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")
	setString(&cfg.Host, "MCP_HOST")
	setString(&cfg.Port, "PORT")
	setString(&cfg.Source, "SKILLS_SOURCE")
	setString(&cfg.SQLite.Path, "SQLITE_PATH")

	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.Neo4j.Database = os.Getenv("NEO4J_DATABASE")
	cfg.Sheets.CredentialsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")

	var missingVars, invalidVars []string

	for _, v := range []struct {
		key string
		dst *int
	}{
		{"MAX_SKILLS", &cfg.Analysis.MaxSkills},
		{"MIN_EDGE_WEIGHT", &cfg.Analysis.MinEdgeWeight},
		{"MIN_NODE_DEGREE", &cfg.Analysis.MinNodeDegree},
		{"MAX_MISSING", &cfg.Analysis.MaxMissing},
	} {
		if err := setInt(v.dst, v.key); err != nil {
			invalidVars = append(invalidVars, v.key)
		}
	}

	if v := os.Getenv("MAX_SALARY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			invalidVars = append(invalidVars, "MAX_SALARY")
		} else {
			cfg.Analysis.MaxSalary = &f
		}
	}

	if v := os.Getenv("REQUIRED_ONLY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalidVars = append(invalidVars, "REQUIRED_ONLY")
		} else {
			cfg.Analysis.RequiredOnly = b
		}
	}

	cfg.Source = strings.ToLower(cfg.Source)
	switch cfg.Source {
	case SourceSQLite:
		if cfg.SQLite.Path == "" {
			missingVars = append(missingVars, "SQLITE_PATH")
		}
	case SourceNeo4j:
		if cfg.Neo4j.URI == "" {
			missingVars = append(missingVars, "NEO4J_URI")
		}
		if cfg.Neo4j.Username == "" {
			missingVars = append(missingVars, "NEO4J_USERNAME")
		}
		if cfg.Neo4j.Password == "" {
			missingVars = append(missingVars, "NEO4J_PASSWORD")
		}
	default:
		invalidVars = append(invalidVars, "SKILLS_SOURCE")
	}

	var problems []string
	if len(missingVars) > 0 {
		problems = append(problems, fmt.Sprintf("missing required environment variables: %s", strings.Join(missingVars, ", ")))
	}
	if len(invalidVars) > 0 {
		problems = append(problems, fmt.Sprintf("invalid environment variables: %s", strings.Join(invalidVars, ", ")))
	}
	if len(problems) > 0 {
		return cfg, errors.New(strings.Join(problems, "; "))
	}

	return cfg, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}
