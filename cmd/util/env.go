package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/errilaz/grimo/internal/project"
)

// GetEnvWithDefault returns the value of an environment variable or a default value if not set
func GetEnvWithDefault(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvIntWithDefault returns the value of an environment variable as int or a default value if not set
func GetEnvIntWithDefault(envVar string, defaultValue int) int {
	if value := os.Getenv(envVar); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConnectionFlags are the database flags shared by commands that read a
// catalog.
type ConnectionFlags struct {
	Host     string
	Port     int
	DB       string
	User     string
	Password string
	Schema   string
	File     string
}

// AddConnectionFlags registers the connection flags on cmd.
func AddConnectionFlags(cmd *cobra.Command, f *ConnectionFlags) {
	cmd.Flags().StringVar(&f.Host, "host", "localhost", "Database server host (env: PGHOST)")
	cmd.Flags().IntVarP(&f.Port, "port", "p", 5432, "Database server port (env: PGPORT)")
	cmd.Flags().StringVarP(&f.DB, "dbname", "d", "", "Database name (env: PGDATABASE)")
	cmd.Flags().StringVarP(&f.User, "user", "U", "", "Database user name (env: PGUSER)")
	cmd.Flags().StringVar(&f.Password, "password", "", "Database password (env: PGPASSWORD)")
	cmd.Flags().StringVar(&f.Schema, "schema", "public", "Schema to read")
	cmd.Flags().StringVarP(&f.File, "file", "f", "", "Project file (default: nearest grimo.toml, grimo.yaml or grimo.json)")
}

// Resolve fills every flag the user did not set, from the environment
// first and then from the project file, and checks the required values.
func (f *ConnectionFlags) Resolve(cmd *cobra.Command, proj *project.Config) error {
	changed := cmd.Flags().Changed
	if proj == nil {
		proj = &project.Config{}
	}

	if !changed("host") {
		f.Host = GetEnvWithDefault("PGHOST", firstNonEmpty(proj.Host, f.Host))
	}
	if !changed("port") {
		port := f.Port
		if proj.Port != 0 {
			port = proj.Port
		}
		f.Port = GetEnvIntWithDefault("PGPORT", port)
	}
	if !changed("dbname") {
		f.DB = GetEnvWithDefault("PGDATABASE", firstNonEmpty(proj.DBName, f.DB))
	}
	if !changed("user") {
		f.User = GetEnvWithDefault("PGUSER", firstNonEmpty(proj.User, f.User))
	}
	if !changed("password") {
		f.Password = GetEnvWithDefault("PGPASSWORD", f.Password)
	}
	if !changed("schema") && proj.Schema != "" {
		f.Schema = proj.Schema
	}

	if f.DB == "" {
		return fmt.Errorf("database name is required (use --dbname flag or PGDATABASE environment variable)")
	}
	if f.User == "" {
		return fmt.Errorf("database user is required (use --user flag or PGUSER environment variable)")
	}
	return nil
}

// Config returns the connection settings for Connect.
func (f *ConnectionFlags) Config() *ConnectionConfig {
	return &ConnectionConfig{
		Host:            f.Host,
		Port:            f.Port,
		Database:        f.DB,
		User:            f.User,
		Password:        f.Password,
		SSLMode:         "prefer",
		ApplicationName: "grimo",
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
