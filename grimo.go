// Package grimo reads a PostgreSQL schema into a resolved type graph and
// builds queries against it. It is the public face of the internal
// packages: discovery, the fluent client, transports and typed decoding.
package grimo

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/errilaz/grimo/internal/catalog"
	"github.com/errilaz/grimo/internal/client"
	"github.com/errilaz/grimo/internal/discover"
	"github.com/errilaz/grimo/internal/dsn"
	"github.com/errilaz/grimo/internal/generate"
	"github.com/errilaz/grimo/internal/ignore"
	"github.com/errilaz/grimo/internal/ir"
	"github.com/errilaz/grimo/internal/middleware"
	"github.com/errilaz/grimo/internal/query"
	"github.com/errilaz/grimo/internal/resolver"
	"github.com/errilaz/grimo/internal/transport"
)

type (
	Schema    = ir.Schema
	Table     = ir.Table
	View      = ir.View
	Function  = ir.Function
	Attribute = ir.Attribute
	ApiType   = ir.ApiType

	Row       = query.Row
	Result    = query.Result
	Operator  = query.Operator
	Direction = query.Direction

	Client    = client.Client
	Range     = client.Range
	Transport = client.Transport
)

// Sort directions.
const (
	Asc  = query.Asc
	Desc = query.Desc
)

var (
	ErrNoResult       = client.ErrNoResult
	ErrBuilderMisuse  = client.ErrBuilderMisuse
	ErrUnresolvedType = resolver.ErrUnresolvedType
)

// DatabaseConfig holds connection details for a PostgreSQL database.
type DatabaseConfig struct {
	Host     string // Database server host
	Port     int    // Database server port
	Database string // Database name
	User     string // Database user
	Password string // Database password (optional)
	Schema   string // Target schema name (default: "public")
}

// DSN returns a key/value connection string for the pgx driver.
func (c DatabaseConfig) DSN() string {
	return dsn.Params{
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		User:     c.User,
		Password: c.Password,
	}.String()
}

// DiscoverOptions configures type resolution during discovery.
type DiscoverOptions struct {
	DatabaseConfig
	Overrides  map[string]string // Type name to api name, checked before everything else
	Strings    []string          // Extra type names resolved as strings
	Numbers    []string          // Extra type names resolved as numbers
	IgnoreFile string            // Path of a .grimoignore file (optional)
}

// Discover connects to the database and returns its resolved schema.
func Discover(ctx context.Context, opts DiscoverOptions) (*Schema, error) {
	db, err := sql.Open("pgx", opts.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	return DiscoverDB(ctx, db, opts)
}

// DiscoverDB reads the schema through an existing connection. Only the
// Schema field of the embedded DatabaseConfig is used.
func DiscoverDB(ctx context.Context, db *sql.DB, opts DiscoverOptions) (*Schema, error) {
	var ig *ignore.Config
	if opts.IgnoreFile != "" {
		var err error
		if ig, err = ignore.Load(opts.IgnoreFile); err != nil {
			return nil, fmt.Errorf("failed to load ignore file: %w", err)
		}
	}
	return discover.Run(ctx, catalog.NewInspector(db), discover.Options{
		Schema:    opts.Schema,
		Overrides: opts.Overrides,
		Strings:   opts.Strings,
		Numbers:   opts.Numbers,
		Ignore:    ig,
	})
}

// New creates a query client. schema may be nil; when given, builders check
// column names against it.
func New(t Transport, schema *Schema) *Client {
	return client.New(t, schema)
}

// NewDB returns a transport running compiled SQL on db.
func NewDB(db *sql.DB) Transport {
	return transport.NewDB(db)
}

// NewRemote returns a transport talking to a Handler at baseURL.
func NewRemote(baseURL string, c *http.Client) Transport {
	return transport.NewHTTP(baseURL, c)
}

// Handler serves t over HTTP under prefix, for use with NewRemote.
func Handler(t Transport, prefix string) http.Handler {
	return middleware.New(t, prefix)
}

// Generate renders a typed Go adapter for schema in package pkg.
func Generate(schema *Schema, pkg string) ([]byte, error) {
	return generate.Generate(schema, generate.Options{Package: pkg})
}

// Decode converts untyped rows into T by json tag.
func Decode[T any](rows []Row) ([]T, error) {
	return client.Decode[T](rows)
}

// DecodeOne converts one untyped row into T by json tag.
func DecodeOne[T any](row Row) (T, error) {
	return client.DecodeOne[T](row)
}
