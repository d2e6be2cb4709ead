// Package discover turns catalog rows into a resolved schema graph.
package discover

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/errilaz/grimo/internal/catalog"
	"github.com/errilaz/grimo/internal/ignore"
	"github.com/errilaz/grimo/internal/ir"
	"github.com/errilaz/grimo/internal/logger"
)

// DefaultSchema is used when Options.Schema is empty.
const DefaultSchema = "public"

// Options configure a discovery run.
type Options struct {
	Schema    string
	Overrides map[string]string
	Strings   []string
	Numbers   []string
	Ignore    *ignore.Config
}

func (o Options) schema() string {
	if o.Schema == "" {
		return DefaultSchema
	}
	return o.Schema
}

// Rows are the complete results of the six catalog reads.
type Rows struct {
	Enums      []catalog.EnumRow
	Composites []catalog.CompositeRow
	Tables     []catalog.TableRow
	Views      []catalog.ViewRow
	Domains    []catalog.DomainRow
	Functions  []catalog.FunctionRow
}

// Read issues the six catalog reads concurrently and waits for all of them.
// The first failure cancels the others and is returned.
func Read(ctx context.Context, reader catalog.Reader, schema string) (*Rows, error) {
	var rows Rows
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		rows.Enums, err = reader.Enums(ctx, schema)
		return wrap("enums", err)
	})
	g.Go(func() (err error) {
		rows.Composites, err = reader.Composites(ctx, schema)
		return wrap("composite types", err)
	})
	g.Go(func() (err error) {
		rows.Tables, err = reader.Tables(ctx, schema)
		return wrap("tables", err)
	})
	g.Go(func() (err error) {
		rows.Views, err = reader.Views(ctx, schema)
		return wrap("views", err)
	})
	g.Go(func() (err error) {
		rows.Domains, err = reader.Domains(ctx, schema)
		return wrap("domains", err)
	})
	g.Go(func() (err error) {
		rows.Functions, err = reader.Functions(ctx, schema)
		return wrap("functions", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &rows, nil
}

// Run reads the catalog and assembles the schema graph.
func Run(ctx context.Context, reader catalog.Reader, opts Options) (*ir.Schema, error) {
	log := logger.Get()
	start := time.Now()

	schema := opts.schema()
	log.Debug("Discovering schema", "schema", schema)

	rows, err := Read(ctx, reader, schema)
	if err != nil {
		return nil, err
	}

	graph, err := Assemble(rows, opts)
	if err != nil {
		return nil, err
	}

	log.Debug("Discovered schema",
		"schema", schema,
		"enums", len(graph.Enums),
		"composites", len(graph.Composites),
		"tables", len(graph.Tables),
		"views", len(graph.Views),
		"domains", len(graph.Domains),
		"functions", len(graph.Functions),
		"duration", time.Since(start),
	)
	return graph, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to discover %s: %w", what, err)
	}
	return nil
}
