package util

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/errilaz/grimo/internal/catalog"
	"github.com/errilaz/grimo/internal/discover"
	"github.com/errilaz/grimo/internal/ignore"
	"github.com/errilaz/grimo/internal/ir"
	"github.com/errilaz/grimo/internal/logger"
	"github.com/errilaz/grimo/internal/project"
)

// LoadProject loads the project file at path, or the nearest one above the
// working directory when path is empty. It returns nil when there is none.
func LoadProject(path string) (*project.Config, error) {
	if path != "" {
		return project.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return project.Discover(wd)
}

// DiscoverOptions builds discovery options from the project file, loading
// its ignore file.
func DiscoverOptions(schema string, proj *project.Config) (discover.Options, error) {
	wd, err := os.Getwd()
	if err != nil {
		return discover.Options{}, err
	}
	ignorePath := proj.IgnorePath(wd)
	ig, err := ignore.Load(ignorePath)
	if err != nil {
		return discover.Options{}, fmt.Errorf("failed to load ignore file %s: %w", ignorePath, err)
	}
	if ig != nil {
		logger.Get().Debug("Loaded ignore file", "path", ignorePath)
	}

	opts := discover.Options{Schema: schema, Ignore: ig}
	if proj != nil {
		opts.Overrides = proj.Override
		opts.Strings = proj.UDTs.String
		opts.Numbers = proj.UDTs.Number
	}
	return opts, nil
}

// ReadSchema runs the shared front half of every catalog command: project
// file, flag resolution, connection and discovery.
func ReadSchema(ctx context.Context, cmd *cobra.Command, f *ConnectionFlags) (*ir.Schema, *project.Config, error) {
	proj, err := LoadProject(f.File)
	if err != nil {
		return nil, nil, err
	}
	if proj != nil {
		logger.Get().Debug("Loaded project file", "path", proj.Path())
	}
	if err := f.Resolve(cmd, proj); err != nil {
		return nil, nil, err
	}
	opts, err := DiscoverOptions(f.Schema, proj)
	if err != nil {
		return nil, nil, err
	}

	db, err := Connect(ctx, f.Config())
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	schema, err := discover.Run(ctx, catalog.NewInspector(db), opts)
	if err != nil {
		return nil, nil, err
	}
	return schema, proj, nil
}
