package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/syssam/stepgen/compiler"
	"github.com/syssam/stepgen/compiler/describe"
	"github.com/syssam/stepgen/compiler/gen"
	"github.com/syssam/stepgen/compiler/load"
	"github.com/syssam/stepgen/config"
	"github.com/syssam/stepgen/internal/watch"
)

// Controller runs the commands.
type Controller struct {
	Log        zerolog.Logger
	Out        io.Writer
	ConfigPath string
}

// job is the resolved input of a generating command.
type job struct {
	dir      string
	cfg      *gen.Config
	loadOpts []load.Option
}

// Generate writes the builders of a package.
func (c *Controller) Generate(ctx context.Context, cmd *cli.Command) error {
	r, err := c.resolve(cmd)
	if err != nil {
		return err
	}
	return c.generate(ctx, r)
}

func (c *Controller) generate(ctx context.Context, r *job) error {
	g, err := compiler.Run(ctx, r.dir, r.cfg, r.loadOpts...)
	if err != nil {
		return err
	}
	c.Log.Info().Str("dir", r.dir).Int("types", len(g.Nodes)).Msg("builders generated")
	return nil
}

// Describe prints the builder protocols of a package.
func (c *Controller) Describe(_ context.Context, cmd *cli.Command) error {
	format, err := describe.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	r, err := c.resolve(cmd)
	if err != nil {
		return err
	}
	g, err := compiler.LoadGraph(r.dir, r.cfg, r.loadOpts...)
	if err != nil {
		return err
	}
	out := c.Out
	if path := cmd.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	return describe.Encode(out, format, describe.New(g))
}

// Watch generates the builders of a package, then regenerates them whenever
// one of its source files changes.
func (c *Controller) Watch(ctx context.Context, cmd *cli.Command) error {
	r, err := c.resolve(cmd)
	if err != nil {
		return err
	}
	if err := c.generate(ctx, r); err != nil {
		return fmt.Errorf("initial generation failed: %w", err)
	}
	w, err := watch.New(r.dir, func(ctx context.Context, changed []string) error {
		c.Log.Debug().Strs("files", changed).Msg("regenerating")
		return c.generate(ctx, r)
	},
		watch.WithDebounce(cmd.Duration("debounce")),
		watch.WithExclude("*"+r.cfg.FileSuffix()),
		watch.WithLogger(c.Log),
	)
	if err != nil {
		return err
	}
	defer w.Close()
	c.Log.Info().Str("dir", r.dir).Msg("watching for changes")
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Init writes a project file.
func (c *Controller) Init(_ context.Context, cmd *cli.Command) error {
	strategy, err := gen.ParseStrategy(cmd.String("strategy"))
	if err != nil {
		return err
	}
	path := filepath.Join(dirArg(cmd), config.FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, &config.Project{Strategy: strategy}); err != nil {
		return err
	}
	c.Log.Info().Str("file", path).Msg("project file created")
	return nil
}

// resolve builds the generator configuration. Flags override the project
// file, which overrides the defaults.
func (c *Controller) resolve(cmd *cli.Command) (*job, error) {
	r := &job{dir: cmd.Args().First()}
	var opts []gen.Option
	project, err := c.project(r.dir)
	if err != nil {
		return nil, err
	}
	if project != nil {
		opts = append(opts, project.Options()...)
		if r.dir == "" && project.Source != "" {
			r.dir = project.SourceDir()
		}
		c.Log.Debug().Str("file", filepath.Join(project.Dir(), config.FileName)).Msg("project file loaded")
	}
	if r.dir == "" {
		r.dir = "."
	}
	if v := cmd.String("target"); v != "" {
		opts = append(opts, gen.WithTarget(v))
	}
	if v := cmd.String("package"); v != "" {
		opts = append(opts, gen.WithPackage(v))
	}
	if v := cmd.String("source-package"); v != "" {
		opts = append(opts, gen.WithSourcePackage(v))
	}
	if v := cmd.String("strategy"); v != "" {
		s, err := gen.ParseStrategy(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gen.WithStrategy(s))
	}
	if cmd.IsSet("workers") {
		opts = append(opts, gen.WithWorkers(int(cmd.Int("workers"))))
	}
	opts = append(opts, gen.WithLogger(c.Log))
	if r.cfg, err = gen.NewConfig(opts...); err != nil {
		return nil, err
	}
	if types := cmd.StringSlice("type"); len(types) > 0 {
		r.loadOpts = append(r.loadOpts, load.WithTypes(types...))
	}
	return r, nil
}

// project loads the explicit project file, or the nearest one from dir.
func (c *Controller) project(dir string) (*config.Project, error) {
	if c.ConfigPath != "" {
		return config.Load(c.ConfigPath)
	}
	if dir == "" {
		dir = "."
	}
	path, err := config.Find(dir)
	switch {
	case errors.Is(err, config.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return config.Load(path)
}

func dirArg(cmd *cli.Command) string {
	if dir := cmd.Args().First(); dir != "" {
		return dir
	}
	return "."
}
