package classify

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/identicolor/pkg/config"
	"github.com/walteh/identicolor/pkg/document"
	"github.com/walteh/identicolor/pkg/highlight"
	"github.com/walteh/identicolor/pkg/lsp/protocol"
	"github.com/walteh/identicolor/pkg/semtok"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

// Fixture is a captured semantic token response plus the source it was
// produced from, as recorded by an editor client.
type Fixture struct {
	Source     string        `json:"source"`
	LanguageID string        `json:"languageId"`
	Legend     semtok.Legend `json:"legend"`
	Data       []uint32      `json:"data"`
}

// Result is one classified fixture, in wire form.
type Result struct {
	File   string                      `json:"file"`
	Groups map[string][]protocol.Range `json:"groups"`
}

type Handler struct {
	pattern        string
	includeGlobals bool
	includeClasses bool
	configPath     string
	watch          bool

	fs  afero.Fs
	out io.Writer
}

func NewClassifyCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "classify [fixture-glob]",
		Short: "classify captured token-stream fixtures into identifier groups",
	}

	cmd.Flags().BoolVar(&me.includeGlobals, "include-globals", false, "keep short global-tagged identifiers")
	cmd.Flags().BoolVar(&me.includeClasses, "include-classes", false, "fold class tokens into the groups")
	cmd.Flags().StringVar(&me.configPath, "config", "", "path to an identicolor config file")
	cmd.Flags().BoolVar(&me.watch, "watch", false, "re-classify fixtures when they change")
	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.pattern = args[0]
		me.fs = afero.NewOsFs()
		me.out = cmd.OutOrStdout()
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	opts, err := me.options()
	if err != nil {
		return err
	}

	matches, err := doublestar.Glob(afero.NewIOFS(me.fs), me.pattern)
	if err != nil {
		return errors.Errorf("expanding fixture glob %q: %w", me.pattern, err)
	}
	if len(matches) == 0 {
		return errors.Errorf("no fixtures match %q", me.pattern)
	}

	if err := me.classifyAll(ctx, matches, opts); err != nil {
		return err
	}

	if me.watch {
		return me.watchAndReclassify(ctx, matches, opts)
	}

	return nil
}

func (me *Handler) options() (highlight.Options, error) {
	cfg := config.Default()
	if me.configPath != "" {
		loaded, err := config.Load(me.fs, me.configPath)
		if err != nil {
			return highlight.Options{}, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	opts := cfg.Options()
	if me.includeGlobals {
		opts.IncludeGlobals = true
	}
	if me.includeClasses {
		opts.IncludeClasses = true
	}
	return opts, nil
}

// classifyAll processes every fixture, collecting per-file failures instead
// of stopping at the first one.
func (me *Handler) classifyAll(ctx context.Context, paths []string, opts highlight.Options) error {
	var errs error
	for _, path := range paths {
		if err := me.classifyPath(ctx, path, opts); err != nil {
			errs = multierr.Append(errs, errors.Errorf("classifying %s: %w", path, err))
		}
	}
	return errs
}

func (me *Handler) classifyPath(ctx context.Context, path string, opts highlight.Options) error {
	data, err := afero.ReadFile(me.fs, path)
	if err != nil {
		return errors.Errorf("reading fixture: %w", err)
	}

	var fixture Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return errors.Errorf("parsing fixture: %w", err)
	}

	doc := document.New(path, fixture.LanguageID, 0, fixture.Source)
	groups, err := highlight.GroupIdentifiers(ctx, fixture.Data, fixture.Legend, doc, opts, fixture.LanguageID)
	if err != nil {
		return errors.Errorf("grouping identifiers: %w", err)
	}

	result := Result{
		File:   path,
		Groups: make(map[string][]protocol.Range, len(groups)),
	}
	for name, ranges := range groups {
		wire := make([]protocol.Range, len(ranges))
		for i, rng := range ranges {
			wire[i] = protocol.FromRange(rng)
		}
		result.Groups[name] = wire
	}

	encoder := json.NewEncoder(me.out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return errors.Errorf("writing result: %w", err)
	}

	return nil
}

// watchAndReclassify re-runs classification for a fixture whenever it is
// rewritten, until the context is cancelled.
func (me *Handler) watchAndReclassify(ctx context.Context, paths []string, opts highlight.Options) error {
	logger := zerolog.Ctx(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch parent directories so replace-by-rename saves are seen too.
	watched := map[string]bool{}
	for _, path := range paths {
		dir := filepath.Dir(path)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return errors.Errorf("watching %s: %w", dir, err)
		}
		watched[dir] = true
	}

	known := map[string]bool{}
	for _, path := range paths {
		known[path] = true
	}

	logger.Info().Int("fixture_count", len(paths)).Msg("watching fixtures")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !known[event.Name] || !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			logger.Debug().Str("fixture", event.Name).Msg("fixture changed")
			if err := me.classifyPath(ctx, event.Name, opts); err != nil {
				logger.Error().Err(err).Str("fixture", event.Name).Msg("re-classification failed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watcher error")
		}
	}
}
