package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imyousuf/graphselect/internal/compare"
	"github.com/imyousuf/graphselect/internal/config"
	"github.com/imyousuf/graphselect/internal/selection"
	"github.com/imyousuf/graphselect/internal/session"
	"github.com/imyousuf/graphselect/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var (
		flags  selectFlags
		outFmt string
	)

	cmd := &cobra.Command{
		Use:   "watch [graph-file | store:name]...",
		Short: "Recompute the selection when the config or a graph changes",
		Long: `Run a selection, then watch the config file and every base graph file.
Editing the selection section recomputes with the new settings; editing a
graph file reloads it. Results are printed after every change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sess, err := flags.prepare(cmd, args)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := &selectionWatch{
				cmd:    cmd,
				flags:  &flags,
				args:   args,
				outFmt: outFmt,
				cfg:    cfg,
				sess:   sess,
				logger: logger,
			}
			return w.run(ctx)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outFmt, "format", "f", outputText, "output format: text, json, txt or dot")

	return cmd
}

// selectionWatch keeps one session in step with the config and graph files.
type selectionWatch struct {
	cmd    *cobra.Command
	flags  *selectFlags
	args   []string
	outFmt string
	cfg    *config.Config
	sess   *session.Session
	logger *slog.Logger
}

func (w *selectionWatch) run(ctx context.Context) error {
	out := w.cmd.OutOrStdout()
	if err := w.print(ctx, out); err != nil {
		return err
	}

	for {
		files := w.files()
		if len(files) == 0 {
			return fmt.Errorf("nothing to watch: no config file and no graph files")
		}
		fw, err := watcher.NewWatcher(watcher.WatcherConfig{Files: files, Logger: w.logger})
		if err != nil {
			return err
		}
		events, err := fw.Start(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w.cmd.ErrOrStderr(), "Watching %d files (Ctrl-C to stop)\n", len(files))

		restart, err := w.loop(ctx, fw, events, out)
		fw.Close()
		if err != nil || !restart {
			return err
		}
	}
}

// loop handles events until ctx ends or the set of watched files changes,
// in which case it reports restart.
func (w *selectionWatch) loop(ctx context.Context, fw *watcher.Watcher, events <-chan watcher.Event, out io.Writer) (restart bool, err error) {
	configPath := ""
	if w.cfg.ConfigFile != "" {
		configPath, _ = filepath.Abs(w.cfg.ConfigFile)
	}
	watched := fw.Files()
	for {
		select {
		case <-ctx.Done():
			return false, nil
		case ev, ok := <-events:
			if !ok {
				return false, nil
			}
			w.logger.Debug("file changed", "path", ev.Path, "op", ev.Op.String())
			if ev.Op == watcher.Remove {
				w.logger.Warn("watched file removed", "path", ev.Path)
				continue
			}
			if ev.Path == configPath {
				err = w.reloadConfig(ctx)
			} else {
				err = w.reloadGraphs(ctx)
			}
			if err != nil {
				w.logger.Error("reload failed", "path", ev.Path, "error", err)
				continue
			}
			if err := w.print(ctx, out); err != nil {
				w.logger.Error("selection failed", "error", err)
			}
			if !slices.Equal(w.files(), watched) {
				return true, nil
			}
		}
	}
}

// files lists the config file and the file-backed graphs.
func (w *selectionWatch) files() []string {
	var files []string
	if w.cfg.ConfigFile != "" {
		files = append(files, w.cfg.ConfigFile)
	}
	if refs, err := graphRefs(w.cfg, w.args); err == nil {
		for _, ref := range refs {
			if ref.Path != "" {
				files = append(files, ref.Path)
			}
		}
	}
	for i, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			files[i] = abs
		}
	}
	slices.Sort(files)
	return slices.Compact(files)
}

// reloadConfig rereads the config file and applies its selection section,
// with command-line flags still taking precedence.
func (w *selectionWatch) reloadConfig(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := w.flags.apply(w.cmd, cfg); err != nil {
		return err
	}
	u, err := selectionUpdate(cfg.Selection)
	if err != nil {
		return err
	}
	graphsChanged := !slices.Equal(cfg.Graphs, w.cfg.Graphs)
	w.cfg = cfg
	if err := w.sess.Apply(u); err != nil {
		return err
	}
	if graphsChanged {
		return w.reloadGraphs(ctx)
	}
	return nil
}

func (w *selectionWatch) reloadGraphs(ctx context.Context) error {
	refs, err := graphRefs(w.cfg, w.args)
	if err != nil {
		return err
	}
	sources, err := loadSources(ctx, w.cfg, refs)
	if err != nil {
		return err
	}
	w.sess.SetGraphs(sources)
	return nil
}

func (w *selectionWatch) print(ctx context.Context, out io.Writer) error {
	snap, err := w.sess.Results(ctx)
	if err != nil {
		return err
	}
	if w.outFmt == outputText {
		fmt.Fprintf(out, "\n--- version %d (%s) ---\n", snap.Version, snap.Elapsed)
	}
	return writeSnapshot(out, w.outFmt, snap)
}

// selectionUpdate converts a selection section into a session update.
func selectionUpdate(sel config.SelectionConfig) (session.Update, error) {
	t, err := selection.ParseType(sel.Type)
	if err != nil {
		return session.Update{}, err
	}
	c, err := compare.Parse(sel.Comparator)
	if err != nil {
		return session.Update{}, err
	}
	n := sel.N
	anchors := sel.SelectedVariables
	if anchors == nil {
		anchors = []string{}
	}
	return session.Update{Type: &t, N: &n, Comparator: &c, Anchors: anchors}, nil
}
