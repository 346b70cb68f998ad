package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/imyousuf/graphselect/internal/compare"
	"github.com/imyousuf/graphselect/internal/config"
	"github.com/imyousuf/graphselect/internal/graph/format"
	"github.com/imyousuf/graphselect/internal/selection"
	"github.com/imyousuf/graphselect/internal/session"
)

// Output formats of select. txt and dot write the derived graphs in the
// graph file formats.
const (
	outputText = "text"
	outputJSON = "json"
	outputDOT  = "dot"
	outputTxt  = "txt"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})
	labelStyle = lipgloss.NewStyle().
			Faint(true).
			Width(14)
	highlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F4A261"))
)

// selectFlags are the selection settings a command line can override.
type selectFlags struct {
	typeName    string
	n           int
	comparator  string
	anchors     []string
	interactive bool
}

func (f *selectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.typeName, "type", "t", "", "selection type (see 'graphselect types'; overrides selection.type)")
	cmd.Flags().IntVarP(&f.n, "n", "n", 0, "path length offset or degree threshold (overrides selection.n)")
	cmd.Flags().StringVarP(&f.comparator, "comparator", "c", "", "equals, atMost or atLeast (overrides selection.comparator)")
	cmd.Flags().StringSliceVarP(&f.anchors, "anchors", "a", nil, "anchor variable names (overrides selection.selected_variables)")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "pick the selection in a form")
}

// apply folds the flags that were set into the config's selection.
func (f *selectFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("type") {
		cfg.Selection.Type = f.typeName
	}
	if cmd.Flags().Changed("n") {
		cfg.Selection.N = f.n
	}
	if cmd.Flags().Changed("comparator") {
		cfg.Selection.Comparator = f.comparator
	}
	if cmd.Flags().Changed("anchors") {
		cfg.Selection.SelectedVariables = f.anchors
	}
	return nil
}

// prepare loads the graphs and builds the session the command runs.
func (f *selectFlags) prepare(cmd *cobra.Command, args []string) (*config.Config, *session.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := f.apply(cmd, cfg); err != nil {
		return nil, nil, err
	}
	refs, err := graphRefs(cfg, args)
	if err != nil {
		return nil, nil, err
	}
	sources, err := loadSources(cmd.Context(), cfg, refs)
	if err != nil {
		return nil, nil, err
	}
	if f.interactive {
		if err := runSelectionForm(&cfg.Selection, nodeNames(sources)); err != nil {
			return nil, nil, err
		}
	}
	selCfg, err := cfg.SelectionConfig()
	if err != nil {
		return nil, nil, err
	}
	sess := session.New(sources,
		session.WithConfig(selCfg),
		session.WithAnchors(cfg.Selection.SelectedVariables...),
		session.WithLimits(limitsOf(cfg)),
		session.WithLogger(newLogger(cfg)),
	)
	return cfg, sess, nil
}

func newSelectCmd() *cobra.Command {
	var (
		flags   selectFlags
		outFmt  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "select [graph-file | store:name]...",
		Short: "Run a selection over graph files or stored graphs",
		Long: `Run a selection over one or more base graphs.

Graphs are files (.txt, .json, .yaml, .toml, .dot) or store:<name> references
to the catalog; with no arguments the config's graphs are used. Anchors are
matched to each graph by name and ignored where missing.

Output formats:
  text   human-readable summary (default)
  json   derived graphs with their highlighted anchors
  txt    derived graphs in the text graph format
  dot    derived graphs as Graphviz digraphs, anchors filled`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := flags.prepare(cmd, args)
			if err != nil {
				return err
			}
			snap, err := sess.Results(cmd.Context())
			if err != nil {
				return err
			}

			if outPath != "" && len(snap.Results) > 1 && (outFmt == outputTxt || outFmt == outputDOT) {
				return saveEach(cmd.OutOrStdout(), outPath, outFmt, snap)
			}
			out := cmd.OutOrStdout()
			if outPath != "" {
				if dir := filepath.Dir(outPath); dir != "." {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return fmt.Errorf("create output directory: %w", err)
					}
				}
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}
			return writeSnapshot(out, outFmt, snap)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outFmt, "format", "f", outputText, "output format: text, json, txt or dot")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to this file instead of stdout (a directory for txt/dot over several graphs)")

	return cmd
}

func writeSnapshot(w io.Writer, outFmt string, snap *session.Snapshot) error {
	switch outFmt {
	case outputText:
		writeSummary(w, snap)
		return nil
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Config  string                     `json:"config"`
			Anchors []string                   `json:"anchors"`
			Results []selection.ResultDocument `json:"results"`
		}{snap.Config.String(), snap.Anchors, selection.Documents(snap.Graphs, snap.Results)})
	case outputTxt:
		for i, r := range snap.Results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := format.WriteText(w, r.Graph); err != nil {
				return err
			}
		}
		return nil
	case outputDOT:
		for i, r := range snap.Results {
			if err := format.WriteDOTNamed(w, snap.Graphs[i], r.Graph, r.Highlighted); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json, txt or dot)", outFmt)
}

// saveEach writes one file per derived graph into dir.
func saveEach(w io.Writer, dir, outFmt string, snap *session.Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for i, r := range snap.Results {
		path := filepath.Join(dir, snap.Graphs[i]+"."+outFmt)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if outFmt == outputDOT {
			err = format.WriteDOTNamed(f, snap.Graphs[i], r.Graph, r.Highlighted)
		} else {
			err = format.WriteText(f, r.Graph)
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(w, "Wrote %s\n", path)
	}
	return nil
}

// writeSummary prints each derived graph with its highlighted anchors.
func writeSummary(w io.Writer, snap *session.Snapshot) {
	fmt.Fprintln(w, headerStyle.Render(snap.Config.String()))
	anchors := strings.Join(snap.Anchors, ", ")
	if anchors == "" {
		anchors = "(none)"
	}
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Anchors"), anchors)
	for i, r := range snap.Results {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(snap.Graphs[i]))
		hl := make(map[string]bool, len(r.Highlighted))
		for _, n := range r.Highlighted {
			hl[n.Name] = true
		}
		nodes := make([]string, 0, r.Graph.NumNodes())
		for _, n := range r.Graph.Nodes() {
			s := n.String()
			if hl[n.Name] {
				s = highlightStyle.Render(s)
			}
			nodes = append(nodes, s)
		}
		fmt.Fprintf(w, "%s %d: %s\n", labelStyle.Render("Nodes"), len(nodes), strings.Join(nodes, " "))
		fmt.Fprintf(w, "%s %d\n", labelStyle.Render("Edges"), r.Graph.NumEdges())
		for j, e := range r.Graph.Edges() {
			fmt.Fprintf(w, "  %d. %s\n", j+1, e)
		}
	}
}

// runSelectionForm lets the user pick the selection type, comparator, n
// and anchors. The choices are written back into sel.
func runSelectionForm(sel *config.SelectionConfig, names []string) error {
	typeOptions := make([]huh.Option[string], 0, len(selection.Types()))
	for _, t := range selection.Types() {
		typeOptions = append(typeOptions, huh.NewOption(t.String(), t.String()))
	}
	cmpOptions := make([]huh.Option[string], 0, len(compare.All))
	for _, c := range compare.All {
		cmpOptions = append(cmpOptions, huh.NewOption(fmt.Sprintf("%s (%s)", c, c.Symbol()), c.String()))
	}
	current := make(map[string]bool, len(sel.SelectedVariables))
	for _, a := range sel.SelectedVariables {
		current[a] = true
	}
	anchorOptions := make([]huh.Option[string], len(names))
	for i, name := range names {
		anchorOptions[i] = huh.NewOption(name, name).Selected(current[name])
	}

	var (
		typeName   = sel.Type
		comparator = sel.Comparator
		nText      = strconv.Itoa(sel.N)
		anchors    []string
	)
	if t, err := selection.ParseType(typeName); err == nil {
		typeName = t.String()
	}
	if c, err := compare.Parse(comparator); err == nil {
		comparator = c.String()
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Selection type").
				Options(typeOptions...).
				Value(&typeName).
				Height(12),
			huh.NewNote().
				Title("Rule").
				DescriptionFunc(func() string {
					t, err := selection.ParseType(typeName)
					if err != nil {
						return ""
					}
					return t.Description()
				}, &typeName),
		).Title("Selection"),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Comparator").
				Options(cmpOptions...).
				Value(&comparator),
			huh.NewInput().
				Title("n").
				Description("Paths compare their length with n+1; degree types compare with n").
				Value(&nText).
				Validate(func(s string) error {
					v, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || v < 0 {
						return fmt.Errorf("n must be a non-negative integer")
					}
					return nil
				}),
		).Title("Bound").
			WithHideFunc(func() bool {
				t, err := selection.ParseType(typeName)
				return err == nil && !t.UsesN()
			}),

		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Anchors").
				Options(anchorOptions...).
				Value(&anchors).
				Filterable(true).
				Height(16),
		).Title("Anchors"),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return fmt.Errorf("selection cancelled")
		}
		return fmt.Errorf("interactive select: %w", err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(nText))
	if err != nil {
		return fmt.Errorf("n: %w", err)
	}
	sel.Type = typeName
	sel.Comparator = comparator
	sel.N = n
	sel.SelectedVariables = anchors
	return nil
}
