package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/imyousuf/graphselect/internal/render"
)

func newRenderCmd() *cobra.Command {
	var (
		flags   selectFlags
		outPath string
		height  string
	)

	cmd := &cobra.Command{
		Use:   "render [graph-file | store:name]...",
		Short: "Write the selection as an interactive HTML page",
		Long: `Run a selection and write one force-directed chart per base graph to an
HTML page. Highlighted anchors are drawn in a distinct colour.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := flags.prepare(cmd, args)
			if err != nil {
				return err
			}
			snap, err := sess.Results(cmd.Context())
			if err != nil {
				return err
			}
			err = withOutput(cmd, outPath, func(w io.Writer) error {
				return render.HTML(w, snap.Results, snap.Graphs, render.Options{
					Title:  snap.Config.String(),
					Height: height,
				})
			})
			if err != nil {
				return err
			}
			if outPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outPath)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "graphselect.html", "output file; empty writes to stdout")
	cmd.Flags().StringVar(&height, "height", "600px", "chart height, a CSS length")

	return cmd
}
