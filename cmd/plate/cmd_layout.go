package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adnsv/go-plate/internal/artifact"
	"github.com/adnsv/go-plate/plate"
)

var layoutCmd = &cobra.Command{
	Use:   "layout SOURCE",
	Short: "Place the samples of SOURCE and write the editable grid",
	Long: `Reads the sample table, places every repetition on the grid, prints the
display grid, and writes the editable grid (sample keys) as a CSV file into
the output directory. Edit the keys to move samples, then run apply.`,
	Args: cobra.ExactArgs(1),
	RunE: runLayout,
}

func runLayout(cmd *cobra.Command, args []string) error {
	cfg, _, s, err := session(args[0])
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := plate.WriteGridCSV(&buf, s.EditableGrid()); err != nil {
		return err
	}
	st, err := artifact.NewDirStore(cfg.Output.Dir)
	if err != nil {
		return err
	}
	info, err := st.Put(context.Background(), cfg.Output.GridName, buf.Bytes(), "text/csv")
	if err != nil {
		return err
	}
	logger.Info("grid written", zap.String("path", info.Location), zap.String("session", s.ID.String()))

	out := cmd.OutOrStdout()
	if err := printGrid(out, s.DisplayGrid()); err != nil {
		return err
	}
	reportOverflow(cmd.ErrOrStderr(), s)
	fmt.Fprintf(out, "\neditable grid: %s\n", info.Location)
	return nil
}

func printGrid(w io.Writer, g plate.Grid) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\t"+strings.Join(g.Dims().ColLabels(), "\t"))
	for r, cells := range g.Rows() {
		for i, c := range cells {
			if c == "" {
				cells[i] = "."
			}
		}
		fmt.Fprintln(tw, plate.RowLabel(r)+"\t"+strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func reportOverflow(w io.Writer, s plate.State) {
	if oe := s.Overflow(); oe != nil {
		fmt.Fprintf(w, "warning: %v\n", oe)
	}
}
