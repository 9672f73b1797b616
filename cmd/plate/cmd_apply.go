package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adnsv/go-plate/export"
	"github.com/adnsv/go-plate/internal/artifact"
	"github.com/adnsv/go-plate/internal/config"
	"github.com/adnsv/go-plate/plate"
)

var applyTimeout time.Duration

var applyCmd = &cobra.Command{
	Use:   "apply SOURCE GRID",
	Short: "Reconcile an edited grid and export the table and workbook",
	Long: `Lays out SOURCE as the layout command does, reads the edited GRID, moves
every record whose key appears in a cell to that cell, and stores the
updated CSV table and the xlsx workbook through the configured output
driver (a local directory or an S3 bucket).

Cells that do not parse as sample keys are reported and ignored.`,
	Args: cobra.ExactArgs(2),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().DurationVar(&applyTimeout, "timeout", 2*time.Minute, "Upload timeout")
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, ed, s, err := session(args[0])
	if err != nil {
		return err
	}

	f, err := os.Open(args[1])
	if err != nil {
		return err
	}
	edited, err := plate.ReadGridCSV(f, s.Dims)
	f.Close()
	if err != nil {
		return err
	}

	next, perrs, err := ed.Apply(s, edited)
	if err != nil {
		return err
	}
	stderr := cmd.ErrOrStderr()
	for _, pe := range perrs {
		fmt.Fprintf(stderr, "warning: %v\n", pe)
	}
	for _, c := range next.Conflicts() {
		fmt.Fprintf(stderr, "warning: cell %s holds %s\n", c.Position.Label(), joinKeys(c.Keys))
	}
	reportOverflow(stderr, next)

	arts, err := export.Render(next, next.UpdatedAt)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()
	st, err := artifact.Open(ctx, cfg.Output)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, a := range arts {
		name := artifactName(cfg.Output, a.Name)
		info, err := st.Put(ctx, name, a.Data, a.ContentType)
		if err != nil {
			return err
		}
		logger.Info("artifact stored",
			zap.String("driver", string(st.Driver())),
			zap.String("location", info.Location),
			zap.Int64("size", info.Size),
			zap.String("session", next.ID.String()),
		)
		fmt.Fprintln(out, info.Location)
	}
	return nil
}

func artifactName(cfg config.OutputConfig, name string) string {
	switch {
	case name == export.CSVFileName && cfg.CSVName != "":
		return cfg.CSVName
	case name == export.WorkbookFileName && cfg.WorkbookName != "":
		return cfg.WorkbookName
	}
	return name
}

func joinKeys(keys []plate.Key) string {
	s := make([]string, len(keys))
	for i, k := range keys {
		s[i] = k.String()
	}
	return strings.Join(s, ", ")
}
