package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/adnsv/go-plate/plate"
)

var (
	paletteCount  int
	paletteNoANSI bool
)

var paletteCmd = &cobra.Command{
	Use:   "palette [SOURCE]",
	Short: "Show the category colors of SOURCE, or the first N palette colors",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPalette,
}

func init() {
	paletteCmd.Flags().IntVarP(&paletteCount, "count", "n", len(plate.PastelPalette), "Number of colors to show without SOURCE")
	paletteCmd.Flags().BoolVar(&paletteNoANSI, "no-color", false, "Print hex values only")
}

func runPalette(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	var m plate.ColorMap
	if len(args) == 1 {
		_, _, s, err := session(args[0])
		if err != nil {
			return err
		}
		m = s.Colors
	} else {
		if paletteCount < 0 {
			return fmt.Errorf("count must not be negative")
		}
		names := make([]string, paletteCount)
		for i := range names {
			names[i] = fmt.Sprintf("#%d", i+1)
		}
		m = plate.AssignColors(names)
	}
	for _, c := range m.Categories() {
		printSwatch(out, m, c, !paletteNoANSI)
	}
	return nil
}

func printSwatch(w io.Writer, m plate.ColorMap, category string, ansi bool) {
	hex, _ := m.Color(category)
	if !ansi {
		fmt.Fprintf(w, "%s  %s\n", hex, category)
		return
	}
	r, g, b, _ := m.RGB(category)
	fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm    \x1b[0m %s  %s\n", r, g, b, hex, category)
}
