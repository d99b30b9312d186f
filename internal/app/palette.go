package app

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/palettor/palettor/configs"
)

func init() {
	rootCmd.AddCommand(paletteCmd)

	paletteCmd.Flags().IntVarP(
		&configs.Config.Images.NumColors, "colors", "n",
		configs.Config.Images.NumColors, "palette size (2 to 256)")
}

var paletteCmd = &cobra.Command{
	Use:   "palette [flags] source",
	Short: "print the reduced palette of an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runPalette,
}

func runPalette(_ *cobra.Command, args []string) error {
	im, err := openSource(args[0])
	if err != nil {
		return err
	}
	defer im.Close()

	if err := im.SetNumColors(configs.Config.Images.NumColors); err != nil {
		return err
	}
	if err := im.SetBackground(configs.BackgroundColor()); err != nil {
		return err
	}

	p, q, err := im.Palette()
	if err != nil {
		return err
	}

	total := int(im.Width() * im.Height())
	counts := make([]int, len(p))
	for i := 0; i < total; i++ {
		idx, err := q.NextPaletteIndex()
		if err != nil {
			return err
		}
		counts[idx]++
	}

	distinct, err := q.DistinctColorCount()
	if err != nil {
		return err
	}

	header := color.New(color.Bold, color.FgWhite)
	hex := color.New(color.FgCyan)
	share := color.New(color.FgGreen)

	header.Printf("%d colors (%d distinct in source)\n", len(p), distinct)
	for i, entry := range p {
		r, g, b, _ := entry.RGBA()
		hex.Printf("  #%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
		share.Printf("  %5.1f%%\n", 100*float64(counts[i])/float64(total))
	}
	return nil
}
