package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gammazero/workerpool"
	"github.com/lithammer/shortuuid/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/palettor/palettor/configs"
	"github.com/palettor/palettor/pkg/img"
)

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(
		&convertFlags.output, "output", "o",
		".", "output directory")
	convertCmd.Flags().IntVarP(
		&configs.Config.Images.NumColors, "colors", "n",
		configs.Config.Images.NumColors, "palette size (2 to 256)")
	convertCmd.Flags().StringVarP(
		&configs.Config.Images.Format, "format", "f",
		configs.Config.Images.Format, "output format (png or gif)")
	convertCmd.Flags().UintVar(
		&convertFlags.fit, "fit",
		0, "fit the image into this size before quantizing")
	convertCmd.Flags().BoolVar(
		&convertFlags.grayscale, "grayscale",
		false, "convert to grayscale before quantizing")
}

var convertFlags struct {
	output    string
	fit       uint
	grayscale bool
}

var convertCmd = &cobra.Command{
	Use:   "convert [flags] source...",
	Short: "quantize images to indexed PNG or GIF files",
	Long: `Convert reduces each source image to an indexed color version
and writes the result to the output directory. A source can be a local
file or an http(s) URL.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func runConvert(_ *cobra.Command, args []string) error {
	workers := configs.Config.Images.NumWorkers
	if workers < 1 {
		workers = 1
	}
	wp := workerpool.New(workers)

	failures := 0
	done := make(chan bool, len(args))

	for _, src := range args {
		src := src
		wp.Submit(func() {
			l := log.WithField("source", src)
			dest, err := convertOne(src)
			if err != nil {
				l.WithError(err).Error("conversion failed")
				done <- false
				return
			}
			l.WithField("dest", dest).Info("converted")
			done <- true
		})
	}
	wp.StopWait()

	close(done)
	for ok := range done {
		if !ok {
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d conversions failed", failures, len(args))
	}
	return nil
}

// convertOne quantizes a single source image and returns the path of
// the file it wrote.
func convertOne(src string) (string, error) {
	im, err := openSource(src)
	if err != nil {
		return "", err
	}
	defer im.Close()

	filters := []img.ImageFilter{}
	if convertFlags.fit > 0 {
		filters = append(filters, func(im img.Image) error {
			return im.Fit(convertFlags.fit, convertFlags.fit)
		})
	}
	if convertFlags.grayscale {
		filters = append(filters, func(im img.Image) error {
			return im.Grayscale()
		})
	}
	filters = append(filters,
		func(im img.Image) error { return im.SetNumColors(configs.Config.Images.NumColors) },
		func(im img.Image) error { return im.SetBackground(configs.BackgroundColor()) },
		func(im img.Image) error { return im.SetCompression(pngCompression()) },
		func(im img.Image) error { return im.SetFormat(configs.Config.Images.Format) },
		func(im img.Image) error { return im.Quantize() },
	)
	if err := img.Pipeline(im, filters...); err != nil {
		return "", err
	}

	dest := filepath.Join(convertFlags.output, destName(src, configs.Config.Images.Format))
	fd, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if err := im.Encode(fd); err != nil {
		defer fd.Close()
		return "", err
	}
	return dest, fd.Close()
}

func openSource(src string) (*img.NativeImage, error) {
	if isRemote(src) {
		return img.NewRemoteImage(src, nil)
	}

	fd, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return img.NewNativeImage(fd)
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// destName returns the output file name of a source. Remote sources
// get a stable name derived from their URL.
func destName(src, format string) string {
	if isRemote(src) {
		return shortuuid.NewWithNamespace(src) + "." + format
	}

	base := filepath.Base(src)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + format
}

func pngCompression() img.ImageCompression {
	if configs.Config.Images.Compression == "best" {
		return img.CompressionBest
	}
	return img.CompressionFast
}
