// Command rw2dec decodes Panasonic RW2 raw files into JPEG XL.
//
// Usage:
//
//	rw2dec decode [options] <input.rw2> -o <output.jxl>
//	rw2dec verify [options] <input.rw2>
package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/rw2codec/rw2/bayer"
	"github.com/rw2codec/rw2/core"
	"github.com/rw2codec/rw2/internal/rwlog"
	"github.com/rw2codec/rw2/jxlwrite"
	"github.com/rw2codec/rw2/rawio"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:           "rw2dec",
		Short:         "Decode Panasonic RW2 raw files into JPEG XL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging (file metadata and decode timing)")

	root.AddCommand(decodeCmd())
	root.AddCommand(verifyCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rw2dec: %v\n", err)
		os.Exit(1)
	}
}

func decodeCmd() *cobra.Command {
	var outPath, previewPath string
	var combined bool

	cmd := &cobra.Command{
		Use:   "decode <input.rw2>",
		Short: "Decode an RW2 file and write a JPEG XL container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := rwlog.New(os.Stderr, verbose)
			if outPath == "" {
				return fmt.Errorf("-o/--out is required")
			}

			start := time.Now()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			f, err := rawio.ReadBytes(data)
			if err != nil {
				return fmt.Errorf("parsing RW2 container: %w", err)
			}
			log.Debug().Str("make", f.Make).Str("model", f.Model).
				Int("width", f.Width).Int("height", f.Height).Msg("opened RW2 file")

			pxs, err := core.Decode(f.Blob)
			if err != nil {
				return fmt.Errorf("decoding sensor strip: %w", err)
			}
			log.Debug().Int("pixels", len(pxs)).Dur("elapsed", time.Since(start)).Msg("core decode complete")

			var jxlPixels []uint16
			var outW, outH, channels int
			if combined {
				jxlPixels, outW, outH, err = bayer.ToRG1BG2(pxs, f.Width, f.Height, f.CFA)
				channels = 4
			} else {
				var rg1b *bayer.RG1B
				rg1b, err = bayer.ToRG1B(pxs, f.Width, f.Height, f.CFA)
				if err == nil {
					jxlPixels, outW, outH, channels = interleaveWithG2(rg1b)
				}
			}
			if err != nil {
				return fmt.Errorf("swizzling Bayer buffer: %w", err)
			}

			opts := jxlwrite.DefaultOptions(channels)
			out, err := jxlwrite.Encode(jxlPixels, outW, outH, opts)
			if err != nil {
				return fmt.Errorf("encoding JPEG XL: %w", err)
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}

			log.Info().Str("out", outPath).Int("bytes", len(out)).
				Dur("elapsed", time.Since(start)).Msg("decode complete")

			if previewPath != "" {
				rg1b, err := bayer.ToRG1B(pxs, f.Width, f.Height, f.CFA)
				if err != nil {
					return fmt.Errorf("building preview: %w", err)
				}
				if err := writePreview(previewPath, rg1b); err != nil {
					return fmt.Errorf("writing preview: %w", err)
				}
				log.Info().Str("preview", previewPath).Msg("wrote preview PNG")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output JPEG XL path")
	cmd.Flags().StringVar(&previewPath, "preview", "", "optional downsampled PNG preview path")
	cmd.Flags().BoolVar(&combined, "rg1bg2", false, "build the 4-channel RG1BG2 frame with ToRG1BG2 directly; without it the RG1B+G2 split is folded into the same 4-channel frame")
	return cmd
}

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <input.rw2>",
		Short: "Decode an RW2 file's sensor strip and report the round-trip self-check result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := rwlog.New(os.Stderr, verbose)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			f, err := rawio.ReadBytes(data)
			if err != nil {
				return fmt.Errorf("parsing RW2 container: %w", err)
			}

			pxs, err := core.Decode(f.Blob)
			if err != nil {
				var mismatch *core.RoundTripMismatchError
				if errors.As(err, &mismatch) {
					log.Error().Int("chunk", mismatch.ChunkIndex).Msg("round-trip self-check failed")
				}
				return err
			}
			log.Info().Int("pixels", len(pxs)).Msg("round-trip self-check passed for every chunk")
			return nil
		},
	}
	return cmd
}

// interleaveWithG2 folds an RG1B split back into a single 4-channel buffer
// (R, G1, B, G2 per pixel, the layout ToRG1BG2 produces), so the decode
// command writes one frame; no separate G2 plane is written.
func interleaveWithG2(rg1b *bayer.RG1B) (pixels []uint16, w, h, channels int) {
	w, h = rg1b.Width, rg1b.Height
	pixels = make([]uint16, w*h*4)
	for i := 0; i < w*h; i++ {
		copy(pixels[i*4:i*4+3], rg1b.Pixels[i*3:i*3+3])
		pixels[i*4+3] = rg1b.G2[i]
	}
	return pixels, w, h, 4
}

// previewMaxDim bounds the longer side of the quick-look preview; RG1B
// images from modern sensors are still multi-megapixel at half resolution,
// too large for a terminal-friendly preview.
const previewMaxDim = 1024

// writePreview downsamples the RG1B main image to a quick-look PNG using
// golang.org/x/image/draw's high-quality scaler, the way a CLI built atop
// a pure-Go image pipeline produces thumbnails without shelling out.
func writePreview(path string, rg1b *bayer.RG1B) error {
	full := image.NewRGBA(image.Rect(0, 0, rg1b.Width, rg1b.Height))
	for y := 0; y < rg1b.Height; y++ {
		for x := 0; x < rg1b.Width; x++ {
			i := (y*rg1b.Width + x) * 3
			r := downshiftTo8(rg1b.Pixels[i])
			g := downshiftTo8(rg1b.Pixels[i+1])
			b := downshiftTo8(rg1b.Pixels[i+2])
			full.Set(x, y, color.RGBA{r, g, b, 0xFF})
		}
	}

	dstW, dstH := rg1b.Width, rg1b.Height
	if longest := max(dstW, dstH); longest > previewMaxDim {
		scale := float64(previewMaxDim) / float64(longest)
		dstW = int(float64(dstW) * scale)
		dstH = int(float64(dstH) * scale)
	}
	preview := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(preview, preview.Bounds(), full, full.Bounds(), draw.Over, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, preview)
}

func downshiftTo8(v uint16) uint8 {
	if v > 0x3FFF {
		v = 0x3FFF
	}
	return uint8(v >> 6) // 14-bit sensor value -> 8-bit preview
}
