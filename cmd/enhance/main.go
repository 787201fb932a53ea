// Command enhance runs the image enhancement pipeline or color analysis
// on a single image reference (file path, URL, or data: URI).
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/enhance"

	// Enable GPU acceleration; falls back to CPU when unavailable.
	_ "github.com/gogpu/enhance/gpu"
)

func main() {
	var (
		brightness = flag.Float64("brightness", 1, "brightness factor (1 = unchanged)")
		contrast   = flag.Float64("contrast", 1, "contrast factor (1 = unchanged)")
		saturation = flag.Float64("saturation", 1, "saturation factor (1 = unchanged)")
		sharpness  = flag.Float64("sharpness", 0, "sharpen intensity (0 = off)")
		denoise    = flag.Float64("denoise", 0, "denoise intensity (0 = off)")
		useGPU     = flag.Bool("gpu", false, "prefer the hardware backend")
		analyze    = flag.Bool("analyze", false, "extract the color palette instead of enhancing")
		colors     = flag.Int("colors", 5, "number of palette colors (with -analyze)")
		output     = flag.String("output", "out.jpg", "output file")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <image>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	ref := flag.Arg(0)

	if *verbose {
		enhance.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	eng := enhance.New()
	defer eng.Close()
	ctx := context.Background()

	if *analyze {
		palette, err := eng.Analyze(ctx, ref, *colors)
		if err != nil {
			log.Fatalf("Analysis failed: %v", err)
		}
		out, err := json.MarshalIndent(palette, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode palette: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	cfg := enhance.Config{
		Brightness:  *brightness,
		Contrast:    *contrast,
		Saturation:  *saturation,
		Sharpness:   *sharpness,
		Denoise:     *denoise,
		UseHardware: *useGPU,
	}
	res := eng.Enhance(ctx, ref, cfg)
	if !res.Enhanced {
		if res.Err != nil {
			log.Fatalf("Enhancement failed: %v", res.Err)
		}
		log.Printf("Identity configuration, nothing to do")
		return
	}

	data, err := decodeDataURI(res.Ref)
	if err != nil {
		log.Fatalf("Failed to decode output: %v", err)
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Enhanced via %s backend, saved to %s", res.Backend, *output)
}

// decodeDataURI extracts the base64 payload of the engine's output
// locator.
func decodeDataURI(ref string) ([]byte, error) {
	comma := strings.IndexByte(ref, ',')
	if comma < 0 || !strings.HasPrefix(ref, "data:") {
		return nil, fmt.Errorf("unexpected locator %q", ref)
	}
	return base64.StdEncoding.DecodeString(ref[comma+1:])
}
