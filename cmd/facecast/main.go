// facecast - ray-cast preview of GLB models
// Renders one or more GLB/GLTF files with a software ray caster, either into
// a PNG snapshot or as an interactive preview in the terminal.
//
// Controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Mouse move  - Show the mesh and surface under the cursor (HUD)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	R           - Reset rotation
//	T           - Toggle texture on/off
//	X           - Toggle wireframe overlay
//	L           - Light positioning mode (move mouse, click to set, Esc to cancel)
//	?           - Toggle HUD overlay
//	+/-         - Adjust zoom
//	Esc         - Quit (or cancel light mode)
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var version = "dev"

// config holds the command line flags.
type config struct {
	out       string
	width     int
	height    int
	bg        string
	texture   string
	index     string
	filter    string
	wireframe bool
	workers   int
	fps       int
	yaw       float64
	pitch     float64
	distance  float64
	unlit     bool
	verbose   bool
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	cfg := &config{}
	cmd := &cobra.Command{
		Use:   "facecast [flags] <model.glb>...",
		Short: "Ray-cast GLB models to PNG or the terminal",
		Long: `facecast renders GLB/GLTF models with a CPU ray caster.

With --out it renders a single PNG snapshot. Otherwise it opens an
interactive preview in the terminal.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.verbose {
				logger.SetLevel(log.DebugLevel)
			}
			sc, err := loadScene(logger, args, cfg.texture)
			if err != nil {
				return err
			}
			if cfg.out != "" {
				return snapshot(cmd.Context(), logger, sc, cfg)
			}
			return preview(cmd.Context(), logger, sc, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.out, "out", "o", "", "write a PNG snapshot to this path instead of opening the preview")
	f.IntVar(&cfg.width, "width", 800, "snapshot width in pixels")
	f.IntVar(&cfg.height, "height", 600, "snapshot height in pixels")
	f.StringVar(&cfg.bg, "bg", "30,30,40", "background color (R,G,B or R,G,B,A)")
	f.StringVar(&cfg.texture, "texture", "", "texture image (PNG/JPG/BMP/WebP) for meshes without one")
	f.StringVar(&cfg.index, "index", "grid", "per-surface spatial index (grid or rtree)")
	f.StringVar(&cfg.filter, "filter", "bilinear", "texture filter (nearest or bilinear)")
	f.BoolVar(&cfg.wireframe, "wireframe", false, "overlay triangle edges")
	f.IntVar(&cfg.workers, "workers", 0, "render goroutines (0 = GOMAXPROCS)")
	f.IntVar(&cfg.fps, "fps", 30, "preview target FPS")
	f.Float64Var(&cfg.yaw, "yaw", 0, "initial yaw in degrees")
	f.Float64Var(&cfg.pitch, "pitch", 0, "initial pitch in degrees")
	f.Float64Var(&cfg.distance, "distance", defaultDistance, "camera distance from the model centre")
	f.BoolVar(&cfg.unlit, "unlit", false, "show base colors without lighting")
	f.BoolVarP(&cfg.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "facecast",
		ReportTimestamp: true,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := fang.Execute(ctx, newRootCmd(logger), fang.WithVersion(version)); err != nil {
		cancel()
		os.Exit(1)
	}
}
