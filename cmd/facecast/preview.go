package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/facecast/pkg/math3d"
	"github.com/taigrr/facecast/pkg/raycast"
	"github.com/taigrr/facecast/pkg/render"
)

// ViewState holds all view-related settings (UI state, not library code)
type ViewState struct {
	TextureEnabled bool        // Whether to show textures
	Wireframe      bool        // Whether to overlay triangle edges
	LightMode      bool        // Whether in light positioning mode
	LightDir       math3d.Vec3 // Current light direction (eye space)
	PendingLight   math3d.Vec3 // Light direction while positioning
	ShowHUD        bool        // Whether to show the HUD overlay
	Distance       float64     // Camera distance
	MouseX, MouseY int         // Last mouse cell, -1 when unknown
}

// NewViewState creates default view state
func NewViewState(cfg *config) *ViewState {
	return &ViewState{
		TextureEnabled: true,
		Wireframe:      cfg.wireframe,
		LightDir:       math3d.V3(0.5, 1, 0.3).Normalize(),
		Distance:       cfg.distance,
		MouseX:         -1,
		MouseY:         -1,
	}
}

// ScreenToLightDir converts a screen position to a light direction.
// Maps screen coords to a hemisphere facing the viewer.
func (v *ViewState) ScreenToLightDir(screenX, screenY, width, height int) math3d.Vec3 {
	// Normalize to [-1, 1]
	nx := (float64(screenX)/float64(width))*2 - 1
	ny := (float64(screenY)/float64(height))*2 - 1

	// Clamp to unit circle
	lenSq := nx*nx + ny*ny
	if lenSq > 1 {
		l := math.Sqrt(lenSq)
		nx /= l
		ny /= l
		lenSq = 1
	}

	// Z component (hemisphere projection)
	nz := math.Sqrt(1 - lenSq)
	return math3d.V3(nx, -ny, nz).Normalize()
}

// HUD renders an overlay with model info and controls
type HUD struct {
	filename  string
	polyCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	frameTime time.Duration
	picked    string
}

// NewHUD creates a new HUD
func NewHUD(filename string, polyCount int) *HUD {
	return &HUD{
		filename:  filename,
		polyCount: polyCount,
		fpsTime:   time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS(frameTime time.Duration) {
	h.fpsFrames++
	h.frameTime = frameTime
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height int, viewState *ViewState) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if viewState.LightMode {
		lightMsg := fmt.Sprintf("%s%s%s ◉ LIGHT MODE - Move mouse to position, click to set, Esc to cancel %s",
			bgBlack, bold, fgYellow, reset)
		lightCol := max((width-60)/2, 1)
		fmt.Print(moveTo(height, lightCol) + lightMsg)
		return
	}

	if !viewState.ShowHUD {
		return
	}

	// Top left: FPS and cast time
	fmt.Printf("%s%s%s %.0f FPS %s%s%v %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, dim, fgWhite, h.frameTime.Round(time.Millisecond), reset)

	// Top middle: filename
	titleStr := fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.filename, reset)
	titleCol := max((width-len(h.filename)-2)/2, 1)
	fmt.Print(moveTo(1, titleCol) + titleStr)

	// Top right: triangle count
	polyStr := fmt.Sprintf("%s%s%s %d tris %s", bgBlack, fgCyan, bold, h.polyCount, reset)
	polyCol := max(width-14, 1)
	fmt.Print(moveTo(1, polyCol) + polyStr)

	// Bottom: mode checkboxes and the surface under the cursor
	checkTex := "[ ]"
	if viewState.TextureEnabled {
		checkTex = "[✓]"
	}
	checkWire := "[ ]"
	if viewState.Wireframe {
		checkWire = "[✓]"
	}
	modeStr := fmt.Sprintf("%s%s %s Texture  %s Wireframe  %s%s%s",
		bgBlack, fgWhite, checkTex, checkWire, fgCyan, h.picked, reset)
	fmt.Print(moveTo(height, 1) + modeStr)

	hint := fmt.Sprintf("%s%s%s L: position light %s", bgBlack, dim, fgYellow, reset)
	hintCol := max(width-18, 1)
	fmt.Print(moveTo(height, hintCol) + hint)
}

// pickLabel names the mesh and surface under the terminal cell (col, row).
func pickLabel(c *raycast.Caster, col, row, width, height int) string {
	if col < 0 || row < 0 || width <= 0 || height <= 0 {
		return ""
	}
	p := math3d.V2((float64(col)+0.5)/float64(width), (float64(row)+0.5)/float64(height))
	best, ok := c.Best(p)
	if !ok {
		return ""
	}
	m := c.Meshes()[best.MeshIdx].Model()
	return fmt.Sprintf("%s / %s #%d", m.Name, m.Surfaces[best.SurfIdx].Name, best.Intersect.TriIdx)
}

// noTexture shades like DefaultShader but ignores base maps.
func noTexture(in render.ShadeInput, l *render.Lighting) render.RGBAF {
	in.Texture = nil
	return render.DefaultShader(in, l)
}

func preview(ctx context.Context, logger *log.Logger, sc *scene, cfg *config) error {
	if cfg.fps <= 0 {
		return fmt.Errorf("invalid fps %d", cfg.fps)
	}
	bgColor, err := parseColor(cfg.bg)
	if err != nil {
		return err
	}
	bg := straightColor(bgColor)
	baseOpts, err := casterOptions(cfg)
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			logger.Debug("terminal shutdown", "err", err)
		}
	}
	defer cleanup()

	// Each terminal row holds two framebuffer rows.
	fb := render.NewFramebuffer(width, height*2)
	camera := newCamera(cfg.distance, float64(fb.Width)/float64(fb.Height))
	light := lighting(cfg)

	pitch0, yaw0 := cfg.pitch*math.Pi/180, cfg.yaw*math.Pi/180
	rotation := NewRotationState(cfg.fps)
	rotation.Reset(pitch0, yaw0)
	viewState := NewViewState(cfg)
	hud := NewHUD(sc.name, sc.polys)

	inputTorque := struct{ pitch, yaw, roll float64 }{}
	const torqueStrength = 3.0

	var mouseDown bool
	var lastMouseX, lastMouseY int

	ticker := time.NewTicker(time.Second / time.Duration(cfg.fps))
	defer ticker.Stop()
	lastFrame := time.Now()
	events := term.Events()
	redraw := true

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			redraw = true
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				if err := term.Resize(width, height); err != nil {
					return fmt.Errorf("resize terminal: %w", err)
				}
				fb = render.NewFramebuffer(width, height*2)
				camera.SetAspectRatio(float64(fb.Width) / float64(fb.Height))

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"):
					if !viewState.LightMode {
						return nil
					}
					viewState.LightMode = false
				case ev.MatchString("ctrl+c"):
					return nil
				case ev.MatchString("q"):
					inputTorque.roll = -torqueStrength
				case ev.MatchString("e"):
					inputTorque.roll = torqueStrength
				case ev.MatchString("r"):
					rotation.Reset(pitch0, yaw0)
					viewState.Distance = cfg.distance
				case ev.MatchString("w", "up"):
					inputTorque.pitch = -torqueStrength
				case ev.MatchString("s", "down"):
					inputTorque.pitch = torqueStrength
				case ev.MatchString("a", "left"):
					inputTorque.yaw = -torqueStrength
				case ev.MatchString("d", "right"):
					inputTorque.yaw = torqueStrength
				case ev.MatchString("space"):
					rotation.ApplyImpulse(
						(rand.Float64()-0.5)*1.5,
						(rand.Float64()-0.5)*1.5,
						(rand.Float64()-0.5)*1.5,
					)
				case ev.MatchString("+", "="):
					viewState.Distance = math.Max(1.5, viewState.Distance-0.5)
				case ev.MatchString("-", "_"):
					viewState.Distance = math.Min(20, viewState.Distance+0.5)
				case ev.MatchString("t"):
					viewState.TextureEnabled = !viewState.TextureEnabled
				case ev.MatchString("x"):
					viewState.Wireframe = !viewState.Wireframe
				case ev.MatchString("l"):
					viewState.LightMode = true
					viewState.PendingLight = viewState.LightDir
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					viewState.ShowHUD = !viewState.ShowHUD
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
					inputTorque.pitch = 0
				case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
					inputTorque.yaw = 0
				case ev.MatchString("q"), ev.MatchString("e"):
					inputTorque.roll = 0
				}

			case uv.MouseClickEvent:
				if viewState.LightMode {
					viewState.LightDir = viewState.PendingLight
					viewState.LightMode = false
				} else {
					mouseDown = true
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				viewState.MouseX, viewState.MouseY = ev.X, ev.Y
				if viewState.LightMode {
					viewState.PendingLight = viewState.ScreenToLightDir(ev.X, ev.Y, width, height)
				} else if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03, 0)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					viewState.Distance = math.Max(1.5, viewState.Distance-0.5)
				case uv.MouseWheelDown:
					viewState.Distance = math.Min(20, viewState.Distance+0.5)
				}
			}

		case now := <-ticker.C:
			dt := math.Min(now.Sub(lastFrame).Seconds(), 0.1)
			lastFrame = now

			// Apply input torque and decay it (key release events unreliable)
			rotation.ApplyImpulse(
				inputTorque.pitch*dt,
				inputTorque.yaw*dt,
				inputTorque.roll*dt,
			)
			inputTorque.pitch *= 0.9
			inputTorque.yaw *= 0.9
			inputTorque.roll *= 0.9
			rotation.Update()

			// Nothing moved and no input arrived: keep the last frame.
			idle := math.Abs(inputTorque.pitch)+math.Abs(inputTorque.yaw)+math.Abs(inputTorque.roll) < 1e-3
			if !redraw && idle && !rotation.Moving() {
				continue
			}
			redraw = false

			camera.SetPosition(math3d.V3(0, 0, viewState.Distance))
			if len(light.Lights) > 0 {
				light.Lights[0].Direction = viewState.LightDir
				if viewState.LightMode {
					light.Lights[0].Direction = viewState.PendingLight
				}
			}

			opts := baseOpts
			if !viewState.TextureEnabled {
				opts = append(opts[:len(opts):len(opts)], raycast.WithShader(noTexture))
			}

			// The caster indexes the posed vertices, so every frame builds a
			// new one.
			model := modelRotation(rotation.Pitch.Position, rotation.Yaw.Position, rotation.Roll.Position)
			c, err := sc.caster(camera, model, light, bg, opts...)
			if err != nil {
				return err
			}
			if err := c.Render(ctx, fb); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("render: %w", err)
			}
			if viewState.Wireframe {
				c.DrawWireframe(fb, render.RGB(0, 255, 128))
			}

			term.Draw(fb)
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}

			if viewState.ShowHUD {
				hud.picked = pickLabel(c, viewState.MouseX, viewState.MouseY, width, height)
			}
			hud.UpdateFPS(time.Since(now))
			hud.Render(width, height, viewState)
		}
	}
}
