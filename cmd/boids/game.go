package main

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-boids-simulation/internal/viewport"
	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-simulation/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
)

const (
	panelX, panelY = 10, 10
	panelWidth     = 280
	// vertices per DrawTriangles call must fit uint16 indices
	maxBoidsPerBatch = 65535 / 3
)

var (
	whiteImage      = ebiten.NewImage(3, 3)
	backgroundColor = color.RGBA{R: 10, G: 10, B: 30, A: 255}
	worldEdgeColor  = color.RGBA{R: 90, G: 90, B: 120, A: 255}
	radiusColor     = color.RGBA{R: 50, G: 100, B: 255, A: 60}
)

func init() {
	whiteImage.Fill(color.White)
}

type Game struct {
	ctx        context.Context
	logger     log.Logger
	worldPID   *actor.PID
	snapshotCh chan *simulation.Snapshot
	lastState  *simulation.Snapshot

	cfg    *simulation.Config
	params flock.Parameters // canonical copy, sent with every frame
	seed   uint64
	camera *viewport.Camera

	// UI Controls
	panel            *ui.UIPanel
	widgetSeparation *ui.Slider
	widgetAlignment  *ui.Slider
	widgetCohesion   *ui.Slider
	widgetPointer    *ui.Slider
	widgetMaxSpeed   *ui.Slider
	widgetBoundary   *ui.Slider
	widgetRadius     *ui.Slider
	widgetTolerance  *ui.Slider
	widgetMode       *ui.Button
	widgetShowRadius *ui.Checkbox
	widgetPaused     *ui.Checkbox

	vertices []ebiten.Vertex
	indices  []uint16

	// Timing instrumentation
	lastUpdateDuration time.Duration
	lastDrawDuration   time.Duration
	updateAvg          float64 // Rolling average in ms
	drawAvg            float64 // Rolling average in ms
}

// NewGame spawns the world actor and builds the configuration panel.
func NewGame(ctx context.Context, cfg *simulation.Config, system actor.ActorSystem, screenW, screenH int) (*Game, error) {
	// Buffer to avoid blocking the world actor
	snapshotCh := make(chan *simulation.Snapshot, 10)

	worldActor, err := simulation.NewWorldActor(cfg, snapshotCh, nil)
	if err != nil {
		return nil, err
	}
	worldPID, err := system.Spawn(ctx, "world", worldActor)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	g := &Game{
		ctx:        ctx,
		logger:     system.Logger(),
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		cfg:        cfg,
		params:     cfg.Params.Sanitized(),
		seed:       cfg.World.Seed,
		camera:     viewport.New(float64(screenW), float64(screenH), cfg.World.Width, cfg.World.Height),
	}

	panel := ui.NewUIPanel(panelX, panelY, panelWidth, float64(screenH)-2*panelY)

	panel.AddSection("Flocking")
	g.widgetSeparation = addSlider(panel, "Separation", flock.SeparationRange, g.params.SeparationWeight)
	g.widgetAlignment = addSlider(panel, "Alignment", flock.AlignmentRange, g.params.AlignmentWeight)
	g.widgetCohesion = addSlider(panel, "Cohesion", flock.CohesionRange, g.params.CohesionWeight)
	g.widgetRadius = addSlider(panel, "Perception Radius", flock.RadiusRange, g.params.PerceptionRadius)
	g.widgetMaxSpeed = addSlider(panel, "Max Speed", flock.MaxSpeedRange, g.params.MaxSpeed)
	panel.EndSection()

	panel.AddSection("Environment")
	g.widgetPointer = addSlider(panel, "Mouse Fear", flock.PointerRange, g.params.PointerWeight)
	g.widgetBoundary = addSlider(panel, "Wall Fear", flock.BoundaryRange, g.params.BoundaryWeight)
	g.widgetTolerance = addSlider(panel, "Wall Distance", flock.ToleranceRange, g.params.BoundaryTolerance)
	g.widgetMode = panel.AddButton(modeLabel(g.params.Boundary), g.cycleBoundaryMode)
	panel.EndSection()

	panel.AddSection("Simulation")
	g.widgetShowRadius = panel.AddCheckbox("Show Perception Circle", false)
	g.widgetPaused = panel.AddCheckbox("Pause", false)
	panel.AddButton("Reset flock", g.reset)
	panel.EndSection()

	g.panel = panel
	return g, nil
}

// addSlider widens the default range so a configured value is never clamped.
func addSlider(panel *ui.UIPanel, label string, r flock.Range, value float64) *ui.Slider {
	r = r.Including(value)
	return panel.AddSlider(label, r.Min, r.Max, value)
}

func modeLabel(m flock.BoundaryMode) string {
	return "Edges: " + m.String()
}

func (g *Game) cycleBoundaryMode() {
	g.params.SetBoundary(g.params.Boundary.Next())
	g.widgetMode.Label = modeLabel(g.params.Boundary)
}

func (g *Game) reset() {
	g.seed++
	if err := actor.Tell(g.ctx, g.worldPID, simulation.NewResetMessage(g.seed)); err != nil {
		g.logger.Errorf("reset: %v", err)
	}
}

// frameDt is the duration of one tick, 1/60 s until ebiten has measured TPS.
func frameDt() float64 {
	if tps := ebiten.ActualTPS(); tps > 0 {
		return 1 / tps
	}
	return 1.0 / 60
}

func (g *Game) readSliders() {
	g.params.SetSeparationWeight(g.widgetSeparation.Value)
	g.params.SetAlignmentWeight(g.widgetAlignment.Value)
	g.params.SetCohesionWeight(g.widgetCohesion.Value)
	g.params.SetPerceptionRadius(g.widgetRadius.Value)
	g.params.SetMaxSpeed(g.widgetMaxSpeed.Value)
	g.params.SetPointerWeight(g.widgetPointer.Value)
	g.params.SetBoundaryWeight(g.widgetBoundary.Value)
	g.params.SetBoundaryTolerance(g.widgetTolerance.Value)
}

func (g *Game) panelRect() viewport.Rect {
	return viewport.Rect{X: g.panel.X, Y: g.panel.Y, W: g.panel.Width, H: g.panel.Height}
}

func (g *Game) updateCamera(dt float64) {
	mx, my := ebiten.CursorPosition()
	if _, dy := ebiten.Wheel(); dy != 0 && !g.panel.Contains(float64(mx), float64(my)) {
		g.camera.ZoomBy(dy)
	}

	var dir geometry.Vector2D
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		dir.X++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		dir.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		dir.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		dir.Y--
	}
	if dir != geometry.Zero {
		g.camera.Pan(dir, dt)
	}
}

func (g *Game) pointer() *geometry.Vector2D {
	if g.panel.Busy() {
		return nil
	}
	mx, my := ebiten.CursorPosition()
	cursor := geometry.Vector2D{X: float64(mx), Y: float64(my)}
	return g.camera.PointerSample(cursor, g.cfg.World.Width, g.cfg.World.Height, g.panelRect())
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.lastUpdateDuration = time.Since(start)
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(g.lastUpdateDuration.Microseconds())/1000.0*0.05
	}()

	// 1. Update UI Panel
	g.panel.Update()
	g.readSliders()

	dt := frameDt()
	g.updateCamera(dt)

	// 2. Retrieve Latest State (Non-blocking)
Drain:
	for {
		select {
		case snap := <-g.snapshotCh:
			g.lastState = snap
		default:
			break Drain
		}
	}

	if g.widgetPaused.Value {
		return nil
	}

	// 3. Trigger exactly one simulation step
	msg, err := simulation.NewFrameMessage(dt, g.params, g.pointer())
	if err != nil {
		return fmt.Errorf("building frame: %w", err)
	}
	if err := actor.Tell(g.ctx, g.worldPID, msg); err != nil {
		g.logger.Warnf("frame not delivered: %v", err)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.lastDrawDuration = time.Since(start)
		g.drawAvg = g.drawAvg*0.95 + float64(g.lastDrawDuration.Microseconds())/1000.0*0.05
	}()

	screen.Fill(backgroundColor)
	g.drawWorldEdges(screen)

	if g.lastState != nil {
		if g.widgetShowRadius.Value {
			r := float32(g.params.PerceptionRadius * g.camera.Zoom)
			for _, b := range g.lastState.Boids {
				p := g.camera.WorldToScreen(b.Pos)
				vector.StrokeCircle(screen, float32(p.X), float32(p.Y), r, 1, radiusColor, true)
			}
		}
		g.drawBoids(screen, g.lastState.Boids)
	}

	g.panel.Draw(screen)

	frame, count := uint64(0), 0
	if g.lastState != nil {
		frame, count = g.lastState.Frame, len(g.lastState.Boids)
	}
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nBoids: %d\nFrame: %d\nZoom:  %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		count,
		frame,
		g.camera.Zoom,
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-150, 10)
}

func (g *Game) drawWorldEdges(screen *ebiten.Image) {
	tl := g.camera.WorldToScreen(geometry.Zero)
	br := g.camera.WorldToScreen(geometry.Vector2D{X: g.cfg.World.Width, Y: g.cfg.World.Height})
	vector.StrokeRect(screen, float32(tl.X), float32(tl.Y), float32(br.X-tl.X), float32(br.Y-tl.Y), 2, worldEdgeColor, true)
}

// drawBoids batches every marker into as few DrawTriangles calls as possible.
func (g *Game) drawBoids(screen *ebiten.Image, boids []flock.Boid) {
	size := viewport.MarkerSize * g.camera.Zoom
	for start := 0; start < len(boids); start += maxBoidsPerBatch {
		end := min(start+maxBoidsPerBatch, len(boids))
		g.vertices = g.vertices[:0]
		g.indices = g.indices[:0]
		for i, b := range boids[start:end] {
			screenBoid := flock.Boid{Pos: g.camera.WorldToScreen(b.Pos), Vel: b.Vel}
			for _, v := range viewport.Marker(screenBoid, size) {
				g.vertices = append(g.vertices, ebiten.Vertex{
					DstX: float32(v.X), DstY: float32(v.Y),
					SrcX: 1, SrcY: 1,
					ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
				})
			}
			base := uint16(i * 3)
			g.indices = append(g.indices, base, base+1, base+2)
		}
		screen.DrawTriangles(g.vertices, g.indices, whiteImage, &ebiten.DrawTrianglesOptions{})
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.camera.Resize(float64(outsideWidth), float64(outsideHeight))
	g.panel.Height = float64(outsideHeight) - 2*panelY
	return outsideWidth, outsideHeight
}
