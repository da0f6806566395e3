// Interactive physics viewer: drops a stack of bodies onto a ground plane
// and visualizes the simulation, with sliders for runtime tuning.
//
// Usage: go run ./cmd/ballastview [-config path] [-headless -ticks N]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ballast/camera"
	"github.com/pthm-cable/ballast/collider"
	"github.com/pthm-cable/ballast/components"
	"github.com/pthm-cable/ballast/config"
	"github.com/pthm-cable/ballast/dynamics"
	"github.com/pthm-cable/ballast/systems"
	"github.com/pthm-cable/ballast/telemetry"
	"github.com/pthm-cable/ballast/ui"
	"github.com/pthm-cable/ballast/world"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	fixedDT      = 1.0 / 60.0
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	ticks := flag.Int("ticks", 600, "Steps to run in headless mode")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 1, "RNG seed for the demo scene")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ecsWorld := ecs.NewWorld()
	physWorld := world.NewWorld(cfg.Settings())
	physWorld.SetLogger(logger)

	timer := telemetry.NewStepTimer(cfg.Telemetry.Window)
	physWorld.SetObserver(timer)

	dir := *outputDir
	if dir == "" {
		dir = cfg.Telemetry.OutputDir
	}
	out, err := telemetry.NewOutputManager(dir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer out.Close()

	// Snapshot the effective config next to the CSV logs.
	if dir != "" {
		if err := cfg.WriteYAML(filepath.Join(dir, "config.yaml")); err != nil {
			slog.Warn("failed to write config snapshot", "error", err)
		}
	}

	sys := systems.NewPhysicsSystem(ecsWorld, physWorld)
	buildScene(ecsWorld, rand.New(rand.NewSource(*seed)))

	var enters, exits int
	physWorld.Events.CollisionEnter = func(world.Contact) { enters++ }
	physWorld.Events.CollisionExit = func(world.Contact) { exits++ }

	if *headless {
		runHeadless(ecsWorld, sys, physWorld, timer, out, *ticks)
		return
	}
	runInteractive(ecsWorld, sys, physWorld, timer, &enters, &exits)
}

// buildScene creates the ground plane and a column of falling bodies.
func buildScene(w *ecs.World, rng *rand.Rand) {
	mapper := ecs.NewMap3[components.Transform, components.PhysicsBody, components.PhysicsShape](w)

	// Static ground.
	ground := components.DefaultPhysicsBody()
	ground.Type = dynamics.Static
	groundTf := components.NewTransform(mgl64.Vec3{})
	groundShape := components.PhysicsShape{
		Kind:   collider.ShapePlane,
		Normal: mgl64.Vec3{0, 1, 0},
	}
	mapper.NewEntity(&groundTf, &ground, &groundShape)

	// Falling bodies, jittered so the stack topples interestingly.
	for i := 0; i < 12; i++ {
		tf := components.NewTransform(mgl64.Vec3{
			rng.Float64()*0.4 - 0.2,
			2 + float64(i)*1.5,
			rng.Float64()*0.4 - 0.2,
		})
		body := components.DefaultPhysicsBody()
		body.Restitution = 0.3

		var shape components.PhysicsShape
		switch i % 3 {
		case 0:
			shape = components.PhysicsShape{Kind: collider.ShapeSphere, Radius: 0.5}
		case 1:
			shape = components.PhysicsShape{Kind: collider.ShapeBox, HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}
		default:
			shape = components.PhysicsShape{Kind: collider.ShapeCapsule, Radius: 0.3, HalfHeight: 0.4}
		}
		mapper.NewEntity(&tf, &body, &shape)
	}
}

func runHeadless(w *ecs.World, sys *systems.PhysicsSystem, pw *world.World, timer *telemetry.StepTimer, out *telemetry.OutputManager, ticks int) {
	slog.Info("starting headless simulation", "ticks", ticks)

	var energies []float64
	for step := 0; step < ticks; step++ {
		sys.Update(w, fixedDT)

		if step%60 != 0 {
			continue
		}
		energies = pw.KineticEnergies(energies[:0])
		awake := 0
		pw.Bodies(func(b *dynamics.RigidBody) {
			if b.IsAwake() {
				awake++
			}
		})
		stats := telemetry.CollectEnergy(step, awake, energies)
		slog.Info("energy", "stats", stats)
		if err := out.WriteEnergy(stats); err != nil {
			slog.Error("telemetry write failed", "error", err)
		}
		if err := out.WriteStep(step, timer.Total()); err != nil {
			slog.Error("telemetry write failed", "error", err)
		}
	}
	slog.Info("done", "avg_step", timer.Total())
}

func runInteractive(w *ecs.World, sys *systems.PhysicsSystem, pw *world.World, timer *telemetry.StepTimer, enters, exits *int) {
	rl.InitWindow(windowWidth, windowHeight, "ballast viewer")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	orbit := camera.New(mgl64.Vec3{0, 2, 0}, 14)
	hud := ui.NewRenderer()

	// Contact points from the current frame, collected by the Stay hook.
	var contacts []mgl64.Vec3
	pw.Events.CollisionStay = func(c world.Contact) {
		for _, p := range c.Manifold.Contacts {
			contacts = append(contacts, p.PointA)
		}
	}

	paused := false
	showPerf := true
	gravityY := float32(pw.Settings.Gravity[1])
	velIters := float32(pw.Settings.VelocityIterations)

	for !rl.WindowShouldClose() {
		updateCamera(orbit)
		if rl.IsKeyPressed(rl.KeyP) {
			showPerf = !showPerf
		}

		if !paused {
			pw.Settings.Gravity[1] = float64(gravityY)
			pw.Settings.VelocityIterations = int(velIters)
			contacts = contacts[:0]
			sys.Update(w, fixedDT)
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(24, 26, 33, 255))

		rl.BeginMode3D(rlCamera(orbit))
		rl.DrawGrid(24, 1)
		pw.Colliders(drawCollider)
		for _, p := range contacts {
			rl.DrawSphere(rlVec(p), 0.05, rl.Red)
		}
		rl.EndMode3D()

		hud.DrawLabelValue(10, 10, "bodies",
			fmt.Sprintf("%d  enters %d  exits %d", pw.BodyCount(), *enters, *exits))

		if gui.Button(rl.Rectangle{X: 10, Y: 40, Width: 100, Height: 28}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		gravityY = gui.SliderBar(rl.Rectangle{X: 10, Y: 76, Width: 160, Height: 20},
			"", fmt.Sprintf("gravity %.1f", gravityY), gravityY, -30, 0)
		velIters = gui.SliderBar(rl.Rectangle{X: 10, Y: 104, Width: 160, Height: 20},
			"", fmt.Sprintf("iters %d", int(velIters)), velIters, 1, 20)

		if showPerf {
			hud.PerfPanel(windowWidth-290, 10, 280, timer)
		}

		rl.EndDrawing()
	}
}

// updateCamera applies mouse input to the orbital camera: right drag to
// orbit, middle drag to pan, wheel to dolly.
func updateCamera(c *camera.Orbital) {
	delta := rl.GetMouseDelta()
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		c.Orbit(float64(-delta.X)*0.005, float64(delta.Y)*0.005)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		c.Pan(float64(-delta.X)*0.02, float64(delta.Y)*0.02)
	}
	c.Dolly(float64(-rl.GetMouseWheelMove()))
}

// rlCamera converts the orbital camera into raylib's camera struct.
func rlCamera(c *camera.Orbital) rl.Camera3D {
	return rl.Camera3D{
		Position:   rlVec(c.Position()),
		Target:     rlVec(c.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

// drawCollider renders one collider's shape. Boxes are drawn axis-aligned;
// the wireframe still tracks the body center.
func drawCollider(c *collider.Collider) {
	b := c.Body
	if b == nil || b.Type == dynamics.Static {
		return // ground plane is drawn as the grid
	}

	color := rl.SkyBlue
	if !b.IsAwake() && b.Type == dynamics.Dynamic {
		color = rl.Gray
	}

	worldPos := c.WorldPosition()
	pos := rlVec(worldPos)
	switch s := c.Shape.(type) {
	case collider.Sphere:
		rl.DrawSphere(pos, float32(s.Radius), color)
		rl.DrawSphereWires(pos, float32(s.Radius), 8, 8, rl.DarkBlue)
	case collider.Box:
		size := rl.NewVector3(
			float32(s.HalfExtents[0]*2),
			float32(s.HalfExtents[1]*2),
			float32(s.HalfExtents[2]*2),
		)
		rl.DrawCubeV(pos, size, color)
		rl.DrawCubeWiresV(pos, size, rl.DarkBlue)
	case collider.Capsule:
		a, bEnd := s.Segment(worldPos, c.WorldRotation())
		rl.DrawCapsule(rlVec(a), rlVec(bEnd), float32(s.Radius), 8, 8, color)
		rl.DrawCapsuleWires(rlVec(a), rlVec(bEnd), float32(s.Radius), 8, 8, rl.DarkBlue)
	}
}

func rlVec(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v[0]), float32(v[1]), float32(v[2]))
}

func toggleText(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
