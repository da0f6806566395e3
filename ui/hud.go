package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ballast/telemetry"
)

// Renderer handles all HUD drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line and returns the
// new Y position.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a labeled progress bar for [0, 1] values and returns the
// new Y position.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth

	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*value), r.Theme.BarHeight, r.Theme.BarFill)
	return y + r.Theme.LineHeight
}

// PerfPanel draws step timing: the rolling average total plus one bar per
// phase, slowest first, scaled against the total. Returns the Y position
// below the panel.
func (r *Renderer) PerfPanel(x, y, width int32, timer *telemetry.StepTimer) int32 {
	names := timer.SortedNames()
	total := timer.Total()

	height := r.Theme.Padding*2 + r.Theme.LineHeight*int32(len(names)+2)
	r.DrawPanel(x, y, width, height)

	cx := x + r.Theme.Padding
	cy := y + r.Theme.Padding
	cy = r.DrawSectionHeader(cx, cy, "step timing")
	cy = r.DrawLabelValue(cx, cy, "total", formatDuration(total))

	for _, name := range names {
		avg := timer.Avg(name)
		frac := float32(0)
		if total > 0 {
			frac = float32(avg) / float32(total)
		}
		cy = r.DrawBar(cx, cy, name, frac, width-r.Theme.Padding*2)
	}
	return y + height
}

// formatDuration renders sub-millisecond durations legibly.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%d us", d.Microseconds())
	}
	return fmt.Sprintf("%.2f ms", float64(d.Microseconds())/1000)
}
