package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/vrscene/anim"
	"github.com/plus3/vrscene/interact"
	"github.com/plus3/vrscene/scene"
)

// StatsSource reports driver statistics.
type StatsSource interface {
	Stats() *anim.Stats
}

// Inspector is a system that queues the debug windows each tick. The windows
// run as deferred commands so they see the scene after every system ran.
type Inspector struct {
	stats   StatsSource
	buttons []*interact.Button

	history  *FrameHistory
	selected scene.EntityId

	wantCaptureMouse    bool
	wantCaptureKeyboard bool
}

// NewInspector creates the inspector keeping historyFrames frame times.
func NewInspector(stats StatsSource, historyFrames int, buttons ...*interact.Button) *Inspector {
	return &Inspector{
		stats:   stats,
		buttons: buttons,
		history: NewFrameHistory(historyFrames),
	}
}

func (i *Inspector) Execute(frame *anim.Frame) {
	io := imgui.CurrentIO()
	i.wantCaptureMouse = io.WantCaptureMouse()
	i.wantCaptureKeyboard = io.WantCaptureKeyboard()
	i.history.Push(float32(frame.DeltaTime * 1000))

	reg := frame.Scene
	frame.Commands.Defer(func() {
		i.renderScene(reg)
		i.renderParams(reg)
		i.renderPerformance()
	})
}

// WantCaptureMouse reports whether ImGui consumed the mouse last tick.
func (i *Inspector) WantCaptureMouse() bool {
	return i.wantCaptureMouse
}

// WantCaptureKeyboard reports whether an ImGui widget had keyboard focus last tick.
func (i *Inspector) WantCaptureKeyboard() bool {
	return i.wantCaptureKeyboard
}

func (i *Inspector) renderScene(reg *scene.Registry) {
	if !imgui.BeginV("Scene", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 240), 0) {
		imgui.TableSetupColumn("ID")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Position")
		imgui.TableSetupColumn("Params")
		imgui.TableHeadersRow()

		for id, e := range reg.Iter() {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprintf("%d", id), i.selected == id, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				i.selected = id
			}
			imgui.TableNextColumn()
			imgui.Text(e.Name)
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f, %.2f, %.2f", e.Position[0], e.Position[1], e.Position[2]))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", e.Params.Len()))
		}
		imgui.EndTable()
	}

	if len(i.buttons) > 0 {
		imgui.Separator()
		for _, b := range i.buttons {
			active := b.Active()
			imgui.Checkbox(fmt.Sprintf("%d: %s (%d)", b.ID, b.Label, b.Fired()), &active)
		}
	}
	imgui.End()
}

func (i *Inspector) renderParams(reg *scene.Registry) {
	e := reg.Get(i.selected)
	if e == nil {
		return
	}
	if !imgui.BeginV("Parameters", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("%s (%s)", e.Name, e.Kind))
	x, y, z := e.Position[0], e.Position[1], e.Position[2]
	changed := inputFloat("x", &x)
	changed = inputFloat("y", &y) || changed
	changed = inputFloat("z", &z) || changed
	if changed {
		e.MoveTo(x, y, z)
	}

	if e.Params.Len() > 0 {
		imgui.Separator()
	}
	for _, name := range e.Params.Names() {
		slot, _ := e.Params.Lookup(name)
		if slot.Kind != scene.UniformFloat {
			imgui.Text(fmt.Sprintf("%s: %.2f, %.2f, %.2f", name, slot.Vec3[0], slot.Vec3[1], slot.Vec3[2]))
			continue
		}
		v := slot.Float
		if inputFloat(name, &v) {
			e.Params.SetFloat(name, v)
		}
	}
	imgui.End()
}

func inputFloat(label string, v *float32) bool {
	imgui.Text(label)
	imgui.SameLine()
	imgui.SetNextItemWidth(150)
	return imgui.InputFloat(fmt.Sprintf("##%s", label), v)
}

func (i *Inspector) renderPerformance() {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avg := i.history.Average()
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	samples := i.history.Samples()
	imgui.PlotLinesFloatPtr("##frametime", &samples[0], int32(len(samples)))

	if i.stats != nil && imgui.TreeNodeStr("Systems") {
		stats := i.stats.Stats()
		imgui.Text(fmt.Sprintf("State: %s, ticks: %d", stats.State, stats.Ticks))

		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()
			for _, s := range stats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(s.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", s.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(s.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}
	imgui.End()
}
