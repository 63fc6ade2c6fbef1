package scripting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/defuse/internal/game/command"
	"github.com/cory-johannsen/defuse/internal/game/module"
)

// RegisterModules installs the "bomb" table and a print that writes to
// m.Out.
//
// Action functions (activate, leave, cut, press, release, rotate, swipe)
// return true, or false and the rejection reason. Rows, columns and wire
// numbers are one-based.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: bomb and print globals are defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	tbl := L.NewTable()
	L.SetFuncs(tbl, map[string]lua.LGFunction{
		"activate": m.luaActivate,
		"leave":    m.luaLeave,
		"cut":      m.luaCut,
		"press":    m.luaPress,
		"release":  m.luaRelease,
		"rotate":   m.luaRotate,
		"swipe":    m.luaSwipe,
		"side":     m.luaSide,
		"module":   m.luaModule,
		"modules":  m.luaModules,
		"status":   m.luaStatus,
		"wait":     m.luaWait,
		"settle":   m.luaSettle,
	})
	L.SetGlobal("bomb", tbl)
	L.SetGlobal("print", L.NewFunction(m.luaPrint))
}

// pushResult converts a registry result into the action return convention.
func (m *Manager) pushResult(L *lua.LState, action string, err error) int {
	if err != nil {
		m.logger.Debug("drill action rejected", zap.String("action", action), zap.Error(err))
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// checkLocation reads "side, row, column" starting at argument n.
func checkLocation(L *lua.LState, n int) (module.Location, error) {
	side, err := module.ParseSide(L.CheckString(n))
	if err != nil {
		return module.Location{}, err
	}
	return module.Location{Side: side, Row: L.CheckInt(n+1) - 1, Column: L.CheckInt(n+2) - 1}, nil
}

func (m *Manager) luaActivate(L *lua.LState) int {
	loc, err := checkLocation(L, 1)
	if err != nil {
		return m.pushResult(L, "activate", err)
	}
	return m.pushResult(L, "activate", m.bomb.ActivateAt(loc, [2]float64{}))
}

func (m *Manager) luaLeave(L *lua.LState) int {
	return m.pushResult(L, "leave", m.bomb.Deactivate())
}

func (m *Manager) luaCut(L *lua.LState) int {
	return m.pushResult(L, "cut", m.bomb.CutWire(L.CheckInt(1)-1))
}

func (m *Manager) luaPress(L *lua.LState) int {
	return m.pushResult(L, "press", m.bomb.PressButton())
}

func (m *Manager) luaRelease(L *lua.LState) int {
	return m.pushResult(L, "release", m.bomb.ReleaseButton())
}

// luaRotate implements bomb.rotate([direction [, ticks]]). Direction
// defaults to "cw" and ticks to 1; it stops at the first rejected tick.
func (m *Manager) luaRotate(L *lua.LState) int {
	args := []string{strings.ToLower(L.OptString(1, "cw"))}
	if L.GetTop() >= 2 {
		args = append(args, strconv.Itoa(L.CheckInt(2)))
	}
	clockwise, ticks, err := command.ParseRotation(args)
	if err != nil {
		return m.pushResult(L, "rotate", err)
	}
	for range ticks {
		if err := m.bomb.RotateKnob(clockwise); err != nil {
			return m.pushResult(L, "rotate", err)
		}
	}
	return m.pushResult(L, "rotate", nil)
}

func (m *Manager) luaSwipe(L *lua.LState) int {
	return m.pushResult(L, "swipe", m.bomb.SwipeSides())
}

func (m *Manager) luaSide(L *lua.LState) int {
	L.Push(lua.LString(m.bomb.Side()))
	return 1
}

// luaModule implements bomb.module([side, row, column]). Without arguments
// it describes the active module. Returns nil for an empty cell.
func (m *Manager) luaModule(L *lua.LState) int {
	var loc module.Location
	if L.GetTop() == 0 {
		st := m.bomb.Status()
		if !st.HasActive {
			L.Push(lua.LNil)
			return 1
		}
		loc = st.Active
	} else {
		var err error
		if loc, err = checkLocation(L, 1); err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
	}
	snap, ok := m.bomb.Snapshot(loc)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(snapshotTable(L, snap))
	return 1
}

func (m *Manager) luaModules(L *lua.LState) int {
	list := L.NewTable()
	for _, snap := range m.bomb.Modules() {
		list.Append(snapshotTable(L, snap))
	}
	L.Push(list)
	return 1
}

func (m *Manager) luaStatus(L *lua.LState) int {
	st := m.bomb.Status()
	ctx := m.bomb.Context()

	tbl := L.NewTable()
	tbl.RawSetString("name", lua.LString(st.Name))
	tbl.RawSetString("fails", lua.LNumber(st.Fails))
	tbl.RawSetString("max_fails", lua.LNumber(st.MaxFails))
	tbl.RawSetString("passed", lua.LNumber(st.Passed))
	tbl.RawSetString("failed", lua.LNumber(st.Failed))
	tbl.RawSetString("resolved", lua.LNumber(st.Resolved))
	tbl.RawSetString("total", lua.LNumber(st.Total))
	tbl.RawSetString("over", lua.LBool(st.Over))
	tbl.RawSetString("won", lua.LBool(st.Won))
	tbl.RawSetString("side", lua.LString(st.Side))
	tbl.RawSetString("serial", lua.LNumber(ctx.SerialNumber))
	tbl.RawSetString("batteries", lua.LNumber(ctx.Batteries))

	lit := L.NewTable()
	for _, l := range ctx.LitIndicators {
		lit.Append(lua.LString(strings.ToUpper(l)))
	}
	tbl.RawSetString("lit", lit)

	cooling := L.NewTable()
	for _, k := range st.Cooldowns {
		cooling.Append(lua.LString(k))
	}
	tbl.RawSetString("cooldowns", cooling)

	if st.HasActive {
		tbl.RawSetString("active", locationTable(L, st.Active))
	}
	L.Push(tbl)
	return 1
}

// luaWait implements bomb.wait(ms).
func (m *Manager) luaWait(L *lua.LState) int {
	ms := L.CheckNumber(1)
	if ms < 0 {
		L.ArgError(1, "wait must not be negative")
		return 0
	}
	m.wait(time.Duration(float64(ms) * float64(time.Millisecond)))
	return 0
}

// luaSettle implements bomb.settle(), which blocks until every lockout has
// expired.
func (m *Manager) luaSettle(L *lua.LState) int {
	if !m.settle() {
		L.Push(lua.LFalse)
		L.Push(lua.LString("bomb is still cooling down"))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (m *Manager) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(m.out(), strings.Join(parts, "\t"))
	return 0
}

func locationTable(L *lua.LState, loc module.Location) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("side", lua.LString(loc.Side))
	tbl.RawSetString("row", lua.LNumber(loc.Row+1))
	tbl.RawSetString("column", lua.LNumber(loc.Column+1))
	return tbl
}

// snapshotTable renders a module snapshot with one-based coordinates. Kind
// specific fields are present only for their kind.
func snapshotTable(L *lua.LState, s module.Snapshot) *lua.LTable {
	tbl := locationTable(L, s.Location)
	tbl.RawSetString("kind", lua.LString(s.Kind))
	tbl.RawSetString("outcome", lua.LString(s.Outcome.String()))
	tbl.RawSetString("active", lua.LBool(s.Active))
	tbl.RawSetString("situation", lua.LNumber(s.Situation))

	switch s.Kind {
	case module.KindWires:
		wires := L.NewTable()
		cut := L.NewTable()
		for i, c := range s.Wires {
			wires.Append(lua.LString(c))
			cut.Append(lua.LBool(i < len(s.Cut) && s.Cut[i]))
		}
		tbl.RawSetString("wires", wires)
		tbl.RawSetString("cut", cut)
	case module.KindButton:
		tbl.RawSetString("color", lua.LString(s.Color))
		tbl.RawSetString("label", lua.LString(s.Label))
		tbl.RawSetString("presses", lua.LNumber(s.Presses))
	case module.KindKnob:
		tbl.RawSetString("rotation", lua.LNumber(s.Rotation))
		tbl.RawSetString("display", lua.LString(s.Display))
	}
	return tbl
}
