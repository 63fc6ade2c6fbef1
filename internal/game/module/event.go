package module

// Event is an inbound semantic input event. The registry routes events to
// modules; modules act only on the ones they support.
type Event interface {
	// Name is a short identifier used in logs.
	Name() string
}

// ActivateAt reports that the pointer entered a module cell.
type ActivateAt struct {
	Location Location
	// Pointer is the screen position reported by the input layer. It is
	// carried through to notifications and never interpreted.
	Pointer [2]float64
}

// Deactivate reports that the pointer left every cell.
type Deactivate struct{}

// CutWire reports a confirmed cut gesture on the wire at Position.
type CutWire struct {
	Position int
}

// PressButton reports a discrete press of the active button.
type PressButton struct{}

// ReleaseButton reports the release of the active button.
type ReleaseButton struct{}

// RotateKnob reports one rotation tick of the active knob.
type RotateKnob struct {
	Clockwise bool
}

// SwipeSides toggles which face of the bomb is presented.
type SwipeSides struct{}

func (ActivateAt) Name() string    { return "activate" }
func (Deactivate) Name() string    { return "deactivate" }
func (CutWire) Name() string       { return "cut" }
func (PressButton) Name() string   { return "press" }
func (ReleaseButton) Name() string { return "release" }
func (RotateKnob) Name() string    { return "rotate" }
func (SwipeSides) Name() string    { return "swipe" }

// NotificationKind names an outbound state change.
type NotificationKind string

// Outbound notification kinds.
const (
	NoteModuleActivated   NotificationKind = "module_activated"
	NoteModuleDeactivated NotificationKind = "module_deactivated"
	NoteWireSetGenerated  NotificationKind = "wire_set_generated"
	NoteWireCut           NotificationKind = "wire_cut"
	NoteButtonPressed     NotificationKind = "button_pressed"
	NoteButtonReleased    NotificationKind = "button_released"
	NoteKnobRotated       NotificationKind = "knob_rotated"
	NoteModulePassed      NotificationKind = "module_passed"
	NoteModuleFailed      NotificationKind = "module_failed"
	NoteStrikeRecorded    NotificationKind = "strike_recorded"
	NoteSideSwapped       NotificationKind = "side_swapped"
	NoteCooldownExpired   NotificationKind = "cooldown_expired"
	NoteGameOver          NotificationKind = "game_over"
)

// Notification is an outbound state change for the view layer. Only the
// fields relevant to Kind are populated.
type Notification struct {
	Kind NotificationKind
	// Module is the source module; zero for bomb-level notifications.
	Module Location
	// Position is the wire index for NoteWireCut.
	Position int
	// Colors is the generated wire set for NoteWireSetGenerated.
	Colors []Color
	// Count is the press count for button notifications and the strike
	// count for NoteStrikeRecorded.
	Count int
	// Rotation is the knob angle in degrees for NoteKnobRotated.
	Rotation float64
	// Display is the knob's displayed digit, or "" for an empty bucket.
	Display string
	// Side is the newly presented face for NoteSideSwapped.
	Side Side
	// Cooldown names the expired timer for NoteCooldownExpired.
	Cooldown string
	// Pointer echoes ActivateAt.Pointer for NoteModuleActivated.
	Pointer [2]float64
	// Won is the result for NoteGameOver.
	Won bool
}

// Emitter receives notifications synchronously.
type Emitter func(Notification)

// Discard is an Emitter that drops every notification.
func Discard(Notification) {}
