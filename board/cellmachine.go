package board

import (
	"github.com/looplab/fsm"
	"github.com/pkg/errors"

	"memoryscramble.io/logging"
)

// Cell lifecycle states. A cell starts at CellEmpty or CellDown depending
// on whether the parsed layout placed a card there.
const (
	CellEmpty          = "empty"
	CellDown           = "down"
	CellUpUncontrolled = "up_uncontrolled"
	CellUpControlled   = "up_controlled"
)

// Cell lifecycle events, one per transition the flip state machine drives.
const (
	cellEventFlipFaceUp   = "flip_face_up"
	cellEventTakeControl  = "take_control"
	cellEventRelease      = "release"
	cellEventFlipFaceDown = "flip_face_down"
	cellEventRemove       = "remove"
	cellEventDeal         = "deal"
)

// cellMachine wraps a per-cell fsm.FSM so illegal transitions (e.g.
// removing a face-down card, or releasing control nobody holds) are
// rejected by the machine itself rather than trusted to caller
// discipline. Modeled on the bot player state machine in the teacher's
// botrunner package: named events, explicit Src/Dst pairs, one
// enter_state callback for logging.
type cellMachine struct {
	sm *fsm.FSM
}

func newCellMachine(initial string, onEnter func(from, to, event string)) *cellMachine {
	cm := &cellMachine{}
	cm.sm = fsm.NewFSM(
		initial,
		fsm.Events{
			{Name: cellEventDeal, Src: []string{CellEmpty}, Dst: CellDown},
			{Name: cellEventFlipFaceUp, Src: []string{CellDown}, Dst: CellUpUncontrolled},
			{Name: cellEventTakeControl, Src: []string{CellUpUncontrolled, CellUpControlled}, Dst: CellUpControlled},
			{Name: cellEventRelease, Src: []string{CellUpControlled}, Dst: CellUpUncontrolled},
			{Name: cellEventFlipFaceDown, Src: []string{CellUpUncontrolled}, Dst: CellDown},
			{Name: cellEventRemove, Src: []string{CellUpControlled, CellUpUncontrolled}, Dst: CellEmpty},
		},
		fsm.Callbacks{
			"enter_state": func(e *fsm.Event) {
				if onEnter != nil {
					onEnter(e.Src, e.Dst, e.Event)
				}
			},
		},
	)
	return cm
}

func (cm *cellMachine) state() string {
	return cm.sm.Current()
}

// fire drives the underlying FSM. The flip state machine pre-checks a
// cell's faceUp/controller fields before calling fire, so sm.Event should
// never reject the event; if it does, the caller and the FSM have
// disagreed about cell state, which is exactly the class of bug checkRep
// exists to catch. Matching the teacher's bot_player.event (which logs a
// Warn on sm.Event's error), fire logs before escalating — but unlike the
// bot player it does not swallow the error afterward: it panics, so an
// invalid transition is actually rejected rather than merely noted.
func (cm *cellMachine) fire(event string) {
	if err := cm.sm.Event(event); err != nil {
		boardLogger.Warn().Str(logging.RuleKey, event).Err(err).Msg("cell state machine rejected event")
		panic(errors.Wrapf(ErrRepInvariantViolated, "cell state machine rejected event %q in state %q: %v", event, cm.sm.Current(), err))
	}
}
