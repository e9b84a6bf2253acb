package game

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// EventKind enumerates what the transport can deliver.
type EventKind int

const (
	EventModeSelected EventKind = iota
	EventText
	EventChoice
	EventRestart
	EventStatus
	EventInventory
	EventHint
)

// Event is one inbound action, already resolved to a scope key by the caller.
type Event struct {
	Kind   EventKind
	Mode   Mode   // EventModeSelected
	Text   string // EventText, raw as typed
	Choice string // EventChoice, button callback data
}

// Button is one inline keyboard choice.
type Button struct {
	Label string
	Data  string
}

// Reply is one outbound message. When ImageAsset is set the transport should
// send that photo with Text as the caption, degrading to plain text if the
// asset is missing.
type Reply struct {
	Text       string
	ImageAsset string
	Buttons    [][]Button
}

// Callback data understood by the engine and built into its keyboards.
const (
	ChoiceModeIndividual = "mode_individual"
	ChoiceModeGroup      = "mode_group"
	ChoiceEnterFirst     = "enter_1"
	ChoiceRestartYes     = "restart_yes"
	ChoiceRestartNo      = "restart_no"

	optEnterPrefix = "opt_enter_"
	optSkipPrefix  = "opt_skip_"
)

// Persister saves a committed session to durable storage.
type Persister interface {
	Save(key ScopeKey, s *Session) error
}

// Engine runs one transition per inbound event: read state, decide, mutate a
// private copy, commit and persist only on success.
type Engine struct {
	store   *Store
	persist Persister
	log     *zap.SugaredLogger
}

// NewEngine wires the engine. persist may be nil (nothing survives restarts
// then); log may be nil.
func NewEngine(store *Store, persist Persister, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{store: store, persist: persist, log: log}
}

// Intro returns the welcome prompt with the mode-selection keyboard.
func (e *Engine) Intro() []Reply {
	return []Reply{{
		Text: introText,
		Buttons: [][]Button{
			{{Label: "Jugar INDIVIDUAL", Data: ChoiceModeIndividual}},
			{{Label: "Jugar GRUPO (progreso compartido)", Data: ChoiceModeGroup}},
		},
	}}
}

// Handle processes one event against the session for key and returns the
// ordered replies to send. The per-key lock is held for the whole
// read-decide-mutate cycle; a panic is logged and commits nothing.
func (e *Engine) Handle(key ScopeKey, ev Event) (replies []Reply) {
	unlock := e.store.lock(key)
	defer unlock()

	defer func() {
		if r := recover(); r != nil {
			e.log.Errorw("event handling panicked", "scope", key, "panic", r)
			replies = []Reply{{Text: msgInternalError}}
		}
	}()

	s := e.store.snapshot(key)
	replies, dirty := e.apply(s, ev)
	if dirty {
		e.store.commit(key, s)
		if e.persist != nil {
			if err := e.persist.Save(key, s); err != nil {
				e.log.Errorw("persist session", "scope", key, "error", err)
			}
		}
	}
	return replies
}

func (e *Engine) apply(s *Session, ev Event) ([]Reply, bool) {
	switch ev.Kind {
	case EventModeSelected:
		return e.selectMode(s, ev.Mode)
	case EventText:
		return e.handleText(s, ev.Text)
	case EventChoice:
		return e.handleChoice(s, ev.Choice)
	case EventRestart:
		return []Reply{restartConfirm()}, false
	case EventStatus:
		return []Reply{{Text: statusText(s, e.store.Now())}}, false
	case EventInventory:
		return []Reply{{Text: inventoryText(s)}}, false
	case EventHint:
		return e.handleHint(s)
	}
	return []Reply{{Text: msgUnknownChoice}}, false
}

// selectMode replaces the session wholesale: choosing a mode (re)starts the
// game and the clock.
func (e *Engine) selectMode(s *Session, mode Mode) ([]Reply, bool) {
	if mode != ModeIndividual && mode != ModeGroup {
		return []Reply{{Text: msgUnknownChoice}}, false
	}
	fresh := newSession(e.store.Now())
	fresh.Mode = mode
	fresh.Room = firstRoom
	*s = *fresh

	label := "INDIVIDUAL"
	if mode == ModeGroup {
		label = "GRUPO"
	}
	return []Reply{{
		Text:    "Modo " + label + " activado. Pulsa para comenzar.",
		Buttons: [][]Button{{{Label: "Entrar en Sala 1", Data: ChoiceEnterFirst}}},
	}}, true
}

func (e *Engine) handleText(s *Session, raw string) ([]Reply, bool) {
	if s.Mode == ModeNone {
		return []Reply{{Text: msgUseStart}}, false
	}
	if s.Completed {
		return []Reply{{Text: msgAlreadyCompleted}}, false
	}

	txt := Normalize(raw)

	if s.InOptional != "" {
		return e.solveOptional(s, txt)
	}
	if s.Room == 0 {
		return []Reply{{Text: msgPressStart}}, false
	}
	if s.Room == 4 {
		return e.handleRoom4(s, txt)
	}

	s.Attempts[s.Room]++
	room := roomData(s.Room)

	ok := false
	usedJoker := false
	if s.Room == lastRoom {
		ok, usedJoker = validateFinalRoom(raw, s.Inventory, s.Jokers)
	} else {
		for _, a := range room.Answers {
			if txt == Normalize(a) {
				ok = true
				break
			}
		}
	}
	if !ok {
		return []Reply{{Text: msgRetryWithHint}}, true
	}

	if usedJoker {
		s.Jokers--
	}
	s.AddItem(room.Item)
	replies := []Reply{{Text: room.Success}}
	return append(replies, e.afterSolve(s, s.Room)...), true
}

// afterSolve runs the shared post-success progression: finish on the last
// room, offer the checkpoint optional, or advance to the next room.
func (e *Engine) afterSolve(s *Session, room int) []Reply {
	if room == lastRoom {
		s.Completed = true
		return []Reply{{Text: finalReportText(s, e.store.Now())}}
	}
	if cp, ok := checkpointAt(room); ok {
		return []Reply{optionalOffer(cp)}
	}
	return e.enterRoom(s, room+1)
}

// enterRoom moves the session into room n and returns its prompt.
func (e *Engine) enterRoom(s *Session, n int) []Reply {
	s.Room = n
	if n == 4 {
		s.Step4 = 0
	}
	room := roomData(n)
	return []Reply{{Text: room.Text, ImageAsset: room.Image}}
}

func (e *Engine) solveOptional(s *Session, txt string) ([]Reply, bool) {
	opt, ok := optionalData(s.InOptional)
	if !ok {
		// Corrupted state; drop the overlay and resume the main path.
		s.InOptional = ""
		return []Reply{{Text: msgStaleChoice}}, true
	}
	matched := false
	for _, a := range opt.Answers {
		if txt == Normalize(a) {
			matched = true
			break
		}
	}
	if !matched {
		return []Reply{{Text: msgRetry}}, false
	}

	s.markOptionalDone(s.InOptional)
	applyReward(s, opt.Reward)
	s.InOptional = ""
	replies := []Reply{{Text: opt.Success}}
	return append(replies, e.enterRoom(s, opt.BackTo)...), true
}

func applyReward(s *Session, r Reward) {
	s.FreeHints += r.FreeHints
	s.Jokers += r.Jokers
	if r.RemovePenaltySec > 0 {
		s.PenaltySec -= r.RemovePenaltySec
		if s.PenaltySec < 0 {
			s.PenaltySec = 0
		}
	}
}

// room4Sequence holds the expected normalized answers of the three
// tentaciones, in order.
var room4Sequence = [3]string{"humildad", "pobreza", "confianza"}

var room4Prompts = [3]string{
	"Reiniciamos la Sala 4.\nTentación: SOBERBIA\n¿Qué virtud la vence?",
	"Correcto.\n\nSiguiente tentación: RIQUEZA\n¿Qué virtud la vence?",
	"Correcto.\n\nSiguiente tentación: MIEDO\n¿Qué virtud la vence?",
}

func (e *Engine) handleRoom4(s *Session, txt string) ([]Reply, bool) {
	if s.Step4 < 0 || s.Step4 > 2 {
		// Recover locally from a corrupted step instead of failing the event.
		s.Step4 = 0
		return []Reply{{Text: room4Prompts[0]}}, true
	}

	s.Attempts[4]++
	if txt != room4Sequence[s.Step4] {
		return []Reply{{Text: msgRetryOneWord}}, true
	}

	if s.Step4 < 2 {
		s.Step4++
		return []Reply{{Text: room4Prompts[s.Step4]}}, true
	}

	s.Step4 = 3
	room := roomData(4)
	s.AddItem(room.Item)
	replies := []Reply{
		{Text: "Correcto.\nHas vencido las 3 tentaciones."},
		{Text: room.Success},
	}
	return append(replies, e.afterSolve(s, 4)...), true
}

// validateFinalRoom checks the room 10 submission: comma-separated raw input,
// tokens normalized and de-duplicated preserving order. Three or more unique
// tokens succeed iff the first three are all inventory items. Exactly two
// unique tokens plus an available joker succeed with the joker spent.
func validateFinalRoom(raw string, inventory []string, jokers int) (ok, usedJoker bool) {
	have := make(map[string]bool, len(inventory))
	for _, item := range inventory {
		have[Normalize(item)] = true
	}

	seen := make(map[string]bool)
	var unique []string
	for _, part := range strings.Split(raw, ",") {
		tok := Normalize(part)
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		unique = append(unique, tok)
	}

	if len(unique) >= 3 {
		for _, tok := range unique[:3] {
			if !have[tok] {
				return false, false
			}
		}
		return true, false
	}
	if len(unique) == 2 && jokers > 0 {
		for _, tok := range unique {
			if !have[tok] {
				return false, false
			}
		}
		return true, true
	}
	return false, false
}

func (e *Engine) handleChoice(s *Session, data string) ([]Reply, bool) {
	switch {
	case data == ChoiceRestartYes:
		mode := s.Mode
		fresh := newSession(e.store.Now())
		fresh.Mode = mode
		*s = *fresh
		return []Reply{{Text: msgRestarted}}, true

	case data == ChoiceRestartNo:
		return []Reply{{Text: msgRestartKept}}, false

	case data == ChoiceEnterFirst:
		if s.Mode == ModeNone {
			return []Reply{{Text: msgUseStart}}, false
		}
		if s.Completed {
			return []Reply{{Text: msgAlreadyCompleted}}, false
		}
		if s.Room > firstRoom {
			// Stale button; re-show where the player actually is.
			return []Reply{{Text: roomData(s.Room).Text, ImageAsset: roomData(s.Room).Image}}, false
		}
		return e.enterRoom(s, firstRoom), true

	case strings.HasPrefix(data, optEnterPrefix):
		return e.enterOptional(s, strings.TrimPrefix(data, optEnterPrefix))

	case strings.HasPrefix(data, optSkipPrefix):
		return e.skipOptional(s, strings.TrimPrefix(data, optSkipPrefix))
	}
	return []Reply{{Text: msgUnknownChoice}}, false
}

func (e *Engine) enterOptional(s *Session, id string) ([]Reply, bool) {
	if s.Mode == ModeNone {
		return []Reply{{Text: msgUseStart}}, false
	}
	if s.Completed {
		return []Reply{{Text: msgAlreadyCompleted}}, false
	}
	opt, ok := optionalData(id)
	if !ok {
		return []Reply{{Text: msgUnknownChoice}}, false
	}
	if s.OptionalCompleted(id) {
		return []Reply{{Text: msgOptionalDone}}, false
	}
	cp, ok := checkpointAt(s.Room)
	if !ok || cp.Optional != id || s.InOptional != "" {
		return []Reply{{Text: msgStaleChoice}}, false
	}
	s.InOptional = id
	return []Reply{{Text: opt.Text}}, true
}

func (e *Engine) skipOptional(s *Session, suffix string) ([]Reply, bool) {
	if s.Mode == ModeNone {
		return []Reply{{Text: msgUseStart}}, false
	}
	if s.Completed {
		return []Reply{{Text: msgAlreadyCompleted}}, false
	}
	// Suffix is "<optional>_<nextRoom>", e.g. "A_4".
	id, roomStr, ok := strings.Cut(suffix, "_")
	if !ok {
		return []Reply{{Text: msgUnknownChoice}}, false
	}
	next, err := strconv.Atoi(roomStr)
	if err != nil {
		return []Reply{{Text: msgUnknownChoice}}, false
	}
	cp, atCheckpoint := checkpointAt(s.Room)
	if !atCheckpoint || cp.Optional != id || cp.NextRoom != next || s.InOptional != "" {
		return []Reply{{Text: msgStaleChoice}}, false
	}
	return e.enterRoom(s, next), true
}

// handleHint implements the hint contract: deliver the next unused hint for
// the current room, spending a free-hint credit when available and otherwise
// charging an escalating time penalty. An exhausted room mutates nothing.
func (e *Engine) handleHint(s *Session) ([]Reply, bool) {
	if s.Mode == ModeNone {
		return []Reply{{Text: msgUseStart}}, false
	}
	if s.Completed {
		return []Reply{{Text: msgAlreadyCompleted}}, false
	}
	if s.InOptional != "" {
		return []Reply{{Text: msgOptionalNoHints}}, false
	}
	if s.Room == 0 {
		return []Reply{{Text: msgNotStartedHint}}, false
	}

	hints := roomData(s.Room).Hints
	if len(hints) == 0 {
		return []Reply{{Text: msgRoomNoHints}}, false
	}
	used := s.HintsUsed[s.Room]
	if used >= len(hints) {
		return []Reply{{Text: msgNoMoreHints}}, false
	}

	hint := hints[used]
	s.HintsUsed[s.Room] = used + 1

	if s.FreeHints > 0 {
		s.FreeHints--
		return []Reply{{Text: "PISTA: " + hint + "\n(Sin penalización: usaste una pista gratuita.)"}}, true
	}

	penalty := hintPenaltyStep * (used + 1)
	s.PenaltySec += penalty
	return []Reply{{Text: "PISTA: " + hint + "\nPenalización: +" + strconv.Itoa(penalty) + " s"}}, true
}
