package game

import (
	"strconv"
	"sync"
	"time"
)

// Mode determines whether a session tracks one player or one shared group.
type Mode string

const (
	ModeNone       Mode = ""
	ModeIndividual Mode = "individual"
	ModeGroup      Mode = "group"
)

// ScopeKey identifies whose progress a session tracks: a single user or a
// whole group chat.
type ScopeKey string

// UserKey returns the scope key for an individual player.
func UserKey(userID int64) ScopeKey {
	return ScopeKey("user:" + strconv.FormatInt(userID, 10))
}

// ChatKey returns the scope key for a shared group session.
func ChatKey(chatID int64) ScopeKey {
	return ScopeKey("chat:" + strconv.FormatInt(chatID, 10))
}

// Session is the progress record for one scope key.
type Session struct {
	Mode         Mode        `json:"mode"`
	Room         int         `json:"room"` // 0 = not started
	Inventory    []string    `json:"inventory"`
	StartTS      int64       `json:"start_ts"`
	PenaltySec   int         `json:"penalty_sec"`
	HintsUsed    map[int]int `json:"hints_used"`
	Attempts     map[int]int `json:"attempts"`
	Completed    bool        `json:"completed"`
	OptionalDone []string    `json:"optional_done"`
	InOptional   string      `json:"in_optional"` // active optional id, or ""
	FreeHints    int         `json:"free_hints"`
	Jokers       int         `json:"jokers"`
	Step4        int         `json:"s4_step"` // room 4 sequence position, 0..3
}

func newSession(now int64) *Session {
	return &Session{
		StartTS:   now,
		HintsUsed: make(map[int]int),
		Attempts:  make(map[int]int),
	}
}

// Clone deep-copies the session so the engine can mutate freely and commit
// only on success.
func (s *Session) Clone() *Session {
	c := *s
	c.Inventory = append([]string(nil), s.Inventory...)
	c.OptionalDone = append([]string(nil), s.OptionalDone...)
	c.HintsUsed = make(map[int]int, len(s.HintsUsed))
	for k, v := range s.HintsUsed {
		c.HintsUsed[k] = v
	}
	c.Attempts = make(map[int]int, len(s.Attempts))
	for k, v := range s.Attempts {
		c.Attempts[k] = v
	}
	return &c
}

// AddItem appends an item to the inventory, preserving insertion order and
// ignoring duplicates and empty names.
func (s *Session) AddItem(item string) {
	if item == "" {
		return
	}
	for _, have := range s.Inventory {
		if have == item {
			return
		}
	}
	s.Inventory = append(s.Inventory, item)
}

// OptionalCompleted reports whether the optional has been solved already.
func (s *Session) OptionalCompleted(id string) bool {
	for _, done := range s.OptionalDone {
		if done == id {
			return true
		}
	}
	return false
}

func (s *Session) markOptionalDone(id string) {
	if !s.OptionalCompleted(id) {
		s.OptionalDone = append(s.OptionalDone, id)
	}
}

// Store holds the live session per scope key. Each key has its own lock so
// concurrent events in one group serialize without stalling other chats.
type Store struct {
	mu       sync.Mutex
	sessions map[ScopeKey]*Session
	locks    map[ScopeKey]*sync.Mutex
	clock    func() int64
}

// NewStore creates an empty store. A nil clock defaults to wall time.
func NewStore(clock func() int64) *Store {
	if clock == nil {
		clock = func() int64 { return time.Now().Unix() }
	}
	return &Store{
		sessions: make(map[ScopeKey]*Session),
		locks:    make(map[ScopeKey]*sync.Mutex),
		clock:    clock,
	}
}

// Now returns the store's notion of the current epoch second.
func (st *Store) Now() int64 { return st.clock() }

// Seed installs a previously persisted session, replacing any live one.
// Used at startup to restore state from durable storage.
func (st *Store) Seed(key ScopeKey, s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s.HintsUsed == nil {
		s.HintsUsed = make(map[int]int)
	}
	if s.Attempts == nil {
		s.Attempts = make(map[int]int)
	}
	st.sessions[key] = s
}

// lock acquires the per-key mutex and returns its unlock func.
func (st *Store) lock(key ScopeKey) func() {
	st.mu.Lock()
	l, ok := st.locks[key]
	if !ok {
		l = &sync.Mutex{}
		st.locks[key] = l
	}
	st.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// snapshot returns a private copy of the session for key, lazily creating a
// fresh record on first use.
func (st *Store) snapshot(key ScopeKey) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[key]
	if !ok {
		s = newSession(st.clock())
		st.sessions[key] = s
	}
	return s.Clone()
}

// commit replaces the live session for key with the mutated copy.
func (st *Store) commit(key ScopeKey, s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[key] = s
}

// Resolve applies the sticky-mode rule: events in a chat target the shared
// record only if one already exists and was explicitly set to group mode;
// otherwise they target the individual record of the originating user.
func (st *Store) Resolve(chat, user ScopeKey) ScopeKey {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[chat]; ok && s.Mode == ModeGroup {
		return chat
	}
	return user
}
