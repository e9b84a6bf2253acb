package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLazyCreation(t *testing.T) {
	st := NewStore(func() int64 { return 42 })
	s := st.snapshot(UserKey(1))
	assert.Equal(t, ModeNone, s.Mode)
	assert.Equal(t, 0, s.Room)
	assert.Equal(t, int64(42), s.StartTS)
	assert.Empty(t, s.Inventory)
	assert.NotNil(t, s.HintsUsed)
	assert.NotNil(t, s.Attempts)
}

func TestSnapshotIsIsolated(t *testing.T) {
	st := NewStore(nil)
	key := UserKey(7)
	s := st.snapshot(key)
	s.Room = 5
	s.AddItem("RENUNCIA")
	s.Attempts[1] = 3

	// Uncommitted mutations must not leak into the live record.
	fresh := st.snapshot(key)
	assert.Equal(t, 0, fresh.Room)
	assert.Empty(t, fresh.Inventory)
	assert.Empty(t, fresh.Attempts)

	st.commit(key, s)
	committed := st.snapshot(key)
	assert.Equal(t, 5, committed.Room)
	assert.Equal(t, []string{"RENUNCIA"}, committed.Inventory)
}

func TestAddItemDeduplicates(t *testing.T) {
	s := newSession(0)
	s.AddItem("RENUNCIA")
	s.AddItem("DESAPEGO")
	s.AddItem("RENUNCIA")
	s.AddItem("")
	assert.Equal(t, []string{"RENUNCIA", "DESAPEGO"}, s.Inventory)
}

func TestResolveStickyMode(t *testing.T) {
	st := NewStore(nil)
	chat := ChatKey(-100)
	user := UserKey(5)

	// No shared record yet: events go to the individual record.
	assert.Equal(t, user, st.Resolve(chat, user))

	// A chat record without group mode still resolves to the user.
	st.Seed(chat, newSession(0))
	assert.Equal(t, user, st.Resolve(chat, user))

	// Only an explicit group-mode record captures the chat's events.
	grp := newSession(0)
	grp.Mode = ModeGroup
	st.Seed(chat, grp)
	assert.Equal(t, chat, st.Resolve(chat, user))
}

func TestSeedRepairsNilMaps(t *testing.T) {
	st := NewStore(nil)
	st.Seed(UserKey(1), &Session{Mode: ModeIndividual, Room: 3})
	s := st.snapshot(UserKey(1))
	require.NotNil(t, s.HintsUsed)
	require.NotNil(t, s.Attempts)
}

func TestPerKeyLocksAreIndependent(t *testing.T) {
	st := NewStore(nil)
	unlockA := st.lock(UserKey(1))

	// A second key must not block while the first is held.
	done := make(chan struct{})
	go func() {
		unlockB := st.lock(UserKey(2))
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}

func TestLockSerializesOneKey(t *testing.T) {
	st := NewStore(nil)
	key := ChatKey(-1)
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := st.lock(key)
			counter++
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestCloneDeepCopiesCollections(t *testing.T) {
	s := newSession(0)
	s.AddItem("SOLEDAD")
	s.HintsUsed[3] = 1
	s.OptionalDone = []string{"A"}

	c := s.Clone()
	c.AddItem("ORACION")
	c.HintsUsed[3] = 9
	c.OptionalDone = append(c.OptionalDone, "B")

	assert.Equal(t, []string{"SOLEDAD"}, s.Inventory)
	assert.Equal(t, 1, s.HintsUsed[3])
	assert.Equal(t, []string{"A"}, s.OptionalDone)
}
