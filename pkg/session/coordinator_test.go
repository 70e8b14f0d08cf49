package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/riyarao-9-12/collaborative-drawing/pkg/errors"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/protocol"
)

// delivery records one transport call for assertions
type delivery struct {
	mode string // "to", "except", "all"
	id   string // unicast target or excluded sender
	msg  *protocol.Message
}

type fakeTransport struct {
	mu         sync.Mutex
	deliveries []delivery
}

func (f *fakeTransport) SendTo(id string, msg *protocol.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries = append(f.deliveries, delivery{mode: "to", id: id, msg: msg})
	return nil
}

func (f *fakeTransport) BroadcastExcept(id string, msg *protocol.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries = append(f.deliveries, delivery{mode: "except", id: id, msg: msg})
}

func (f *fakeTransport) BroadcastAll(msg *protocol.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries = append(f.deliveries, delivery{mode: "all", msg: msg})
}

func (f *fakeTransport) byType(t protocol.EventType) []delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []delivery
	for _, d := range f.deliveries {
		if d.msg.Type == t {
			out = append(out, d)
		}
	}
	return out
}

func (f *fakeTransport) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries = nil
}

func newTestCoordinator() (*Coordinator, *fakeTransport) {
	transport := &fakeTransport{}
	c := NewCoordinator(testPalette, 0, transport, nil)
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return c, transport
}

func TestConnectReplaysHistoryToJoinerOnly(t *testing.T) {
	c, transport := newTestCoordinator()

	c.HandleConnect("a", nil)
	c.HandleDraw("a", protocol.DrawPayload{X1: 1, Y1: 2, X2: 3, Y2: 4, StrokeWidth: 2})
	transport.reset()

	c.HandleConnect("b", nil)

	replays := transport.byType(protocol.EventLoadDrawingHistory)
	if len(replays) != 1 {
		t.Fatalf("Expected 1 history replay, got %d", len(replays))
	}
	if replays[0].mode != "to" || replays[0].id != "b" {
		t.Errorf("Replay should be unicast to the joiner, got mode=%s id=%s", replays[0].mode, replays[0].id)
	}

	var history []protocol.Command
	if err := replays[0].msg.ParsePayload(&history); err != nil {
		t.Fatalf("Failed to parse replay payload: %v", err)
	}
	if len(history) != 1 || history[0].UserID != "a" {
		t.Errorf("Joiner should receive the full prior log, got %+v", history)
	}

	lists := transport.byType(protocol.EventUserListUpdate)
	if len(lists) != 1 || lists[0].mode != "all" {
		t.Fatalf("Expected one user list broadcast to all, got %+v", lists)
	}
	var users []protocol.UserInfo
	if err := lists[0].msg.ParsePayload(&users); err != nil {
		t.Fatalf("Failed to parse user list: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("Expected 2 users in the list, got %d", len(users))
	}
}

func TestDrawBroadcastExcludesSender(t *testing.T) {
	c, transport := newTestCoordinator()
	c.HandleConnect("a", nil)
	transport.reset()

	c.HandleDraw("a", protocol.DrawPayload{X1: 10, Y1: 20, X2: 30, Y2: 40, StrokeWidth: 5})

	draws := transport.byType(protocol.EventDraw)
	if len(draws) != 1 {
		t.Fatalf("Expected 1 draw broadcast, got %d", len(draws))
	}
	if draws[0].mode != "except" || draws[0].id != "a" {
		t.Errorf("Draw should exclude the sender, got mode=%s id=%s", draws[0].mode, draws[0].id)
	}

	var cmd protocol.Command
	if err := draws[0].msg.ParsePayload(&cmd); err != nil {
		t.Fatalf("Failed to parse draw command: %v", err)
	}
	if cmd.UserColor != testPalette[0] {
		t.Errorf("Draw should carry the sender's registry color, got %s", cmd.UserColor)
	}
	if cmd.Timestamp != 1700000000000 {
		t.Errorf("Draw should carry the server timestamp, got %d", cmd.Timestamp)
	}
	if cmd.X1 != 10 || cmd.StrokeWidth != 5 {
		t.Errorf("Draw coordinates should pass through, got %+v", cmd)
	}
	if c.HistoryLen() != 1 {
		t.Errorf("Draw should append to the log, got len %d", c.HistoryLen())
	}
}

func TestEraseBroadcastExcludesSender(t *testing.T) {
	c, transport := newTestCoordinator()
	c.HandleConnect("a", nil)
	transport.reset()

	c.HandleErase("a", protocol.ErasePayload{X: 5, Y: 6, Radius: 12})

	erases := transport.byType(protocol.EventErase)
	if len(erases) != 1 {
		t.Fatalf("Expected 1 erase broadcast, got %d", len(erases))
	}
	if erases[0].mode != "except" || erases[0].id != "a" {
		t.Errorf("Erase should exclude the sender, got mode=%s id=%s", erases[0].mode, erases[0].id)
	}

	var cmd protocol.Command
	if err := erases[0].msg.ParsePayload(&cmd); err != nil {
		t.Fatalf("Failed to parse erase command: %v", err)
	}
	if cmd.Type != protocol.CommandErase || cmd.Radius != 12 {
		t.Errorf("Unexpected erase command: %+v", cmd)
	}
}

func TestCursorMoveBroadcastsUpdate(t *testing.T) {
	c, transport := newTestCoordinator()
	c.HandleConnect("a", nil)
	transport.reset()

	if err := c.HandleCursorMove("a", protocol.CursorMovePayload{X: 7, Y: 8}); err != nil {
		t.Fatalf("Cursor move failed: %v", err)
	}

	updates := transport.byType(protocol.EventCursorUpdate)
	if len(updates) != 1 {
		t.Fatalf("Expected 1 cursor update, got %d", len(updates))
	}
	if updates[0].mode != "except" || updates[0].id != "a" {
		t.Errorf("Cursor update should exclude the sender, got mode=%s", updates[0].mode)
	}

	var p protocol.CursorUpdatePayload
	if err := updates[0].msg.ParsePayload(&p); err != nil {
		t.Fatalf("Failed to parse cursor update: %v", err)
	}
	if p.UserID != "a" || p.X != 7 || p.Y != 8 || p.Username != "User1" {
		t.Errorf("Unexpected cursor update payload: %+v", p)
	}
}

func TestCursorMoveUnknownUserIsSilent(t *testing.T) {
	c, transport := newTestCoordinator()

	err := c.HandleCursorMove("ghost", protocol.CursorMovePayload{X: 1, Y: 2})
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
	if len(transport.deliveries) != 0 {
		t.Error("Unknown-user cursor move must not broadcast anything")
	}
}

func TestUndoRemovesMostRecentBySender(t *testing.T) {
	c, transport := newTestCoordinator()
	c.HandleConnect("a", nil)
	c.HandleConnect("b", nil)
	c.HandleDraw("a", protocol.DrawPayload{X1: 1})
	c.HandleDraw("b", protocol.DrawPayload{X1: 2})
	c.HandleErase("a", protocol.ErasePayload{Radius: 3}) // a's most recent action
	transport.reset()

	if err := c.HandleUndo("a"); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}

	undos := transport.byType(protocol.EventUndoAction)
	if len(undos) != 1 {
		t.Fatalf("Expected 1 undo broadcast, got %d", len(undos))
	}
	if undos[0].mode != "all" {
		t.Error("Undo must reach every connection including the sender")
	}

	var p protocol.UndoActionPayload
	if err := undos[0].msg.ParsePayload(&p); err != nil {
		t.Fatalf("Failed to parse undo payload: %v", err)
	}
	if p.UserID != "a" {
		t.Errorf("Expected actor a, got %s", p.UserID)
	}
	if len(p.PreviousHistory) != 2 {
		t.Fatalf("Expected 2 remaining commands, got %d", len(p.PreviousHistory))
	}
	// a's erase (most recent) was removed, not a's earlier draw
	if p.PreviousHistory[0].UserID != "a" || p.PreviousHistory[0].Type != protocol.CommandDraw {
		t.Errorf("Undo removed the wrong entry: %+v", p.PreviousHistory)
	}
	if p.PreviousHistory[1].UserID != "b" {
		t.Errorf("Survivors should keep relative order: %+v", p.PreviousHistory)
	}
}

func TestUndoWithNoEntryIsSilent(t *testing.T) {
	c, transport := newTestCoordinator()
	c.HandleConnect("a", nil)
	c.HandleConnect("b", nil)
	c.HandleDraw("b", protocol.DrawPayload{X1: 1})
	transport.reset()

	err := c.HandleUndo("a")
	if !errors.Is(err, apperrors.ErrNoHistoryEntry) {
		t.Errorf("Expected ErrNoHistoryEntry, got %v", err)
	}
	if len(transport.deliveries) != 0 {
		t.Error("Empty undo must not broadcast")
	}
	if c.HistoryLen() != 1 {
		t.Errorf("Empty undo must leave the log unchanged, got len %d", c.HistoryLen())
	}
}

func TestRedoIsStubbed(t *testing.T) {
	c, transport := newTestCoordinator()
	c.HandleConnect("a", nil)
	transport.reset()

	if err := c.HandleRedo("a"); err != nil {
		t.Fatalf("Redo stub should not error: %v", err)
	}
	if len(transport.deliveries) != 0 {
		t.Error("Redo must not broadcast anything")
	}
}

func TestClearCanvasReachesEveryone(t *testing.T) {
	c, transport := newTestCoordinator()
	c.HandleConnect("a", nil)
	c.HandleDraw("a", protocol.DrawPayload{X1: 1})
	transport.reset()

	c.HandleClearCanvas("a")

	cleared := transport.byType(protocol.EventCanvasCleared)
	if len(cleared) != 1 || cleared[0].mode != "all" {
		t.Fatalf("Expected one canvasCleared broadcast to all, got %+v", cleared)
	}
	if c.HistoryLen() != 0 {
		t.Errorf("Clear must empty the log, got len %d", c.HistoryLen())
	}

	// Clearing again is valid and broadcasts again over the same empty state
	c.HandleClearCanvas("a")
	if c.HistoryLen() != 0 {
		t.Error("Second clear should keep the log empty")
	}
}

func TestDisconnectKeepsHistory(t *testing.T) {
	c, transport := newTestCoordinator()
	c.HandleConnect("a", nil)
	c.HandleConnect("b", nil)
	c.HandleDraw("a", protocol.DrawPayload{X1: 1})
	transport.reset()

	c.HandleDisconnect("a")

	removed := transport.byType(protocol.EventCursorRemoved)
	if len(removed) != 1 || removed[0].mode != "all" {
		t.Fatalf("Expected one cursorRemoved broadcast to all, got %+v", removed)
	}
	var p protocol.CursorRemovedPayload
	if err := removed[0].msg.ParsePayload(&p); err != nil {
		t.Fatalf("Failed to parse cursorRemoved: %v", err)
	}
	if p.UserID != "a" {
		t.Errorf("Expected cursorRemoved for a, got %s", p.UserID)
	}

	lists := transport.byType(protocol.EventUserListUpdate)
	if len(lists) != 1 {
		t.Fatalf("Expected one user list refresh, got %d", len(lists))
	}
	var users []protocol.UserInfo
	lists[0].msg.ParsePayload(&users)
	if len(users) != 1 || users[0].ID != "b" {
		t.Errorf("User list should exclude the departed user, got %+v", users)
	}

	// Disconnection does not retroactively remove history
	if c.HistoryLen() != 1 {
		t.Errorf("History should survive its author's disconnect, got len %d", c.HistoryLen())
	}
	if c.UserCount() != 1 {
		t.Errorf("Registry should shrink by one, got %d", c.UserCount())
	}
}

// Concurrent senders: whatever order the log ends up in, the broadcasts must
// leave in that same order. A draw overtaking an earlier one would let a
// client render state the log never held.
func TestBroadcastOrderMatchesLogOrder(t *testing.T) {
	c, transport := newTestCoordinator()
	c.HandleConnect("a", nil)
	c.HandleConnect("b", nil)
	transport.reset()

	const perSender = 500
	var wg sync.WaitGroup
	for _, id := range []string{"a", "b"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				c.HandleDraw(id, protocol.DrawPayload{X1: float64(i)})
			}
		}(id)
	}
	wg.Wait()

	log := c.HistorySnapshot()
	draws := transport.byType(protocol.EventDraw)
	if len(log) != 2*perSender || len(draws) != 2*perSender {
		t.Fatalf("Expected %d entries and broadcasts, got %d/%d", 2*perSender, len(log), len(draws))
	}
	for i, d := range draws {
		var cmd protocol.Command
		if err := d.msg.ParsePayload(&cmd); err != nil {
			t.Fatalf("Failed to parse broadcast %d: %v", i, err)
		}
		if cmd.UserID != log[i].UserID || cmd.X1 != log[i].X1 {
			t.Fatalf("Broadcast %d diverges from log: log=%s/%v broadcast=%s/%v",
				i, log[i].UserID, log[i].X1, cmd.UserID, cmd.X1)
		}
	}
}

// The attach step runs before the joiner becomes visible: nothing may have
// been emitted yet when it fires, and an attach failure leaves no trace.
func TestConnectAttachIsPartOfTheJoin(t *testing.T) {
	c, transport := newTestCoordinator()

	attached := false
	err := c.HandleConnect("a", func() error {
		attached = true
		if n := len(transport.byType(protocol.EventLoadDrawingHistory)); n != 0 {
			t.Errorf("Replay must not precede attach, saw %d", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if !attached {
		t.Fatal("Attach callback did not run")
	}

	transport.reset()
	attachErr := errors.New("socket gone")
	if err := c.HandleConnect("b", func() error { return attachErr }); !errors.Is(err, attachErr) {
		t.Fatalf("Expected attach error back, got %v", err)
	}
	if c.UserCount() != 1 {
		t.Errorf("Failed attach must not join, got %d users", c.UserCount())
	}
	if len(transport.deliveries) != 0 {
		t.Error("Failed attach must not emit anything")
	}
}

// Full scenario: A and B join, draw S1 and S2, C joins and replays [S1 S2],
// A undoes leaving [S2] for everyone, B clears leaving [].
func TestSharedSessionScenario(t *testing.T) {
	c, transport := newTestCoordinator()
	c.HandleConnect("A", nil)
	c.HandleConnect("B", nil)

	c.HandleDraw("A", protocol.DrawPayload{X1: 1, Y1: 1, X2: 2, Y2: 2, StrokeWidth: 1})
	c.HandleDraw("B", protocol.DrawPayload{X1: 3, Y1: 3, X2: 4, Y2: 4, StrokeWidth: 1})
	if c.HistoryLen() != 2 {
		t.Fatalf("Expected log [S1 S2], got len %d", c.HistoryLen())
	}

	transport.reset()
	c.HandleConnect("C", nil)
	replays := transport.byType(protocol.EventLoadDrawingHistory)
	if len(replays) != 1 || replays[0].id != "C" {
		t.Fatalf("C should receive the replay, got %+v", replays)
	}
	var history []protocol.Command
	replays[0].msg.ParsePayload(&history)
	if len(history) != 2 || history[0].UserID != "A" || history[1].UserID != "B" {
		t.Fatalf("C should receive [S1 S2], got %+v", history)
	}

	transport.reset()
	c.HandleUndo("A")
	undos := transport.byType(protocol.EventUndoAction)
	if len(undos) != 1 || undos[0].mode != "all" {
		t.Fatalf("Undo should reach everyone, got %+v", undos)
	}
	var undo protocol.UndoActionPayload
	undos[0].msg.ParsePayload(&undo)
	if len(undo.PreviousHistory) != 1 || undo.PreviousHistory[0].UserID != "B" {
		t.Fatalf("Remaining history should be [S2], got %+v", undo.PreviousHistory)
	}

	transport.reset()
	c.HandleClearCanvas("B")
	cleared := transport.byType(protocol.EventCanvasCleared)
	if len(cleared) != 1 || cleared[0].mode != "all" {
		t.Fatalf("Clear should reach everyone, got %+v", cleared)
	}
	if c.HistoryLen() != 0 {
		t.Errorf("Log should be empty after clear, got %d", c.HistoryLen())
	}
}
