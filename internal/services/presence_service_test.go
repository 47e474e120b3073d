package services

import (
	"fmt"
	"sync"
	"testing"
)

func TestPresenceMarkOnlineAndLookup(t *testing.T) {
	presence := NewPresenceService(newTestLogger(t))
	handle := &recordingHandle{}

	presence.MarkOnline("user-1", handle)

	got, ok := presence.Lookup("user-1")
	if !ok || got != ConnHandle(handle) {
		t.Fatalf("Lookup returned %v, %v; want the registered handle", got, ok)
	}
	if !presence.IsOnline("user-1") {
		t.Errorf("user should be online")
	}
	if presence.OnlineCount() != 1 {
		t.Errorf("OnlineCount = %d, want 1", presence.OnlineCount())
	}
}

func TestPresenceReconnectReplacesHandle(t *testing.T) {
	presence := NewPresenceService(newTestLogger(t))
	old := &recordingHandle{}
	fresh := &recordingHandle{}

	presence.MarkOnline("user-1", old)
	presence.MarkOnline("user-1", fresh)

	got, ok := presence.Lookup("user-1")
	if !ok || got != ConnHandle(fresh) {
		t.Fatalf("Lookup should return the newest handle")
	}
	if presence.OnlineCount() != 1 {
		t.Errorf("OnlineCount = %d, want 1", presence.OnlineCount())
	}
}

func TestPresenceStaleDisconnectIsIgnored(t *testing.T) {
	presence := NewPresenceService(newTestLogger(t))
	old := &recordingHandle{}
	fresh := &recordingHandle{}

	presence.MarkOnline("user-1", old)
	presence.MarkOnline("user-1", fresh)

	// The old connection's teardown fires after the reconnect; it must not
	// evict the fresh registration.
	presence.MarkOffline(old)

	if !presence.IsOnline("user-1") {
		t.Fatalf("stale disconnect evicted the fresh connection")
	}

	presence.MarkOffline(fresh)
	if presence.IsOnline("user-1") {
		t.Errorf("user should be offline after the live handle disconnects")
	}
}

func TestPresenceMarkOfflineUnknownHandle(t *testing.T) {
	presence := NewPresenceService(newTestLogger(t))
	presence.MarkOnline("user-1", &recordingHandle{})

	presence.MarkOffline(&recordingHandle{})

	if presence.OnlineCount() != 1 {
		t.Errorf("OnlineCount = %d, want 1", presence.OnlineCount())
	}
}

func TestPresenceNotify(t *testing.T) {
	presence := NewPresenceService(newTestLogger(t))
	handle := &recordingHandle{}
	presence.MarkOnline("user-1", handle)

	if !presence.Notify("user-1", "ping", nil) {
		t.Errorf("Notify to online user should succeed")
	}
	if got := handle.received(); len(got) != 1 || got[0] != "ping" {
		t.Errorf("handle events = %v, want [ping]", got)
	}

	if presence.Notify("user-2", "ping", nil) {
		t.Errorf("Notify to offline user should report false")
	}

	broken := &recordingHandle{fail: true}
	presence.MarkOnline("user-3", broken)
	if presence.Notify("user-3", "ping", nil) {
		t.Errorf("Notify should report false when the send fails")
	}
}

func TestPresenceConcurrentChurn(t *testing.T) {
	presence := NewPresenceService(newTestLogger(t))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", i%10)
			handle := &recordingHandle{}
			presence.MarkOnline(userID, handle)
			presence.Notify(userID, "ping", nil)
			presence.MarkOffline(handle)
		}(i)
	}
	wg.Wait()

	// The registry must stay internally consistent: no user may be left
	// online with a handle that was already torn down by its own goroutine.
	for i := 0; i < 10; i++ {
		userID := fmt.Sprintf("user-%d", i)
		if handle, ok := presence.Lookup(userID); ok && handle == nil {
			t.Errorf("user %s online with nil handle", userID)
		}
	}
}
