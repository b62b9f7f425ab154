package hub

import "testing"

func TestRegistrySendToClientScansBothRoles(t *testing.T) {
	r := NewRegistry()
	dConn := &fakeConn{}
	uConn := &fakeConn{}
	d := newSession(dConn)
	u := newSession(uConn)
	r.RegisterDriver("d1", d)
	r.RegisterUser("u1", u)

	if !r.SendToClient("d1", map[string]string{"type": "ping"}) {
		t.Fatalf("driver send failed")
	}
	if !r.SendToClient("u1", map[string]string{"type": "ping"}) {
		t.Fatalf("user send failed")
	}
	if r.SendToClient("nobody", map[string]string{"type": "ping"}) {
		t.Fatalf("unknown client must report failure")
	}

	u.markClosed()
	if r.SendToClient("u1", map[string]string{"type": "ping"}) {
		t.Fatalf("closed session must report failure")
	}
}

func TestRegistryObserverSlot(t *testing.T) {
	r := NewRegistry()
	first := newSession(&fakeConn{})
	second := newSession(&fakeConn{})

	r.RegisterObserver(first)
	r.RegisterObserver(second)
	if r.Observer() != second {
		t.Fatalf("new observer must replace the old one")
	}

	// Unregistering the stale observer must not clear the active one.
	r.Unregister(first)
	if r.Observer() != second {
		t.Fatalf("stale unregister cleared the active observer")
	}

	r.Unregister(second)
	if r.Observer() != nil {
		t.Fatalf("observer slot must be empty")
	}
}

func TestRegistryBroadcastExcludes(t *testing.T) {
	r := NewRegistry()
	dConn := &fakeConn{}
	uConn := &fakeConn{}
	oConn := &fakeConn{}
	d := newSession(dConn)
	u := newSession(uConn)
	o := newSession(oConn)
	r.RegisterDriver("d1", d)
	r.RegisterUser("u1", u)
	r.RegisterObserver(o)

	r.Broadcast(map[string]string{"type": "notice"}, d.ID)

	if len(dConn.frames) != 0 {
		t.Fatalf("excluded connection must not receive the broadcast")
	}
	if len(uConn.frames) != 1 || len(oConn.frames) != 1 {
		t.Fatalf("expected delivery to user and observer, got %d/%d", len(uConn.frames), len(oConn.frames))
	}
}

func TestRegistryCounts(t *testing.T) {
	r := NewRegistry()
	d := newSession(&fakeConn{})
	u := newSession(&fakeConn{})
	r.RegisterDriver("d1", d)
	r.RegisterUser("u1", u)

	c := r.Counts()
	if c.DriversCount != 1 || c.UsersCount != 1 {
		t.Fatalf("unexpected counts %+v", c)
	}

	r.Unregister(d)
	if c := r.Counts(); c.DriversCount != 0 {
		t.Fatalf("driver count not decremented: %+v", c)
	}
}
