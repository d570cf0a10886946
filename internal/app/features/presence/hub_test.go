package presence

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestRegisterTracksOnline(t *testing.T) {
	h := NewHub(zap.NewNop())
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	if h.IsOnline(alice) {
		t.Error("empty hub reports user online")
	}

	h.register(alice, newClient(nil))
	h.register(bob, newClient(nil))

	if !h.IsOnline(alice) || !h.IsOnline(bob) {
		t.Error("registered users not reported online")
	}
	if got := len(h.OnlineUserIDs()); got != 2 {
		t.Errorf("online count: got %d, want 2", got)
	}
}

func TestRegisterDisplacesOldConnection(t *testing.T) {
	h := NewHub(zap.NewNop())
	alice := primitive.NewObjectID()

	first := newClient(nil)
	second := newClient(nil)

	if old := h.register(alice, first); old != nil {
		t.Errorf("first register displaced %v", old)
	}
	if old := h.register(alice, second); old != first {
		t.Error("second register did not return the displaced client")
	}

	// The replaced connection's deferred cleanup must not evict its
	// successor.
	h.deregister(alice, first)
	if !h.IsOnline(alice) {
		t.Error("stale deregister removed the newer connection")
	}

	h.deregister(alice, second)
	if h.IsOnline(alice) {
		t.Error("user still online after deregister")
	}
}

func TestPushQueuesForReceiver(t *testing.T) {
	h := NewHub(zap.NewNop())
	alice := primitive.NewObjectID()
	c := newClient(nil)
	h.register(alice, c)

	// Drain the online broadcast from register.
	for len(c.send) > 0 {
		<-c.send
	}

	h.Push(alice, envelope{Type: eventGetMessage, UserID: "x"})
	select {
	case got := <-c.send:
		env, ok := got.(envelope)
		if !ok || env.Type != eventGetMessage {
			t.Errorf("queued payload: %#v", got)
		}
	default:
		t.Fatal("payload not queued")
	}

	// Offline receivers are silently skipped.
	h.Push(primitive.NewObjectID(), envelope{Type: eventGetMessage})
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	c := newClient(nil)
	for i := 0; i < sendBuffer; i++ {
		c.enqueue(i)
	}
	// One past capacity must not block.
	c.enqueue("overflow")
	if len(c.send) != sendBuffer {
		t.Errorf("queue length: got %d, want %d", len(c.send), sendBuffer)
	}
}
