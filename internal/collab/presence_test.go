package collab

import "testing"

func TestPresenceTracksItems(t *testing.T) {
	pm := NewPresenceManager()

	if !pm.Update("user_a", &PresencePayload{ItemID: "item_1"}) {
		t.Error("first update must report an item change")
	}
	if pm.Update("user_a", &PresencePayload{ItemID: "item_1", Selection: []int{3}}) {
		t.Error("an update on the same item must not report a change")
	}
	if !pm.Update("user_a", &PresencePayload{ItemID: "item_2"}) {
		t.Error("moving to another item must report a change")
	}
	pm.Update("user_b", &PresencePayload{ItemID: "item_2"})

	if viewers := pm.OnItem("item_2"); len(viewers) != 2 {
		t.Fatalf("item_2 has %d viewers, want 2", len(viewers))
	}
	if viewers := pm.OnItem("item_1"); len(viewers) != 0 {
		t.Errorf("item_1 has %d viewers, want 0", len(viewers))
	}

	pm.Remove("user_a")
	if got := len(pm.Snapshot()); got != 1 {
		t.Errorf("snapshot has %d entries after removal, want 1", got)
	}
}

func TestPresenceStateMessage(t *testing.T) {
	pm := NewPresenceManager()
	pm.Update("user_a", &PresencePayload{ItemID: "item_1", DisplayName: "Ada"})

	msg := pm.StateMessage()
	if msg == nil || msg.Type != TypePresenceState {
		t.Fatalf("state message = %+v, want type %q", msg, TypePresenceState)
	}
	if len(msg.Payload) == 0 {
		t.Error("state message carries no payload")
	}
}
