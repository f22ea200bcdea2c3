package notify

import "testing"

func drain(c chan Event) []Event {
	var out []Event
	for {
		select {
		case ev := <-c:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestHubRoutesStaffEvents(t *testing.T) {
	h := NewHub()
	staff := h.Subscribe("staff1", true)
	player := h.Subscribe("alice", false)

	h.Deliver(Event{Kind: KindStaffNew, ReportID: 1, Author: "alice"})
	h.Refresh()

	got := drain(staff.C)
	if len(got) != 2 || got[0].Kind != KindStaffNew || got[1].Kind != "refresh" {
		t.Errorf("staff subscription got %+v, want staff_new then refresh", got)
	}
	if leaked := drain(player.C); len(leaked) != 0 {
		t.Errorf("player subscription got staff events: %+v", leaked)
	}
}

func TestHubRoutesPlayerEventsByName(t *testing.T) {
	h := NewHub()
	alice := h.Subscribe("Alice", false)
	bob := h.Subscribe("bob", false)

	h.Deliver(Event{Kind: KindPlayerAnswer, ReportID: 1, Author: "aLiCe", Text: "hi"})

	got := drain(alice.C)
	if len(got) != 1 || got[0].Text != "hi" {
		t.Errorf("alice got %+v, want one player_answer", got)
	}
	if leaked := drain(bob.C); len(leaked) != 0 {
		t.Errorf("bob got another player's events: %+v", leaked)
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("alice", false)
	h.Unsubscribe(sub.ID)

	if _, open := <-sub.C; open {
		t.Error("channel still open after unsubscribe")
	}
	// a second unsubscribe with the same id is a no-op
	h.Unsubscribe(sub.ID)

	h.Deliver(Event{Kind: KindPlayerAnswer, Author: "alice"})
}

func TestHubDropsEventsForSlowConsumer(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("staff1", true)

	for i := 0; i < 50; i++ {
		h.Deliver(Event{Kind: KindStaffNew, ReportID: int64(i)})
	}

	got := drain(sub.C)
	if len(got) != cap(sub.C) {
		t.Errorf("buffered %d events, want %d (excess dropped, not blocked)", len(got), cap(sub.C))
	}
}
