package session

import "testing"

func TestUnsubscribeStopsDelivery(t *testing.T) {
	store := NewStore()
	defer store.Close()

	var calls int
	sub := store.Subscribe(func(Session, bool) { calls++ })

	store.Replace(Session{UserID: "u1"})
	sub.Unsubscribe()
	store.Replace(Session{UserID: "u2"})
	store.Clear()

	if calls != 2 {
		t.Fatalf("expected deliveries to stop after Unsubscribe, got %d calls", calls)
	}
}

func TestUnsubscribeIdempotent(t *testing.T) {
	store := NewStore()
	defer store.Close()

	sub := store.Subscribe(func(Session, bool) {})
	sub.Unsubscribe()
	sub.Unsubscribe()

	var nilSub *Subscription
	nilSub.Unsubscribe()
	(&Subscription{}).Unsubscribe()
}

func TestCloseDropsSubscribersAndIgnoresWrites(t *testing.T) {
	store := NewStore()

	var calls int
	store.Subscribe(func(Session, bool) { calls++ })

	store.Close()
	store.Replace(Session{UserID: "u1"})
	store.Clear()

	if calls != 1 {
		t.Fatalf("expected only the subscribe replay before Close, got %d calls", calls)
	}
	if _, ok := store.Current(); ok {
		t.Fatal("expected absent session after Close")
	}

	if sub := store.Subscribe(func(Session, bool) { calls++ }); sub == nil {
		t.Fatal("Subscribe after Close must return a usable zero subscription")
	}
	if calls != 1 {
		t.Fatalf("expected no replay after Close, got %d calls", calls)
	}
}
