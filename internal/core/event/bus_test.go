package event

import "testing"

type enemyKilled struct{ Entity int }
type scorePopup struct{ Amount int32 }

func TestEmitIsNotVisibleUntilSwapAndDispatch(t *testing.T) {
	b := NewBus()
	var got []enemyKilled
	Subscribe(b, func(ev enemyKilled) { got = append(got, ev) })

	Emit(b, enemyKilled{Entity: 1})
	b.DispatchAll() // nothing swapped into front yet
	if len(got) != 0 {
		t.Fatalf("DispatchAll before SwapBuffers delivered %d events, want 0", len(got))
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 || got[0].Entity != 1 {
		t.Fatalf("got %+v, want one enemyKilled{Entity:1}", got)
	}
}

func TestSwapBuffersClearsNewBack(t *testing.T) {
	b := NewBus()
	var count int
	Subscribe(b, func(enemyKilled) { count++ })

	Emit(b, enemyKilled{Entity: 1})
	b.SwapBuffers() // tick 1: front has the event, back is fresh
	b.DispatchAll()
	if count != 1 {
		t.Fatalf("count after first dispatch = %d, want 1", count)
	}

	b.SwapBuffers() // tick 2: nothing was emitted since, front should be empty
	b.DispatchAll()
	if count != 1 {
		t.Fatalf("count after second dispatch = %d, want still 1 (no new events)", count)
	}
}

func TestSubscribersOnlyReceiveTheirOwnType(t *testing.T) {
	b := NewBus()
	var killed, popups int
	Subscribe(b, func(enemyKilled) { killed++ })
	Subscribe(b, func(scorePopup) { popups++ })

	Emit(b, enemyKilled{Entity: 1})
	Emit(b, scorePopup{Amount: 100})
	b.SwapBuffers()
	b.DispatchAll()

	if killed != 1 || popups != 1 {
		t.Fatalf("killed=%d popups=%d, want 1,1", killed, popups)
	}
}

func TestMultipleSubscribersAllFire(t *testing.T) {
	b := NewBus()
	var a, c int
	Subscribe(b, func(enemyKilled) { a++ })
	Subscribe(b, func(enemyKilled) { c++ })

	Emit(b, enemyKilled{})
	b.SwapBuffers()
	b.DispatchAll()

	if a != 1 || c != 1 {
		t.Fatalf("a=%d c=%d, want both handlers to fire once", a, c)
	}
}
