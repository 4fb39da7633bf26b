//go:build !hostalloc

package malloc

import "testing"

func TestListPushfront(t *testing.T) {
	var l *dlink
	var a, b, c dlink

	pushfront(&l, &a)
	if l != &a || a.next != nil || a.prev != &a {
		t.Errorf("single node list is malformed")
	}
	pushfront(&l, &b)
	pushfront(&l, &c)
	// head.prev points to the tail, tail.next is nil.
	if l != &c || c.prev != &a || a.next != nil {
		t.Errorf("list convention broken")
	} else if c.next != &b || b.next != &a || b.prev != &c || a.prev != &b {
		t.Errorf("links are malformed")
	}
}

func TestListMoveheadback(t *testing.T) {
	var l *dlink
	var a, b, c dlink
	pushfront(&l, &a)
	pushfront(&l, &b)
	pushfront(&l, &c) // c b a

	moveheadback(&l) // b a c
	if l != &b {
		t.Errorf("expected %p, got %p", &b, l)
	} else if b.prev != &c || c.next != nil || a.next != &c {
		t.Errorf("rotation malformed")
	}
}

func TestListMovefront(t *testing.T) {
	var l *dlink
	var a, b, c dlink
	pushfront(&l, &a)
	pushfront(&l, &b)
	pushfront(&l, &c) // c b a

	movefront(&l, &b) // b c a
	if l != &b {
		t.Errorf("expected %p, got %p", &b, l)
	} else if b.next != &c || c.next != &a || a.next != nil || b.prev != &a {
		t.Errorf("movefront malformed")
	}
	movefront(&l, &b) // no-op on head
	if l != &b || b.next != &c {
		t.Errorf("movefront on head should be a no-op")
	}
}

func TestListErase(t *testing.T) {
	var l *dlink
	var a, b, c dlink
	pushfront(&l, &a)
	pushfront(&l, &b)
	pushfront(&l, &c) // c b a

	erase(&l, &b) // c a
	if l != &c || c.next != &a || a.prev != &c || c.prev != &a {
		t.Errorf("erase of middle node malformed")
	}
	erase(&l, &a) // c
	if l != &c || c.next != nil || c.prev != &c {
		t.Errorf("erase of tail node malformed")
	}
}
