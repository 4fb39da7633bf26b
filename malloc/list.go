//go:build !hostalloc

package malloc

// dlink intrusive doubly-linked list node, embedded at the head of
// every block header. The list has no sentinel: the head's prev
// points to the tail while the tail's next is nil, giving O(1)
// front-insert and O(1) head-to-back rotation.
type dlink struct {
	next *dlink
	prev *dlink
}

// pushfront insert `node` as the new head.
func pushfront(l **dlink, node *dlink) {
	if *l != nil {
		node.next = *l
		node.prev = (*l).prev
		(*l).prev = node
		*l = node
	} else {
		node.next = nil
		node.prev = node
		*l = node
	}
}

// movefront move a non-tailing `node` to the front.
func movefront(l **dlink, node *dlink) {
	if node != *l {
		node.prev.next = node.next
		node.next.prev = node.prev
		node.prev = (*l).prev
		node.next = *l
		(*l).prev = node
		*l = node
	}
}

// moveheadback rotate the head to the tail. The list shall have at
// least two nodes.
func moveheadback(l **dlink) {
	head := (*l).next
	(*l).prev.next = *l
	(*l).next = nil
	*l = head
}

// erase unlink a non-heading `node`.
func erase(l **dlink, node *dlink) {
	node.prev.next = node.next
	x := node.next
	if x == nil {
		x = *l
	}
	x.prev = node.prev
}
