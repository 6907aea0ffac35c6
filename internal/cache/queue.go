package cache

// queueNode is a node in a doubly-linked insertion queue.
// The node stores a key for O(1) deletion from the parent map.
type queueNode[K comparable] struct {
	key  K
	prev *queueNode[K]
	next *queueNode[K]
}

// queue records keys in insertion order.
// The queue is not thread-safe; callers must handle synchronization.
//
// The head is the newest entry, the tail the oldest.
type queue[K comparable] struct {
	head *queueNode[K]
	tail *queueNode[K]
	len  int
}

// Len returns the number of nodes in the queue.
func (q *queue[K]) Len() int {
	return q.len
}

// PushFront adds a new node as the newest entry.
// Returns the created node for later removal.
func (q *queue[K]) PushFront(key K) *queueNode[K] {
	node := &queueNode[K]{key: key}
	if q.head == nil {
		q.head = node
		q.tail = node
	} else {
		node.next = q.head
		q.head.prev = node
		q.head = node
	}
	q.len++
	return node
}

// Remove removes a node from the queue.
func (q *queue[K]) Remove(node *queueNode[K]) {
	if node == nil {
		return
	}
	q.unlink(node)
}

// RemoveOldest removes and returns the key of the oldest node.
// Returns zero value and false if the queue is empty.
func (q *queue[K]) RemoveOldest() (K, bool) {
	if q.tail == nil {
		var zero K
		return zero, false
	}

	node := q.tail
	q.unlink(node)
	return node.key, true
}

// Oldest returns the key of the oldest node without removing it.
func (q *queue[K]) Oldest() (K, bool) {
	if q.tail == nil {
		var zero K
		return zero, false
	}
	return q.tail.key, true
}

// Clear removes all nodes from the queue.
func (q *queue[K]) Clear() {
	q.head = nil
	q.tail = nil
	q.len = 0
}

func (q *queue[K]) unlink(node *queueNode[K]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		q.head = node.next
	}

	if node.next != nil {
		node.next.prev = node.prev
	} else {
		q.tail = node.prev
	}

	node.prev = nil
	node.next = nil
	q.len--
}
