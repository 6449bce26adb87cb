package cache

// lruNode is a node in a doubly-linked LRU list. It keeps its key so that
// eviction can delete the owning map entry.
type lruNode[K comparable, V any] struct {
	key   K
	value V
	prev  *lruNode[K, V]
	next  *lruNode[K, V]
}

// lruList orders nodes from most recently used (head) to least (tail).
// Not safe for concurrent use; Cache holds the lock.
type lruList[K comparable, V any] struct {
	head *lruNode[K, V]
	tail *lruNode[K, V]
	len  int
}

func (l *lruList[K, V]) pushFront(node *lruNode[K, V]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

func (l *lruList[K, V]) moveToFront(node *lruNode[K, V]) {
	if node == l.head {
		return
	}
	l.unlink(node)
	l.pushFront(node)
}

func (l *lruList[K, V]) removeOldest() *lruNode[K, V] {
	node := l.tail
	if node != nil {
		l.unlink(node)
	}
	return node
}

func (l *lruList[K, V]) unlink(node *lruNode[K, V]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.len--
}
