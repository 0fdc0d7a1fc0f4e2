package orderbook

import "sync"

// SyncBook serializes access to an OrderBook. Mutations hold the write lock
// for the whole call, including matching; queries hold the read lock.
type SyncBook struct {
	mu   sync.RWMutex
	book *OrderBook
}

func NewSyncBook(book *OrderBook) *SyncBook {
	return &SyncBook{book: book}
}

func (sb *SyncBook) AddOrder(spec OrderSpec) []Trade {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.book.AddOrder(spec)
}

func (sb *SyncBook) CancelOrder(id OrderID) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.book.CancelOrder(id)
}

func (sb *SyncBook) ModifyOrder(m OrderModify) []Trade {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.book.ModifyOrder(m)
}

func (sb *SyncBook) Size() int {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.book.Size()
}

func (sb *SyncBook) Snapshot() BookSnapshot {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.book.Snapshot()
}

func (sb *SyncBook) Depth(n int) BookDepth {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.book.Depth(n)
}

func (sb *SyncBook) Order(id OrderID) (Order, bool) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.book.Order(id)
}
