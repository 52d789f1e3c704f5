package workflow

import "sync"

// Sessions tracks, per buyer, the order currently awaiting payment proof.
// It only exists to correlate an inbound proof upload with the right order;
// the engine clears an entry as soon as the order leaves awaiting_payment
// or reaches a terminal status. A buyer starting a second order while one
// is pending simply repoints the session at the newer order.
type Sessions struct {
	mu      sync.RWMutex
	pending map[int64]string
}

// NewSessions constructs an empty session table.
func NewSessions() *Sessions {
	return &Sessions{pending: make(map[int64]string)}
}

// Begin records the order the buyer is progressing through.
func (s *Sessions) Begin(buyerID int64, orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[buyerID] = orderID
}

// Pending returns the buyer's in-progress order id, if any.
func (s *Sessions) Pending(buyerID int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.pending[buyerID]
	return id, ok
}

// Clear drops the buyer's session.
func (s *Sessions) Clear(buyerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, buyerID)
}
