package store

import (
	"fmt"
	"sync"

	"github.com/spirolink/SpiroLink-website-sub000/model"
)

// MemoryPaymentStore mirrors the Postgres store's transition semantics in
// memory. It backs the tests and any run without a database.
type MemoryPaymentStore struct {
	mu       sync.RWMutex
	payments map[string]*model.Payment
	nextID   uint
}

func NewMemoryPaymentStore() *MemoryPaymentStore {
	return &MemoryPaymentStore{payments: make(map[string]*model.Payment)}
}

func (s *MemoryPaymentStore) Create(p *model.Payment) error {
	if err := ValidatePayment(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[p.PaymentID]; ok {
		return fmt.Errorf("%w: payment id already exists", ErrValidation)
	}
	if p.Status == "" {
		p.Status = model.PaymentPending
	}
	if p.Currency == "" {
		p.Currency = "usd"
	}
	s.nextID++
	p.ID = s.nextID

	cp := *p
	s.payments[p.PaymentID] = &cp
	return nil
}

func (s *MemoryPaymentStore) GetByPaymentID(paymentID string) (*model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryPaymentStore) GetBySessionID(sessionID string) (*model.Payment, error) {
	return s.find(func(p *model.Payment) bool { return p.StripeSessionID == sessionID })
}

func (s *MemoryPaymentStore) GetByIntentID(intentID string) (*model.Payment, error) {
	return s.find(func(p *model.Payment) bool { return p.StripeIntentID == intentID })
}

func (s *MemoryPaymentStore) find(match func(*model.Payment) bool) (*model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.payments {
		if match(p) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryPaymentStore) UpdateStatus(paymentID string, newStatus model.PaymentStatus, transactionID string) (*model.Payment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return nil, false, ErrNotFound
	}

	if !p.Status.CanTransition(newStatus) {
		cp := *p
		return &cp, false, nil
	}

	p.Status = newStatus
	if transactionID != "" {
		p.TransactionID = transactionID
	}
	cp := *p
	return &cp, true, nil
}
