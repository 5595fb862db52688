package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/usecase/interfaces"
)

// AuditLog records emitted events in order.
type AuditLog struct {
	mu     sync.Mutex
	events []entities.AuditEvent
}

var _ interfaces.IAuditSink = (*AuditLog)(nil)

func (l *AuditLog) Emit(_ context.Context, event entities.AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *AuditLog) Events() []entities.AuditEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]entities.AuditEvent, len(l.events))
	copy(out, l.events)
	return out
}

// StaticRates holds the global rates in process.
type StaticRates struct {
	mu    sync.RWMutex
	rates entities.RateSnapshot
}

var _ interfaces.IRateStore = (*StaticRates)(nil)

func NewStaticRates(r entities.RateSnapshot) *StaticRates {
	return &StaticRates{rates: r}
}

func (s *StaticRates) Current(context.Context) (entities.RateSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rates, nil
}

func (s *StaticRates) Save(_ context.Context, r entities.RateSnapshot) error {
	s.Set(r)
	return nil
}

func (s *StaticRates) Set(r entities.RateSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = r
}

// Payments keeps settlement payments by id and the settlement slot of each
// assessment.
type Payments struct {
	mu      sync.RWMutex
	byID    map[string]entities.BillingPayment
	claimed map[string]string
}

var _ interfaces.IBillingPaymentRepository = (*Payments)(nil)

func NewPayments() *Payments {
	return &Payments{byID: map[string]entities.BillingPayment{}, claimed: map[string]string{}}
}

func (p *Payments) Create(_ context.Context, payment entities.BillingPayment) (entities.BillingPayment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byID[payment.ID] = payment
	return payment, nil
}

func (p *Payments) GetByID(_ context.Context, id string) (entities.BillingPayment, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.byID[id], nil
}

func (p *Payments) ListByAssessmentID(_ context.Context, assessmentID string) ([]entities.BillingPayment, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []entities.BillingPayment
	for _, v := range p.byID {
		if v.AssessmentID == assessmentID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (p *Payments) ClaimSettlement(_ context.Context, assessmentID, claimID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if holder, ok := p.claimed[assessmentID]; ok {
		return fmt.Errorf("%w: settlement of %s is held by %s", entities.ErrConcurrentModification, assessmentID, holder)
	}
	p.claimed[assessmentID] = claimID
	return nil
}

func (p *Payments) ReleaseSettlement(_ context.Context, assessmentID, claimID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.claimed[assessmentID] == claimID {
		delete(p.claimed, assessmentID)
	}
	return nil
}
