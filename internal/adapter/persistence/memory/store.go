// Package memory keeps every aggregate in process. It is used for local runs
// (STORAGE_DRIVER=memory) and by use case tests, and follows the same
// conditional-write rules as the DynamoDB repositories.
package memory

import (
	"context"
	"fmt"
	"sync"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/usecase/interfaces"
)

type Store struct {
	mu          sync.RWMutex
	assessments map[string]entities.Assessment
	ledgers     map[string]entities.EstimateLedger
	overlays    map[string]entities.AdditionalsOverlay
	snapshots   map[string]entities.FRCSnapshot
}

var _ interfaces.IAssessmentRepository = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		assessments: map[string]entities.Assessment{},
		ledgers:     map[string]entities.EstimateLedger{},
		overlays:    map[string]entities.AdditionalsOverlay{},
		snapshots:   map[string]entities.FRCSnapshot{},
	}
}

func conflict(what string, want, got int64) error {
	return fmt.Errorf("%w: %s version is %d, expected %d", entities.ErrConcurrentModification, what, got, want)
}

// staged reports ErrConcurrentModification unless the assessment is still at
// stage. Callers hold the write lock.
func (s *Store) staged(assessmentID string, stage entities.Stage) error {
	if cur := s.assessments[assessmentID].Stage; cur != stage {
		return fmt.Errorf("%w: stage is %s, expected %s", entities.ErrConcurrentModification, cur, stage)
	}
	return nil
}

func (s *Store) CreateAssessment(_ context.Context, a entities.Assessment) (entities.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assessments[a.ID]; ok {
		return entities.Assessment{}, fmt.Errorf("%w: assessment %s already exists", entities.ErrConcurrentModification, a.ID)
	}
	a.Version = 1
	s.assessments[a.ID] = a
	return a, nil
}

func (s *Store) LoadAssessment(_ context.Context, id string) (entities.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assessments[id], nil
}

func (s *Store) LoadLedger(_ context.Context, assessmentID string) (entities.EstimateLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledgers[assessmentID].Clone(), nil
}

func (s *Store) SaveLedger(_ context.Context, ledger entities.EstimateLedger, stage entities.Stage) (entities.EstimateLedger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.staged(ledger.AssessmentID, stage); err != nil {
		return entities.EstimateLedger{}, err
	}
	if cur := s.ledgers[ledger.AssessmentID].Version; cur != ledger.Version {
		return entities.EstimateLedger{}, conflict("estimate", ledger.Version, cur)
	}
	ledger = ledger.Clone()
	ledger.Version++
	s.ledgers[ledger.AssessmentID] = ledger
	return ledger.Clone(), nil
}

func (s *Store) LoadOverlay(_ context.Context, assessmentID string) (entities.AdditionalsOverlay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlays[assessmentID].Clone(), nil
}

func (s *Store) SaveOverlay(_ context.Context, overlay entities.AdditionalsOverlay, stage entities.Stage) (entities.AdditionalsOverlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.staged(overlay.AssessmentID, stage); err != nil {
		return entities.AdditionalsOverlay{}, err
	}
	if cur := s.overlays[overlay.AssessmentID].Version; cur != overlay.Version {
		return entities.AdditionalsOverlay{}, conflict("additionals", overlay.Version, cur)
	}
	overlay = overlay.Clone()
	overlay.Version++
	s.overlays[overlay.AssessmentID] = overlay
	return overlay.Clone(), nil
}

func (s *Store) LoadSnapshot(_ context.Context, assessmentID string) (entities.FRCSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[assessmentID].Clone(), nil
}

func (s *Store) SaveSnapshot(_ context.Context, snapshot entities.FRCSnapshot, stage entities.Stage) (entities.FRCSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.staged(snapshot.AssessmentID, stage); err != nil {
		return entities.FRCSnapshot{}, err
	}
	if cur := s.snapshots[snapshot.AssessmentID].Version; cur != snapshot.Version {
		return entities.FRCSnapshot{}, conflict("frc", snapshot.Version, cur)
	}
	snapshot = snapshot.Clone()
	snapshot.Version++
	s.snapshots[snapshot.AssessmentID] = snapshot
	return snapshot.Clone(), nil
}

// CASStage checks every precondition before writing anything, so either all
// of change lands or none of it does.
func (s *Store) CASStage(_ context.Context, change interfaces.StageChange) (entities.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assessments[change.AssessmentID]
	if !ok {
		return entities.Assessment{}, fmt.Errorf("assessment %s: %w", change.AssessmentID, entities.ErrNotFound)
	}
	if a.Stage != change.Expected {
		return entities.Assessment{}, fmt.Errorf("%w: stage is %s, expected %s", entities.ErrConcurrentModification, a.Stage, change.Expected)
	}
	if change.Ledger != nil {
		if cur := s.ledgers[change.AssessmentID].Version; cur != change.Ledger.Version {
			return entities.Assessment{}, conflict("estimate", change.Ledger.Version, cur)
		}
	}
	if change.Snapshot != nil {
		if cur := s.snapshots[change.AssessmentID].Version; cur != change.Snapshot.Version {
			return entities.Assessment{}, conflict("frc", change.Snapshot.Version, cur)
		}
	}

	a.Stage = change.Next
	a.Status = entities.StatusForStage(change.Next)
	if change.CancelReason != "" {
		a.CancelReason = change.CancelReason
	}
	a.Version++
	a.UpdatedAt = change.At
	s.assessments[a.ID] = a

	if change.Ledger != nil {
		l := change.Ledger.Clone()
		l.AssessmentID = a.ID
		l.Version++
		s.ledgers[a.ID] = l
	}
	if change.Snapshot != nil {
		sn := change.Snapshot.Clone()
		sn.AssessmentID = a.ID
		sn.Version++
		s.snapshots[a.ID] = sn
	}
	return a, nil
}
