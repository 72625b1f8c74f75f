package services

import (
	"context"
	"log"
	"sync"

	"sipinjam/internal/adapters/persistence/models"
	"sipinjam/internal/adapters/persistence/repositories"
)

// AuditService emits one activity record per state-changing engine
// operation. Emission is best-effort after the transactional core commits:
// a failed write is logged, never surfaced as the operation's failure.
type AuditService struct {
	activityRepo *repositories.ActivityRepository
	wg           sync.WaitGroup
}

// NewAuditService creates a new audit service
func NewAuditService(activityRepo *repositories.ActivityRepository) *AuditService {
	return &AuditService{activityRepo: activityRepo}
}

// Record asynchronously appends one activity record
func (s *AuditService) Record(userID uint, action, entityTable string, entityID uint, description string) {
	entry := &models.ActivityLog{
		UserID:      userID,
		Action:      action,
		EntityTable: entityTable,
		EntityID:    entityID,
		Description: description,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.activityRepo.Create(context.Background(), entry); err != nil {
			log.Printf("⚠️ Audit write failed (%s %s/%d): %v", action, entityTable, entityID, err)
		}
	}()
}

// Flush waits for all pending audit writes, for graceful shutdown and tests
func (s *AuditService) Flush() {
	s.wg.Wait()
}
