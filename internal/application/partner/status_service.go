package partner

import (
	"context"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/samber/lo"
)

// StatusService exposes the status lookup table
type StatusService struct {
	statusRepo partner.StatusRepository
}

// NewStatusService creates a new StatusService
func NewStatusService(statusRepo partner.StatusRepository) *StatusService {
	return &StatusService{statusRepo: statusRepo}
}

// List returns every status ordered by ID
func (s *StatusService) List(ctx context.Context) ([]StatusResponse, error) {
	statuses, err := s.statusRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(statuses, func(st partner.Status, _ int) StatusResponse {
		return StatusResponse{ID: st.ID, Name: st.Name}
	}), nil
}
