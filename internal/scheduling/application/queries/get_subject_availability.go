package queries

import (
	"context"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/application/services"
	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
)

// GetSubjectAvailabilityQuery asks for one subject's free/busy slot
// sequence on a single day.
type GetSubjectAvailabilityQuery struct {
	SubjectID uuid.UUID
	Date      time.Time
}

// QueryName identifies the query type.
func (q GetSubjectAvailabilityQuery) QueryName() string { return "scheduling.get_subject_availability" }

// GetSubjectAvailabilityHandler handles the GetSubjectAvailabilityQuery.
type GetSubjectAvailabilityHandler struct {
	generator *services.SlotGenerator
}

// NewGetSubjectAvailabilityHandler creates a new GetSubjectAvailabilityHandler.
func NewGetSubjectAvailabilityHandler(generator *services.SlotGenerator) *GetSubjectAvailabilityHandler {
	return &GetSubjectAvailabilityHandler{generator: generator}
}

// Handle executes the GetSubjectAvailabilityQuery. An empty sequence means
// the subject has no declared availability that day.
func (h *GetSubjectAvailabilityHandler) Handle(ctx context.Context, query GetSubjectAvailabilityQuery) ([]domain.TimeSlot, error) {
	return h.generator.GenerateDay(ctx, sharedDomain.NewSubjectID(query.SubjectID), query.Date)
}
