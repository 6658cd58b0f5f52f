package usecase

import (
	"context"
	"fmt"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/ports"
)

// PopulateUseCase pushes the profile corpus into the vector store so
// semantic search covers the same content the keyword fallback does.
type PopulateUseCase struct {
	vector  ports.VectorIndex
	profile domain.Profile
}

func NewPopulateUseCase(vector ports.VectorIndex, profile domain.Profile) *PopulateUseCase {
	return &PopulateUseCase{vector: vector, profile: profile}
}

func (uc *PopulateUseCase) Populate(ctx context.Context) (int, error) {
	corpus := domain.BuildCorpus(uc.profile)
	if len(corpus) == 0 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "populate vector index", fmt.Errorf("profile produced no content chunks"))
	}

	count, err := uc.vector.Upsert(ctx, corpus)
	if err != nil {
		return 0, fmt.Errorf("upsert profile corpus: %w", err)
	}
	return count, nil
}
