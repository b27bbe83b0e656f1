package usecase

import (
	"context"
	"fmt"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/ev-station-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// ownerResolver подставляет name/email создателя и последнего редактора
type ownerResolver struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func newOwnerResolver(userRepo repository.UserRepository, logger *zap.Logger) *ownerResolver {
	return &ownerResolver{userRepo: userRepo, logger: logger}
}

// render resolves all owner ids in one lookup and builds responses in input order.
func (r *ownerResolver) render(ctx context.Context, stations []*domain.Station) ([]dto.StationResponse, error) {
	ids := make([]string, 0, len(stations)*2)
	seen := make(map[string]struct{}, len(stations)*2)
	for _, s := range stations {
		for _, id := range []string{s.CreatedBy, s.UpdatedBy} {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	refs := map[string]domain.UserRef{}
	if len(ids) > 0 {
		var err error
		refs, err = r.userRepo.GetRefs(ctx, ids)
		if err != nil {
			r.logger.Error("Failed to resolve station owners", zap.Int("ids", len(ids)), zap.Error(err))
			return nil, fmt.Errorf("resolve owners: %w", err)
		}
	}

	out := make([]dto.StationResponse, 0, len(stations))
	for _, s := range stations {
		out = append(out, dto.NewStationResponse(s, refs))
	}
	return out, nil
}

func (r *ownerResolver) renderOne(ctx context.Context, station *domain.Station) (*dto.StationResponse, error) {
	items, err := r.render(ctx, []*domain.Station{station})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}
