package fred

import (
	"context"

	"BuffettIndicator/internal/domain/models"
)

// Unavailable is the GDP source used when no api key is configured.
// It never touches the network.
type Unavailable struct{}

func (Unavailable) LatestGDP(context.Context) (models.Observation, error) {
	return models.Observation{}, ErrSourceUnavailable
}
