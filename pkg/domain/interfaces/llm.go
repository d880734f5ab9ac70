package interfaces

import (
	"context"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
)

// EventDesigner generates event design recommendations.
// The LLM-backed implementation uses gollem.LLMClient directly.
type EventDesigner interface {
	DesignEvent(ctx context.Context, req *model.DesignRequest) (*model.DesignRecommendation, error)
}
