package llm_test

import (
	"context"
	"strings"
	"testing"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/service/llm"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"
)

const validDesign = `{
	"theme": {"name": "Vineyard Glow", "description": "Candlelit rows among the vines", "keywords": ["warm", "natural"]},
	"colorPalette": {"primary": "#6B2737", "secondary": "#F4E9D8", "accent": "#C9A227", "neutral": "#A89F91", "description": "Wine and gold"},
	"layout": {"style": "Banquet", "description": "Long family tables", "suggestions": ["Sweetheart table at the head"]},
	"decorElements": [{"category": "Lighting", "items": ["Festoon lights"], "description": "Soft overhead glow"}],
	"timeline": [{"phase": "Planning", "timeframe": "3 months before", "tasks": ["Book venue"]}],
	"budgetBreakdown": [
		{"category": "Venue", "percentage": 50, "estimatedCost": 10000, "description": "Estate hire"},
		{"category": "Catering", "percentage": 50, "estimatedCost": 10000, "description": "Dinner"}
	],
	"vendorRecommendations": [{"category": "Catering", "priority": "high", "description": "Farm to table"}]
}`

func newMockClient(text string, genErr error, prompts *[]string) *mock.LLMClientMock {
	return &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					if prompts != nil {
						for _, in := range input {
							if txt, ok := in.(gollem.Text); ok {
								*prompts = append(*prompts, string(txt))
							}
						}
					}
					if genErr != nil {
						return nil, genErr
					}
					return &gollem.Response{Texts: []string{text}}, nil
				},
			}, nil
		},
	}
}

func designRequest() *model.DesignRequest {
	return &model.DesignRequest{
		EventType:       "wedding",
		AttendeeCount:   120,
		Budget:          20000,
		Vibe:            "rustic elegance",
		AdditionalNotes: "Outdoor ceremony",
	}
}

func TestLLMService_DesignEvent_Success(t *testing.T) {
	ctx := context.Background()
	var prompts []string
	service := llm.NewLLMService(newMockClient(validDesign, nil, &prompts))

	design, err := service.DesignEvent(ctx, designRequest())
	gt.NoError(t, err).Required()
	gt.Equal(t, design.Theme.Name, "Vineyard Glow")
	gt.Equal(t, design.Layout.Style, "Banquet")
	gt.A(t, design.BudgetBreakdown).Length(2)
	gt.Equal(t, design.ColorPalette.Accent, "#C9A227")

	gt.A(t, prompts).Length(1)
	gt.True(t, strings.Contains(prompts[0], "Attendees: 120"))
	gt.True(t, strings.Contains(prompts[0], "Budget: 20000 USD"))
	gt.True(t, strings.Contains(prompts[0], "Additional notes: Outdoor ceremony"))
}

func TestLLMService_DesignEvent_InvalidJSON(t *testing.T) {
	service := llm.NewLLMService(newMockClient("not valid json", nil, nil))

	_, err := service.DesignEvent(context.Background(), designRequest())
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, llm.ErrTagInvalidJSON))
}

func TestLLMService_DesignEvent_EmptyResponse(t *testing.T) {
	service := llm.NewLLMService(newMockClient("", nil, nil))

	_, err := service.DesignEvent(context.Background(), designRequest())
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, llm.ErrTagEmptyResponse))
}

func TestLLMService_DesignEvent_IncompleteDesign(t *testing.T) {
	service := llm.NewLLMService(newMockClient(`{"theme": {"name": ""}}`, nil, nil))

	_, err := service.DesignEvent(context.Background(), designRequest())
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, llm.ErrTagInvalidDesign))
}

func TestLLMService_DesignEvent_GenerateError(t *testing.T) {
	service := llm.NewLLMService(newMockClient("", goerr.New("quota exceeded"), nil))

	_, err := service.DesignEvent(context.Background(), designRequest())
	gt.Error(t, err)
}
