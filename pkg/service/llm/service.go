package llm

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"strconv"
	"strings"
	"text/template"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Error tags for categorization
var (
	ErrTagInvalidJSON     = goerr.NewTag("invalid_json")
	ErrTagInvalidDesign   = goerr.NewTag("invalid_design")
	ErrTagEmptyResponse   = goerr.NewTag("empty_response")
	ErrTagTemplateFailure = goerr.NewTag("template_failure")
)

//go:embed templates/*.md
var templateFS embed.FS

// LLMService generates event designs with an LLM
type LLMService struct {
	llmClient gollem.LLMClient
}

var _ interfaces.EventDesigner = (*LLMService)(nil)

// EventDesignTemplateData is rendered into the event design prompt
type EventDesignTemplateData struct {
	EventType       string
	AttendeeCount   int
	Budget          string
	Currency        string
	Vibe            string
	AdditionalNotes string
}

// NewLLMService creates a new LLMService instance
func NewLLMService(llmClient gollem.LLMClient) *LLMService {
	return &LLMService{
		llmClient: llmClient,
	}
}

// DesignEvent asks the LLM for a design proposal and validates the result
func (s *LLMService) DesignEvent(ctx context.Context, req *model.DesignRequest) (*model.DesignRecommendation, error) {
	if req == nil {
		return nil, goerr.New("design request is nil")
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	prompt, err := renderTemplate("templates/event_design.md", EventDesignTemplateData{
		EventType:       req.EventType,
		AttendeeCount:   req.AttendeeCount,
		Budget:          strconv.FormatFloat(req.Budget, 'f', -1, 64),
		Currency:        currency,
		Vibe:            req.Vibe,
		AdditionalNotes: req.AdditionalNotes,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render event design template",
			goerr.T(ErrTagTemplateFailure))
	}

	session, err := s.llmClient.NewSession(ctx, gollem.WithSessionContentType(gollem.ContentTypeJSON))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	response, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate LLM response")
	}
	if len(response.Texts) == 0 || strings.TrimSpace(response.Texts[0]) == "" {
		return nil, goerr.New("empty response from LLM",
			goerr.T(ErrTagEmptyResponse))
	}

	var design model.DesignRecommendation
	if err := json.Unmarshal([]byte(response.Texts[0]), &design); err != nil {
		return nil, goerr.Wrap(err, "failed to parse LLM response as JSON",
			goerr.V("response", response.Texts[0]),
			goerr.T(ErrTagInvalidJSON))
	}
	if err := design.Validate(); err != nil {
		return nil, goerr.Wrap(err, "LLM returned an unusable design",
			goerr.T(ErrTagInvalidDesign))
	}

	ctxlog.From(ctx).Debug("LLM event design generated",
		"eventType", req.EventType,
		"theme", design.Theme.Name,
	)
	return &design, nil
}

// renderTemplate renders an embedded prompt template
func renderTemplate(name string, data any) (string, error) {
	content, err := templateFS.ReadFile(name)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read template", goerr.V("name", name))
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse template", goerr.V("name", name))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute template", goerr.V("name", name))
	}
	return buf.String(), nil
}
