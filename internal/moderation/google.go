package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"admin/internal/models"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const generatePath = "/v1beta/models/{model}:generateContent"

const instructions = `You review text written by teachers and students of an e-learning platform.
Decide whether it may be published. Refuse hate speech, harassment, sexual content, violence,
personal data and spam. Answer with a JSON object only: {"allowed": boolean, "reason": string}.
The reason is one short sentence and may be empty when the text is allowed.

Text:
`

// Moderator decides whether a piece of user content may be published.
type Moderator interface {
	Check(ctx context.Context, text string) (models.ModerationVerdict, error)
}

// GoogleModerator asks the Generative Language API for a verdict.
type GoogleModerator struct {
	client *resty.Client
	model  string
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func NewGoogleModerator(config models.ModerationConfiguration) *GoogleModerator {
	client := resty.New().
		SetBaseURL(strings.TrimRight(config.Endpoint, "/")).
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetQueryParam("key", config.GoogleAPIKey).
		SetHeader("Content-Type", "application/json").
		SetLogger(zap.S()).
		SetDisableWarn(true)

	return &GoogleModerator{client: client, model: config.Model}
}

func (g *GoogleModerator) Check(ctx context.Context, text string) (models.ModerationVerdict, error) {
	var reply generateResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetPathParam("model", g.model).
		SetBody(generateRequest{
			Contents:         []content{{Parts: []part{{Text: instructions + text}}}},
			GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
		}).
		SetResult(&reply).
		Post(generatePath)
	if err != nil {
		return models.ModerationVerdict{}, fmt.Errorf("generate content: %w", err)
	}
	if !resp.IsSuccess() {
		return models.ModerationVerdict{}, fmt.Errorf("generate content: status %d", resp.StatusCode())
	}

	for _, candidate := range reply.Candidates {
		for _, p := range candidate.Content.Parts {
			if verdict, ok := parseVerdict(p.Text); ok {
				return verdict, nil
			}
		}
	}
	return models.ModerationVerdict{}, fmt.Errorf("generate content: no verdict in %d candidates", len(reply.Candidates))
}

// parseVerdict reads the JSON answer, tolerating a surrounding markdown code fence.
func parseVerdict(text string) (models.ModerationVerdict, bool) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	var verdict struct {
		Allowed *bool  `json:"allowed"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &verdict); err != nil || verdict.Allowed == nil {
		return models.ModerationVerdict{}, false
	}
	return models.ModerationVerdict{Allowed: *verdict.Allowed, Reason: verdict.Reason}, true
}
