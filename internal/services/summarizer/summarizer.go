package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/denmats/apihub/internal/config"
	"github.com/google/go-github/v66/github"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

var (
	ErrInvalidRepoURL = errors.New("invalid github repository url")
	ErrReadmeNotFound = errors.New("readme not found in the repository")
	ErrUpstream       = errors.New("upstream failure")
	ErrBadSummary     = errors.New("response did not match expected format")
)

const maxSummaryLength = 2000

// Summary is the structured result of a README summarization.
type Summary struct {
	Summary   string   `json:"summary"`
	CoolFacts []string `json:"cool_facts"`
}

type Service struct {
	apiKey string
	model  string
	gh     *github.Client
	logger *zap.Logger
}

func NewService(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	if cfg.OpenAI == nil || cfg.OpenAI.APIKey == "" {
		return nil, errors.New("openAI API-key is not set. Cannot enable summarizer")
	}

	return &Service{
		apiKey: cfg.OpenAI.APIKey,
		model:  cfg.OpenAI.Model,
		gh:     github.NewClient(nil),
		logger: logger,
	}, nil
}

// Summarize fetches the repository README and asks the model for a summary
// plus a short list of facts.
func (s *Service) Summarize(ctx context.Context, githubURL string) (*Summary, error) {
	owner, repo, err := ParseRepoURL(githubURL)
	if err != nil {
		return nil, err
	}

	readme, err := s.fetchReadme(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarizeReadme(ctx, readme)
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func (s *Service) summarizeReadme(ctx context.Context, readmeContent string) (*Summary, error) {
	client := openai.NewClient(option.WithAPIKey(s.apiKey))

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(readmeContent)),
		}),
		ResponseFormat: openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONObjectParam{
				Type: openai.F(openai.ResponseFormatJSONObjectTypeJSONObject),
			},
		),
		Model:       openai.F(openai.ChatModel(s.model)),
		Temperature: openai.F(0.2),
	})
	if err != nil {
		return nil, errors.Join(ErrUpstream, err)
	}

	if len(completion.Choices) == 0 || len(completion.Choices[0].Message.Content) == 0 {
		return nil, ErrBadSummary
	}

	summary, err := parseSummary(completion.Choices[0].Message.Content)
	if err != nil {
		s.logger.Warn("summarizer returned an unparseable response", zap.Error(err))
		return nil, err
	}

	return summary, nil
}

// parseSummary decodes the model output. Models occasionally wrap the JSON
// in prose, so a failed decode retries on the outermost brace pair.
func parseSummary(content string) (*Summary, error) {
	var summary Summary
	if err := json.Unmarshal([]byte(content), &summary); err != nil {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start == -1 || end <= start {
			return nil, ErrBadSummary
		}
		if err := json.Unmarshal([]byte(content[start:end+1]), &summary); err != nil {
			return nil, ErrBadSummary
		}
	}

	summary.Summary = strings.TrimSpace(summary.Summary)
	if summary.Summary == "" || len(summary.Summary) > maxSummaryLength {
		return nil, ErrBadSummary
	}

	facts := make([]string, 0, len(summary.CoolFacts))
	for _, fact := range summary.CoolFacts {
		if fact = strings.TrimSpace(fact); fact != "" {
			facts = append(facts, fact)
		}
	}
	if len(facts) == 0 {
		return nil, ErrBadSummary
	}
	if len(facts) > 3 {
		facts = facts[:3]
	}
	summary.CoolFacts = facts

	return &summary, nil
}
