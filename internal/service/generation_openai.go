package service

import (
	"clarity_hub_backend/internal/config"
	"clarity_hub_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const generationSystemPrompt = "You are a curriculum designer for a study planning app. " +
	"Reply with JSON only, matching the provided schema exactly."

// OpenAIGenerator 直接调用 OpenAI 兼容接口生成内容，输出格式与 HTTPGenerator 一致
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIGenerator(ai config.AIConfig, gen config.GenerationConfig) (*OpenAIGenerator, error) {
	if ai.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}

	cfg := openai.DefaultConfig(ai.APIKey)
	if ai.BaseURL != "" {
		cfg.BaseURL = ai.BaseURL
	}

	return &OpenAIGenerator{
		client:  openai.NewClientWithConfig(cfg),
		model:   ai.Model,
		timeout: gen.Timeout,
	}, nil
}

func (g *OpenAIGenerator) GenerateRoadmap(ctx context.Context, prompt RoadmapPrompt) ([]GeneratedTopic, error) {
	level := prompt.ClassLevel
	if level == "" {
		level = "unspecified"
	}
	exam := prompt.Exam
	if exam == "" {
		exam = "none"
	}
	userPrompt := fmt.Sprintf(
		"Build a study roadmap for the syllabus %q in subject %q. Class level: %s. Target exam: %s. "+
			"Difficulty: %s. Timeline: %s weeks. Prior knowledge: %s. "+
			"Each item is a topic with a name, a list of subtopic names, completion_time in weeks, "+
			"a list of resource titles and an optional youtube_link.",
		prompt.Syllabus, prompt.Subject, level, exam, prompt.Difficulty, prompt.Timeline, prompt.PriorKnowledge)

	var topics []GeneratedTopic
	err := observeGeneration(ctx, generationRoadmap, func(ctx context.Context) error {
		raw, err := g.complete(ctx, generationRoadmap, roadmapResponseSchema, userPrompt)
		if err != nil {
			return err
		}
		topics, err = decodeTopics(raw)
		return err
	})
	return topics, err
}

func (g *OpenAIGenerator) GenerateQuiz(ctx context.Context, prompt QuizPrompt) ([]GeneratedQuestion, error) {
	userPrompt := fmt.Sprintf(
		"Write %d %s quiz questions about %q at %s difficulty. "+
			"Each question has a list of options and an answer that is exactly one of the options. "+
			"True/false questions use the options \"True\" and \"False\".",
		prompt.QuestionCount, prompt.QuestionType, prompt.Topic, prompt.Difficulty)

	var questions []GeneratedQuestion
	err := observeGeneration(ctx, generationQuiz, func(ctx context.Context) error {
		raw, err := g.complete(ctx, generationQuiz, quizResponseSchema, userPrompt)
		if err != nil {
			return err
		}
		questions, err = decodeQuestions(raw)
		return err
	})
	return questions, err
}

func (g *OpenAIGenerator) GenerateSubtopicDetail(ctx context.Context, subtopic string) (string, error) {
	userPrompt := fmt.Sprintf(
		"Explain the study subtopic %q for a student in a few clear paragraphs with a short example. "+
			"Return a single item whose answer field holds the explanation in Markdown.",
		subtopic)

	var text string
	err := observeGeneration(ctx, generationDetail, func(ctx context.Context) error {
		raw, err := g.complete(ctx, generationDetail, detailResponseSchema, userPrompt)
		if err != nil {
			return err
		}
		text, err = decodeDetail(raw)
		return err
	})
	return text, err
}

// complete 请求结构化输出并返回 items 数组的原始 JSON
func (g *OpenAIGenerator) complete(ctx context.Context, op string, schema *responseSchema, userPrompt string) ([]byte, error) {
	env := schema.envelope()
	schemaBytes, err := json.Marshal(env.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: generationSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   env.Name,
				Schema: json.RawMessage(schemaBytes),
			},
		},
	})
	if err != nil {
		status := 0
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.HTTPStatusCode
		}
		return nil, &util.UpstreamError{Op: op, Status: status, Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &util.UpstreamError{Op: op, Err: errors.New("no choices in completion response")}
	}

	content := []byte(resp.Choices[0].Message.Content)
	if err := validateResponse(env, content); err != nil {
		return nil, &util.UpstreamError{Op: op, Err: err}
	}

	var wrapper struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(content, &wrapper); err != nil {
		return nil, &util.UpstreamError{Op: op, Err: err}
	}
	return wrapper.Items, nil
}
