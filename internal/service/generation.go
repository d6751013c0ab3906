package service

import (
	"clarity_hub_backend/internal/config"
	"clarity_hub_backend/internal/util"
	"clarity_hub_backend/pkg/monitoring"
	"clarity_hub_backend/pkg/tracing"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	generationRoadmap = "roadmap"
	generationQuiz    = "quiz"
	generationDetail  = "detail"
)

// ContentGenerator 外部内容生成服务
type ContentGenerator interface {
	GenerateRoadmap(ctx context.Context, prompt RoadmapPrompt) ([]GeneratedTopic, error)
	GenerateQuiz(ctx context.Context, prompt QuizPrompt) ([]GeneratedQuestion, error)
	GenerateSubtopicDetail(ctx context.Context, subtopic string) (string, error)
}

// NewContentGenerator 按 generation.provider 选择实现
func NewContentGenerator(cfg *config.Config) (ContentGenerator, error) {
	if cfg.Generation.Provider == config.ProviderOpenAI {
		return NewOpenAIGenerator(cfg.AI, cfg.Generation)
	}
	return NewHTTPGenerator(cfg.Generation), nil
}

// RoadmapPrompt 发送给生成服务的路线图请求
type RoadmapPrompt struct {
	Syllabus       string `json:"syllabus"`
	Subject        string `json:"subject"`
	ClassLevel     string `json:"class_level"`
	Exam           string `json:"exam"`
	Difficulty     string `json:"difficulty"`
	Timeline       string `json:"timeline"`
	PriorKnowledge string `json:"priorKnowledge"`
}

type QuizPrompt struct {
	Topic         string `json:"topic"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"questionCount"`
	QuestionType  string `json:"questionType"`
}

type GeneratedTopic struct {
	Name           string       `json:"name"`
	Subtopics      []string     `json:"subtopics"`
	CompletionTime util.FlexInt `json:"completion_time"`
	Resources      []string     `json:"resources"`
	YoutubeLink    string       `json:"youtube_link"`
}

type GeneratedQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

type generatedDetail struct {
	Answer string `json:"answer"`
}

// responseSchema 生成服务返回内容的 JSON Schema
type responseSchema struct {
	Name       string
	Definition map[string]interface{}
}

var (
	roadmapResponseSchema = &responseSchema{
		Name: "roadmap_topics",
		Definition: map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type":     "object",
				"required": []string{"name", "subtopics"},
				"properties": map[string]interface{}{
					"name": map[string]interface{}{"type": "string", "minLength": 1, "maxLength": util.MaxNameLength},
					"subtopics": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string", "maxLength": util.MaxNameLength},
					},
					"completion_time": map[string]interface{}{"type": []string{"number", "string"}},
					"resources":       map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
					"youtube_link":    map[string]interface{}{"type": []string{"string", "null"}},
				},
			},
		},
	}

	quizResponseSchema = &responseSchema{
		Name: "quiz_questions",
		Definition: map[string]interface{}{
			"type":     "array",
			"minItems": util.MinQuestionCount,
			"maxItems": util.MaxQuestionCount,
			"items": map[string]interface{}{
				"type":     "object",
				"required": []string{"question", "options", "answer"},
				"properties": map[string]interface{}{
					"question": map[string]interface{}{"type": "string", "minLength": 1},
					"options": map[string]interface{}{
						"type":     "array",
						"minItems": 2,
						"items":    map[string]interface{}{"type": "string"},
					},
					"answer": map[string]interface{}{"type": "string", "minLength": 1},
				},
			},
		},
	}

	detailResponseSchema = &responseSchema{
		Name: "subtopic_detail",
		Definition: map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type":       "object",
				"required":   []string{"answer"},
				"properties": map[string]interface{}{"answer": map[string]interface{}{"type": "string"}},
			},
		},
	}
)

// envelope 把数组包进 {"items": [...]}，供只接受对象结构化输出的模型使用
func (s *responseSchema) envelope() *responseSchema {
	return &responseSchema{
		Name: s.Name + "_envelope",
		Definition: map[string]interface{}{
			"type":                 "object",
			"required":             []string{"items"},
			"additionalProperties": false,
			"properties":           map[string]interface{}{"items": s.Definition},
		},
	}
}

var schemaCache sync.Map // name -> *jsonschema.Schema

func compiledSchema(s *responseSchema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(s.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	defBytes, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var def interface{}
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", s.Name)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(s.Name, compiled)
	return compiled, nil
}

func validateResponse(s *responseSchema, raw []byte) error {
	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compiledSchema(s)
	if err != nil {
		return fmt.Errorf("schema %q: %w", s.Name, err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// decodeTopics 校验并规整路线图主题：子主题去重，资源去空
func decodeTopics(raw []byte) ([]GeneratedTopic, error) {
	if err := validateResponse(roadmapResponseSchema, raw); err != nil {
		return nil, &util.UpstreamError{Op: generationRoadmap, Err: err}
	}

	var topics []GeneratedTopic
	if err := json.Unmarshal(raw, &topics); err != nil {
		return nil, &util.UpstreamError{Op: generationRoadmap, Err: err}
	}

	for i := range topics {
		topics[i].Name = strings.TrimSpace(topics[i].Name)
		topics[i].Subtopics = util.UniqueStrings(topics[i].Subtopics)
		topics[i].Resources = util.UniqueStrings(topics[i].Resources)
		if topics[i].CompletionTime < 0 {
			topics[i].CompletionTime = 0
		}
	}
	return topics, nil
}

// decodeQuestions 校验题目，答案不在选项中的题目无法评分，整份结果视为不可用
func decodeQuestions(raw []byte) ([]GeneratedQuestion, error) {
	if err := validateResponse(quizResponseSchema, raw); err != nil {
		return nil, &util.UpstreamError{Op: generationQuiz, Err: err}
	}

	var questions []GeneratedQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, &util.UpstreamError{Op: generationQuiz, Err: err}
	}

	for i, q := range questions {
		if !util.ContainsString(q.Options, q.Answer) {
			return nil, &util.UpstreamError{
				Op:  generationQuiz,
				Err: fmt.Errorf("question %d: answer %q is not one of its options", i+1, q.Answer),
			}
		}
	}
	return questions, nil
}

func decodeDetail(raw []byte) (string, error) {
	if err := validateResponse(detailResponseSchema, raw); err != nil {
		return "", &util.UpstreamError{Op: generationDetail, Err: err}
	}

	var details []generatedDetail
	if err := json.Unmarshal(raw, &details); err != nil {
		return "", &util.UpstreamError{Op: generationDetail, Err: err}
	}

	answer := strings.TrimSpace(details[0].Answer)
	if answer == "" {
		return "", &util.UpstreamError{Op: generationDetail, Err: errors.New("empty answer")}
	}
	return answer, nil
}

// observeGeneration 为一次生成调用记录 span 和指标
func observeGeneration(ctx context.Context, kind string, fn func(ctx context.Context) error) error {
	ctx, span := tracing.Tracer.Start(ctx, "generation."+kind,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("generation.kind", kind)))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	monitoring.GenerationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	monitoring.GenerationCalls.WithLabelValues(kind, outcome).Inc()
	return err
}
