package service

import (
	"bytes"
	"clarity_hub_backend/internal/config"
	"clarity_hub_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"
)

// 生成服务单次响应的最大读取字节数
const maxGenerationResponseBytes = 4 << 20

// HTTPGenerator 通过 HTTP POST 调用外部生成服务，每类内容一个接口地址
type HTTPGenerator struct {
	config config.GenerationConfig
	client *http.Client
}

func NewHTTPGenerator(cfg config.GenerationConfig) *HTTPGenerator {
	return &HTTPGenerator{
		config: cfg,
		client: &http.Client{},
	}
}

func (g *HTTPGenerator) GenerateRoadmap(ctx context.Context, prompt RoadmapPrompt) ([]GeneratedTopic, error) {
	var topics []GeneratedTopic
	err := observeGeneration(ctx, generationRoadmap, func(ctx context.Context) error {
		raw, err := g.post(ctx, generationRoadmap, g.config.RoadmapURL, prompt)
		if err != nil {
			return err
		}
		topics, err = decodeTopics(raw)
		return err
	})
	return topics, err
}

func (g *HTTPGenerator) GenerateQuiz(ctx context.Context, prompt QuizPrompt) ([]GeneratedQuestion, error) {
	var questions []GeneratedQuestion
	err := observeGeneration(ctx, generationQuiz, func(ctx context.Context) error {
		raw, err := g.post(ctx, generationQuiz, g.config.QuizURL, prompt)
		if err != nil {
			return err
		}
		questions, err = decodeQuestions(raw)
		return err
	})
	return questions, err
}

func (g *HTTPGenerator) GenerateSubtopicDetail(ctx context.Context, subtopic string) (string, error) {
	var text string
	err := observeGeneration(ctx, generationDetail, func(ctx context.Context) error {
		raw, err := g.post(ctx, generationDetail, g.config.DetailURL, map[string]string{"topic": subtopic})
		if err != nil {
			return err
		}
		text, err = decodeDetail(raw)
		return err
	})
	return text, err
}

func (g *HTTPGenerator) post(ctx context.Context, op, url string, payload interface{}) ([]byte, error) {
	if url == "" {
		return nil, &util.UpstreamError{Op: op, Err: errors.New("generation endpoint is not configured")}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", op, err)
	}

	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &util.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGenerationResponseBytes))
	if err != nil {
		return nil, &util.UpstreamError{Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &util.UpstreamError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%s", truncate(string(body), 256))}
	}

	return body, nil
}

// truncate 截断到 n 字节以内，不拆开多字节字符
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
