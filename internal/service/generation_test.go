package service

import (
	"clarity_hub_backend/internal/config"
	"clarity_hub_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHTTPGenerator(t *testing.T, handler http.HandlerFunc) *HTTPGenerator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewHTTPGenerator(config.GenerationConfig{
		RoadmapURL: server.URL + "/roadmap",
		QuizURL:    server.URL + "/quiz",
		DetailURL:  server.URL + "/detail",
		Timeout:    5 * time.Second,
	})
}

func TestHTTPGenerator_Roadmap(t *testing.T) {
	var received map[string]interface{}
	gen := newTestHTTPGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/roadmap", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"name": "Intro", "subtopics": ["BFS", "DFS", "BFS", " "], "completion_time": 2, "resources": [], "youtube_link": ""},
			{"name": "Paths", "subtopics": ["Dijkstra"], "completion_time": "3 weeks"}
		]`))
	})

	topics, err := gen.GenerateRoadmap(context.Background(), RoadmapPrompt{
		Syllabus:       "Graph Theory",
		Subject:        "CS",
		ClassLevel:     "undergrad",
		Difficulty:     "beginner",
		Timeline:       "4",
		PriorKnowledge: "none",
	})
	require.NoError(t, err)

	assert.Equal(t, "Graph Theory", received["syllabus"])
	assert.Equal(t, "undergrad", received["class_level"])
	assert.Equal(t, "none", received["priorKnowledge"])
	assert.Contains(t, received, "exam")

	require.Len(t, topics, 2)
	assert.Equal(t, []string{"BFS", "DFS"}, topics[0].Subtopics)
	assert.Equal(t, 2, topics[0].CompletionTime.Int())
	assert.Equal(t, 3, topics[1].CompletionTime.Int())
	assert.Empty(t, topics[1].Resources)
}

func TestHTTPGenerator_NonSuccessStatus(t *testing.T) {
	gen := newTestHTTPGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("overloaded"))
	})

	_, err := gen.GenerateSubtopicDetail(context.Background(), "BFS")
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrUpstream)

	var upstreamErr *util.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.Status)
	assert.Equal(t, "detail", upstreamErr.Op)
}

func TestHTTPGenerator_RejectsUnexpectedShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		call func(g *HTTPGenerator) error
	}{
		{
			name: "roadmap object instead of array",
			body: `{"name": "Intro"}`,
			call: func(g *HTTPGenerator) error {
				_, err := g.GenerateRoadmap(context.Background(), RoadmapPrompt{})
				return err
			},
		},
		{
			name: "roadmap item without subtopics",
			body: `[{"name": "Intro"}]`,
			call: func(g *HTTPGenerator) error {
				_, err := g.GenerateRoadmap(context.Background(), RoadmapPrompt{})
				return err
			},
		},
		{
			name: "quiz answer outside options",
			body: `[{"question": "2+2?", "options": ["3", "5"], "answer": "4"}]`,
			call: func(g *HTTPGenerator) error {
				_, err := g.GenerateQuiz(context.Background(), QuizPrompt{})
				return err
			},
		},
		{
			name: "detail empty array",
			body: `[]`,
			call: func(g *HTTPGenerator) error {
				_, err := g.GenerateSubtopicDetail(context.Background(), "BFS")
				return err
			},
		},
		{
			name: "detail blank answer",
			body: `[{"answer": "  "}]`,
			call: func(g *HTTPGenerator) error {
				_, err := g.GenerateSubtopicDetail(context.Background(), "BFS")
				return err
			},
		},
		{
			name: "topic name longer than column",
			body: `[{"name": "` + strings.Repeat("x", util.MaxNameLength+1) + `", "subtopics": ["BFS"]}]`,
			call: func(g *HTTPGenerator) error {
				_, err := g.GenerateRoadmap(context.Background(), RoadmapPrompt{})
				return err
			},
		},
		{
			name: "subtopic name longer than column",
			body: `[{"name": "Intro", "subtopics": ["` + strings.Repeat("y", util.MaxNameLength+1) + `"]}]`,
			call: func(g *HTTPGenerator) error {
				_, err := g.GenerateRoadmap(context.Background(), RoadmapPrompt{})
				return err
			},
		},
		{
			name: "too many questions",
			body: tooManyQuestions(),
			call: func(g *HTTPGenerator) error {
				_, err := g.GenerateQuiz(context.Background(), QuizPrompt{})
				return err
			},
		},
		{
			name: "not json",
			body: `<html>oops</html>`,
			call: func(g *HTTPGenerator) error {
				_, err := g.GenerateQuiz(context.Background(), QuizPrompt{})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newTestHTTPGenerator(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			err := tt.call(gen)
			assert.ErrorIs(t, err, util.ErrUpstream)
		})
	}
}

func TestHTTPGenerator_DetailSendsTopic(t *testing.T) {
	gen := newTestHTTPGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"topic": "BFS"}, body)
		w.Write([]byte(`[{"answer": "Level order traversal."}, {"answer": "ignored"}]`))
	})

	text, err := gen.GenerateSubtopicDetail(context.Background(), "BFS")
	require.NoError(t, err)
	assert.Equal(t, "Level order traversal.", text)
}

func TestHTTPGenerator_MissingEndpoint(t *testing.T) {
	gen := NewHTTPGenerator(config.GenerationConfig{})

	_, err := gen.GenerateQuiz(context.Background(), QuizPrompt{})
	assert.ErrorIs(t, err, util.ErrUpstream)
}

func TestHTTPGenerator_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	gen := NewHTTPGenerator(config.GenerationConfig{DetailURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := gen.GenerateSubtopicDetail(context.Background(), "BFS")
	assert.ErrorIs(t, err, util.ErrUpstream)
}

func tooManyQuestions() string {
	items := make([]string, 0, util.MaxQuestionCount+1)
	for i := 0; i <= util.MaxQuestionCount; i++ {
		items = append(items, `{"question": "Q", "options": ["a", "b"], "answer": "a"}`)
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestHTTPGenerator_NameAtColumnLimit(t *testing.T) {
	name := strings.Repeat("x", util.MaxNameLength)
	gen := newTestHTTPGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name": "` + name + `", "subtopics": ["BFS"]}]`))
	})

	topics, err := gen.GenerateRoadmap(context.Background(), RoadmapPrompt{})
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, name, topics[0].Name)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))

	// "图" 占 3 个字节，截断点落在字符中间
	s := "ab图论"
	got := truncate(s, 3)
	assert.Equal(t, "ab...", got)
	assert.True(t, utf8.ValidString(got))

	long := strings.Repeat("测", 200)
	got = truncate(long, 256)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 256+len("..."))
}

