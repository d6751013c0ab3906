package service

import (
	"clarity_hub_backend/internal/model"
	"clarity_hub_backend/internal/util"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/datatypes"
)

// memRoadmapStore 内存版 RoadmapStore + SubtopicDetailStore
type memRoadmapStore struct {
	mu       sync.Mutex
	seq      int
	roadmaps map[string]*model.Roadmap

	// forcedConflicts 之后的若干次条件更新直接返回冲突
	forcedConflicts int
	writes          int
	createErr       error

	// details 子主题名称 -> 讲解内容
	details map[string]string
}

func newMemRoadmapStore() *memRoadmapStore {
	return &memRoadmapStore{
		roadmaps: make(map[string]*model.Roadmap),
		details:  make(map[string]string),
	}
}

func (s *memRoadmapStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memRoadmapStore) CreateWithItems(_ context.Context, roadmap *model.Roadmap, items []model.RoadmapItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return s.createErr
	}

	roadmap.ID = s.nextID("roadmap")
	roadmap.CreatedAt = time.Now().Add(time.Duration(s.seq) * time.Millisecond)
	for i := range items {
		items[i].ID = s.nextID("item")
		items[i].RoadmapID = roadmap.ID
		items[i].Position = i
		items[i].Version = 1
	}
	roadmap.Items = items
	s.roadmaps[roadmap.ID] = copyRoadmap(roadmap)
	return nil
}

func (s *memRoadmapStore) FindByID(_ context.Context, id string) (*model.Roadmap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.roadmaps[id]
	if !ok {
		return nil, util.ErrRoadmapNotFound
	}
	return copyRoadmap(r), nil
}

func (s *memRoadmapStore) ListByUser(_ context.Context, userID string) ([]model.Roadmap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Roadmap
	for _, r := range s.roadmaps {
		if r.UserID == userID {
			out = append(out, *copyRoadmap(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memRoadmapStore) UpdateCompletedSubtopics(_ context.Context, itemID string, version int, completed []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forcedConflicts > 0 {
		s.forcedConflicts--
		return util.ErrProgressConflict
	}

	item := s.item(itemID)
	if item == nil || item.Version != version {
		return util.ErrProgressConflict
	}
	item.CompletedSubtopics = append(datatypes.JSONSlice[string]{}, completed...)
	item.Version++
	s.writes++
	return nil
}

func (s *memRoadmapStore) FindGeneratedText(_ context.Context, subtopic string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, ok := s.details[subtopic]
	return text, ok && text != "", nil
}

func (s *memRoadmapStore) SaveGeneratedText(_ context.Context, subtopic, text string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, r := range s.roadmaps {
		for i := range r.Items {
			if r.Items[i].HasSubtopic(subtopic) {
				n++
			}
		}
	}
	if n > 0 {
		s.details[subtopic] = text
	}
	return n, nil
}

func (s *memRoadmapStore) PendingSubtopics(_ context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var names []string
	for _, r := range s.roadmaps {
		for _, item := range r.Items {
			for _, name := range item.Subtopics {
				if seen[name] || s.details[name] != "" {
					continue
				}
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

func (s *memRoadmapStore) item(id string) *model.RoadmapItem {
	for _, r := range s.roadmaps {
		for i := range r.Items {
			if r.Items[i].ID == id {
				return &r.Items[i]
			}
		}
	}
	return nil
}

func (s *memRoadmapStore) roadmapCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.roadmaps)
}

func copyRoadmap(r *model.Roadmap) *model.Roadmap {
	out := *r
	out.Items = make([]model.RoadmapItem, len(r.Items))
	for i, item := range r.Items {
		item.Subtopics = append(datatypes.JSONSlice[string]{}, item.Subtopics...)
		item.CompletedSubtopics = append(datatypes.JSONSlice[string]{}, item.CompletedSubtopics...)
		item.Resources = append(datatypes.JSONSlice[string]{}, item.Resources...)
		out.Items[i] = item
	}
	return &out
}

type memQuizStore struct {
	mu      sync.Mutex
	seq     int
	quizzes map[string]*model.Quiz
}

func newMemQuizStore() *memQuizStore {
	return &memQuizStore{quizzes: make(map[string]*model.Quiz)}
}

func (s *memQuizStore) CreateWithItems(_ context.Context, quiz *model.Quiz, items []model.QuizItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	quiz.ID = fmt.Sprintf("quiz-%d", s.seq)
	quiz.CreatedAt = time.Now()
	for i := range items {
		items[i].ID = fmt.Sprintf("%s-q%d", quiz.ID, i+1)
		items[i].QuizID = quiz.ID
		items[i].Position = i
	}
	quiz.Items = items

	stored := *quiz
	stored.Items = append([]model.QuizItem(nil), items...)
	s.quizzes[quiz.ID] = &stored
	return nil
}

func (s *memQuizStore) FindByID(_ context.Context, id string, withItems bool) (*model.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quizzes[id]
	if !ok {
		return nil, util.ErrQuizNotFound
	}
	out := *q
	if withItems {
		out.Items = append([]model.QuizItem(nil), q.Items...)
	} else {
		out.Items = nil
	}
	return &out, nil
}

func (s *memQuizStore) ListByUser(_ context.Context, userID string) ([]model.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Quiz
	for _, q := range s.quizzes {
		if q.UserID == userID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (s *memQuizStore) UpdateScore(_ context.Context, id string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quizzes[id]
	if !ok {
		return util.ErrQuizNotFound
	}
	q.Score = &score
	return nil
}

// memDetailCache 内存版 DetailCache
type memDetailCache struct {
	mu      sync.Mutex
	entries map[string]string
	gets    int
}

func newMemDetailCache() *memDetailCache {
	return &memDetailCache{entries: make(map[string]string)}
}

func (c *memDetailCache) Get(_ context.Context, subtopic string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	text, ok := c.entries[subtopic]
	return text, ok, nil
}

func (c *memDetailCache) Set(_ context.Context, subtopic, text string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[subtopic] = text
	return nil
}

// scriptedGenerator 返回预设内容并记录调用次数
type scriptedGenerator struct {
	mu sync.Mutex

	topics    []GeneratedTopic
	questions []GeneratedQuestion
	detail    string
	err       error

	roadmapPrompts []RoadmapPrompt
	quizPrompts    []QuizPrompt
	detailCalls    []string
}

func (g *scriptedGenerator) GenerateRoadmap(_ context.Context, prompt RoadmapPrompt) ([]GeneratedTopic, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.roadmapPrompts = append(g.roadmapPrompts, prompt)
	if g.err != nil {
		return nil, g.err
	}
	return g.topics, nil
}

func (g *scriptedGenerator) GenerateQuiz(_ context.Context, prompt QuizPrompt) ([]GeneratedQuestion, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.quizPrompts = append(g.quizPrompts, prompt)
	if g.err != nil {
		return nil, g.err
	}
	return g.questions, nil
}

func (g *scriptedGenerator) GenerateSubtopicDetail(_ context.Context, subtopic string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.detailCalls = append(g.detailCalls, subtopic)
	if g.err != nil {
		return "", g.err
	}
	return g.detail, nil
}

func (g *scriptedGenerator) detailCallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.detailCalls)
}
