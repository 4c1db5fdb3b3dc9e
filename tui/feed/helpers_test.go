package feed

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/medplus/domain"
	"github.com/CrestNiraj12/medplus/infra/logging"
)

var (
	me     = domain.User{ID: "u1", FirstName: "Ada", LastName: "Lovelace"}
	other  = domain.User{ID: "u2", FirstName: "Grace", LastName: "Hopper", Location: "Arlington"}
	nowFix = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

type stubPosts struct {
	mu        sync.Mutex
	events    []string
	posts     []domain.Post
	comments  map[string][]domain.Comment
	added     []domain.NewComment
	fetchErr  error
	likeErr   error
	deleteErr error
}

func (s *stubPosts) record(ev string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *stubPosts) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func (s *stubPosts) FetchPosts(ctx context.Context, _ string, _ map[string]any) ([]domain.Post, error) {
	s.record("fetch")
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return append([]domain.Post(nil), s.posts...), nil
}

func (s *stubPosts) UserPosts(context.Context, string) ([]domain.Post, error) { return nil, nil }

func (s *stubPosts) Like(_ context.Context, id string) error {
	s.record("like:" + id)
	return s.likeErr
}

func (s *stubPosts) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		s.record("delete-cancelled:" + id)
		return err
	}
	s.record("delete:" + id)
	return s.deleteErr
}

func (s *stubPosts) Comments(ctx context.Context, id string) ([]domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		s.record("comments-cancelled:" + id)
		return nil, err
	}
	s.record("comments:" + id)
	return append([]domain.Comment(nil), s.comments[id]...), nil
}

func (s *stubPosts) AddComment(_ context.Context, id string, c domain.NewComment) error {
	s.record("comment:" + id)
	s.mu.Lock()
	s.added = append(s.added, c)
	s.mu.Unlock()
	return nil
}

func samplePosts(n int) []domain.Post {
	posts := make([]domain.Post, n)
	for i := range posts {
		author := other
		if i == 0 {
			author = me
		}
		id := "p" + string(rune('0'+i))
		posts[i] = domain.Post{
			ID:          id,
			Author:      author,
			Title:       "Title " + id,
			Description: "short",
			Views:       3,
		}
	}
	return posts
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// step applies msg and feeds produced messages back until the model
// settles. Widget-internal messages (cursor blinks) are dropped.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for n := 0; len(queue) > 0; n++ {
		if n > 200 {
			t.Fatal("feed did not settle")
		}
		next := queue[0]
		queue = queue[1:]

		var cmd tea.Cmd
		m, cmd = m.Update(next)
		for _, out := range collect(cmd) {
			if strings.Contains(reflect.TypeOf(out).PkgPath(), "charmbracelet/bubbles") {
				continue
			}
			queue = append(queue, out)
		}
	}
	return m
}

func load(t *testing.T, posts *stubPosts, height int) Model {
	t.Helper()
	m := New(posts, "", logging.Nop())
	m.SetUser(me)
	m.now = func() time.Time { return nowFix }
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: height})
	return step(t, m, m.fetchPosts(m.gen)())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func mustCard(t *testing.T, m Model, id string) Card {
	t.Helper()
	c, ok := m.Card(id)
	if !ok {
		t.Fatalf("card %s not found", id)
	}
	return c
}
