package feed

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/medplus/domain"
)

func TestLoadBuildsOneCardPerPost(t *testing.T) {
	stub := &stubPosts{posts: samplePosts(3)}
	m := load(t, stub, 40)

	if m.Loading() {
		t.Fatal("expected loading to finish")
	}
	if got := len(m.Cards()); got != 3 {
		t.Fatalf("expected 3 cards, got %d", got)
	}
	for _, c := range m.Cards() {
		if c.CommentsVisible || c.Loading || c.Expanded || len(c.Comments) != 0 {
			t.Fatalf("expected fresh card state, got %+v", c)
		}
	}
}

func TestLoadErrorIsShown(t *testing.T) {
	stub := &stubPosts{fetchErr: errors.New("Server down")}
	m := load(t, stub, 24)

	if m.Err() == nil {
		t.Fatal("expected feed error")
	}
	if !strings.Contains(m.View(), "Server down") {
		t.Fatal("expected error in view")
	}
}

func TestLikeThenCommentsAreFetchedInOrder(t *testing.T) {
	stub := &stubPosts{
		posts:    samplePosts(2),
		comments: map[string][]domain.Comment{"p0": {{ID: "c1", Comment: "nice"}}},
	}
	m := load(t, stub, 40)
	m = step(t, m, keyRunes("l"))

	want := []string{"fetch", "like:p0", "comments:p0"}
	if got := stub.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	c := mustCard(t, m, "p0")
	if !c.Post.LikedBy(me.ID) {
		t.Fatal("expected post liked locally")
	}
	if c.Loading || len(c.Comments) != 1 {
		t.Fatalf("expected comments loaded, got %+v", c.Comments)
	}
}

func TestFailedLikeStillRefetchesComments(t *testing.T) {
	stub := &stubPosts{posts: samplePosts(1), likeErr: errors.New("Post not found")}
	m := load(t, stub, 40)
	m = step(t, m, keyRunes("l"))

	want := []string{"fetch", "like:p0", "comments:p0"}
	if got := stub.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if mustCard(t, m, "p0").Post.LikedBy(me.ID) {
		t.Fatal("expected like state unchanged")
	}
	if !strings.Contains(m.Status(), "Post not found") {
		t.Fatalf("expected status to carry the failure, got %q", m.Status())
	}
}

func TestLikeTogglesOff(t *testing.T) {
	posts := samplePosts(1)
	posts[0].Likes = []string{me.ID, "u9"}
	m := load(t, &stubPosts{posts: posts}, 40)
	m = step(t, m, keyRunes("l"))

	c := mustCard(t, m, "p0")
	if c.Post.LikedBy(me.ID) || c.Post.LikesCount() != 1 {
		t.Fatalf("expected like removed, got %v", c.Post.Likes)
	}
}

func TestToggleCommentsFetchesOnlyWhenShown(t *testing.T) {
	stub := &stubPosts{posts: samplePosts(1)}
	m := load(t, stub, 40)

	m = step(t, m, keyRunes("c"))
	c := mustCard(t, m, "p0")
	if !c.CommentsVisible || c.Loading {
		t.Fatalf("expected comments shown and loaded, got %+v", c)
	}
	if !strings.Contains(m.View(), "No Comments, be the first to comment") {
		t.Fatal("expected empty comments text")
	}

	m = step(t, m, keyRunes("c"))
	if mustCard(t, m, "p0").CommentsVisible {
		t.Fatal("expected comments hidden")
	}
	want := []string{"fetch", "comments:p0"}
	if got := stub.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLoadingCommentsNeverShowsEmptyText(t *testing.T) {
	m := load(t, &stubPosts{posts: samplePosts(1)}, 40)

	// Apply the key without running the fetch.
	m, _ = m.Update(keyRunes("c"))
	view := m.View()
	if !strings.Contains(view, "Loading comments") {
		t.Fatal("expected loading indicator")
	}
	if strings.Contains(view, "No Comments") {
		t.Fatal("empty text must not show while loading")
	}
}

func TestCommentsForOneCardDoNotTouchAnother(t *testing.T) {
	stub := &stubPosts{posts: samplePosts(2)}
	m := load(t, stub, 40)

	m = step(t, m, CommentsLoadedMsg{PostID: "p1", Comments: []domain.Comment{{ID: "c1"}}, Gen: m.gen})
	if len(mustCard(t, m, "p0").Comments) != 0 {
		t.Fatal("expected p0 untouched")
	}
	if len(mustCard(t, m, "p1").Comments) != 1 {
		t.Fatal("expected p1 comments set")
	}
}

func TestRefreshDropsStaleResults(t *testing.T) {
	stub := &stubPosts{
		posts:    samplePosts(1),
		comments: map[string][]domain.Comment{"p0": {{ID: "c1"}}},
	}
	m := load(t, stub, 40)

	m, cmd := m.Update(keyRunes("c"))
	old := mustCard(t, m, "p0")
	m = step(t, m, keyRunes("r"))

	if old.ctx.Err() == nil {
		t.Fatal("expected refresh to cancel the old card context")
	}
	for _, msg := range collect(cmd) {
		m = step(t, m, msg)
	}
	c := mustCard(t, m, "p0")
	if c.CommentsVisible || len(c.Comments) != 0 {
		t.Fatalf("expected stale comments dropped, got %+v", c)
	}
	if got := stub.Events(); got[len(got)-1] != "comments-cancelled:p0" {
		t.Fatalf("expected the stale fetch to see a cancelled context, got %v", got)
	}
}

func TestStalePostsGenerationIgnored(t *testing.T) {
	m := load(t, &stubPosts{posts: samplePosts(2)}, 40)
	m = step(t, m, PostsLoadedMsg{Posts: samplePosts(5), Gen: m.gen - 1})
	if got := len(m.Cards()); got != 2 {
		t.Fatalf("expected stale load ignored, got %d cards", got)
	}
}

func TestTeardownCancelsCards(t *testing.T) {
	m := load(t, &stubPosts{posts: samplePosts(2)}, 40)
	m.Teardown()
	for _, c := range m.Cards() {
		if c.ctx.Err() == nil {
			t.Fatalf("expected card %s cancelled", c.Post.ID)
		}
	}
}

func TestAddCommentRefetchesComments(t *testing.T) {
	stub := &stubPosts{posts: samplePosts(1)}
	m := load(t, stub, 40)

	m = step(t, m, keyRunes("a"))
	if !m.Composing() || !mustCard(t, m, "p0").CommentsVisible {
		t.Fatal("expected form open with comments shown")
	}
	for _, r := range "hello" {
		m, _ = m.Update(keyRunes(string(r)))
	}
	m = step(t, m, keyOf(tea.KeyEnter))

	want := []string{"fetch", "comments:p0", "comment:p0", "comments:p0"}
	if got := stub.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if stub.added[0].Comment != "hello" || stub.added[0].From != "Ada Lovelace" || stub.added[0].ReplyAt != "" {
		t.Fatalf("unexpected payload %+v", stub.added[0])
	}
	if m.form.Value() != "" {
		t.Fatal("expected field cleared")
	}

	m = step(t, m, keyOf(tea.KeyEsc))
	if m.Composing() {
		t.Fatal("expected esc to close the form")
	}
}

func TestEscDuringSubmitStillRefetches(t *testing.T) {
	stub := &stubPosts{posts: samplePosts(1)}
	m := load(t, stub, 40)

	m = step(t, m, keyRunes("a"))
	for _, r := range "soon" {
		m, _ = m.Update(keyRunes(string(r)))
	}
	m, submit := m.Update(keyOf(tea.KeyEnter))
	m = step(t, m, keyOf(tea.KeyEsc))
	if !m.Composing() {
		t.Fatal("expected the form to stay open while submitting")
	}
	for _, msg := range collect(submit) {
		m = step(t, m, msg)
	}

	want := []string{"fetch", "comments:p0", "comment:p0", "comments:p0"}
	if got := stub.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	m = step(t, m, keyOf(tea.KeyEsc))
	if m.Composing() {
		t.Fatal("expected esc to close the form after the submit")
	}
}

func TestReplyTargetsSelectedComment(t *testing.T) {
	stub := &stubPosts{
		posts: samplePosts(1),
		comments: map[string][]domain.Comment{"p0": {
			{ID: "c1", Comment: "first"},
			{ID: "c7", Comment: "second"},
		}},
	}
	m := load(t, stub, 60)

	m = step(t, m, keyRunes("R"))
	if m.Composing() {
		t.Fatal("expected reply to need a selected comment")
	}

	m = step(t, m, keyRunes("c"))
	m = step(t, m, keyRunes("]"))
	m = step(t, m, keyRunes("]"))
	m = step(t, m, keyRunes("R"))
	if !m.Composing() || m.form.ReplyAt() != "c7" {
		t.Fatal("expected reply form targeting c7")
	}
	for _, r := range "ok" {
		m, _ = m.Update(keyRunes(string(r)))
	}
	m = step(t, m, keyOf(tea.KeyEnter))

	if len(stub.added) != 1 || stub.added[0].ReplyAt != "c7" {
		t.Fatalf("expected reply payload, got %+v", stub.added)
	}
}

func TestDeleteOwnPostWithConfirmation(t *testing.T) {
	stub := &stubPosts{posts: samplePosts(2)}
	m := load(t, stub, 40)

	m = step(t, m, keyRunes("d"))
	if !strings.Contains(m.View(), "Delete this post? (y/n)") {
		t.Fatal("expected confirmation prompt")
	}
	m = step(t, m, keyRunes("n"))
	m = step(t, m, keyRunes("d"))
	m = step(t, m, keyRunes("y"))

	want := []string{"fetch", "delete:p0"}
	if got := stub.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if _, ok := m.Card("p0"); ok {
		t.Fatal("expected deleted card removed")
	}
}

func TestDeleteIgnoredForOthersPosts(t *testing.T) {
	stub := &stubPosts{posts: samplePosts(2)}
	m := load(t, stub, 40)

	m = step(t, m, keyOf(tea.KeyDown))
	m = step(t, m, keyRunes("d"))
	m = step(t, m, keyRunes("y"))
	if got := stub.Events(); len(got) != 1 {
		t.Fatalf("expected no delete call, got %v", got)
	}
}

func TestDeleteFailureKeepsCard(t *testing.T) {
	stub := &stubPosts{posts: samplePosts(1), deleteErr: errors.New("Unauthorized")}
	m := load(t, stub, 40)
	m = step(t, m, keyRunes("d"))
	m = step(t, m, keyRunes("y"))

	if _, ok := m.Card("p0"); !ok {
		t.Fatal("expected card kept")
	}
	if !strings.Contains(m.Status(), "Unauthorized") {
		t.Fatalf("unexpected status %q", m.Status())
	}
}

func TestDeleteInterruptedByRefreshIsSilent(t *testing.T) {
	stub := &stubPosts{posts: samplePosts(2)}
	m := load(t, stub, 40)

	m = step(t, m, keyRunes("d"))
	m, del := m.Update(keyRunes("y"))
	m = step(t, m, keyRunes("r"))
	for _, msg := range collect(del) {
		m = step(t, m, msg)
	}

	if got := stub.Events(); got[len(got)-1] != "delete-cancelled:p0" {
		t.Fatalf("expected the delete to see a cancelled context, got %v", got)
	}
	if m.Status() != "" {
		t.Fatalf("expected no status after refresh, got %q", m.Status())
	}
	if len(m.Cards()) != 2 {
		t.Fatalf("expected refreshed feed intact, got %d cards", len(m.Cards()))
	}
}

func TestStaleDeleteGenerationIgnored(t *testing.T) {
	m := load(t, &stubPosts{posts: samplePosts(2)}, 40)
	m = step(t, m, DeleteResultMsg{PostID: "p0", Gen: m.gen - 1})
	if _, ok := m.Card("p0"); !ok {
		t.Fatal("expected stale delete ignored")
	}
}

func TestShowMoreTogglesLongDescriptions(t *testing.T) {
	posts := samplePosts(2)
	posts[0].Description = strings.Repeat("a", 400)
	m := load(t, &stubPosts{posts: posts}, 60)

	m = step(t, m, keyRunes("m"))
	if !mustCard(t, m, "p0").Expanded {
		t.Fatal("expected expanded")
	}
	m = step(t, m, keyOf(tea.KeyDown))
	m = step(t, m, keyRunes("m"))
	if mustCard(t, m, "p1").Expanded {
		t.Fatal("expected short description to ignore the toggle")
	}
}

func TestProfileKeyOpensAuthor(t *testing.T) {
	m := load(t, &stubPosts{posts: samplePosts(2)}, 40)
	m = step(t, m, keyOf(tea.KeyDown))

	_, cmd := m.Update(keyRunes("p"))
	var got []OpenProfileMsg
	for _, msg := range collect(cmd) {
		if open, ok := msg.(OpenProfileMsg); ok {
			got = append(got, open)
		}
	}
	if len(got) != 1 || got[0].UserID != other.ID {
		t.Fatalf("expected profile of %s, got %+v", other.ID, got)
	}
}
