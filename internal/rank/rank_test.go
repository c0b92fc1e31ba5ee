package rank

import (
	"reflect"
	"testing"

	"github.com/mlevchuk/veracity/internal/model"
)

func defaultRanker() *Ranker {
	return NewRanker(model.DefaultConfig().Rank)
}

func TestTokens_StopwordsAndLength(t *testing.T) {
	got := Tokens("The Alice and Bob married in Paris at 2019!")
	want := []string{"alice", "bob", "married", "paris", "2019"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
}

func TestScore_Overlap(t *testing.T) {
	r := defaultRanker()
	ev := model.EvidenceItem{
		Title:   "Alice and Bob marry in Paris",
		Snippet: "Coverage of the 2019 wedding ceremony",
	}
	score := r.Score("Alice married Bob in Paris in 2019", ev)
	// claim tokens: alice married bob paris 2019 (5); matches: alice bob paris 2019
	if score < 0.79 || score > 0.81 {
		t.Errorf("Expected score 0.8, got %f", score)
	}
}

func TestScore_EmptyInputs(t *testing.T) {
	r := defaultRanker()
	if s := r.Score("", model.EvidenceItem{Title: "anything"}); s != 0 {
		t.Errorf("Expected 0 for empty claim, got %f", s)
	}
	if s := r.Score("some claim", model.EvidenceItem{}); s != 0 {
		t.Errorf("Expected 0 for empty evidence, got %f", s)
	}
}

func TestRank_OrdersByScore(t *testing.T) {
	r := defaultRanker()
	evidence := []model.EvidenceItem{
		{Title: "Unrelated gardening tips", Link: "https://garden.example.com/a"},
		{Title: "Alice and Bob marry in Paris", Link: "https://news.example.com/b"},
		{Title: "Bob seen in Paris", Link: "https://other.example.com/c"},
	}
	out := r.Rank(evidence, "Alice married Bob in Paris in 2019", 12)
	if len(out) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(out))
	}
	if out[0].Link != "https://news.example.com/b" {
		t.Errorf("Expected best match first, got %s", out[0].Link)
	}
	if out[2].Link != "https://garden.example.com/a" {
		t.Errorf("Expected unrelated item last, got %s", out[2].Link)
	}
}

func TestRank_DownranksSocialDomains(t *testing.T) {
	r := defaultRanker()
	evidence := []model.EvidenceItem{
		{Title: "Alice married Bob", Link: "https://twitter.com/post/1"},
		{Title: "Alice married Bob", Link: "https://news.example.com/article"},
	}
	out := r.Rank(evidence, "Alice married Bob", 12)
	// Same token overlap, but the tweet is penalized by the downrank factor.
	if out[0].Link != "https://news.example.com/article" {
		t.Errorf("Expected news article ranked above tweet, got %s first", out[0].Link)
	}
}

func TestRank_DedupByURL(t *testing.T) {
	r := defaultRanker()
	evidence := []model.EvidenceItem{
		{Title: "First copy", Link: "https://example.com/same"},
		{Title: "Second copy", Link: "https://example.com/same"},
		{Title: "Different", Link: "https://example.com/other"},
	}
	out := r.Rank(evidence, "copy", 12)
	seen := map[string]int{}
	for _, ev := range out {
		if ev.Link != "" {
			seen[ev.Link]++
		}
	}
	for link, n := range seen {
		if n > 1 {
			t.Errorf("Duplicate link %s appeared %d times", link, n)
		}
	}
}

func TestRank_DedupByTitlePrefix(t *testing.T) {
	r := defaultRanker()
	evidence := []model.EvidenceItem{
		{Title: "Breaking: event happened downtown", Link: "https://a.example.com"},
		{Title: "BREAKING: Event happened downtown", Link: "https://b.example.com"},
	}
	out := r.Rank(evidence, "event downtown", 12)
	if len(out) != 1 {
		t.Errorf("Expected title-prefix dedup to keep 1 item, got %d", len(out))
	}
}

func TestRank_TruncatesToTopK(t *testing.T) {
	r := defaultRanker()
	var evidence []model.EvidenceItem
	for i := 0; i < 30; i++ {
		evidence = append(evidence, model.EvidenceItem{
			Title: "item " + string(rune('a'+i)),
			Link:  "https://example.com/" + string(rune('a'+i)),
		})
	}
	out := r.Rank(evidence, "item", 5)
	if len(out) != 5 {
		t.Errorf("Expected 5 items, got %d", len(out))
	}
}

func TestRank_EmptyClaimPreservesOrder(t *testing.T) {
	r := defaultRanker()
	evidence := []model.EvidenceItem{
		{Title: "first", Link: "https://example.com/1"},
		{Title: "second", Link: "https://example.com/2"},
		{Title: "third", Link: "https://example.com/3"},
	}
	out := r.Rank(evidence, "", 2)
	if len(out) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(out))
	}
	if out[0].Title != "first" || out[1].Title != "second" {
		t.Errorf("Expected original order for zero scores, got %v", out)
	}
}

func TestRank_Idempotent(t *testing.T) {
	r := defaultRanker()
	evidence := []model.EvidenceItem{
		{Title: "Alice and Bob marry in Paris", Link: "https://news.example.com/b"},
		{Title: "Bob seen in Paris", Link: "https://other.example.com/c"},
		{Title: "Unrelated", Link: "https://garden.example.com/a"},
	}
	first := r.Rank(evidence, "Alice married Bob in Paris", 12)
	second := r.Rank(evidence, "Alice married Bob in Paris", 12)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Ranking not idempotent:\nfirst:  %v\nsecond: %v", first, second)
	}
}
