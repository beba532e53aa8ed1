package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

const (
	maxSummarySentences = 2
	maxTags             = 5
	minKeywordLen       = 4
)

// Heuristic is a local, offline analysis provider. It extracts the opening
// sentences as a summary, mines frequent words for tags and picks follow-up
// prompts by simple keyword cues. It never needs network access.
type Heuristic struct{}

func (Heuristic) Analyze(_ context.Context, text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("heuristic: empty text")
	}

	sentences := splitSentences(text)

	summary := strings.Join(firstN(sentences, maxSummarySentences), " ")
	return &Result{
		Summary:     summary,
		Suggestions: suggestFor(text),
		Tags:        keywords(text, maxTags),
		Source:      "heuristic",
	}, nil
}

func splitSentences(s string) []string {
	var out []string
	var b strings.Builder
	for _, r := range s {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if t := strings.TrimSpace(b.String()); t != "" {
				out = append(out, t)
			}
			b.Reset()
		}
	}
	if t := strings.TrimSpace(b.String()); t != "" {
		out = append(out, t)
	}
	return out
}

func firstN(ss []string, n int) []string {
	if len(ss) > n {
		ss = ss[:n]
	}
	return ss
}

// suggestFor maps emotional and topical cues to follow-up prompts.
func suggestFor(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	cues := []struct {
		words  []string
		prompt string
	}{
		{[]string{"stress", "anxious", "worried", "overwhelm"}, "What is one small step that could ease this worry tomorrow?"},
		{[]string{"happy", "glad", "grateful", "proud"}, "What made this moment possible, and how could you repeat it?"},
		{[]string{"tired", "exhaust", "sleep"}, "What has been draining your energy lately?"},
		{[]string{"work", "meeting", "project", "deadline"}, "How did today's work align with what matters to you?"},
		{[]string{"friend", "family", "partner"}, "Is there a conversation you have been putting off with them?"},
	}
	for _, c := range cues {
		for _, w := range c.words {
			if strings.Contains(lower, w) {
				out = append(out, c.prompt)
				break
			}
		}
	}
	if len(out) == 0 {
		out = append(out, "What would you like to remember about today a year from now?")
	}
	return out
}

// stopwords excluded from tag mining.
var stopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "have": {}, "been": {}, "were": {},
	"they": {}, "them": {}, "their": {}, "about": {}, "today": {}, "when": {},
	"then": {}, "just": {}, "like": {}, "really": {}, "very": {}, "would": {},
	"could": {}, "should": {}, "because": {}, "there": {}, "what": {}, "from": {},
	"some": {}, "more": {}, "into": {}, "over": {}, "after": {}, "before": {},
}

func keywords(text string, limit int) []string {
	counts := map[string]int{}
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '-'
	}) {
		if len(w) < minKeywordLen {
			continue
		}
		if _, skip := stopwords[w]; skip {
			continue
		}
		counts[w]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > limit {
		words = words[:limit]
	}
	return words
}
