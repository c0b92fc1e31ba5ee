// Package extract pulls checkable claims out of HTML content. The engine
// adjudicates claims, not pages; this is the bridge from scraped posts and
// articles to individual claim inputs.
package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/mlevchuk/veracity/internal/model"
)

// ClaimExtractor finds sentences that assert something checkable. A
// sentence qualifies when it carries one of the trigger phrases commonly
// seen in viral factual assertions.
type ClaimExtractor struct {
	keywords []string
}

// NewClaimExtractor creates an extractor with the default trigger set.
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		keywords: []string{
			"according to", "study shows", "studies show", "scientists",
			"confirmed", "revealed", "reportedly", "admitted", "announced",
			"proves", "proven", "exposed", "leaked", "banned", "cured",
			"warns", "claims", "breaking", "cover-up", "hoax",
		},
	}
}

// Extract parses HTML, splits the visible text into sentences, and
// returns the ones matching a trigger phrase.
func (e *ClaimExtractor) Extract(htmlContent string) ([]model.ExtractedClaim, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	text := visibleText(doc)
	sentences := splitSentences(text)

	var claims []model.ExtractedClaim
	for i, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for _, keyword := range e.keywords {
			if strings.Contains(lower, keyword) {
				claims = append(claims, model.ExtractedClaim{
					Text:      strings.TrimSpace(sentence),
					Heuristic: "keyword:" + keyword,
					Sentence:  i,
				})
				break // one claim per sentence
			}
		}
	}
	return dedupeClaims(claims), nil
}

// visibleText collects text nodes, skipping non-content elements.
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// splitSentences breaks text on sentence terminators, keeping only
// fragments between 30 and 500 characters. Shorter fragments are rarely
// checkable; longer ones are usually concatenated boilerplate.
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				sentence := strings.TrimSpace(current.String())
				if len(sentence) >= 30 && len(sentence) <= 500 {
					sentences = append(sentences, sentence)
				}
				current.Reset()
			}
		}
	}

	if current.Len() > 0 {
		sentence := strings.TrimSpace(current.String())
		if len(sentence) >= 30 && len(sentence) <= 500 {
			sentences = append(sentences, sentence)
		}
	}
	return sentences
}

func dedupeClaims(claims []model.ExtractedClaim) []model.ExtractedClaim {
	seen := make(map[string]bool)
	var unique []model.ExtractedClaim
	for _, claim := range claims {
		key := strings.ToLower(strings.TrimSpace(claim.Text))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, claim)
		}
	}
	return unique
}
