package model

import "net/url"

// EvidenceItem is one search hit used as potential support or contradiction.
// Items live for a single verification call and are never persisted.
type EvidenceItem struct {
	Title     string `json:"title,omitempty"`     // Result title
	Snippet   string `json:"snippet,omitempty"`   // Result snippet text
	Link      string `json:"link,omitempty"`      // Full URL
	Source    string `json:"source,omitempty"`    // Publisher name
	Date      string `json:"date,omitempty"`      // Publication date as reported by the search API
	Thumbnail string `json:"thumbnail,omitempty"` // Thumbnail URL (image results)
}

// Usable reports whether the item carries any text or link worth keeping.
func (e EvidenceItem) Usable() bool {
	return e.Title != "" || e.Snippet != "" || e.Link != ""
}

// Text returns the combined title+snippet text used for token matching.
func (e EvidenceItem) Text() string {
	switch {
	case e.Title != "" && e.Snippet != "":
		return e.Title + " " + e.Snippet
	case e.Title != "":
		return e.Title
	default:
		return e.Snippet
	}
}

// Domain returns the host of the item's link, or "" if unparsable.
func (e EvidenceItem) Domain() string {
	if e.Link == "" {
		return ""
	}
	u, err := url.Parse(e.Link)
	if err != nil {
		return ""
	}
	return u.Host
}

// Source is a title/link pair surfaced to the user as a citation.
type Source struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// SourceList is the caller-facing sources shape. Field names are a stable
// contract consumed by downstream formatting and persistence.
type SourceList struct {
	Links  []string `json:"links"`
	Titles []string `json:"titles"`
	Count  int      `json:"count"`
}

// TopSources returns up to k title/link pairs from ranked evidence,
// skipping items that have neither.
func TopSources(evidence []EvidenceItem, k int) []Source {
	var out []Source
	for _, ev := range evidence {
		if ev.Title == "" && ev.Link == "" {
			continue
		}
		out = append(out, Source{Title: ev.Title, Link: ev.Link})
		if len(out) >= k {
			break
		}
	}
	return out
}

// SourceListOf builds the caller-facing shape from the top n evidence items.
// Count reflects the full evidence set, not the cap.
func SourceListOf(evidence []EvidenceItem, n int) SourceList {
	list := SourceList{Links: []string{}, Titles: []string{}, Count: len(evidence)}
	for i, ev := range evidence {
		if i >= n {
			break
		}
		if ev.Link != "" {
			list.Links = append(list.Links, ev.Link)
		}
		if ev.Title != "" {
			list.Titles = append(list.Titles, ev.Title)
		}
	}
	return list
}
