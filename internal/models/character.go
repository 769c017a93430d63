package models

import "strings"

// Place is a named reference to an origin or current location
type Place struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Character represents a single character record from the API
// Favorite is a local-only attribute: it is never decoded from or sent to the API
type Character struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Species  string `json:"species"`
	Type     string `json:"type"`
	Gender   string `json:"gender"`
	Origin   Place  `json:"origin"`
	Location Place  `json:"location"`
	Image    string `json:"image"`
	URL      string `json:"url"`
	Created  string `json:"created"`
	Favorite bool   `json:"-"`
}

// Info holds the pagination metadata of an envelope
// Next and Prev are empty when there is no such page
type Info struct {
	Count int    `json:"count"`
	Pages int    `json:"pages"`
	Next  string `json:"next"`
	Prev  string `json:"prev"`
}

// Page is the envelope returned for one page of characters
type Page struct {
	Info    Info        `json:"info"`
	Results []Character `json:"results"`
}

// NewLocalPage wraps cached characters in a single-page envelope
func NewLocalPage(characters []Character) *Page {
	pages := 0
	if len(characters) > 0 {
		pages = 1
	}
	return &Page{
		Info:    Info{Count: len(characters), Pages: pages},
		Results: characters,
	}
}

// HasNext reports whether the envelope points at a following page
func (p *Page) HasNext() bool {
	return p != nil && p.Info.Next != ""
}

// Len returns the number of results, nil-safe
func (p *Page) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Results)
}

// IDs returns the result ids in order
func (p *Page) IDs() []int {
	if p == nil || len(p.Results) == 0 {
		return nil
	}
	ids := make([]int, len(p.Results))
	for i, c := range p.Results {
		ids[i] = c.ID
	}
	return ids
}

// Clone returns a deep copy of the result slice so published pages are never mutated
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	results := make([]Character, len(p.Results))
	copy(results, p.Results)
	return &Page{Info: p.Info, Results: results}
}

// Append concatenates the next page onto this one in arrival order.
// The returned envelope carries the newest page's Info.
func (p *Page) Append(next *Page) *Page {
	if p == nil {
		return next.Clone()
	}
	merged := p.Clone()
	if next == nil {
		return merged
	}
	merged.Results = append(merged.Results, next.Results...)
	merged.Info = next.Info
	return merged
}

// Filter returns the characters whose name contains query, ignoring case.
// An empty query returns the page unchanged.
func (p *Page) Filter(query string) *Page {
	query = strings.TrimSpace(query)
	if p == nil || query == "" {
		return p
	}
	var hits []Character
	for _, c := range p.Results {
		if c.MatchesName(query) {
			hits = append(hits, c)
		}
	}
	return NewLocalPage(hits)
}

// WithFavorites returns a copy of the page with favorite flags applied from the given id set
func (p *Page) WithFavorites(favorites map[int]bool) *Page {
	if p == nil {
		return nil
	}
	out := p.Clone()
	for i := range out.Results {
		out.Results[i].Favorite = favorites[out.Results[i].ID]
	}
	return out
}

// MatchesName reports whether the character's name contains query, ignoring case
func (c Character) MatchesName(query string) bool {
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(query))
}

// UnionByID merges primary and secondary, keeping primary order and appending
// secondary records whose id is not already present
func UnionByID(primary, secondary []Character) []Character {
	seen := make(map[int]bool, len(primary))
	out := make([]Character, 0, len(primary)+len(secondary))
	for _, c := range primary {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	for _, c := range secondary {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}
