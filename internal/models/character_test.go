package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	rick   = Character{ID: 1, Name: "Rick Sanchez"}
	morty  = Character{ID: 2, Name: "Morty Smith"}
	summer = Character{ID: 3, Name: "Summer Smith"}
)

func TestPageAppendKeepsPrefix(t *testing.T) {
	first := &Page{Info: Info{Next: "page=2"}, Results: []Character{rick, morty}}
	second := &Page{Info: Info{Prev: "page=1"}, Results: []Character{summer}}

	merged := first.Append(second)
	assert.Equal(t, []int{1, 2, 3}, merged.IDs())
	assert.False(t, merged.HasNext())

	// Receiver untouched
	assert.Equal(t, []int{1, 2}, first.IDs())

	var empty *Page
	assert.Equal(t, []int{3}, empty.Append(second).IDs())
}

func TestPageFilter(t *testing.T) {
	page := NewLocalPage([]Character{rick, morty, summer})

	tests := []struct {
		query string
		want  []int
	}{
		{"", []int{1, 2, 3}},
		{"   ", []int{1, 2, 3}},
		{"smith", []int{2, 3}},
		{"RICK", []int{1}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, page.Filter(tt.query).IDs(), "query %q", tt.query)
	}
}

func TestWithFavoritesCopies(t *testing.T) {
	page := NewLocalPage([]Character{rick, morty})
	marked := page.WithFavorites(map[int]bool{2: true})

	assert.False(t, marked.Results[0].Favorite)
	assert.True(t, marked.Results[1].Favorite)
	assert.False(t, page.Results[1].Favorite)
}

func TestUnionByID(t *testing.T) {
	remote := []Character{summer, rick}
	local := []Character{rick, morty, morty}

	got := UnionByID(remote, local)
	ids := make([]int, len(got))
	for i, c := range got {
		ids[i] = c.ID
	}
	assert.Equal(t, []int{3, 1, 2}, ids)
	assert.Empty(t, UnionByID(nil, nil))
}

func TestNilPageHelpers(t *testing.T) {
	var p *Page
	assert.Zero(t, p.Len())
	assert.Nil(t, p.IDs())
	assert.False(t, p.HasNext())
	assert.Nil(t, p.Clone())
	assert.Nil(t, p.WithFavorites(nil))

	assert.Equal(t, 0, NewLocalPage(nil).Info.Pages)
	assert.Equal(t, 1, NewLocalPage([]Character{rick}).Info.Pages)
}

func TestStatePayload(t *testing.T) {
	page := NewLocalPage([]Character{rick})

	assert.Nil(t, Payload(Loading{}))
	assert.Nil(t, Payload(nil))
	assert.Same(t, page, Payload(Success{Page: page}))
	assert.Same(t, page, Payload(Error{Last: page}))
	assert.Nil(t, Payload(Error{Kind: KindNetwork}))
}

func TestStateName(t *testing.T) {
	assert.Equal(t, "loading", StateName(Loading{}))
	assert.Equal(t, "success", StateName(Success{}))
	assert.Equal(t, "success(cache)", StateName(Success{FromCache: true}))
	assert.Equal(t, "error(network)", StateName(Error{Kind: KindNetwork}))
}

func TestErrorKindString(t *testing.T) {
	kinds := map[ErrorKind]string{
		KindUnknown:   "unknown",
		KindNetwork:   "network",
		KindStatus:    "status",
		KindEmpty:     "empty",
		KindMalformed: "malformed",
		KindStorage:   "storage",
	}
	for kind, want := range kinds {
		require.Equal(t, want, kind.String())
	}
}
