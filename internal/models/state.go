package models

import "fmt"

// ErrorKind classifies why a data fetch failed
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindStatus
	KindEmpty
	KindMalformed
	KindStorage
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindEmpty:
		return "empty"
	case KindMalformed:
		return "malformed"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// State is the tagged status of the last data-fetch attempt.
// The only implementations are Loading, Success and Error.
type State interface {
	isState()
}

// Loading means a fetch is in progress and nothing is ready to show
type Loading struct{}

// Success carries the characters to show.
// Notice is set when a later refresh failed but this payload was kept.
type Success struct {
	Page      *Page
	FromCache bool
	HasMore   bool
	Notice    string
}

// Error carries a human-readable message and, when available, the last good payload
type Error struct {
	Kind    ErrorKind
	Message string
	Last    *Page
}

func (Loading) isState() {}
func (Success) isState() {}
func (Error) isState()   {}

// MatchState dispatches on the concrete state. Every variant must be handled.
func MatchState[R any](s State, onLoading func(Loading) R, onSuccess func(Success) R, onError func(Error) R) R {
	switch v := s.(type) {
	case Loading:
		return onLoading(v)
	case Success:
		return onSuccess(v)
	case Error:
		return onError(v)
	case nil:
		return onLoading(Loading{})
	default:
		panic(fmt.Sprintf("models: unknown state %T", s))
	}
}

// StateName returns a short label for logs
func StateName(s State) string {
	return MatchState(s,
		func(Loading) string { return "loading" },
		func(v Success) string {
			if v.FromCache {
				return "success(cache)"
			}
			return "success"
		},
		func(v Error) string { return "error(" + v.Kind.String() + ")" },
	)
}

// Payload returns the characters a state can show, if any
func Payload(s State) *Page {
	return MatchState(s,
		func(Loading) *Page { return nil },
		func(v Success) *Page { return v.Page },
		func(v Error) *Page { return v.Last },
	)
}
