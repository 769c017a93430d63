package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/thesavant42/schwifty-ng/internal/models"
)

// Dialect selects how the list envelope is decoded
type Dialect string

const (
	// DialectRickAndMorty is {info:{count,pages,next,prev}, results:[...]}
	DialectRickAndMorty Dialect = "rickandmorty"
	// DialectDattebayo is {currentPage,pageSize,total,characters:[...]}
	DialectDattebayo Dialect = "dattebayo"
)

// ParseDialect validates a dialect name from configuration.
// "naruto" is accepted as another name for the dattebayo envelope.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case DialectRickAndMorty, "":
		return DialectRickAndMorty, nil
	case DialectDattebayo, "naruto":
		return DialectDattebayo, nil
	}
	return "", fmt.Errorf("unknown API dialect %q (want %s, %s or naruto)", s, DialectRickAndMorty, DialectDattebayo)
}

// dattebayoEnvelope is the Naruto API list reply
type dattebayoEnvelope struct {
	CurrentPage int                  `json:"currentPage"`
	PageSize    int                  `json:"pageSize"`
	Total       int                  `json:"total"`
	Characters  []dattebayoCharacter `json:"characters"`
}

// dattebayoCharacter keeps the fields that map onto models.Character
type dattebayoCharacter struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Images   []string        `json:"images"`
	Personal json.RawMessage `json:"personal"`
}

type dattebayoPersonal struct {
	Sex     string          `json:"sex"`
	Status  string          `json:"status"`
	Species string          `json:"species"`
	Clan    json.RawMessage `json:"clan"`
}

// decodePage normalizes a list reply into a models.Page
func decodePage(body []byte, dialect Dialect, requestURL *url.URL) (*models.Page, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &Error{Kind: models.KindEmpty, URL: requestURL.String()}
	}

	switch dialect {
	case DialectDattebayo:
		var env dattebayoEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, &Error{Kind: models.KindMalformed, URL: requestURL.String(), Err: err}
		}
		return env.toPage(requestURL), nil
	default:
		var page models.Page
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, &Error{Kind: models.KindMalformed, URL: requestURL.String(), Err: err}
		}
		if page.Results == nil {
			return nil, &Error{Kind: models.KindMalformed, URL: requestURL.String(), Err: fmt.Errorf("missing results")}
		}
		return &page, nil
	}
}

// decodeCharacter decodes a single character reply
func decodeCharacter(body []byte, dialect Dialect, requestURL *url.URL) (models.Character, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return models.Character{}, &Error{Kind: models.KindEmpty, URL: requestURL.String()}
	}

	switch dialect {
	case DialectDattebayo:
		var c dattebayoCharacter
		if err := json.Unmarshal(body, &c); err != nil {
			return models.Character{}, &Error{Kind: models.KindMalformed, URL: requestURL.String(), Err: err}
		}
		return c.toCharacter(requestURL), nil
	default:
		var c models.Character
		if err := json.Unmarshal(body, &c); err != nil {
			return models.Character{}, &Error{Kind: models.KindMalformed, URL: requestURL.String(), Err: err}
		}
		return c, nil
	}
}

func (e dattebayoEnvelope) toPage(requestURL *url.URL) *models.Page {
	page := &models.Page{Results: make([]models.Character, 0, len(e.Characters))}
	for _, c := range e.Characters {
		page.Results = append(page.Results, c.toCharacter(requestURL))
	}

	page.Info.Count = e.Total
	if e.PageSize > 0 {
		page.Info.Pages = (e.Total + e.PageSize - 1) / e.PageSize
	}
	// No next pointer on the wire: derive it from the counters
	if e.PageSize > 0 && e.CurrentPage*e.PageSize < e.Total {
		page.Info.Next = withPage(requestURL, e.CurrentPage+1)
	}
	if e.CurrentPage > 1 {
		page.Info.Prev = withPage(requestURL, e.CurrentPage-1)
	}
	return page
}

func (c dattebayoCharacter) toCharacter(requestURL *url.URL) models.Character {
	out := models.Character{ID: c.ID, Name: c.Name}
	if len(c.Images) > 0 {
		out.Image = c.Images[0]
	}
	if requestURL != nil {
		u := *requestURL
		u.RawQuery = ""
		u.Path = strings.TrimSuffix(u.Path, "/"+strconv.Itoa(c.ID)) + "/" + strconv.Itoa(c.ID)
		out.URL = u.String()
	}

	var p dattebayoPersonal
	if len(c.Personal) > 0 && json.Unmarshal(c.Personal, &p) == nil {
		out.Gender = p.Sex
		out.Status = p.Status
		out.Species = p.Species
		// clan is a string or a list of strings depending on the character
		var clan string
		var clans []string
		if json.Unmarshal(p.Clan, &clan) == nil {
			out.Origin.Name = clan
		} else if json.Unmarshal(p.Clan, &clans) == nil && len(clans) > 0 {
			out.Origin.Name = clans[0]
		}
	}
	return out
}

// withPage returns requestURL with the page parameter set
func withPage(requestURL *url.URL, page int) string {
	if requestURL == nil {
		return ""
	}
	u := *requestURL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// apiErrorMessage extracts {"error": "..."} from an error reply
func apiErrorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
