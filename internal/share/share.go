// Package share encodes a single note as a URL query parameter so a board
// can import it on load.
package share

import (
	"encoding/json"
	"fmt"
	"net/url"

	"stickpad/internal/board"
)

// Param is the query parameter carrying the encoded note.
const Param = "share"

// payload is the over-the-wire subset of a note. Identity and stacking are
// assigned fresh on import.
type payload struct {
	Title    string      `json:"title"`
	Content  string      `json:"content"`
	Position board.Point `json:"position"`
	Color    board.Color `json:"color"`
}

// Encode serializes the shareable fields of a note as a URL-safe string.
func Encode(n board.Note) (string, error) {
	raw, err := json.Marshal(payload{
		Title:    n.Title,
		Content:  n.Content,
		Position: n.Position,
		Color:    n.Color,
	})
	if err != nil {
		return "", fmt.Errorf("encode share payload: %w", err)
	}
	return url.QueryEscape(string(raw)), nil
}

// Link appends the encoded note to a base URL. The value from Encode is
// already escaped, so it goes into the raw query as-is.
func Link(base string, n board.Note) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", base, err)
	}
	enc, err := Encode(n)
	if err != nil {
		return "", err
	}
	if u.RawQuery != "" {
		u.RawQuery += "&"
	}
	u.RawQuery += Param + "=" + enc
	return u.String(), nil
}

// Decode parses an escaped share value, as produced by Encode, into a patch
// suitable for Store.Create.
func Decode(value string) (board.Patch, error) {
	raw, err := url.QueryUnescape(value)
	if err != nil {
		return board.Patch{}, fmt.Errorf("unescape share payload: %w", err)
	}
	return fromJSON(raw)
}

// FromURL extracts and decodes the share parameter of a full URL. The second
// return reports whether the parameter was present at all.
func FromURL(rawURL string) (board.Patch, bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return board.Patch{}, false, fmt.Errorf("parse share url: %w", err)
	}
	// Query() has already unescaped the value once.
	v := u.Query().Get(Param)
	if v == "" {
		return board.Patch{}, false, nil
	}
	p, err := fromJSON(v)
	if err != nil {
		return board.Patch{}, true, err
	}
	return p, true, nil
}

// Unknown colors fall back to the default palette entry.
func fromJSON(raw string) (board.Patch, error) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return board.Patch{}, fmt.Errorf("decode share payload: %w", err)
	}
	if !p.Color.Valid() {
		p.Color = board.DefaultColor
	}
	return board.Patch{
		Title:    &p.Title,
		Content:  &p.Content,
		Position: &p.Position,
		Color:    &p.Color,
	}, nil
}
