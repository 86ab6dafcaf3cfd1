package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidCursor is returned when a cursor token cannot be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor is a keyset pagination position over (created_at, id). Listings
// order by created_at DESC, id DESC and resume strictly after the cursor.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Encode serializes the cursor into an opaque URL-safe token.
func (c Cursor) Encode() string {
	raw := fmt.Sprintf("%d|%s", c.CreatedAt.UTC().UnixNano(), c.ID.String())
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode parses a token produced by Encode. Returns ErrInvalidCursor for
// malformed input.
func Decode(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("%w: missing separator", ErrInvalidCursor)
	}

	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: bad timestamp", ErrInvalidCursor)
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: bad id", ErrInvalidCursor)
	}

	return Cursor{CreatedAt: time.Unix(0, nanos).UTC(), ID: id}, nil
}

// Params holds cursor pagination parameters extracted from query strings.
type Params struct {
	Limit  int
	Cursor *Cursor
}

// DefaultLimit and MaxLimit bound the page size accepted from requests.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// FromRequest extracts cursor pagination parameters from an HTTP request.
// An unparseable cursor yields an error so callers can reject the request
// instead of silently restarting from the first page.
func FromRequest(r *http.Request) (Params, error) {
	p := Params{Limit: DefaultLimit}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 && v <= MaxLimit {
			p.Limit = v
		}
	}

	if token := r.URL.Query().Get("cursor"); token != "" {
		c, err := Decode(token)
		if err != nil {
			return Params{}, err
		}
		p.Cursor = &c
	}

	return p, nil
}

// Page wraps one page of results with the cursor state needed to fetch the
// next one.
type Page[T any] struct {
	Items      []T
	NextCursor string
	HasMore    bool
}

// NewPage builds a Page from items fetched with limit+1 probing: callers
// fetch one extra row to learn whether more data exists, and NewPage trims
// it back to the requested limit.
func NewPage[T any](items []T, limit int, cursorOf func(T) Cursor) Page[T] {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var next string
	if hasMore && len(items) > 0 {
		next = cursorOf(items[len(items)-1]).Encode()
	}

	return Page[T]{Items: items, NextCursor: next, HasMore: hasMore}
}
