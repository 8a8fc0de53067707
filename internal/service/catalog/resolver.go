package catalog

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// ErrBadAPIKey means the catalog rejected our credential. This is an
// operator misconfiguration, not a routine miss, and callers must not
// swallow it into the ordinary not-found path silently.
var ErrBadAPIKey = errors.New("OMDB_KEY_INVALID")

var apiKeyErrRe = regexp.MustCompile(`(?i)api key`)

// Fetcher is the catalog access the resolver needs. *Client satisfies it.
type Fetcher interface {
	FetchByTitle(ctx context.Context, title, year string) (*Result, error)
	Search(ctx context.Context, title, year string) (*Result, error)
	FetchByID(ctx context.Context, id string) (*Result, error)
}

// Resolver turns a free-text query into catalog metadata, tolerating an
// imprecise title via a search fallback.
type Resolver struct {
	fetcher Fetcher
}

// NewResolver wraps a Fetcher.
func NewResolver(f Fetcher) *Resolver {
	return &Resolver{fetcher: f}
}

// Resolve parses the query and drives the lookup strategy: direct title
// fetch first, then a search-and-pick fallback on a miss. A miss result
// comes back with a nil error (Response "False"); transport problems and
// a rejected key come back as errors.
func (r *Resolver) Resolve(ctx context.Context, query string) (*Result, error) {
	title, year := ParseQuery(query)

	res, err := r.fetcher.FetchByTitle(ctx, title, year)
	if err != nil {
		return nil, err
	}
	if res.Failed() && apiKeyErrRe.MatchString(res.Error) {
		return nil, ErrBadAPIKey
	}
	if res.Failed() {
		return r.searchAndPick(ctx, title, year)
	}
	return res, nil
}

// searchAndPick resolves an imprecise title: prefer the candidate whose
// title matches case-insensitively and exactly, else take the first one,
// then re-fetch its full record by id. An empty search propagates as-is.
func (r *Resolver) searchAndPick(ctx context.Context, title, year string) (*Result, error) {
	res, err := r.fetcher.Search(ctx, title, year)
	if err != nil {
		return nil, err
	}
	if res.Failed() || len(res.Search) == 0 {
		return res, nil
	}

	best := res.Search[0]
	for _, it := range res.Search {
		if strings.EqualFold(it.Title, title) {
			best = it
			break
		}
	}
	return r.fetcher.FetchByID(ctx, best.IMDBID)
}
