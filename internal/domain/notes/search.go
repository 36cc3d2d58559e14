package notes

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Search returns notes whose title fuzzy-matches query, best match first,
// followed by notes whose content contains query (case-insensitive).
// An empty query returns every note in list order.
func (s *Store) Search(ctx context.Context, query string) ([]Note, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return all, nil
	}

	titles := make([]string, len(all))
	for i, n := range all {
		titles[i] = n.Title
	}

	results := make([]Note, 0, len(all))
	seen := make(map[int]bool, len(all))
	for _, m := range fuzzy.Find(query, titles) {
		results = append(results, all[m.Index])
		seen[m.Index] = true
	}

	needle := strings.ToLower(query)
	for i, n := range all {
		if !seen[i] && strings.Contains(strings.ToLower(n.Content), needle) {
			results = append(results, n)
		}
	}
	return results, nil
}
