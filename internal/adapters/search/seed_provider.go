package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
	"github.com/localpulse/localpulse/internal/domain/repositories"
)

// minTermLength ignores short filler words such as "in" or "at".
const minTermLength = 3

// SeedProvider answers searches from the static dataset without any network call
type SeedProvider struct {
	repo repositories.SeedRepository
	fold cases.Caser
}

var _ providers.SearchProvider = (*SeedProvider)(nil)

// NewSeedProvider creates a keyword matcher over repo
func NewSeedProvider(repo repositories.SeedRepository) *SeedProvider {
	return &SeedProvider{repo: repo, fold: cases.Fold()}
}

// Name identifies the provider in logs and metrics
func (p *SeedProvider) Name() string {
	return "seed"
}

// Search returns places matching any keyword term, best matches first
func (p *SeedProvider) Search(ctx context.Context, input providers.SearchInput) (*providers.SearchOutput, error) {
	places, err := p.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed places: %w", err)
	}

	terms := p.terms(input.Keywords)
	type scored struct {
		place entities.RawResult
		score int
	}
	matches := make([]scored, 0)
	for _, place := range places {
		haystack := p.fold.String(strings.Join([]string{
			place.Name, place.Description, place.Location, place.City, string(place.Type),
		}, " "))
		score := 0
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{place: place, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := &providers.SearchOutput{Results: make([]entities.RawResult, 0, len(matches))}
	for _, m := range matches {
		out.Results = append(out.Results, m.place)
	}
	return out, nil
}

func (p *SeedProvider) terms(keywords string) []string {
	fields := strings.FieldsFunc(p.fold.String(keywords), func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '\t'
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < minTermLength {
			continue
		}
		// Crude singularization so "malls" finds "mall".
		if len([]rune(f)) > minTermLength {
			f = strings.TrimSuffix(f, "s")
		}
		terms = append(terms, f)
	}
	return terms
}
