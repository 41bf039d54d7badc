package services

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
	"github.com/localpulse/localpulse/internal/infrastructure/observability"
	apperrors "github.com/localpulse/localpulse/pkg/errors"
)

const (
	MinKeywordLength      = 3
	KeywordsFieldName     = "keywords"
	KeywordsTooShortError = "Please enter at least 3 characters."
	SearchFailedTitle     = "Search Failed"
	SearchFailedMessage   = "An error occurred during the search. Please try again."
)

// ErrSearchSuperseded marks a response that arrived after a newer request was issued.
var ErrSearchSuperseded = errors.New("search superseded by a newer request")

// ValidateKeywords enforces the minimum length before anything is dispatched
func ValidateKeywords(keywords string) error {
	if utf8.RuneCountInString(keywords) < MinKeywordLength {
		return apperrors.NewFieldValidationError(KeywordsFieldName, KeywordsTooShortError)
	}
	return nil
}

// BuildSearchInput attaches the user location only when it is available
func BuildSearchInput(keywords string, location entities.UserLocation) providers.SearchInput {
	input := providers.SearchInput{Keywords: keywords}
	if location.Known() {
		input.UserLocation = location.Coordinates.String()
	}
	return input
}

// SearchDispatcher calls the search collaborator and normalizes its answer
type SearchDispatcher struct {
	provider   providers.SearchProvider
	normalizer *ResultNormalizer
}

// NewSearchDispatcher creates a dispatcher
func NewSearchDispatcher(provider providers.SearchProvider, normalizer *ResultNormalizer) *SearchDispatcher {
	return &SearchDispatcher{provider: provider, normalizer: normalizer}
}

// Dispatch validates keywords, calls the collaborator once and returns the
// normalized items. Any failure is reported with the generic search message
// and nothing is retried.
func (d *SearchDispatcher) Dispatch(ctx context.Context, keywords string, location entities.UserLocation) ([]entities.SearchResultItem, error) {
	if err := ValidateKeywords(keywords); err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "search.dispatch")
	defer span.End()

	input := BuildSearchInput(keywords, location)
	observability.SetSpanAttributes(span,
		attribute.String("search.provider", d.provider.Name()),
		attribute.Bool("search.has_location", input.UserLocation != ""),
	)
	logger := observability.LoggerFromContext(ctx)

	start := time.Now()
	output, err := d.provider.Search(ctx, input)
	if err != nil {
		observability.RecordError(span, err)
		recordSearchMetric(ctx, d.provider.Name(), "error", time.Since(start))
		logger.Error().Err(err).Str("provider", d.provider.Name()).Msg("search collaborator failed")
		return nil, apperrors.NewExternalError(SearchFailedMessage, err)
	}
	if output == nil {
		output = &providers.SearchOutput{}
	}

	items, err := d.normalizer.Normalize(ctx, output.Results)
	if err != nil {
		observability.RecordError(span, err)
		recordSearchMetric(ctx, d.provider.Name(), "invalid", time.Since(start))
		logger.Error().Err(err).Str("provider", d.provider.Name()).Msg("search response rejected")
		return nil, apperrors.NewExternalError(SearchFailedMessage, err)
	}

	recordSearchMetric(ctx, d.provider.Name(), "ok", time.Since(start))
	logger.Debug().Int("results", len(items)).Str("provider", d.provider.Name()).Msg("search completed")
	return items, nil
}

type searchMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	staleCount      metric.Int64Counter
}

var (
	searchMetricsOnce sync.Once
	searchMetricsInst *searchMetrics
)

func ensureSearchMetrics() *searchMetrics {
	searchMetricsOnce.Do(func() {
		meter := otel.Meter("github.com/localpulse/localpulse/search")

		requestCount, err := meter.Int64Counter(
			"search.request.count",
			metric.WithDescription("Number of dispatched searches"),
		)
		if err != nil {
			return
		}
		requestDuration, err := meter.Float64Histogram(
			"search.request.duration",
			metric.WithDescription("Search duration in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}
		staleCount, err := meter.Int64Counter(
			"search.stale.count",
			metric.WithDescription("Number of search responses discarded because a newer search was issued"),
		)
		if err != nil {
			return
		}
		searchMetricsInst = &searchMetrics{
			requestCount:    requestCount,
			requestDuration: requestDuration,
			staleCount:      staleCount,
		}
	})
	return searchMetricsInst
}

func recordSearchMetric(ctx context.Context, provider, outcome string, duration time.Duration) {
	m := ensureSearchMetrics()
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("search.provider", provider),
		attribute.String("search.outcome", outcome),
	)
	m.requestCount.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func recordStaleSearch(ctx context.Context) {
	if m := ensureSearchMetrics(); m != nil {
		m.staleCount.Add(ctx, 1)
	}
}
