// Package service aggregates decree activity across every active parish of a
// diocese into one chronological view for the chancery office.
package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	decreemodels "chancery/internal/decree/models"
	parishmodels "chancery/internal/parish/models"
	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
)

const fanOutTimeout = 10 * time.Second

// ParishDirectory lists the parishes the aggregator fans out over. All of
// them: a deactivated parish stops taking new entries, but its issued
// decrees stay on the chancery-wide record.
type ParishDirectory interface {
	List(ctx context.Context, dioceseID domain.DioceseID) ([]*parishmodels.Parish, error)
}

// DecreeLister provides the per-parish decree listings.
type DecreeLister interface {
	ListCorrections(ctx context.Context, parishID domain.ParishID) ([]*decreemodels.CorrectionDecree, error)
	ListReplacements(ctx context.Context, parishID domain.ParishID) ([]*decreemodels.ReplacementDecree, error)
}

// AggregatedDecree is the diocese-wide read model. It flattens both decree
// kinds and tags each row with the parish it came from.
type AggregatedDecree struct {
	DecreeID     domain.DecreeID   `json:"decree_id"`
	Kind         domain.DecreeKind `json:"kind"`
	DecreeNumber string            `json:"decree_number"`
	DecreeDate   time.Time         `json:"decree_date"`
	SubjectName  string            `json:"subject_name"`
	Status       string            `json:"status,omitempty"`
	ParishID     domain.ParishID   `json:"parish_id"`
	ParishName   string            `json:"parish_name"`
	ParishCity   string            `json:"parish_city,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Aggregator fans out over all parishes of a diocese and merges their
// decree listings, newest first.
type Aggregator struct {
	directory ParishDirectory
	decrees   DecreeLister
	cache     *listingCache
	logger    *slog.Logger
}

type Option func(a *Aggregator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithCache enables the read-through listing cache. The diocese-wide view
// tolerates a slightly stale read, so cache failures degrade to a live fetch.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(a *Aggregator) {
		if cache == nil {
			return
		}
		a.cache = newListingCache(cache, ttl)
	}
}

func NewAggregator(directory ParishDirectory, decrees DecreeLister, opts ...Option) *Aggregator {
	a := &Aggregator{
		directory: directory,
		decrees:   decrees,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// ListDecrees returns every decree of every parish in the diocese, sorted
// by decree date descending. Drafts without a decree date sort by
// their creation time instead. A diocese with no parishes or no decrees
// yields an empty slice, not an error.
func (a *Aggregator) ListDecrees(ctx context.Context, dioceseID domain.DioceseID) ([]AggregatedDecree, error) {
	if dioceseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "diocese id is required")
	}

	if a.cache != nil {
		if cached, ok := a.cache.get(ctx, dioceseID); ok {
			return cached, nil
		}
	}

	parishes, err := a.directory.List(ctx, dioceseID)
	if err != nil {
		return nil, err
	}

	decrees, err := a.gather(ctx, parishes)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(decrees, func(i, j int) bool {
		return effectiveDate(decrees[i]).After(effectiveDate(decrees[j]))
	})

	if a.cache != nil {
		a.cache.put(ctx, dioceseID, decrees)
	}
	return decrees, nil
}

// gather fetches both decree kinds for every parish in parallel with shared
// context cancellation. Results merge under a mutex; order is fixed afterwards
// by the caller's sort.
func (a *Aggregator) gather(ctx context.Context, parishes []*parishmodels.Parish) ([]AggregatedDecree, error) {
	ctx, cancel := context.WithTimeout(ctx, fanOutTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	decrees := make([]AggregatedDecree, 0)

	for _, parish := range parishes {
		g.Go(func() error {
			corrections, err := a.decrees.ListCorrections(ctx, parish.ID)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, d := range corrections {
				decrees = append(decrees, correctionRow(d, parish))
			}
			mu.Unlock()
			return nil
		})
		g.Go(func() error {
			replacements, err := a.decrees.ListReplacements(ctx, parish.ID)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, d := range replacements {
				decrees = append(decrees, replacementRow(d, parish))
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to aggregate diocese decrees")
	}
	return decrees, nil
}

func correctionRow(d *decreemodels.CorrectionDecree, parish *parishmodels.Parish) AggregatedDecree {
	return AggregatedDecree{
		DecreeID:     d.ID,
		Kind:         domain.DecreeKindCorrection,
		DecreeNumber: d.DecreeNumber,
		DecreeDate:   d.DecreeDate,
		SubjectName:  d.Original.SubjectName,
		ParishID:     parish.ID,
		ParishName:   parish.Name,
		ParishCity:   parish.City,
		CreatedAt:    d.CreatedAt,
	}
}

func replacementRow(d *decreemodels.ReplacementDecree, parish *parishmodels.Parish) AggregatedDecree {
	return AggregatedDecree{
		DecreeID:     d.ID,
		Kind:         domain.DecreeKindReplacement,
		DecreeNumber: d.DecreeNumber,
		DecreeDate:   d.DecreeDate,
		SubjectName:  d.SubjectName,
		Status:       string(d.Status),
		ParishID:     parish.ID,
		ParishName:   parish.Name,
		ParishCity:   parish.City,
		CreatedAt:    d.CreatedAt,
	}
}

func effectiveDate(d AggregatedDecree) time.Time {
	if d.DecreeDate.IsZero() {
		return d.CreatedAt
	}
	return d.DecreeDate
}
