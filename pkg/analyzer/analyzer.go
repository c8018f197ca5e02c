package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/chatbay/ebay-media/pkg/ebaymedia"
)

// visionRate paces vision calls during batch export to stay under
// provider rate limits. Matches roughly one call per 800ms.
var visionRate = rate.Every(800 * time.Millisecond)

// Options configures a single preview or export run
type Options struct {
	Condition     string
	PhotosPerItem int
}

func (o Options) normalized() Options {
	o.Condition = strings.ToLower(strings.TrimSpace(o.Condition))
	if o.Condition == "" {
		o.Condition = DefaultCondition
	}
	if o.PhotosPerItem <= 0 {
		o.PhotosPerItem = DefaultPhotosPerItem
	}
	return o
}

// Listing is one analyzed gallery group ready to become a CSV row
type Listing struct {
	Description *Description
	Photos      []string
	Condition   string
	Price       float64
	ScheduleAt  string
}

// Analyzer wires the gallery client, sanitizer, vision model and price
// researcher into preview and export operations.
type Analyzer struct {
	gallery   *GalleryClient
	sanitizer *Sanitizer
	describer Describer
	pricer    PriceResearcher
	defaults  ListingDefaults
	limiter   *rate.Limiter
	now       func() time.Time
}

// Option configures the Analyzer
type Option func(*Analyzer)

// WithGalleryClient sets the gallery source
func WithGalleryClient(c *GalleryClient) Option {
	return func(a *Analyzer) { a.gallery = c }
}

// WithSanitizer sets the photo URL sanitizer
func WithSanitizer(s *Sanitizer) Option {
	return func(a *Analyzer) { a.sanitizer = s }
}

// WithDescriber sets the vision describer
func WithDescriber(d Describer) Option {
	return func(a *Analyzer) { a.describer = d }
}

// WithPriceResearcher sets the price researcher. Nil means every
// listing gets the default start price.
func WithPriceResearcher(p PriceResearcher) Option {
	return func(a *Analyzer) { a.pricer = p }
}

// WithListingDefaults sets the seller-account values stamped into rows
func WithListingDefaults(d ListingDefaults) Option {
	return func(a *Analyzer) { a.defaults = d }
}

// WithClock overrides the clock, for tests
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New creates an Analyzer. Gallery client, sanitizer and describer are
// required.
func New(options ...Option) (*Analyzer, error) {
	a := &Analyzer{
		limiter: rate.NewLimiter(visionRate, 1),
		now:     time.Now,
	}
	for _, option := range options {
		option(a)
	}
	if a.gallery == nil {
		return nil, errors.New("gallery client is required")
	}
	if a.sanitizer == nil {
		return nil, errors.New("sanitizer is required")
	}
	if a.describer == nil {
		return nil, errors.New("describer is required")
	}
	return a, nil
}

// Gallery returns the raw photo groups from the gallery endpoint
func (a *Analyzer) Gallery(ctx context.Context) ([]ebaymedia.GalleryGroup, error) {
	return a.gallery.FetchGroups(ctx)
}

// AnalyzeGroups fetches gallery groups and turns up to maxGroups of
// them into listings. maxGroups <= 0 means all groups. Groups whose
// photos all fail sanitization are skipped.
func (a *Analyzer) AnalyzeGroups(ctx context.Context, opts Options, maxGroups int) ([]Listing, error) {
	opts = opts.normalized()

	groups, err := a.gallery.FetchGroups(ctx)
	if err != nil {
		return nil, err
	}
	if maxGroups > 0 && len(groups) > maxGroups {
		groups = groups[:maxGroups]
	}

	scheduleAt := ScheduleTime(a.now())
	listings := make([]Listing, 0, len(groups))
	for i, group := range groups {
		photos := a.sanitizer.CollectPhotos(ctx, strings.Split(group.PhotoURLs, ","), opts.PhotosPerItem)
		if len(photos) == 0 {
			slog.Warn("Group skipped, no usable photos", "group", i)
			continue
		}

		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		desc, err := a.describer.Describe(ctx, photos)
		if err != nil {
			// A failed description still yields a row the seller can
			// fill in by hand.
			slog.Warn("Vision analysis failed", "group", i, "error", err)
			desc = &Description{}
		}

		keywords := desc.Title
		if keywords == "" {
			keywords = desc.Brand
		}
		price := ResearchPrice(ctx, a.pricer, keywords, PickCategoryID(desc.CategoryGuess))

		listings = append(listings, Listing{
			Description: desc,
			Photos:      photos,
			Condition:   opts.Condition,
			Price:       price,
			ScheduleAt:  scheduleAt,
		})
	}

	return listings, nil
}

// Rows renders listings as File Exchange rows
func (a *Analyzer) Rows(listings []Listing) [][]string {
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, RowFromListing(l.Description, l.Photos, l.Condition, l.Price, l.ScheduleAt, a.defaults))
	}
	return rows
}

// ExportCSV analyzes every gallery group and renders the full CSV
func (a *Analyzer) ExportCSV(ctx context.Context, opts Options) (string, error) {
	listings, err := a.AnalyzeGroups(ctx, opts, 0)
	if err != nil {
		return "", err
	}
	return WriteCSV(a.Rows(listings))
}
