package search

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/boxopt/pkg/domain/entities"
	"github.com/vsinha/boxopt/pkg/domain/services"
)

// Config holds configuration for the composition search
type Config struct {
	// Capacity is the number of solutions kept per search (0 = DefaultCapacity)
	Capacity int
	// MinBoxes is the floor for adjustable lines without an explicit minimum (0 = DefaultMinBoxes)
	MinBoxes int
	// Workers splits the outer enumeration loop across goroutines (<= 1 = sequential)
	Workers int
	// IDGen assigns solution ids; defaults to ULIDs
	IDGen func() string
}

// DefaultConfig returns the configuration used by NewSearcher
func DefaultConfig() Config {
	return Config{
		Capacity: DefaultCapacity,
		MinBoxes: DefaultMinBoxes,
		Workers:  1,
	}
}

// Request describes one search invocation
type Request struct {
	Shipment *entities.Shipment
	// AdjustableKeys selects the lines to redistribute; distributions follow this order.
	AdjustableKeys []entities.LineKey
	Ranges         map[entities.LineKey]entities.AdjustmentRange
	Conditions     []entities.Condition
}

// Stats counts what happened to the enumerated candidates
type Stats struct {
	Enumerated  int
	SkippedSeen int
	Rejected    int
	Accepted    int
	Elapsed     time.Duration
}

func (s *Stats) add(other Stats) {
	s.Enumerated += other.Enumerated
	s.SkippedSeen += other.SkippedSeen
	s.Rejected += other.Rejected
	s.Accepted += other.Accepted
}

// Result is the outcome of a successful search
type Result struct {
	// Applied is a copy of the request shipment with the best solution's lines written back.
	Applied *entities.Shipment
	Best    *entities.Solution
	// Solutions holds the archive in ascending duty order.
	Solutions []*entities.Solution
	// History is the caller's history with this search's solutions merged in.
	History      History
	HistoryReset bool
	ToDistribute int
	Stats        Stats
}

// Searcher enumerates box distributions across adjustable lines and keeps the cheapest
// feasible ones
type Searcher struct {
	config   Config
	valuator *services.Valuator
	policy   services.AcceptancePolicy
	logger   *zap.Logger
}

// NewSearcher creates a searcher with the default configuration
func NewSearcher(valuator *services.Valuator, logger *zap.Logger) *Searcher {
	return NewSearcherWithConfig(DefaultConfig(), valuator, logger)
}

// NewSearcherWithConfig creates a searcher with custom configuration
func NewSearcherWithConfig(config Config, valuator *services.Valuator, logger *zap.Logger) *Searcher {
	if config.Capacity <= 0 {
		config.Capacity = DefaultCapacity
	}
	if config.MinBoxes <= 0 {
		config.MinBoxes = DefaultMinBoxes
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.IDGen == nil {
		config.IDGen = func() string { return ulid.Make().String() }
	}
	if valuator == nil {
		valuator = services.NewValuator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Searcher{
		config:   config,
		valuator: valuator,
		policy:   services.StrictPolicy{},
		logger:   logger,
	}
}

// Config returns the effective configuration
func (s *Searcher) Config() Config {
	return s.config
}

// plan is the validated, immutable input shared by every candidate evaluation
type plan struct {
	base         *entities.Shipment
	adjustable   []int
	bounds       []bound
	toDistribute int
	conditions   []entities.Condition
	history      History
}

// Search finds the lowest-duty feasible distributions of the remaining boxes across the
// adjustable lines. Distributions already recorded in history are skipped. The request
// shipment and history are not modified.
func (s *Searcher) Search(ctx context.Context, req Request, history History) (*Result, error) {
	start := time.Now()

	p, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	fingerprint := parameterFingerprint(req.AdjustableKeys, req.Ranges)
	scoped, reset := history.scopedTo(fingerprint)
	if reset {
		s.logger.Info("search history reset after parameter change",
			zap.String("session_id", scoped.SessionID()),
			zap.Int("dropped", history.Len()))
	}
	p.history = scoped

	s.logger.Debug("search started",
		zap.String("session_id", scoped.SessionID()),
		zap.Int("adjustable_lines", len(p.adjustable)),
		zap.Int("to_distribute", p.toDistribute),
		zap.Int("workers", s.config.Workers))

	archive, stats, err := s.enumerate(ctx, p)
	if err != nil {
		return nil, err
	}
	stats.Elapsed = time.Since(start)

	if archive.Len() == 0 {
		s.logger.Warn("no feasible distribution",
			zap.String("session_id", scoped.SessionID()),
			zap.Int("enumerated", stats.Enumerated),
			zap.Int("skipped_seen", stats.SkippedSeen),
			zap.Int("rejected", stats.Rejected))
		return nil, fmt.Errorf("%w: %d candidates enumerated, %d already seen, %d rejected",
			ErrNoFeasibleSolution, stats.Enumerated, stats.SkippedSeen, stats.Rejected)
	}

	solutions := archive.Sorted()
	for _, solution := range solutions {
		solution.ID = s.config.IDGen()
	}
	best := solutions[0]

	applied := req.Shipment.Clone()
	applied.Lines = make([]entities.LineItem, len(best.Lines))
	copy(applied.Lines, best.Lines)

	s.logger.Info("search completed",
		zap.String("session_id", scoped.SessionID()),
		zap.Stringer("best_distribution", best.Distribution),
		zap.String("best_total_duty", best.TotalDuty().StringFixed(2)),
		zap.Int("solutions", len(solutions)),
		zap.Int("enumerated", stats.Enumerated),
		zap.Int("skipped_seen", stats.SkippedSeen),
		zap.Int("rejected", stats.Rejected),
		zap.Duration("elapsed", stats.Elapsed))

	return &Result{
		Applied:      applied,
		Best:         best,
		Solutions:    solutions,
		History:      scoped.merge(solutions),
		HistoryReset: reset,
		ToDistribute: p.toDistribute,
		Stats:        stats,
	}, nil
}

// prepare validates the request and builds the shared plan
func (s *Searcher) prepare(req Request) (*plan, error) {
	shipment := req.Shipment
	if shipment == nil || shipment.TargetBoxes <= 0 {
		return nil, ErrMissingTarget
	}
	if err := shipment.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shipment: %w", err)
	}

	keys := req.AdjustableKeys
	if len(keys) != 2 && len(keys) != 3 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAdjustableCount, len(keys))
	}

	index := make(map[entities.LineKey]int, len(shipment.Lines))
	for i, line := range shipment.Lines {
		index[line.Key] = i
	}

	adjustable := make([]int, len(keys))
	selected := make(map[int]bool, len(keys))
	for n, key := range keys {
		i, ok := index[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLine, key)
		}
		if selected[i] {
			return nil, fmt.Errorf("%w: line %s selected twice", ErrInvalidAdjustableCount, key)
		}
		if !shipment.Lines[i].Selected() {
			return nil, fmt.Errorf("%w: line %s has no product", ErrUnknownLine, key)
		}
		selected[i] = true
		adjustable[n] = i
	}

	base := shipment.Clone()
	fixedBoxes := 0
	for i := range base.Lines {
		base.Lines[i] = services.Revalue(base.Lines[i])
		if !selected[i] {
			fixedBoxes += base.Lines[i].BoxCount
		}
	}

	toDistribute := shipment.TargetBoxes - fixedBoxes
	if toDistribute < 0 {
		return nil, fmt.Errorf("%w: fixed lines hold %d of %d boxes",
			ErrNegativeRemainder, fixedBoxes, shipment.TargetBoxes)
	}

	bounds, err := resolveBounds(keys, req.Ranges, toDistribute, s.config.MinBoxes)
	if err != nil {
		return nil, err
	}

	return &plan{
		base:         base,
		adjustable:   adjustable,
		bounds:       bounds,
		toDistribute: toDistribute,
		conditions:   req.Conditions,
	}, nil
}

// enumerate walks the composition space, sharding the outer loop when configured
func (s *Searcher) enumerate(ctx context.Context, p *plan) (*Archive, Stats, error) {
	outer := p.bounds[0]
	workers := s.config.Workers
	if w := outer.width(); workers > w {
		workers = w
	}
	if workers <= 1 {
		archive := NewArchive(s.config.Capacity)
		var stats Stats
		if err := s.scanShard(ctx, p, outer.min, 1, archive, &stats); err != nil {
			return nil, Stats{}, err
		}
		return archive, stats, nil
	}

	archives := make([]*Archive, workers)
	shardStats := make([]Stats, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		archives[w] = NewArchive(s.config.Capacity)
		g.Go(func() error {
			return s.scanShard(gctx, p, outer.min+w, workers, archives[w], &shardStats[w])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	var stats Stats
	for _, st := range shardStats {
		stats.add(st)
	}
	return mergeArchives(s.config.Capacity, archives...), stats, nil
}

// scanShard visits the outer values first, first+stride, ... and offers accepted
// candidates to archive. Cancellation is checked between outer values.
func (s *Searcher) scanShard(
	ctx context.Context,
	p *plan,
	first, stride int,
	archive *Archive,
	stats *Stats,
) error {
	for i := first; i <= p.bounds[0].max; i += stride {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("search cancelled: %w", err)
		}
		enumerateOuter(p.bounds, p.toDistribute, i, func(c candidate) {
			stats.Enumerated++
			if p.history.Seen(c.distribution) {
				stats.SkippedSeen++
				return
			}
			solution, ok := s.evaluate(p, c)
			if !ok {
				stats.Rejected++
				return
			}
			stats.Accepted++
			archive.Offer(solution)
		})
	}
	return nil
}

// evaluate scores one candidate. It only reads the plan, so candidates can be evaluated
// concurrently.
func (s *Searcher) evaluate(p *plan, c candidate) (*entities.Solution, bool) {
	lines := make([]entities.LineItem, len(p.base.Lines))
	copy(lines, p.base.Lines)
	for n, i := range p.adjustable {
		lines[i].BoxCount = c.distribution[n]
		lines[i] = services.Revalue(lines[i])
	}

	snapshot := *p.base
	snapshot.Lines = lines
	metrics := s.valuator.ShipmentMetrics(&snapshot)

	verdict := services.Evaluate(p.conditions, metrics, snapshot.Mode)
	if !s.policy.Accept(verdict) {
		return nil, false
	}

	return &entities.Solution{
		Lines:        lines,
		Metrics:      metrics,
		Distribution: c.distribution,
		Ordinal:      c.ordinal,
	}, true
}
