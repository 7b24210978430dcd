package analysis

import (
	"log/slog"
	"runtime"
	"sync"
)

// Partition identifies one analysis slice (e.g. one skill-tier filter).
type Partition struct {
	Name        string
	Description string
}

// Result is the complete JSON-serializable output for one partition. Field
// names are fixed: the browsing UI and exporters key on them.
type Result struct {
	Filter            string `json:"filter"`
	FilterDescription string `json:"filter_description,omitempty"`

	Summary             Summary                    `json:"summary"`
	MasteryDistribution *Distribution              `json:"mastery_distribution"`
	OverallWinrate      map[Bucket]BucketAggregate `json:"overall_winrate_by_bucket"`
	WinrateCurve        []CurvePoint               `json:"winrate_curve"`

	ChampionStats map[string]*ChampionStats `json:"champion_stats"`
	LaneImpact    map[string]*LaneImpact    `json:"lane_impact"`

	EasiestToLearn []RankingEntry `json:"easiest_to_learn"`
	BestToMaster   []RankingEntry `json:"best_to_master"`
	BestInvestment []RankingEntry `json:"best_investment"`

	GamesTo50Winrate []*ThresholdResult `json:"games_to_50_winrate"`

	BiasChampionStats  map[string]*ChampionStats `json:"bias_champion_stats"`
	BiasEasiestToLearn []RankingEntry            `json:"bias_easiest_to_learn"`
	BiasBestToMaster   []RankingEntry            `json:"bias_best_to_master"`
	BiasBestInvestment []RankingEntry            `json:"bias_best_investment"`

	MasteryCurves   map[string]*MasteryCurve `json:"mastery_curves"`
	SlopeIterations []*SlopeIteration        `json:"slope_iterations"`

	ChampionStatsByLane   map[string]map[string]*ChampionStats `json:"champion_stats_by_lane"`
	MasteryCurvesByLane   map[string]map[string]*MasteryCurve  `json:"mastery_curves_by_lane"`
	SlopeIterationsByLane []*SlopeIteration                    `json:"slope_iterations_by_lane"`

	BroadChampionStats    map[string]*ChampionStats `json:"broad_champion_stats"`
	BroadGamesToThreshold []*ThresholdResult        `json:"broad_games_to_threshold"`
	BroadEasiestToLearn   []RankingEntry            `json:"broad_easiest_to_learn"`
	BroadBestToMaster     []RankingEntry            `json:"broad_best_to_master"`
}

// Analyzer runs the full pipeline for one partition. It holds no state
// between runs: the same snapshot always produces byte-identical output.
type Analyzer struct {
	cfg Config
	log *slog.Logger
}

// New validates the configuration and returns a ready analyzer.
func New(cfg Config, log *slog.Logger) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{cfg: cfg, log: log}, nil
}

// championOutput collects every per-champion artifact produced by the
// parallel phase. Champions are independent: no computation here reads
// another champion's intermediates.
type championOutput struct {
	name string

	stats       *ChampionStats
	broadStats  *ChampionStats
	threshold   *ThresholdResult
	broadThresh *ThresholdResult
	biasStats   *ChampionStats
	curve       *MasteryCurve
	slope       *SlopeIteration

	laneStats  map[string]*ChampionStats
	laneCurves map[string]*MasteryCurve
	laneSlopes []*SlopeIteration
}

// Run executes the whole pipeline over one observation feed.
func (a *Analyzer) Run(version FeedVersion, raw []Observation, part Partition) (*Result, error) {
	observations, err := NormalizeFeed(version, raw)
	if err != nil {
		return nil, err
	}

	agg := a.cfg.Aggregate(observations)
	summary := buildSummary(agg)
	verifySummary(a.log, summary)

	a.log.Info("aggregated observation feed",
		"partition", part.Name,
		"observations", summary.TotalParticipants,
		"champions", summary.TotalUniqueChampions)

	// The broad profile's crossover target is the partition's empirical
	// average rather than a flat 50%.
	outputs := a.computeChampions(agg, summary.OverallWinRate)

	res := &Result{
		Filter:                part.Name,
		FilterDescription:     part.Description,
		Summary:               summary,
		MasteryDistribution:   a.cfg.buildDistribution(agg),
		OverallWinrate:        a.cfg.overallWinrateByBucket(agg),
		WinrateCurve:          a.cfg.overallWinrateCurve(agg),
		ChampionStats:         map[string]*ChampionStats{},
		BiasChampionStats:     map[string]*ChampionStats{},
		BroadChampionStats:    map[string]*ChampionStats{},
		MasteryCurves:         map[string]*MasteryCurve{},
		ChampionStatsByLane:   map[string]map[string]*ChampionStats{},
		MasteryCurvesByLane:   map[string]map[string]*MasteryCurve{},
	}

	for _, out := range outputs {
		res.ChampionStats[out.name] = out.stats
		res.BroadChampionStats[out.name] = out.broadStats
		res.GamesTo50Winrate = append(res.GamesTo50Winrate, out.threshold)
		res.BroadGamesToThreshold = append(res.BroadGamesToThreshold, out.broadThresh)
		if out.biasStats != nil {
			res.BiasChampionStats[out.name] = out.biasStats
		}
		if out.curve != nil {
			res.MasteryCurves[out.name] = out.curve
			res.SlopeIterations = append(res.SlopeIterations, out.slope)
		}
		if len(out.laneStats) > 0 {
			res.ChampionStatsByLane[out.name] = out.laneStats
		}
		if len(out.laneCurves) > 0 {
			res.MasteryCurvesByLane[out.name] = out.laneCurves
		}
		res.SlopeIterationsByLane = append(res.SlopeIterationsByLane, out.laneSlopes...)
	}

	res.LaneImpact = buildLaneImpact(res.ChampionStats)

	res.EasiestToLearn = rankByScore(res.ChampionStats, res.GamesTo50Winrate, learningScoreOf)
	res.BestToMaster = rankByScore(res.ChampionStats, nil, masteryScoreOf)
	res.BestInvestment = rankByScore(res.ChampionStats, nil, investmentScoreOf)

	res.BiasEasiestToLearn = rankByScore(res.BiasChampionStats, res.GamesTo50Winrate, learningScoreOf)
	res.BiasBestToMaster = rankByScore(res.BiasChampionStats, nil, masteryScoreOf)
	res.BiasBestInvestment = rankByScore(res.BiasChampionStats, nil, investmentScoreOf)

	res.BroadEasiestToLearn = rankByScore(res.BroadChampionStats, res.BroadGamesToThreshold, learningScoreOf)
	res.BroadBestToMaster = rankByScore(res.BroadChampionStats, nil, masteryScoreOf)

	sortThresholdResults(res.GamesTo50Winrate)
	sortThresholdResults(res.BroadGamesToThreshold)
	sortSlopeIterations(res.SlopeIterations)
	sortSlopeIterations(res.SlopeIterationsByLane)

	return res, nil
}

// computeChampions fans the per-champion work out over a worker pool and
// returns outputs in champion-name order. Workers only write their own
// slot, so the merge needs no locking.
func (a *Analyzer) computeChampions(agg *Aggregate, empiricalTarget float64) []*championOutput {
	names := agg.championNames()
	outputs := make([]*championOutput, len(names))

	workers := a.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(names) {
		workers = len(names)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outputs[i] = a.computeChampion(agg.Champions[names[i]], empiricalTarget)
			}
		}()
	}
	for i := range names {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outputs
}

// computeChampion derives every artifact for a single champion.
func (a *Analyzer) computeChampion(ca *ChampionAggregate, empiricalTarget float64) *championOutput {
	cfg := a.cfg
	lane := ca.PrimaryLane()

	out := &championOutput{
		name:        ca.Name,
		stats:       cfg.fixedBucketStats(ca),
		broadStats:  cfg.broadBucketStats(ca),
		threshold:   cfg.solveThreshold(ca, ca.Fine, lane, cfg.TargetWinRate),
		broadThresh: cfg.solveThreshold(ca, ca.Fine, lane, empiricalTarget),
		laneStats:   map[string]*ChampionStats{},
		laneCurves:  map[string]*MasteryCurve{},
	}

	out.biasStats = cfg.dynamicBucketStats(ca, out.threshold)

	out.curve = cfg.masteryCurve(ca.Fine, lane)
	if out.curve != nil {
		out.slope = cfg.slopeIteration(ca.Name, out.curve)
	}

	for laneName, fine := range ca.LaneFine {
		// A lane only gets its own stat block when its medium bucket
		// carries a real sample; tiny flex-play slices are omitted
		// entirely rather than zero-filled.
		merged := mergeFineCounts(fine, cfg.FineIntervals, cfg.Buckets)
		if merged[BucketMedium].Games >= cfg.MinSample {
			stats := cfg.bucketStats(merged, laneName)
			stats.MostCommonLane = ""
			out.laneStats[laneName] = stats
		}

		if curve := cfg.masteryCurve(fine, laneName); curve != nil {
			out.laneCurves[laneName] = curve
			// Per-lane rows report the lane itself as the most common
			// lane, not the champion's overall primary lane.
			slope := cfg.slopeIteration(ca.Name, curve)
			slope.Lane = laneName
			out.laneSlopes = append(out.laneSlopes, slope)
		}
	}

	return out
}
