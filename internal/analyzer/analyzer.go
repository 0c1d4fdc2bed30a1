package analyzer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/kmowery/weightline/internal/core/constants"
	"github.com/kmowery/weightline/internal/core/daykey"
	"github.com/kmowery/weightline/internal/core/model"
	"github.com/kmowery/weightline/internal/core/timeline"
	"github.com/kmowery/weightline/internal/data/aggregator"
	"github.com/kmowery/weightline/internal/data/cache"
	"github.com/kmowery/weightline/internal/data/parser"
	"github.com/kmowery/weightline/internal/data/profile"
	"github.com/kmowery/weightline/internal/data/scanner"
	"github.com/kmowery/weightline/internal/presentation/formatter"
	"github.com/kmowery/weightline/internal/util"
)

type Config struct {
	DataDir         string
	CacheDir        string
	OutputFormat    string
	Timezone        string
	Date            string // requested display end day, empty means today
	DisplayDays     int
	FetchWindowDays int
	Concurrency     int
}

type Analyzer struct {
	config  *Config
	cache   cache.Cache
	scanner *scanner.FileScanner
	parser  *parser.Parser
	builder *timeline.Builder
	nowFn   func() time.Time
}

func New(config *Config) *Analyzer {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}
	if config.DisplayDays == 0 {
		config.DisplayDays = constants.DefaultDisplayDays
	}
	if config.FetchWindowDays == 0 {
		config.FetchWindowDays = constants.DefaultFetchWindowDays
	}
	// The fetch window seeds carry-forward for the display window's first
	// days, so it can never be the shorter of the two.
	if config.FetchWindowDays < config.DisplayDays {
		config.FetchWindowDays = config.DisplayDays
	}

	fileCache, _ := cache.NewFileCache(config.CacheDir)

	return &Analyzer{
		config:  config,
		cache:   fileCache,
		scanner: scanner.NewFileScanner(config.DataDir),
		parser:  parser.NewParser(config.Concurrency),
		builder: timeline.NewBuilder(config.Timezone),
		nowFn:   time.Now,
	}
}

func (a *Analyzer) Run() error {
	report, err := a.BuildReport()
	if err != nil {
		return err
	}
	return formatter.New(a.config.OutputFormat).Format(report)
}

// BuildReport runs every phase up to formatting and returns the result,
// so watch mode and tests can consume the report directly.
func (a *Analyzer) BuildReport() (*formatter.Report, error) {
	startTime := time.Now()
	util.LogInfo("Starting weight timeline analysis...")

	// Phase 1: Preload cache into memory
	preloadStart := time.Now()
	if err := a.cache.Preload(); err != nil {
		util.LogWarn(fmt.Sprintf("Cache preload failed: %v", err))
	}
	preloadDuration := time.Since(preloadStart)
	util.LogDebug(fmt.Sprintf("Phase 1 - Cache preload duration: %v", preloadDuration))

	// Phase 2: Scan measurement files
	scanStart := time.Now()
	files, err := a.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan files: %w", err)
	}
	scanDuration := time.Since(scanStart)
	util.LogDebug(fmt.Sprintf("Phase 2 - File scan duration: %v, found %d files", scanDuration, len(files)))

	if len(files) == 0 {
		util.LogWarn("No measurement files found; rendering an empty timeline")
	}

	// Phase 3: Load the account profile
	prof, err := profile.Load(a.config.DataDir)
	if err != nil {
		util.LogWarn(fmt.Sprintf("Profile unusable, falling back to no-history boundary: %v", err))
		prof = nil
	}

	// Phase 4: Collect per-file day aggregates, via cache where valid
	parseStart := time.Now()
	dayGroups, stats, err := a.collectDayGroups(files)
	if err != nil {
		return nil, err
	}
	stats.PrintFinalStats()
	parseDuration := time.Since(parseStart)
	util.LogDebug(fmt.Sprintf("Phase 4 - Aggregation duration: %v, %d file groups", parseDuration, len(dayGroups)))

	// Phase 5: Merge across files
	mergeStart := time.Now()
	days := aggregator.MergeDays(dayGroups...)
	mergeDuration := time.Since(mergeStart)
	util.LogDebug(fmt.Sprintf("Phase 5 - Merge duration: %v, %d distinct days", mergeDuration, len(days)))

	// Phase 6: Resolve boundaries and derive the timeline
	report := a.deriveReport(prof, days)

	totalDuration := time.Since(startTime)
	util.LogDebug(fmt.Sprintf("Total duration: %v (preload:%v scan:%v aggregate:%v merge:%v)",
		totalDuration, preloadDuration, scanDuration, parseDuration, mergeDuration))

	return report, nil
}

func (a *Analyzer) collectDayGroups(files []string) ([][]aggregator.DayData, *CacheStats, error) {
	stats := NewCacheStats()
	var dayGroups [][]aggregator.DayData

	sourceIDMap := make(map[string]string, len(files))
	sourceIDs := make([]string, 0, len(files))
	for _, file := range files {
		sourceID := aggregator.ExtractSourceID(file)
		sourceIDMap[file] = sourceID
		sourceIDs = append(sourceIDs, sourceID)
	}

	validCache := a.cache.BatchValidate(sourceIDs)

	var filesToParse []string
	fileMissReasons := make(map[string]cache.MissReason)

	for _, file := range files {
		sourceID := sourceIDMap[file]
		validateResult := validCache[sourceID]
		if validateResult.Valid {
			cacheResult := a.cache.Get(sourceID)
			if cacheResult.Found && cacheResult.Data != nil {
				stats.IncrementHit()
				dayGroups = append(dayGroups, cacheResult.Data.Days)
			}
			stats.IncrementTotal()
		} else {
			filesToParse = append(filesToParse, file)
			fileMissReasons[file] = validateResult.MissReason
		}
	}

	util.LogDebug(fmt.Sprintf("Cache hit for %d files, need to parse %d files",
		len(files)-len(filesToParse), len(filesToParse)))

	if len(filesToParse) == 0 {
		return dayGroups, stats, nil
	}

	parseResults := a.parser.ParseFiles(filesToParse)

	for result := range parseResults {
		stats.IncrementTotal()

		if result.Error != nil {
			stats.IncrementFailure()
			util.LogWarn(fmt.Sprintf("Failed to parse file %s: %v", result.File, result.Error))
			continue
		}

		sourceID := sourceIDMap[result.File]
		stats.IncrementMiss(result.File, fileMissReasons[result.File])

		days := aggregator.AggregateByDay(result.Measurements, a.builder.Location())

		aggregated := &aggregator.AggregatedFile{
			FilePath: result.File,
			SourceID: sourceID,
			Days:     days,
		}

		if err := a.cache.Set(sourceID, aggregated); err != nil {
			util.LogWarn(fmt.Sprintf("Failed to save cache for %s: %v", result.File, err))
		}

		dayGroups = append(dayGroups, days)
	}

	return dayGroups, stats, nil
}

func (a *Analyzer) deriveReport(prof *model.Profile, days []aggregator.DayData) *formatter.Report {
	loc := a.builder.Location()
	today := daykey.FromTime(a.nowFn(), loc)

	var signupAt *time.Time
	userID := ""
	if prof != nil {
		userID = prof.UserID
		if prof.SignupAt.Valid {
			t := prof.SignupAt.Time()
			signupAt = &t
		}
	}

	minDateKey := timeline.ResolveMinDateKey(signupAt, today, loc)

	displayEnd := today
	if a.config.Date != "" {
		requested := daykey.DayKey(a.config.Date)
		if daykey.IsValid(requested) {
			displayEnd = timeline.ClampDisplayEnd(requested, minDateKey, today)
		} else {
			util.LogWarn(fmt.Sprintf("Ignoring malformed date %q, using today", a.config.Date))
		}
	}

	trustFullHistory := a.trustFullHistory(signupAt, today)

	entries := a.builder.BuildFromDays(days, timeline.Options{
		DisplayEnd:       displayEnd,
		DisplayDays:      a.config.DisplayDays,
		FetchWindowDays:  a.config.FetchWindowDays,
		MinDateKey:       minDateKey,
		TrustFullHistory: trustFullHistory,
	})

	util.LogDebug(fmt.Sprintf("Timeline derived: end=%s days=%d min=%s fullHistory=%t entries=%d",
		displayEnd, a.config.DisplayDays, minDateKey, trustFullHistory, len(entries)))

	return &formatter.Report{
		UserID:      userID,
		Timezone:    loc.String(),
		DisplayEnd:  string(displayEnd),
		MinDateKey:  string(minDateKey),
		FullHistory: trustFullHistory,
		Rows:        toRows(entries),
	}
}

// trustFullHistory judges whether the fetchable window plausibly covers
// the account's entire history: the signup day must be known and fall
// inside the maximum lookback. A heuristic, not a guarantee; accounts
// signed up just beyond the lookback lose the stricter pre-first-entry
// hiding rather than losing real days.
func (a *Analyzer) trustFullHistory(signupAt *time.Time, today daykey.DayKey) bool {
	if signupAt == nil {
		return false
	}
	lookbackStart := daykey.AddDays(today, -(constants.FullHistoryLookbackDays - 1), a.builder.Location())
	return daykey.FromTime(*signupAt, a.builder.Location()) >= lookbackStart
}

func toRows(entries []timeline.Entry) []formatter.Row {
	rows := make([]formatter.Row, 0, len(entries))
	for _, e := range entries {
		source := formatter.SourceNone
		switch {
		case e.HasEntry:
			source = formatter.SourceMeasured
		case e.CarriedForward:
			source = formatter.SourceCarried
		}
		rows = append(rows, formatter.Row{
			Date:     string(e.Date),
			Weight:   e.Value,
			BodyFat:  e.SecondaryValue,
			Source:   source,
			Entries:  e.EntryCount,
			RecordID: e.SourceRecordID,
		})
	}
	return rows
}
