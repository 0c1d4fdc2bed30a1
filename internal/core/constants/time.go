package constants

const (
	// Day key formatting
	DayKeyLayout = "2006-01-02"

	// Display and fetch windows
	DefaultDisplayDays     = 30
	DefaultFetchWindowDays = 90

	// Full-history trust heuristic
	FullHistoryLookbackDays = 365

	// Watch mode debounce
	WatchDebounceMillis = 500
)
