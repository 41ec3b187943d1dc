package auscout

// DebugListTracks logs one line per track chain (the `list` debug
// command) and returns the number of tracks logged -- its reply
// carries no more semantic weight than a count.
func (ix *Index) DebugListTracks() int64 {
	for id, tc := range ix.idDict {
		ix.log.Info("track", "id", id, "entries", tc.length)
	}
	return ix.Count()
}

// DebugListHashes logs one line per posting list (the `index` debug
// command) and returns the number of distinct hash slots.
func (ix *Index) DebugListHashes() int64 {
	for h, pl := range ix.hashDict {
		ix.log.Info("posting", "hash", h, "entries", pl.length)
	}
	return int64(len(ix.hashDict))
}

// Config reports the compiled-in tuning constants, read-only.
type Config struct {
	LookupEntriesPerFrameLimit int
	LookupSteps                int
	LookupBlock                int
	DefaultThreshold           float64
	MaxTogglePopcount          int
}

func (ix *Index) Config() Config {
	return Config{
		LookupEntriesPerFrameLimit: LookupEntriesPerFrameLimit,
		LookupSteps:                LookupSteps,
		LookupBlock:                LookupBlock,
		DefaultThreshold:           ix.opts.Threshold,
		MaxTogglePopcount:          MaxTogglePopcount,
	}
}
