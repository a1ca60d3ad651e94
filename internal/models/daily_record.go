package models

// DailyRecord accumulates active seconds for one calendar day, split by
// language and by file. The per-language and per-file sums need not add up
// to Seconds, since not every interval has a resolvable language or file.
type DailyRecord struct {
	Seconds   float64            `json:"seconds"`
	Languages map[string]float64 `json:"languages"`
	Files     map[string]float64 `json:"files"`
}

func NewDailyRecord() *DailyRecord {
	return &DailyRecord{
		Languages: make(map[string]float64),
		Files:     make(map[string]float64),
	}
}

func (d *DailyRecord) Clone() *DailyRecord {
	out := NewDailyRecord()
	out.Seconds = d.Seconds
	for k, v := range d.Languages {
		out.Languages[k] = v
	}
	for k, v := range d.Files {
		out.Files[k] = v
	}
	return out
}

// History maps ISO dates (YYYY-MM-DD, UTC) to daily records.
type History map[string]*DailyRecord

func (h History) Clone() History {
	out := make(History, len(h))
	for date, rec := range h {
		out[date] = rec.Clone()
	}
	return out
}

// TotalSeconds sums seconds over all days.
func (h History) TotalSeconds() float64 {
	var total float64
	for _, rec := range h {
		total += rec.Seconds
	}
	return total
}

// SecondsOn returns the seconds recorded for a single day, 0 if absent.
func (h History) SecondsOn(date string) float64 {
	if rec, ok := h[date]; ok {
		return rec.Seconds
	}
	return 0
}

// MergeHistory combines two histories additively: for every date in b the
// seconds, language and file buckets are summed into a's bucket. Duplicate
// records arise from genuine parallel tracking sessions, so time is always
// added, never replaced. The inputs are not mutated. The operation is
// commutative and associative per date/key.
func MergeHistory(a, b History) History {
	merged := a.Clone()
	for date, src := range b {
		dst, ok := merged[date]
		if !ok {
			dst = NewDailyRecord()
			merged[date] = dst
		}
		dst.Seconds += src.Seconds
		for lang, sec := range src.Languages {
			dst.Languages[lang] += sec
		}
		for file, sec := range src.Files {
			dst.Files[file] += sec
		}
	}
	return merged
}
