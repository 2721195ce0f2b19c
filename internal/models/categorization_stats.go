package models

import (
	"sort"

	"fjacquet/ia-financiera/internal/logging"
)

// CategorizationStats tracks statistics for a run over many messages.
type CategorizationStats struct {
	Total      int            // Total number of messages processed
	Classified int            // Messages that produced a draft
	Rejected   int            // Messages rejected by the pipeline
	ByCategory map[string]int // Drafts per category
	ByReason   map[string]int // Rejections per reason code
}

// NewCategorizationStats returns empty statistics.
func NewCategorizationStats() CategorizationStats {
	return CategorizationStats{
		ByCategory: make(map[string]int),
		ByReason:   make(map[string]int),
	}
}

// RecordDraft counts a produced draft.
func (cs *CategorizationStats) RecordDraft(category string) {
	cs.ensureMaps()
	cs.Total++
	cs.Classified++
	cs.ByCategory[category]++
}

// RecordRejection counts a rejected message.
func (cs *CategorizationStats) RecordRejection(reason string) {
	cs.ensureMaps()
	cs.Total++
	cs.Rejected++
	cs.ByReason[reason]++
}

func (cs *CategorizationStats) ensureMaps() {
	if cs.ByCategory == nil {
		cs.ByCategory = make(map[string]int)
	}
	if cs.ByReason == nil {
		cs.ByReason = make(map[string]int)
	}
}

// GetSuccessRate returns the share of messages that produced a draft, in percent.
func (cs CategorizationStats) GetSuccessRate() float64 {
	if cs.Total == 0 {
		return 0
	}
	return float64(cs.Classified) / float64(cs.Total) * 100
}

// TopCategories returns category names ordered by draft count, then name.
func (cs CategorizationStats) TopCategories() []string {
	names := make([]string, 0, len(cs.ByCategory))
	for name := range cs.ByCategory {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if cs.ByCategory[names[i]] != cs.ByCategory[names[j]] {
			return cs.ByCategory[names[i]] > cs.ByCategory[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// LogSummary logs a summary of the run.
func (cs CategorizationStats) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}

	logger.Info("Classification summary",
		logging.Field{Key: "total_messages", Value: cs.Total},
		logging.Field{Key: "classified", Value: cs.Classified},
		logging.Field{Key: "rejected", Value: cs.Rejected},
		logging.Field{Key: "success_rate", Value: cs.GetSuccessRate()},
		logging.Field{Key: "rejections", Value: cs.ByReason},
	)
}
