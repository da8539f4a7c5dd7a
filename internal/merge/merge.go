// Package merge reconciles the two extraction branches into one canonical
// candidate list: time-bucketed, title-similarity deduplicated, with
// deterministic provenance winning factual fields.
package merge

import (
	"log/slog"
	"sort"
	"time"

	"github.com/eventhint/eventhint/constants"
	"github.com/eventhint/eventhint/internal/event"
)

// Config exposes the dedup knobs. The source material fixes neither the
// similarity function nor the bucket edges, so both are tunable here
// rather than buried as magic constants.
type Config struct {
	// BucketWidth is the tolerance for start-time disagreement between
	// branches describing the same real event. Buckets are floor-aligned:
	// [t, t+width).
	BucketWidth time.Duration
	// TitleSimilarity is the minimum token-set Jaccard index for two
	// same-bucket events to count as one.
	TitleSimilarity float64
}

// Engine merges candidate lists. Stateless; safe for concurrent use.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if cfg.BucketWidth <= 0 {
		cfg.BucketWidth = 15 * time.Minute
	}
	if cfg.TitleSimilarity <= 0 {
		cfg.TitleSimilarity = 0.5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, logger: logger}
}

type indexed struct {
	event.Candidate
	idx int // position in the concatenated input, for stable ordering
}

// Merge concatenates both branches, groups same-bucket similar-title
// events, and reconciles each group onto a base record. Output preserves
// first-seen relative order from the concatenated input.
func (e *Engine) Merge(deterministic, llm []event.Candidate) []event.Candidate {
	all := make([]indexed, 0, len(deterministic)+len(llm))
	for _, c := range deterministic {
		all = append(all, indexed{Candidate: c, idx: len(all)})
	}
	for _, c := range llm {
		all = append(all, indexed{Candidate: c, idx: len(all)})
	}
	if len(all) <= 1 {
		out := make([]event.Candidate, len(all))
		for i, c := range all {
			out[i] = c.Candidate
		}
		return out
	}

	buckets := make(map[time.Time][]indexed)
	for _, c := range all {
		key := c.Start.UTC().Truncate(e.cfg.BucketWidth)
		buckets[key] = append(buckets[key], c)
	}

	var groups [][]indexed
	for _, bucket := range buckets {
		groups = append(groups, e.groupBucket(bucket)...)
	}

	// Stable output order: by the earliest input position in each group.
	sort.Slice(groups, func(i, j int) bool {
		return groups[i][0].idx < groups[j][0].idx
	})

	out := make([]event.Candidate, 0, len(groups))
	for _, g := range groups {
		out = append(out, e.reconcile(g))
	}

	e.logger.Info("merge.done",
		"in_deterministic", len(deterministic),
		"in_llm", len(llm),
		"out", len(out),
	)
	return out
}

// groupBucket partitions one bucket into similarity groups, greedily in
// input order so grouping is deterministic.
func (e *Engine) groupBucket(bucket []indexed) [][]indexed {
	sort.Slice(bucket, func(i, j int) bool { return bucket[i].idx < bucket[j].idx })

	var groups [][]indexed
	for _, c := range bucket {
		placed := false
		for gi, g := range groups {
			for _, member := range g {
				if TitleSimilarity(c.Title, member.Title) >= e.cfg.TitleSimilarity {
					groups[gi] = append(groups[gi], c)
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			groups = append(groups, []indexed{c})
		}
	}
	return groups
}

// reconcile collapses one similarity group onto a base record. The base
// keeps every field it has; absent or falsy fields are backfilled from
// the other members in input order. Labels union, reminders dedupe,
// notes append.
func (e *Engine) reconcile(g []indexed) event.Candidate {
	if len(g) == 1 {
		return g[0].Candidate
	}

	base := pickBase(g)
	merged := base.Candidate

	for _, other := range g {
		if other.idx == base.idx {
			continue
		}
		backfill(&merged, other.Candidate)
	}
	return merged
}

// pickBase prefers deterministic provenance, then more populated optional
// fields, then the first-encountered event.
func pickBase(g []indexed) indexed {
	best := g[0]
	for _, c := range g[1:] {
		if betterBase(c, best) {
			best = c
		}
	}
	return best
}

func betterBase(a, b indexed) bool {
	aDet := a.Source == constants.SourceDeterministic
	bDet := b.Source == constants.SourceDeterministic
	if aDet != bDet {
		return aDet
	}
	an, bn := a.CountPopulatedOptional(), b.CountPopulatedOptional()
	if an != bn {
		return an > bn
	}
	return a.idx < b.idx
}

func backfill(dst *event.Candidate, src event.Candidate) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.End == nil && src.End != nil {
		end := *src.End
		dst.End = &end
	}
	if dst.Location == "" {
		dst.Location = src.Location
	}
	if dst.OnlineURL == "" {
		dst.OnlineURL = src.OnlineURL
	}
	if dst.Recurrence == "" {
		dst.Recurrence = src.Recurrence
	}
	if len(dst.Attendees) == 0 && len(src.Attendees) > 0 {
		dst.Attendees = append([]event.Attendee(nil), src.Attendees...)
	}
	if dst.ExtractionConfidence == 0 {
		dst.ExtractionConfidence = src.ExtractionConfidence
	}

	// labels: union, stable order, first occurrence wins
	for _, l := range src.Labels {
		if !containsString(dst.Labels, l) {
			dst.Labels = append(dst.Labels, l)
		}
	}

	// reminders: same offset twice is one reminder
	for _, r := range src.Reminders {
		if !hasReminderOffset(dst.Reminders, r.MinutesBefore) {
			dst.Reminders = append(dst.Reminders, r)
		}
	}

	// notes: both branches may carry distinct context, keep both
	if src.Notes != "" && src.Notes != dst.Notes {
		if dst.Notes == "" {
			dst.Notes = src.Notes
		} else {
			dst.Notes = dst.Notes + "\n" + src.Notes
		}
	}
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func hasReminderOffset(list []event.Reminder, minutes int) bool {
	for _, r := range list {
		if r.MinutesBefore == minutes {
			return true
		}
	}
	return false
}
