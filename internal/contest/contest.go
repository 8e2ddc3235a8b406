package contest

import (
	"strings"

	"github.com/shopspring/decimal"

	"replay/internal/scoring"
)

// Contest is the metadata of one contest.
type Contest struct {
	Slug          string `json:"contest_slug"`
	Name          string `json:"contest_name"`
	StartTimeUnix int64  `json:"start_time_unix"`
	EndTimeUnix   int64  `json:"end_time_unix"`
}

// HasWindow reports whether the contest has a usable [start, end) window.
func (c Contest) HasWindow() bool {
	return c.EndTimeUnix > c.StartTimeUnix
}

// Task is one task of a contest.
type Task struct {
	ContestSlug   string `json:"contest_slug"`
	TaskSlug      string `json:"task_slug"`
	Label         string `json:"label"`
	Name          string `json:"name"`
	TimeLimitSec  int    `json:"time_limit_sec"`
	MemoryLimitMB int    `json:"memory_limit_mb"`
}

// InvertedSlugs are contests known to rank a lower score higher.
var InvertedSlugs = []string{
	"ahc017",
	"ahc018",
	"toyota-hc-2023spring",
	"ahc019",
	"ahc025",
	"ahc027",
	"ahc030",
	"ahc031",
	"ahc033",
	"ahc036",
	"ahc038",
	"ahc040",
	"ahc045",
	"ahc048",
	"ahc051",
}

// FinalRescale maps a contest to the factor applied to each user's last
// submission per task, for contests whose final scores were published on a
// different scale than the live ones.
var FinalRescale = map[string]decimal.Decimal{
	"ahc001":              decimal.NewFromInt(50).Div(decimal.NewFromInt(1000)),
	"hokudai-hitachi2020": decimal.NewFromInt(16).Div(decimal.NewFromInt(200)),
}

// Registry decides the scoring mode of a contest by slug.
type Registry struct {
	inverted map[string]struct{}
}

// NewRegistry returns a registry of InvertedSlugs plus extra.
func NewRegistry(extra ...string) *Registry {
	r := &Registry{inverted: make(map[string]struct{}, len(InvertedSlugs)+len(extra))}
	for _, slug := range InvertedSlugs {
		r.inverted[slug] = struct{}{}
	}
	for _, slug := range extra {
		if slug = strings.TrimSpace(slug); slug != "" {
			r.inverted[slug] = struct{}{}
		}
	}
	return r
}

// ModeFor returns scoring.Inverted for registered slugs and scoring.Normal otherwise.
func (r *Registry) ModeFor(slug string) scoring.Mode {
	if _, ok := r.inverted[slug]; ok {
		return scoring.Inverted
	}
	return scoring.Normal
}

// Rescale returns the final-submission factor for slug, if any.
func Rescale(slug string) (decimal.Decimal, bool) {
	ratio, ok := FinalRescale[slug]
	return ratio, ok
}
