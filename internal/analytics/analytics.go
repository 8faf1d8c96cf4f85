// Package analytics aggregates idea counts by month and department.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/d9705996/ideaportal/internal/apperr"
	"github.com/d9705996/ideaportal/internal/cache"
	"github.com/d9705996/ideaportal/internal/metrics"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/d9705996/ideaportal/internal/store"
)

const keyPrefix = "analytics:"

// MonthPoint is one bucket of the monthly series.
type MonthPoint struct {
	Month       string `json:"month"` // YYYY-MM, UTC
	Submitted   int64  `json:"submitted"`
	Implemented int64  `json:"implemented"`
}

// Totals summarises ideas in scope.
type Totals struct {
	Total       int64 `json:"total"`
	Implemented int64 `json:"implemented"`
	SuccessRate int64 `json:"success_rate"`
}

// Report is the payload served by GET /analytics.
type Report struct {
	Department  model.Department        `json:"department,omitempty"`
	Monthly     []MonthPoint            `json:"monthly"`
	Departments []store.DepartmentCount `json:"departments"`
	Totals      Totals                  `json:"totals"`
}

// Service computes analytics and caches whole reports.
type Service struct {
	store *store.Store
	cache cache.Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New creates a Service. A nil cache disables caching.
func New(st *store.Store, c cache.Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{store: st, cache: c, ttl: ttl, log: log}
}

func checkDepartment(dept model.Department) error {
	if dept != "" && !dept.Valid() {
		return apperr.Validation("invalid department %q", dept)
	}
	return nil
}

// MonthlySeries counts submitted and implemented ideas per creation month,
// oldest month first. Months without ideas are omitted.
func (s *Service) MonthlySeries(ctx context.Context, dept model.Department) ([]MonthPoint, error) {
	if err := checkDepartment(dept); err != nil {
		return nil, err
	}
	stamps, err := s.store.IdeaStamps(ctx, dept)
	if err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}
	return bucketByMonth(stamps), nil
}

func bucketByMonth(stamps []store.IdeaStamp) []MonthPoint {
	out := []MonthPoint{}
	for _, st := range stamps {
		month := st.CreatedAt.UTC().Format("2006-01")
		if len(out) == 0 || out[len(out)-1].Month != month {
			out = append(out, MonthPoint{Month: month})
		}
		p := &out[len(out)-1]
		p.Submitted++
		if st.Status == model.StatusImplemented {
			p.Implemented++
		}
	}
	return out
}

// DepartmentBreakdown counts ideas per department.
func (s *Service) DepartmentBreakdown(ctx context.Context) ([]store.DepartmentCount, error) {
	out, err := s.store.CountIdeasByDepartment(ctx)
	if err != nil {
		return nil, fmt.Errorf("department breakdown: %w", err)
	}
	return out, nil
}

// Totals counts ideas in dept and how many were implemented.
func (s *Service) Totals(ctx context.Context, dept model.Department) (Totals, error) {
	if err := checkDepartment(dept); err != nil {
		return Totals{}, err
	}
	total, err := s.store.CountIdeas(ctx, dept, "")
	if err != nil {
		return Totals{}, fmt.Errorf("totals: %w", err)
	}
	implemented, err := s.store.CountIdeas(ctx, dept, model.StatusImplemented)
	if err != nil {
		return Totals{}, fmt.Errorf("totals: %w", err)
	}
	return Totals{Total: total, Implemented: implemented, SuccessRate: successRate(implemented, total)}, nil
}

// successRate is round(100*implemented/total), or 0 when total is 0.
func successRate(implemented, total int64) int64 {
	if total == 0 {
		return 0
	}
	return int64(math.Round(100 * float64(implemented) / float64(total)))
}

// Report assembles every aggregate for dept, served from cache when fresh.
func (s *Service) Report(ctx context.Context, dept model.Department) (*Report, error) {
	if err := checkDepartment(dept); err != nil {
		return nil, err
	}
	key := keyPrefix + string(dept)
	if dept == "" {
		key = keyPrefix + "all"
	}
	if r, ok := s.cached(ctx, key); ok {
		return r, nil
	}

	monthly, err := s.MonthlySeries(ctx, dept)
	if err != nil {
		return nil, err
	}
	departments, err := s.DepartmentBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.Totals(ctx, dept)
	if err != nil {
		return nil, err
	}
	r := &Report{Department: dept, Monthly: monthly, Departments: departments, Totals: totals}
	s.remember(ctx, key, r)
	return r, nil
}

func (s *Service) cached(ctx context.Context, key string) (*Report, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.WarnContext(ctx, "analytics cache read failed", "key", key, "error", err)
		metrics.AnalyticsCache("error")
		return nil, false
	}
	if !ok {
		metrics.AnalyticsCache("miss")
		return nil, false
	}
	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		s.log.WarnContext(ctx, "analytics cache entry corrupt", "key", key, "error", err)
		metrics.AnalyticsCache("error")
		return nil, false
	}
	metrics.AnalyticsCache("hit")
	return &r, true
}

func (s *Service) remember(ctx context.Context, key string, r *Report) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
		s.log.WarnContext(ctx, "analytics cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops every cached report. It has the shape of an idea change
// hook.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, keyPrefix); err != nil {
		s.log.WarnContext(ctx, "analytics cache invalidation failed", "error", err)
	}
}
