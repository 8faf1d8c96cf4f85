package store

import (
	"context"
	"time"

	"github.com/d9705996/ideaportal/internal/model"
)

// IdeaStamp is the minimal projection used for time-bucketed aggregates.
type IdeaStamp struct {
	CreatedAt time.Time
	Status    model.Status
}

// DepartmentCount is one row of a GROUP BY department.
type DepartmentCount struct {
	Department model.Department `json:"department"`
	Count      int64            `json:"count"`
}

// IdeaStamps returns creation time and status of every idea, optionally
// restricted to a department, oldest first.
func (s *Store) IdeaStamps(ctx context.Context, dept model.Department) ([]IdeaStamp, error) {
	q := s.conn(ctx).Model(&model.Idea{}).Select("created_at, status")
	if dept != "" {
		q = q.Where("department = ?", dept)
	}
	out := []IdeaStamp{}
	if err := q.Order("created_at ASC").Scan(&out).Error; err != nil {
		return nil, translate(err, "idea stamps")
	}
	return out, nil
}

// CountIdeasByDepartment groups every idea by department.
func (s *Store) CountIdeasByDepartment(ctx context.Context) ([]DepartmentCount, error) {
	out := []DepartmentCount{}
	err := s.conn(ctx).Model(&model.Idea{}).
		Select("department, COUNT(*) AS count").
		Group("department").
		Order("department ASC").
		Scan(&out).Error
	if err != nil {
		return nil, translate(err, "department counts")
	}
	return out, nil
}

// CountIdeas counts ideas in dept (all when empty) and, when status is
// non-empty, with that status.
func (s *Store) CountIdeas(ctx context.Context, dept model.Department, status model.Status) (int64, error) {
	q := s.conn(ctx).Model(&model.Idea{})
	if dept != "" {
		q = q.Where("department = ?", dept)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, translate(err, "idea count")
	}
	return n, nil
}
