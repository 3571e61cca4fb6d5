package store

import (
	"github.com/osirisarpit/Technorage/internal/models"
)

// Viewer identifies who is looking at the task list. Matching is by stable
// member id, never by display name.
type Viewer struct {
	MemberID string
	Role     models.Role
	Vertical models.Vertical
}

// ListOpen returns tasks open for self-assignment: unassigned or club-wide,
// regardless of status. Newest first.
func (s *TaskStore) ListOpen() ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.
		Where("assigned_to IS NULL OR vertical = ?", models.VerticalOverallClub).
		Order("created_at desc").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	s.decorateAll(tasks)
	return tasks, nil
}

// GroupedByVertical partitions the collection by vertical for the dashboard.
// Club-wide tasks are excluded; they only surface in the open view.
func (s *TaskStore) GroupedByVertical() (map[models.Vertical][]models.Task, error) {
	tasks, err := s.List()
	if err != nil {
		return nil, err
	}
	groups := make(map[models.Vertical][]models.Task, len(models.Verticals))
	for _, v := range models.Verticals {
		groups[v] = []models.Task{}
	}
	for _, t := range tasks {
		if t.Vertical == models.VerticalOverallClub {
			continue
		}
		groups[t.Vertical] = append(groups[t.Vertical], t)
	}
	return groups, nil
}

// VisibleTo returns the role-based task view: members see their own tasks
// plus open ones; leads see their whole vertical plus everything club-wide.
func (s *TaskStore) VisibleTo(v Viewer) ([]models.Task, error) {
	var tasks []models.Task
	q := s.db.Order("created_at desc")
	if v.Role == models.RoleLead {
		q = q.Where("vertical IN ?", []models.Vertical{v.Vertical, models.VerticalOverallClub})
	} else {
		q = q.Where(
			"assigned_to = ? OR assigned_to IS NULL OR vertical = ?",
			v.MemberID, models.VerticalOverallClub,
		)
	}
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	s.decorateAll(tasks)
	return tasks, nil
}

// MemberStats recounts a member's workload from the task table. Nothing here
// is stored on the member row, so the counters cannot drift.
func (s *TaskStore) MemberStats(m *models.Member) (models.MemberStats, error) {
	var stats models.MemberStats

	var active int64
	err := s.db.Model(&models.Task{}).
		Where("assigned_to = ? AND status <> ?", m.ID, models.StatusCompleted).
		Count(&active).Error
	if err != nil {
		return stats, err
	}

	var completed int64
	err = s.db.Model(&models.Task{}).
		Where("assigned_to = ? AND status = ?", m.ID, models.StatusCompleted).
		Count(&completed).Error
	if err != nil {
		return stats, err
	}

	stats.AssignedTasks = int(active)
	stats.CompletedTasks = int(completed)

	// Average rating over rated completed tasks; seed value until one exists
	type avgRow struct {
		Avg   float64
		Rated int64
	}
	var row avgRow
	err = s.db.Model(&models.Task{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as rated").
		Where("assigned_to = ? AND rating > 0", m.ID).
		Scan(&row).Error
	if err != nil {
		return stats, err
	}
	if row.Rated > 0 {
		stats.Rating = row.Avg
	} else {
		stats.Rating = m.SeedRating
	}

	return stats, nil
}

// StatusCounts returns the number of a member's tasks in each base status,
// for the dashboard stat cards.
func (s *TaskStore) StatusCounts(memberID string) (map[models.TaskStatus]int64, error) {
	type row struct {
		Status models.TaskStatus
		Count  int64
	}
	var rows []row
	err := s.db.Model(&models.Task{}).
		Select("status, COUNT(*) as count").
		Where("assigned_to = ?", memberID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[models.TaskStatus]int64{
		models.StatusAllocated:        0,
		models.StatusWorking:          0,
		models.StatusUnderReview:      0,
		models.StatusCompleted:        0,
		models.StatusRevisionRequired: 0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
