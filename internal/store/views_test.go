package store

import (
	"testing"

	"github.com/osirisarpit/Technorage/internal/models"

	"github.com/stretchr/testify/require"
)

func TestListOpen(t *testing.T) {
	s, _ := newTestStore(t)

	unassigned := mustCreate(t, s, "unassigned", models.VerticalTech)
	clubWide := mustCreate(t, s, "club-wide", models.VerticalOverallClub)
	assigned := mustCreate(t, s, "assigned", models.VerticalTech)
	_, err := s.Assign(assigned.ID, "usr-2", "Riya Sharma")
	require.NoError(t, err)

	// Assigned club-wide tasks stay open
	clubAssigned := mustCreate(t, s, "club-assigned", models.VerticalOverallClub)
	_, err = s.Assign(clubAssigned.ID, "usr-2", "Riya Sharma")
	require.NoError(t, err)

	open, err := s.ListOpen()
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, task := range open {
		ids[task.ID] = true
	}
	require.True(t, ids[unassigned.ID])
	require.True(t, ids[clubWide.ID])
	require.True(t, ids[clubAssigned.ID])
	require.False(t, ids[assigned.ID])
}

func TestGroupedByVertical(t *testing.T) {
	s, _ := newTestStore(t)

	design := mustCreate(t, s, "design task", models.VerticalDesign)
	tech := mustCreate(t, s, "tech task", models.VerticalTech)
	mustCreate(t, s, "club task", models.VerticalOverallClub)

	groups, err := s.GroupedByVertical()
	require.NoError(t, err)

	require.Len(t, groups[models.VerticalDesign], 1)
	require.Equal(t, design.ID, groups[models.VerticalDesign][0].ID)
	require.Len(t, groups[models.VerticalTech], 1)
	require.Equal(t, tech.ID, groups[models.VerticalTech][0].ID)

	// Club-wide tasks never appear in per-vertical groups
	_, present := groups[models.VerticalOverallClub]
	require.False(t, present)
	require.Empty(t, groups[models.VerticalMarketing])
}

func TestVisibleTo_Member(t *testing.T) {
	s, _ := newTestStore(t)

	mine := mustCreate(t, s, "mine", models.VerticalTech)
	_, err := s.Assign(mine.ID, "usr-2", "Riya Sharma")
	require.NoError(t, err)

	open := mustCreate(t, s, "open", models.VerticalDesign)
	club := mustCreate(t, s, "club", models.VerticalOverallClub)

	theirs := mustCreate(t, s, "theirs", models.VerticalDesign)
	_, err = s.Assign(theirs.ID, "usr-1", "Riya Sharma")
	require.NoError(t, err)

	tasks, err := s.VisibleTo(Viewer{MemberID: "usr-2", Role: models.RoleMember, Vertical: models.VerticalTech})
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, task := range tasks {
		ids[task.ID] = true
	}
	require.True(t, ids[mine.ID])
	require.True(t, ids[open.ID])
	require.True(t, ids[club.ID])
	require.False(t, ids[theirs.ID])
}

func TestVisibleTo_Lead(t *testing.T) {
	s, _ := newTestStore(t)

	design := mustCreate(t, s, "design", models.VerticalDesign)
	club := mustCreate(t, s, "club", models.VerticalOverallClub)
	tech := mustCreate(t, s, "tech", models.VerticalTech)

	tasks, err := s.VisibleTo(Viewer{MemberID: "usr-1", Role: models.RoleLead, Vertical: models.VerticalDesign})
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, task := range tasks {
		ids[task.ID] = true
	}
	require.True(t, ids[design.ID])
	require.True(t, ids[club.ID])
	require.False(t, ids[tech.ID])
}

func TestMemberStats_DerivedFromTasks(t *testing.T) {
	s, db := newTestStore(t)

	var member models.Member
	require.NoError(t, db.Where("id = ?", "usr-2").First(&member).Error)

	// No tasks yet: counters zero, rating falls back to the seed
	stats, err := s.MemberStats(&member)
	require.NoError(t, err)
	require.Equal(t, 0, stats.AssignedTasks)
	require.Equal(t, 0, stats.CompletedTasks)
	require.Equal(t, 4.9, stats.Rating)

	active := mustCreate(t, s, "active", models.VerticalTech)
	_, err = s.Assign(active.ID, "usr-2", "Riya Sharma")
	require.NoError(t, err)

	done := mustCreate(t, s, "done", models.VerticalTech)
	_, err = s.Assign(done.ID, "usr-2", "Riya Sharma")
	require.NoError(t, err)
	_, err = s.Submit(done.ID, "Priya Verma")
	require.NoError(t, err)
	_, err = s.Approve(done.ID, 4, "", "Riya Sharma")
	require.NoError(t, err)

	stats, err = s.MemberStats(&member)
	require.NoError(t, err)
	require.Equal(t, 1, stats.AssignedTasks)
	require.Equal(t, 1, stats.CompletedTasks)
	require.Equal(t, 4.0, stats.Rating) // real ratings replace the seed
}

func TestStatusCounts(t *testing.T) {
	s, _ := newTestStore(t)

	first := mustCreate(t, s, "first", models.VerticalTech)
	_, err := s.Assign(first.ID, "usr-2", "Riya Sharma")
	require.NoError(t, err)

	second := mustCreate(t, s, "second", models.VerticalTech)
	_, err = s.Assign(second.ID, "usr-2", "Riya Sharma")
	require.NoError(t, err)
	_, err = s.Submit(second.ID, "Priya Verma")
	require.NoError(t, err)

	counts, err := s.StatusCounts("usr-2")
	require.NoError(t, err)
	require.Equal(t, int64(1), counts[models.StatusWorking])
	require.Equal(t, int64(1), counts[models.StatusUnderReview])
	require.Equal(t, int64(0), counts[models.StatusCompleted])
}
