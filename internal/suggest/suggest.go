package suggest

import (
	"sort"
	"time"

	"github.com/osirisarpit/Technorage/internal/cache"
	"github.com/osirisarpit/Technorage/internal/models"
	"github.com/osirisarpit/Technorage/internal/store"

	"gorm.io/gorm"
)

// maxSuggestions caps the ranked list.
const maxSuggestions = 5

// cacheTTL keeps repeated dashboard refreshes from recounting workloads on
// every request. Short enough that a new assignment shows up quickly.
const cacheTTL = 30 * time.Second

// Suggestion is one ranked assignee candidate.
type Suggestion struct {
	Member models.MemberWithStats `json:"member"`
	Score  float64                `json:"score"`
}

// Ranker orders members by a workload/rating heuristic:
//
//	score = rating x 2 - activeAssignedTasks x 0.5
//
// It is a greedy shortlist, not a constraint solver; vertical match and
// deadline proximity are deliberately ignored. Ties break by member id
// ascending so the order is stable.
type Ranker struct {
	db    *gorm.DB
	tasks *store.TaskStore
	cache *cache.TTLCache[string, []Suggestion]
}

// NewRanker constructs a Ranker over the same DB the task store uses.
func NewRanker(db *gorm.DB, tasks *store.TaskStore) *Ranker {
	return &Ranker{
		db:    db,
		tasks: tasks,
		cache: cache.NewTTLCache[string, []Suggestion](),
	}
}

const cacheKey = "suggestions"

// Suggest returns the top candidates, best first. An empty roster yields an
// empty list, never an error.
func (r *Ranker) Suggest() ([]Suggestion, error) {
	if cached, ok := r.cache.Get(cacheKey); ok {
		return cached, nil
	}

	var members []models.Member
	if err := r.db.Order("id asc").Find(&members).Error; err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(members))
	for _, m := range members {
		stats, err := r.tasks.MemberStats(&m)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, Suggestion{
			Member: models.MemberWithStats{Member: m, MemberStats: stats},
			Score:  Score(stats.Rating, stats.AssignedTasks),
		})
	}

	// Stable sort over an id-ordered slice keeps ties deterministic by id
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	r.cache.Set(cacheKey, suggestions, cacheTTL)
	return suggestions, nil
}

// Invalidate drops the cached ranking, for callers that just mutated
// assignments and want the next read fresh.
func (r *Ranker) Invalidate() {
	r.cache.Delete(cacheKey)
}

// Score computes the suggestion heuristic for one member.
func Score(rating float64, assignedTasks int) float64 {
	return rating*2 - float64(assignedTasks)*0.5
}
