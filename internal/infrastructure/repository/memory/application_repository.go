package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/match-intake/internal/domain/application"
	"github.com/riskibarqy/match-intake/internal/domain/roster"
)

type ApplicationRepository struct {
	mu    sync.RWMutex
	items map[string]application.Application
}

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{items: make(map[string]application.Application)}
}

func (r *ApplicationRepository) GetByID(_ context.Context, id string) (application.Application, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.items[id]
	if !ok {
		return application.Application{}, false, nil
	}

	return cloneApplication(app), true, nil
}

func (r *ApplicationRepository) Upsert(_ context.Context, app application.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[app.ID] = cloneApplication(app)
	return nil
}

func (r *ApplicationRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

// ListUpdatedBefore returns ids of applications last updated before cutoff,
// oldest first.
func (r *ApplicationRepository) ListUpdatedBefore(_ context.Context, cutoff time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type stale struct {
		id        string
		updatedAt time.Time
	}
	items := make([]stale, 0)
	for id, app := range r.items {
		if app.UpdatedAt.Before(cutoff) {
			items = append(items, stale{id: id, updatedAt: app.UpdatedAt})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].updatedAt.Equal(items[j].updatedAt) {
			return items[i].id < items[j].id
		}
		return items[i].updatedAt.Before(items[j].updatedAt)
	})

	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.id)
	}
	return out, nil
}

func cloneApplication(a application.Application) application.Application {
	copied := a
	if a.Roster != nil {
		payload := roster.Payload{
			Formation:   a.Roster.Formation,
			Players:     append([]roster.PlayerRecord(nil), a.Roster.Players...),
			Substitutes: append([]roster.PlayerRecord(nil), a.Roster.Substitutes...),
		}
		copied.Roster = &payload
	}
	return copied
}
