package widget

import (
	"github.com/goccy/go-json"
	"github.com/krobus00/dashboard-service/internal/constant"
	"github.com/krobus00/dashboard-service/internal/entity"
	"github.com/krobus00/dashboard-service/internal/repository"
	"github.com/sirupsen/logrus"
)

// OrderStore persists the user's widget order in client-local storage.
// Storage failures never reach the caller.
type OrderStore struct {
	storage repository.LocalStorage
	catalog []entity.Widget
	key     string
}

func NewOrderStore(storage repository.LocalStorage, catalog []entity.Widget) *OrderStore {
	if catalog == nil {
		catalog = entity.DefaultWidgets
	}

	return &OrderStore{
		storage: storage,
		catalog: catalog,
		key:     constant.WidgetOrderStorageKey,
	}
}

func (s *OrderStore) Catalog() []entity.Widget {
	return cloneWidgets(s.catalog)
}

// Load returns the persisted order reconciled against the catalog, or the
// catalog order when nothing usable is stored.
func (s *OrderStore) Load() []entity.Widget {
	raw, ok, err := s.storage.Get(s.key)
	if err != nil {
		logrus.WithField("key", s.key).Debugf("widget order read failed, using defaults: %v", err)
		return cloneWidgets(s.catalog)
	}
	if !ok {
		return cloneWidgets(s.catalog)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		logrus.WithField("key", s.key).Debugf("widget order is corrupt, using defaults: %v", err)
		return cloneWidgets(s.catalog)
	}

	return Reconcile(ids, s.catalog)
}

func (s *OrderStore) Save(widgets []entity.Widget) {
	payload, err := json.Marshal(entity.WidgetIDs(widgets))
	if err != nil {
		logrus.Debugf("widget order encode failed: %v", err)
		return
	}

	if err := s.storage.Set(s.key, string(payload)); err != nil {
		logrus.WithField("key", s.key).Debugf("widget order write failed: %v", err)
	}
}

// Reorder moves movedID onto targetID's slot and persists the result.
// Invalid or cancelled drops return current unchanged and skip the save.
func (s *OrderStore) Reorder(current []entity.Widget, movedID, targetID string) []entity.Widget {
	next, moved := Move(current, movedID, targetID)
	if !moved {
		return current
	}

	s.Save(next)
	return next
}

// Reset drops any persisted order in favour of the catalog order.
func (s *OrderStore) Reset() []entity.Widget {
	widgets := cloneWidgets(s.catalog)
	s.Save(widgets)
	return widgets
}

// Reconcile keeps persisted ids that exist in the catalog, once each, and
// appends catalog widgets missing from ids in catalog order.
func Reconcile(ids []string, catalog []entity.Widget) []entity.Widget {
	byID := make(map[string]entity.Widget, len(catalog))
	for _, w := range catalog {
		byID[w.ID] = w
	}

	used := make(map[string]bool, len(catalog))
	out := make([]entity.Widget, 0, len(catalog))
	for _, id := range ids {
		w, ok := byID[id]
		if !ok || used[id] {
			continue
		}
		used[id] = true
		out = append(out, w)
	}

	for _, w := range catalog {
		if !used[w.ID] {
			used[w.ID] = true
			out = append(out, w)
		}
	}

	return out
}

// Move removes fromID and reinserts it at toID's index. The second return
// is false when nothing moved.
func Move(order []entity.Widget, fromID, toID string) ([]entity.Widget, bool) {
	if fromID == "" || toID == "" || fromID == toID {
		return order, false
	}

	oldIndex, newIndex := -1, -1
	for i, w := range order {
		switch w.ID {
		case fromID:
			oldIndex = i
		case toID:
			newIndex = i
		}
	}
	if oldIndex == -1 || newIndex == -1 {
		return order, false
	}

	moved := order[oldIndex]
	out := make([]entity.Widget, 0, len(order))
	out = append(out, order[:oldIndex]...)
	out = append(out, order[oldIndex+1:]...)

	out = append(out, entity.Widget{})
	copy(out[newIndex+1:], out[newIndex:])
	out[newIndex] = moved

	return out, true
}

func cloneWidgets(widgets []entity.Widget) []entity.Widget {
	out := make([]entity.Widget, len(widgets))
	copy(out, widgets)
	return out
}
