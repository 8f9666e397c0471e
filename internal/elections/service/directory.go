package service

import (
	"context"

	"electorate/internal/elections/models"
	modservice "electorate/internal/moderation/service"
)

// Directory adapts the election store to the narrow read interface the
// moderation rules consume. Store sentinels pass through untranslated so
// the consumer can distinguish missing rows.
type Directory struct {
	store Store
}

func NewDirectory(store Store) *Directory {
	return &Directory{store: store}
}

func (d *Directory) Get(ctx context.Context, electionID string) (modservice.ElectionRef, error) {
	row, err := d.store.FindByID(ctx, electionID)
	if err != nil {
		return modservice.ElectionRef{}, err
	}
	return toRef(row), nil
}

func (d *Directory) Children(ctx context.Context, electionID string) ([]modservice.ElectionRef, error) {
	rows, err := d.store.Children(ctx, electionID)
	if err != nil {
		return nil, err
	}
	out := make([]modservice.ElectionRef, len(rows))
	for i, row := range rows {
		out[i] = toRef(row)
	}
	return out, nil
}

func toRef(e *models.Election) modservice.ElectionRef {
	return modservice.ElectionRef{
		ElectionID:   e.ElectionID,
		ElectionType: e.ElectionType,
		GroupType:    e.GroupType,
		GroupID:      e.GroupID,
	}
}
