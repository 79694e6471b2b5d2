package actorstore

import (
	"context"
	"database/sql"
	"fmt"
	"topactors-backend/internal/actor"
	"topactors-backend/internal/assert"
	"topactors-backend/internal/db"
)

// Store persists actor records in the actors table.
type Store struct {
	qry *db.Queries
}

func New(database *sql.DB) Store {
	assert.NotNil(database, "database")
	return Store{qry: db.New(database)}
}

func (s Store) AnyActors(ctx context.Context) (bool, error) {
	exists, err := s.qry.AnyActor(ctx)
	if err != nil {
		return false, fmt.Errorf("check for actors: %w", err)
	}
	return exists != 0, nil
}

func (s Store) AddActor(ctx context.Context, record actor.Record) (actor.Record, error) {
	row, err := s.qry.AddActor(ctx, db.AddActorParams{
		ID:         record.ID,
		Name:       record.Name,
		Rank:       int64(record.Rank),
		Details:    record.Details,
		ImageUrl:   record.ImageURL,
		Source:     record.Source.String(),
		ExternalID: record.ExternalID,
	})
	if err != nil {
		return actor.Record{}, fmt.Errorf("add actor '%s': %w", record.Name, err)
	}
	return fromRow(row)
}

func (s Store) List(ctx context.Context) ([]actor.Record, error) {
	rows, err := s.qry.ListActors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list actors: %w", err)
	}
	records := make([]actor.Record, len(rows))
	for i, row := range rows {
		records[i], err = fromRow(row)
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s Store) Count(ctx context.Context) (int64, error) {
	count, err := s.qry.CountActors(ctx)
	if err != nil {
		return 0, fmt.Errorf("count actors: %w", err)
	}
	return count, nil
}

func fromRow(row db.Actor) (actor.Record, error) {
	source, err := actor.ParseSource(row.Source)
	if err != nil {
		return actor.Record{}, fmt.Errorf("actor '%s': %w", row.ID, err)
	}
	return actor.Record{
		ID:         row.ID,
		Name:       row.Name,
		Rank:       int(row.Rank),
		Details:    row.Details,
		Source:     source,
		ExternalID: row.ExternalID,
		ImageURL:   row.ImageUrl,
	}, nil
}
