package student

import (
	"context"
	"fmt"
)

// Service holds the students business logic. It works on raw ids only.
type Service struct {
	store *Store
}

// NewService creates a service over store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// List returns every student.
func (s *Service) List(ctx context.Context) ([]Entity, error) {
	return s.store.List(ctx)
}

// Get returns the student with id or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Entity, error) {
	if id <= 0 {
		return Entity{}, ErrNotFound
	}
	return s.store.Get(ctx, id)
}

// Create assigns an id to e and stores it.
func (s *Service) Create(ctx context.Context, e Entity) (Entity, error) {
	if err := e.Validate(); err != nil {
		return Entity{}, err
	}
	id, err := s.store.NextID()
	if err != nil {
		return Entity{}, err
	}
	e.ID = id
	if err := s.store.Put(ctx, e); err != nil {
		return Entity{}, fmt.Errorf("create student: %w", err)
	}
	return e, nil
}

// Seed creates each entity in order and returns the stored copies.
func (s *Service) Seed(ctx context.Context, entities ...Entity) ([]Entity, error) {
	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		created, err := s.Create(ctx, e)
		if err != nil {
			return out, err
		}
		out = append(out, created)
	}
	return out, nil
}

// SampleStudents is the data loaded by the seed option.
func SampleStudents() []Entity {
	return []Entity{
		{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.edu", AdvisorID: 1},
		{FirstName: "Alan", LastName: "Turing", Email: "alan@example.edu", AdvisorID: 2},
		{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.edu"},
	}
}
