package resource

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyResourceName   = errors.New("resource name cannot be empty")
	ErrResourceNameTooLong = errors.New("resource name is too long (max 255 characters)")
	ErrInvalidCapacity     = errors.New("capacity must be positive")
)

const (
	MaxResourceNameLength = 255
)

// Resource is a bookable entity with a single exclusive timeline. Capacity
// and feature tags are informational only; the catalog itself is owned by an
// external collaborator.
type Resource struct {
	id       uuid.UUID
	name     string
	capacity int
	tags     []string
}

func NewResource(id uuid.UUID, name string, capacity int, tags []string) (*Resource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return nil, ErrResourceNameTooLong
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Resource{
		id:       id,
		name:     name,
		capacity: capacity,
		tags:     tags,
	}, nil
}

func (r *Resource) ID() uuid.UUID  { return r.id }
func (r *Resource) Name() string   { return r.name }
func (r *Resource) Capacity() int  { return r.capacity }
func (r *Resource) Tags() []string { return r.tags }
