package testutil

import (
	"time"

	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/google/uuid"
)

// Category options
type CategoryOption func(*domain.Category)

func WithOrder(o int) CategoryOption {
	return func(c *domain.Category) {
		c.Order = o
	}
}

func WithColor(rgb int) CategoryOption {
	return func(c *domain.Category) {
		c.Color = rgb
	}
}

func WithDeleted() CategoryOption {
	return func(c *domain.Category) {
		c.Deleted = true
	}
}

func NewTestGroup(name string, opts ...CategoryOption) domain.Category {
	c := domain.Category{
		ID:      uuid.New().String(),
		IsGroup: true,
		Name:    name,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func NewTestType(name string, group domain.Category, opts ...CategoryOption) domain.Category {
	parent := group.ID
	c := domain.Category{
		ID:       uuid.New().String(),
		Name:     name,
		ParentID: &parent,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Interval options
type IntervalOption func(*domain.Interval)

func WithComment(text string) IntervalOption {
	return func(i *domain.Interval) {
		i.Comment = &text
	}
}

func WithID(id string) IntervalOption {
	return func(i *domain.Interval) {
		i.ID = id
	}
}

func NewTestInterval(typ domain.Category, from, to time.Time, opts ...IntervalOption) domain.Interval {
	i := domain.Interval{
		ID:         uuid.New().String(),
		TypeID:     typ.ID,
		From:       from.Unix(),
		To:         to.Unix(),
		ActivityID: uuid.New().String(),
	}
	for _, opt := range opts {
		opt(&i)
	}
	i.Normalize()
	return i
}
