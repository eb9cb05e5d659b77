package menu

import (
	"strings"
	"time"

	"github.com/hotel/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeMenuItem = "menu_item"

// Event type constants
const (
	EventTypeMenuItemCreated         = "MenuItemCreated"
	EventTypeMenuItemUpdated         = "MenuItemUpdated"
	EventTypeMenuItemDeleted         = "MenuItemDeleted"
	EventTypeMenuAvailabilityChanged = "MenuAvailabilityChanged"
)

// MenuItemEvent is raised on menu item create, update and delete
type MenuItemEvent struct {
	shared.BaseDomainEvent
	Name   string `json:"name"`
	action string
	verb   string
}

// ActivityAction implements shared.AuditedEvent
func (e *MenuItemEvent) ActivityAction() string { return e.action }

// Describe implements shared.DescribedEvent
func (e *MenuItemEvent) Describe() string {
	return e.verb + " menu item " + e.Name
}

// NewMenuItemCreatedEvent creates a MenuItemCreated event
func NewMenuItemCreatedEvent(m *MenuItem, actor shared.Actor, now time.Time) *MenuItemEvent {
	return &MenuItemEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMenuItemCreated, AggregateTypeMenuItem, m.ID, actor, now),
		Name:            m.Name,
		action:          shared.ActionCreate,
		verb:            "Created",
	}
}

// NewMenuItemUpdatedEvent creates a MenuItemUpdated event
func NewMenuItemUpdatedEvent(m *MenuItem, actor shared.Actor, now time.Time) *MenuItemEvent {
	return &MenuItemEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMenuItemUpdated, AggregateTypeMenuItem, m.ID, actor, now),
		Name:            m.Name,
		action:          shared.ActionUpdate,
		verb:            "Updated",
	}
}

// NewMenuItemDeletedEvent creates a MenuItemDeleted event
func NewMenuItemDeletedEvent(m *MenuItem, actor shared.Actor, now time.Time) *MenuItemEvent {
	return &MenuItemEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMenuItemDeleted, AggregateTypeMenuItem, m.ID, actor, now),
		Name:            m.Name,
		action:          shared.ActionDelete,
		verb:            "Deleted",
	}
}

// MenuAvailabilityChangedEvent is raised when a dish becomes (un)available
type MenuAvailabilityChangedEvent struct {
	shared.BaseDomainEvent
	Name      string   `json:"name"`
	Available bool     `json:"available"`
	Missing   []string `json:"missing,omitempty"`
}

// NewMenuAvailabilityChangedEvent creates a MenuAvailabilityChanged event
func NewMenuAvailabilityChangedEvent(m *MenuItem, a Availability, actor shared.Actor, now time.Time) *MenuAvailabilityChangedEvent {
	var missing []string
	for _, s := range a.Shortages {
		if s.IsCritical {
			missing = append(missing, s.IngredientName)
		}
	}
	return &MenuAvailabilityChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMenuAvailabilityChanged, AggregateTypeMenuItem, m.ID, actor, now),
		Name:            m.Name,
		Available:       a.Available,
		Missing:         missing,
	}
}

// ActivityAction implements shared.AuditedEvent
func (e *MenuAvailabilityChangedEvent) ActivityAction() string { return shared.ActionStatusChange }

// Describe implements shared.DescribedEvent
func (e *MenuAvailabilityChangedEvent) Describe() string {
	if e.Available {
		return e.Name + " is available again"
	}
	return e.Name + " is unavailable, short of " + strings.Join(e.Missing, ", ")
}
