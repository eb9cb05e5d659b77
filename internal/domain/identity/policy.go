package identity

import "sort"

// Role is an operator's job function
type Role string

const (
	RoleInventoryController Role = "inventory-controller"
	RolePurchasingOfficer   Role = "purchasing-officer"
	RoleKitchenStaff        Role = "kitchen-staff"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleInventoryController, RolePurchasingOfficer, RoleKitchenStaff:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Resource is a protected kind of data
type Resource string

const (
	ResourceInventory     Resource = "inventory"
	ResourcePurchaseOrder Resource = "purchase_order"
	ResourceSupplier      Resource = "supplier"
	ResourceMenu          Resource = "menu"
	ResourceBudget        Resource = "budget"
	ResourceActivityLog   Resource = "activity_log"
)

// Action is an operation on a resource
type Action string

const (
	ActionRead     Action = "read"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionDispatch Action = "dispatch"
	ActionReceive  Action = "receive"
	ActionConsume  Action = "consume"
	ActionEmail    Action = "email"
)

// Permission is a resource:action pair
type Permission struct {
	Resource Resource
	Action   Action
}

// Code returns "resource:action"
func (p Permission) Code() string {
	return string(p.Resource) + ":" + string(p.Action)
}

// Policy decides whether a role may perform an action on a resource
type Policy interface {
	Allows(role Role, action Action, resource Resource) bool
}

// RolePolicy is a static role-to-permission table
type RolePolicy struct {
	// wildcard roles may do anything
	wildcard map[Role]bool
	// readAll roles may read every resource
	readAll  map[Role]bool
	grants   map[Role]map[Permission]bool
}

// DefaultPolicy returns the hotel's role policy:
// inventory controllers may do everything; purchasing officers manage orders
// and suppliers, receive deliveries, send order email and read the rest;
// kitchen staff read inventory, consume stock and manage the menu.
func DefaultPolicy() *RolePolicy {
	p := &RolePolicy{
		wildcard: map[Role]bool{RoleInventoryController: true},
		readAll:  map[Role]bool{RolePurchasingOfficer: true},
		grants:   map[Role]map[Permission]bool{},
	}
	p.grant(RolePurchasingOfficer, ResourcePurchaseOrder, ActionCreate, ActionUpdate, ActionReceive, ActionEmail)
	p.grant(RolePurchasingOfficer, ResourceSupplier, ActionCreate, ActionUpdate)
	p.grant(RoleKitchenStaff, ResourceInventory, ActionRead, ActionConsume)
	p.grant(RoleKitchenStaff, ResourceMenu, ActionRead, ActionCreate, ActionUpdate, ActionDelete)
	return p
}

func (p *RolePolicy) grant(role Role, resource Resource, actions ...Action) {
	if p.grants[role] == nil {
		p.grants[role] = map[Permission]bool{}
	}
	for _, a := range actions {
		p.grants[role][Permission{Resource: resource, Action: a}] = true
	}
}

// Allows implements Policy
func (p *RolePolicy) Allows(role Role, action Action, resource Resource) bool {
	if !role.IsValid() {
		return false
	}
	if p.wildcard[role] {
		return true
	}
	if action == ActionRead && p.readAll[role] {
		return true
	}
	return p.grants[role][Permission{Resource: resource, Action: action}]
}

// Permissions lists the explicit grants of a role, for display
func (p *RolePolicy) Permissions(role Role) []string {
	if p.wildcard[role] {
		return []string{"*"}
	}
	var codes []string
	if p.readAll[role] {
		codes = append(codes, "*:read")
	}
	for perm := range p.grants[role] {
		codes = append(codes, perm.Code())
	}
	sort.Strings(codes)
	return codes
}
