package persistence

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hotel/backend/internal/domain/identity"
	"github.com/hotel/backend/internal/infrastructure/config"
)

// ConfigOperatorRepository implements identity.OperatorRepository over the
// operators declared in configuration. Usernames match case-insensitively.
type ConfigOperatorRepository struct {
	operators map[string]*identity.Operator
}

// NewConfigOperatorRepository validates every configured operator
func NewConfigOperatorRepository(cfgs []config.OperatorConfig) (*ConfigOperatorRepository, error) {
	ops := make(map[string]*identity.Operator, len(cfgs))
	for i, c := range cfgs {
		op, err := identity.NewOperator(c.Username, c.DisplayName, identity.Role(c.Role), c.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("operators[%d]: %w", i, err)
		}
		key := strings.ToLower(op.Username)
		if _, dup := ops[key]; dup {
			return nil, fmt.Errorf("operators[%d]: duplicate username %q", i, op.Username)
		}
		ops[key] = op
	}
	return &ConfigOperatorRepository{operators: ops}, nil
}

// FindByUsername returns the operator; nil, nil when absent
func (r *ConfigOperatorRepository) FindByUsername(_ context.Context, username string) (*identity.Operator, error) {
	op, ok := r.operators[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return nil, nil
	}
	cp := *op
	return &cp, nil
}

// FindAll returns every operator ordered by username
func (r *ConfigOperatorRepository) FindAll(_ context.Context) ([]*identity.Operator, error) {
	out := make([]*identity.Operator, 0, len(r.operators))
	for _, op := range r.operators {
		cp := *op
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

var _ identity.OperatorRepository = (*ConfigOperatorRepository)(nil)
