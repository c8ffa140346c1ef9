package document

import "github.com/aalvaropc/munson/internal/domain"

// pool is the included resources of one response, indexed by identifier.
// Documents resolved from the same response share one pool.
type pool struct {
	resources []domain.Resource
	index     map[domain.ResourceIdentifier]int
}

func newPool(included []domain.Resource) *pool {
	p := &pool{
		resources: included,
		index:     make(map[domain.ResourceIdentifier]int, len(included)),
	}
	for i, r := range included {
		// First occurrence wins when a server repeats an identifier.
		if _, dup := p.index[r.Identifier()]; dup {
			continue
		}
		p.index[r.Identifier()] = i
	}
	return p
}

func (p *pool) find(ri domain.ResourceIdentifier) (domain.Resource, bool) {
	i, ok := p.index[ri]
	if !ok {
		return domain.Resource{}, false
	}
	return p.resources[i], true
}
