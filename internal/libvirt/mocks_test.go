package libvirt

import (
	"fmt"

	"github.com/digitalocean/go-libvirt"
)

// mockDomainLookup is a mock implementation of the domainLookup interface.
type mockDomainLookup struct {
	// domains maps ids to names; unknown ids fail.
	domains map[int32]string
	err     error

	// Call tracking
	lookupCalls []int32
}

func (m *mockDomainLookup) DomainLookupByID(id int32) (libvirt.Domain, error) {
	m.lookupCalls = append(m.lookupCalls, id)
	if m.err != nil {
		return libvirt.Domain{}, m.err
	}
	name, ok := m.domains[id]
	if !ok {
		return libvirt.Domain{}, fmt.Errorf("lookup of domain %d failed", id)
	}
	return libvirt.Domain{Name: name, ID: id}, nil
}
