package v1alpha1

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	// GroupName is the API group for vbdctl resources.
	GroupName = "vbdctl.xenoserver.org"

	// Version is the API version.
	Version = "v1alpha1"

	// StateKind is the kind string of the state document.
	StateKind = "VbdState"
)

// APIVersion returns the full apiVersion string for this package.
func APIVersion() string {
	return GroupName + "/" + Version
}

// NewState creates an empty State with TypeMeta and ObjectMeta defaults.
func NewState(name string) *State {
	return &State{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion(),
			Kind:       StateKind,
		},
		ObjectMeta: ObjectMeta{
			Name:              name,
			UID:               uuid.New().String(),
			CreationTimestamp: Time{Time: time.Now()},
		},
	}
}

// SetDefaultAPIVersion fills in apiVersion and kind when they are missing.
func SetDefaultAPIVersion(s *State) {
	if s.APIVersion == "" {
		s.APIVersion = APIVersion()
	}
	if s.Kind == "" {
		s.Kind = StateKind
	}
}

// OverlayPartitions installs partition definitions that shadow same-named
// persisted partitions for the lifetime of this value. They are not saved.
func (s *State) OverlayPartitions(parts []Partition) {
	if len(parts) == 0 {
		return
	}
	if s.overlay == nil {
		s.overlay = make(map[string]Partition, len(parts))
	}
	for _, p := range parts {
		s.overlay[p.Name] = p
	}
}

// GetPartition looks up a partition by its exact resolved name.
func (s *State) GetPartition(name string) (Partition, bool) {
	if p, ok := s.overlay[name]; ok {
		return p, true
	}
	for _, p := range s.Partitions {
		if p.Name == name {
			return p, true
		}
	}
	return Partition{}, false
}

// AllPartitions returns the persisted partitions with overlay definitions
// applied, in persisted order followed by overlay-only names.
func (s *State) AllPartitions() []Partition {
	out := make([]Partition, 0, len(s.Partitions)+len(s.overlay))
	seen := make(map[string]bool, len(s.Partitions))
	for _, p := range s.Partitions {
		if o, ok := s.overlay[p.Name]; ok {
			p = o
		}
		seen[p.Name] = true
		out = append(out, p)
	}
	for name, p := range s.overlay {
		if !seen[name] {
			out = append(out, p)
		}
	}
	tail := out[len(s.Partitions):]
	sort.Slice(tail, func(i, j int) bool { return tail[i].Name < tail[j].Name })
	return out
}

// GetVirtualDisk looks up a virtual disk by key.
func (s *State) GetVirtualDisk(key string) (*VirtualDisk, bool) {
	for i := range s.VirtualDisks {
		if s.VirtualDisks[i].Key == key {
			return &s.VirtualDisks[i], true
		}
	}
	return nil, false
}

// AddVirtualDisk appends a virtual disk. The caller checks key uniqueness.
func (s *State) AddVirtualDisk(vd VirtualDisk) {
	s.VirtualDisks = append(s.VirtualDisks, vd)
}

// RemoveVirtualDisk deletes the virtual disk with the given key and
// reports whether it was present.
func (s *State) RemoveVirtualDisk(key string) bool {
	for i := range s.VirtualDisks {
		if s.VirtualDisks[i].Key == key {
			s.VirtualDisks = append(s.VirtualDisks[:i], s.VirtualDisks[i+1:]...)
			return true
		}
	}
	return false
}

// GetVBD looks up the binding for (domain, number).
func (s *State) GetVBD(domain, number int) (*VBD, bool) {
	for i := range s.VBDs {
		if s.VBDs[i].Domain == domain && s.VBDs[i].Number == number {
			return &s.VBDs[i], true
		}
	}
	return nil, false
}

// AddVBD appends a binding. The caller checks (domain, number) uniqueness.
func (s *State) AddVBD(v VBD) {
	s.VBDs = append(s.VBDs, v)
}

// RemoveVBD deletes the binding for (domain, number) and reports whether it
// was present.
func (s *State) RemoveVBD(domain, number int) bool {
	for i := range s.VBDs {
		if s.VBDs[i].Domain == domain && s.VBDs[i].Number == number {
			s.VBDs = append(s.VBDs[:i], s.VBDs[i+1:]...)
			return true
		}
	}
	return false
}

// VBDsForDomain returns the bindings of one domain.
func (s *State) VBDsForDomain(domain int) []VBD {
	var out []VBD
	for _, v := range s.VBDs {
		if v.Domain == domain {
			out = append(out, v)
		}
	}
	return out
}

// VBDsUsingDisk returns the bindings backed by the virtual disk key.
func (s *State) VBDsUsingDisk(key string) []VBD {
	var out []VBD
	for _, v := range s.VBDs {
		if v.VirtualDisk == key {
			out = append(out, v)
		}
	}
	return out
}

// DeepCopy creates a deep copy of the State, overlay included.
func (s *State) DeepCopy() *State {
	if s == nil {
		return nil
	}
	out := new(State)
	out.TypeMeta = s.TypeMeta
	out.ObjectMeta = *s.ObjectMeta.DeepCopy()
	if s.Partitions != nil {
		out.Partitions = append([]Partition(nil), s.Partitions...)
	}
	if s.VirtualDisks != nil {
		out.VirtualDisks = append([]VirtualDisk(nil), s.VirtualDisks...)
	}
	if s.VBDs != nil {
		out.VBDs = append([]VBD(nil), s.VBDs...)
	}
	if s.overlay != nil {
		out.overlay = make(map[string]Partition, len(s.overlay))
		for k, v := range s.overlay {
			out.overlay[k] = v
		}
	}
	return out
}
