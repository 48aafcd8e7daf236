// Package permissions implements the permission gate: a snapshot of the profile's
// permission set and pure capability checks against it.
package permissions

// Set is the permission document embedded in the upstream profile.
type Set struct {
	Raw       []string                   `json:"raw"`
	Resources map[string]map[string]bool `json:"resources"`
}

// Snapshot is an immutable, indexed copy of a Set. A nil Snapshot denies everything.
type Snapshot struct {
	raw       map[string]struct{}
	resources map[string]map[string]bool
}

func NewSnapshot(s Set) *Snapshot {
	snap := &Snapshot{
		raw:       make(map[string]struct{}, len(s.Raw)),
		resources: make(map[string]map[string]bool, len(s.Resources)),
	}
	for _, key := range s.Raw {
		snap.raw[key] = struct{}{}
	}
	for resource, actions := range s.Resources {
		copied := make(map[string]bool, len(actions))
		for action, allowed := range actions {
			copied[action] = allowed
		}
		snap.resources[resource] = copied
	}
	return snap
}

func (s *Snapshot) HasPermission(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.raw[key]
	return ok
}

func (s *Snapshot) Can(resource, action string) bool {
	if s == nil {
		return false
	}
	return s.resources[resource][action]
}

// Set returns a copy of the snapshot as a plain Set.
func (s *Snapshot) Set() Set {
	if s == nil {
		return Set{}
	}
	out := Set{
		Raw:       make([]string, 0, len(s.raw)),
		Resources: make(map[string]map[string]bool, len(s.resources)),
	}
	for key := range s.raw {
		out.Raw = append(out.Raw, key)
	}
	for resource, actions := range s.resources {
		copied := make(map[string]bool, len(actions))
		for action, allowed := range actions {
			copied[action] = allowed
		}
		out.Resources[resource] = copied
	}
	return out
}
