package domain

import "time"

// Capability names as they appear in route requirements and API payloads.
const (
	CapabilityRead   = "read"
	CapabilityWrite  = "write"
	CapabilityDelete = "delete"
	CapabilityAdmin  = "admin"
)

type Role struct {
	ID          string
	Name        string
	Description string
	Permission  Permission
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission is the flat capability set attached to a role. Exactly one set
// exists per role; there is no inheritance between roles.
type Permission struct {
	Read   bool
	Write  bool
	Delete bool
	Admin  bool
}

// Elevate applies the admin elevation rule: an admin role always holds the
// full capability set, so Read, Write and Delete are forced true whenever
// Admin is set. Non-admin flags pass through untouched; the rule never
// demotes. Role writers apply this before persisting, in the same
// transaction as the write.
func (p Permission) Elevate() Permission {
	if p.Admin {
		p.Read = true
		p.Write = true
		p.Delete = true
	}
	return p
}

// Granted returns the names of the capabilities the set holds, in the fixed
// read/write/delete/admin order. An all-false set returns nil and therefore
// never satisfies a permission requirement.
func (p Permission) Granted() []string {
	var names []string
	for _, name := range []string{CapabilityRead, CapabilityWrite, CapabilityDelete, CapabilityAdmin} {
		if p.Has(name) {
			names = append(names, name)
		}
	}
	return names
}

// Has reports whether the set holds the named capability. Unknown names are
// never held.
func (p Permission) Has(name string) bool {
	switch name {
	case CapabilityRead:
		return p.Read
	case CapabilityWrite:
		return p.Write
	case CapabilityDelete:
		return p.Delete
	case CapabilityAdmin:
		return p.Admin
	default:
		return false
	}
}
