package domain

// SeedData describes the default roles and root account created the first
// time the service starts against an empty database.
type SeedData struct {
	RootUsername string
	RootName     string
	RootEmail    string
	RootPassword string
	RootRole     string
	Roles        []RoleDefinition
}

type RoleDefinition struct {
	Name        string
	Description string
	Permission  Permission
}

// DefaultSeed returns the stock role set and root admin account. The root
// password is expected to be overridden by configuration in real
// deployments.
func DefaultSeed() SeedData {
	return SeedData{
		RootUsername: "root",
		RootName:     "Root",
		RootEmail:    "root@localhost",
		RootPassword: "root",
		RootRole:     "Admin",
		Roles: []RoleDefinition{
			{
				Name:        "Admin",
				Description: "Full access",
				Permission:  Permission{Read: true, Write: true, Delete: true, Admin: true},
			},
			{
				Name:        "Editor",
				Description: "Can read, write and delete content",
				Permission:  Permission{Read: true, Write: true, Delete: true},
			},
			{
				Name:        "Viewer",
				Description: "Read-only access",
				Permission:  Permission{Read: true},
			},
		},
	}
}
