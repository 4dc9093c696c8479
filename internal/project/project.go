package project

// Project is a remote project as seen by this client. The uuid is assigned by
// the server; parent, name and description are optional and nil when absent.
type Project struct {
	uuid        string
	parent      *string
	name        *string
	description *string
}

// NewProject constructs an in-memory project. Optional values are copied.
func NewProject(uuid string, parent, name, description *string) *Project {
	return &Project{
		uuid:        uuid,
		parent:      clone(parent),
		name:        clone(name),
		description: clone(description),
	}
}

// String returns a pointer to s, for building optional values.
func String(s string) *string { return &s }

// Value dereferences an optional value, returning "" when absent.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// UUID returns the server-assigned identifier.
func (p *Project) UUID() string { return p.uuid }

// Parent returns the uuid of the parent project, or nil for a root project.
// The reference is never resolved; use Projects.Get for that.
func (p *Project) Parent() *string { return clone(p.parent) }

// Name returns the project name, or nil when absent.
func (p *Project) Name() *string { return clone(p.name) }

// Description returns the project description, or nil when absent.
func (p *Project) Description() *string { return clone(p.description) }

// String identifies the project by uuid for debug output.
func (p *Project) String() string { return "Project " + p.uuid }

func clone(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func sameOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
