package project

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-hclog"
)

// EndpointPrefix is the path under which all project resources are addressed.
const EndpointPrefix = "/project"

// Transport performs the actual network I/O for Projects. Bodies are raw
// JSON; status codes are returned uninterpreted.
type Transport interface {
	Get(ctx context.Context, path string) (int, []byte, error)
	Post(ctx context.Context, path string, body any) (int, []byte, error)
	Delete(ctx context.Context, path string) (int, error)
}

// Projects manages projects on the remote service. It holds no state besides
// the transport it was given, so it is as safe for concurrent use as that
// transport is.
type Projects struct {
	rest   Transport
	logger hclog.Logger
}

// Option configures a Projects at construction.
type Option func(*Projects)

// WithLogger sets the logger used for debug output.
func WithLogger(l hclog.Logger) Option {
	return func(p *Projects) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns a Projects backed by the given transport.
func New(rest Transport, opts ...Option) *Projects {
	p := &Projects{rest: rest, logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// String describes the facade for debug output.
func (p *Projects) String() string { return "Projects module" }

type projectPayload struct {
	UUID        *string `json:"uuid"`
	Parent      *string `json:"parent"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type listPayload struct {
	Items *[]projectPayload `json:"items"`
}

type createRequest struct {
	Parent      *string `json:"parent"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type createResponse struct {
	UUID string `json:"uuid"`
}

// List returns the projects the caller has access to read, in server order.
func (p *Projects) List(ctx context.Context) ([]*Project, error) {
	code, body, err := p.rest.Get(ctx, EndpointPrefix)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if code != http.StatusOK {
		return nil, &ServerError{StatusCode: code, Body: body}
	}

	var payload listPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, malformed("list projects", err.Error())
	}
	if payload.Items == nil {
		return nil, malformed("list projects", `missing "items"`)
	}

	projects := make([]*Project, 0, len(*payload.Items))
	for i, item := range *payload.Items {
		if item.UUID == nil {
			return nil, malformed("list projects", fmt.Sprintf(`item %d: missing "uuid"`, i))
		}
		projects = append(projects, NewProject(*item.UUID, item.Parent, item.Name, item.Description))
	}
	p.logger.Debug("listed projects", "count", len(projects))
	return projects, nil
}

// ListSub returns the projects whose parent equals parent. A nil parent
// selects every root project.
//
// The filtering happens client-side over the full List result.
func (p *Projects) ListSub(ctx context.Context, parent *string) ([]*Project, error) {
	all, err := p.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Project
	for _, proj := range all {
		if sameOptional(proj.parent, parent) {
			out = append(out, proj)
		}
	}
	return out, nil
}

// Get fetches a single project. A project the server does not know about is
// reported as (nil, nil).
func (p *Projects) Get(ctx context.Context, uuid string) (*Project, error) {
	if uuid == "" {
		return nil, fmt.Errorf("get project: %w: project id is required", ErrInvalidArgument)
	}

	code, body, err := p.rest.Get(ctx, projectPath(uuid))
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", uuid, err)
	}
	switch code {
	case http.StatusOK:
	case http.StatusNotFound:
		p.logger.Debug("project not found", "uuid", uuid)
		return nil, nil
	default:
		return nil, &ServerError{StatusCode: code, Body: body}
	}

	var payload projectPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, malformed("get project", err.Error())
	}
	// The body may omit the uuid; the requested one is authoritative.
	return NewProject(uuid, payload.Parent, payload.Name, payload.Description), nil
}

// Create creates a new project and returns it with its server-assigned uuid.
// Any of parent, name and description may be nil.
func (p *Projects) Create(ctx context.Context, parent, name, description *string) (*Project, error) {
	req := createRequest{Parent: parent, Name: name, Description: description}
	code, body, err := p.rest.Post(ctx, EndpointPrefix, req)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	if code != http.StatusOK {
		return nil, &ServerError{StatusCode: code, Body: body}
	}

	var resp createResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, malformed("create project", err.Error())
	}
	if resp.UUID == "" {
		return nil, malformed("create project", `missing "uuid"`)
	}
	p.logger.Debug("created project", "uuid", resp.UUID)
	return NewProject(resp.UUID, parent, name, description), nil
}

// Delete removes a project. Only 204 counts as success; deleting a project
// that does not exist is an error.
func (p *Projects) Delete(ctx context.Context, uuid string) error {
	code, err := p.rest.Delete(ctx, projectPath(uuid))
	if err != nil {
		return fmt.Errorf("delete project %s: %w", uuid, err)
	}
	if code != http.StatusNoContent {
		return &ServerError{StatusCode: code}
	}
	p.logger.Debug("deleted project", "uuid", uuid)
	return nil
}

func projectPath(uuid string) string {
	return EndpointPrefix + "/" + url.PathEscape(uuid)
}
