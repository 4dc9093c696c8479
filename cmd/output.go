package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/adam-cli/internal/project"
	"github.com/KaramelBytes/adam-cli/internal/utils"
)

// projectView is the serialized form of a project in json/yaml output.
// Absent values render as null.
type projectView struct {
	UUID        string  `json:"uuid" yaml:"uuid"`
	Parent      *string `json:"parent" yaml:"parent"`
	Name        *string `json:"name" yaml:"name"`
	Description *string `json:"description" yaml:"description"`
}

func viewOf(p *project.Project) projectView {
	return projectView{
		UUID:        p.UUID(),
		Parent:      p.Parent(),
		Name:        p.Name(),
		Description: p.Description(),
	}
}

func writeProjects(w io.Writer, format string, ps []*project.Project) error {
	views := make([]projectView, 0, len(ps))
	for _, p := range ps {
		views = append(views, viewOf(p))
	}
	switch format {
	case "json":
		return writeJSON(w, views)
	case "yaml":
		return writeYAML(w, views)
	case "table", "":
		if len(views) == 0 {
			_, err := fmt.Fprintln(w, "(no projects)")
			return err
		}
		return writeTable(w, views)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func writeProject(w io.Writer, format string, p *project.Project) error {
	v := viewOf(p)
	switch format {
	case "json":
		return writeJSON(w, v)
	case "yaml":
		return writeYAML(w, v)
	case "table", "":
		return writeTable(w, []projectView{v})
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	return enc.Close()
}

func writeTable(w io.Writer, views []projectView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "UUID\tPARENT\tNAME\tDESCRIPTION")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.UUID, orDash(v.Parent), orDash(v.Name), orDash(v.Description))
	}
	return tw.Flush()
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
