package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/aalvaropc/munson/internal/document"
	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/usecase"
)

type theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Key      lipgloss.Style
	OK       lipgloss.Style
	Fail     lipgloss.Style
	Card     lipgloss.Style
}

func defaultTheme() theme {
	return theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Key:      lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		OK:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Fail:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
	}
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// documentView is the printable form of a document.
type documentView struct {
	Type          string         `json:"type"`
	ID            string         `json:"id,omitempty"`
	Attributes    map[string]any `json:"attributes"`
	Relationships []string       `json:"relationships,omitempty"`
	Links         map[string]any `json:"links,omitempty"`
	Meta          map[string]any `json:"meta,omitempty"`
}

func viewOf(d *document.Document) documentView {
	return documentView{
		Type:          d.Type(),
		ID:            d.ID(),
		Attributes:    d.Attributes(),
		Relationships: d.RelationshipNames(),
		Links:         d.Links(),
		Meta:          d.Meta(),
	}
}

func viewsOf(docs []*document.Document) []documentView {
	out := make([]documentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, viewOf(d))
	}
	return out
}

func checkFormat(format string) error {
	switch format {
	case "", "pretty", "json", "dump":
		return nil
	default:
		return &domain.OpError{
			Op:   "cli.format",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("unsupported format %q (expected pretty|json|dump): %w", format, domain.ErrInvalidConfig),
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printQuery(w io.Writer, params domain.Params, qs, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	switch format {
	case "json":
		return writeJSON(w, map[string]any{"params": params, "query": qs})
	case "dump":
		dumper.Fdump(w, params)
		return nil
	}
	fmt.Fprintln(w, qs)
	return nil
}

func printFetch(w io.Writer, res usecase.FetchResult, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	views := viewsOf(res.Documents)

	switch format {
	case "json":
		out := map[string]any{
			"path":   res.Path,
			"status": res.Status,
			"meta":   res.Meta,
			"links":  res.Links,
		}
		if res.Single && len(views) == 1 {
			out["data"] = views[0]
		} else {
			out["data"] = views
		}
		if len(res.Errors) > 0 {
			out["errors"] = res.Errors
		}
		if len(res.Extracted) > 0 {
			out["extracted"] = res.Extracted
		}
		return writeJSON(w, out)
	case "dump":
		dumper.Fdump(w, views)
		return nil
	}

	th := defaultTheme()
	fmt.Fprintf(w, "%s %s\n", th.Title.Render(res.Path), th.Subtitle.Render(fmt.Sprintf("(status %d, %d document(s))", res.Status, len(views))))
	for _, v := range views {
		fmt.Fprintln(w, th.Card.Render(renderDocument(th, v)))
	}
	if len(res.Meta) > 0 {
		fmt.Fprintln(w, th.Subtitle.Render("meta: "+compact(res.Meta)))
	}
	for _, e := range res.Errors {
		fmt.Fprintln(w, th.Fail.Render("error: "+e.String()))
	}
	if len(res.Extracts) > 0 {
		fmt.Fprintln(w, th.Title.Render("extracts:"))
		for _, e := range res.Extracts {
			mark := th.OK.Render("✓")
			if !e.Success {
				mark = th.Fail.Render("✗")
			}
			line := e.Message
			if e.Success {
				line = e.Name + " = " + e.Value
			}
			fmt.Fprintf(w, "  %s %s\n", mark, line)
		}
	}
	return nil
}

func printRelated(w io.Writer, res usecase.RelatedResult, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	views := viewsOf(res.Related.Documents())

	switch format {
	case "json":
		var data any = views
		if !res.Related.ToMany {
			data = nil
			if len(views) == 1 {
				data = views[0]
			}
		}
		return writeJSON(w, map[string]any{
			"parent":       res.Parent.Path(),
			"relationship": res.Related.Name,
			"data":         data,
		})
	case "dump":
		dumper.Fdump(w, views)
		return nil
	}

	th := defaultTheme()
	fmt.Fprintf(w, "%s %s\n", th.Title.Render(res.Parent.Path()+" → "+res.Related.Name),
		th.Subtitle.Render(fmt.Sprintf("(%d document(s))", len(views))))
	if len(views) == 0 {
		fmt.Fprintln(w, th.Subtitle.Render("(empty)"))
	}
	for _, v := range views {
		fmt.Fprintln(w, th.Card.Render(renderDocument(th, v)))
	}
	return nil
}

func renderDocument(th theme, v documentView) string {
	var b strings.Builder
	b.WriteString(th.Title.Render(v.Type + "/" + v.ID))

	keys := make([]string, 0, len(v.Attributes))
	for k := range v.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n%s %s", th.Key.Render(k+":"), compact(v.Attributes[k]))
	}
	if len(v.Relationships) > 0 {
		fmt.Fprintf(&b, "\n%s %s", th.Subtitle.Render("relationships:"), strings.Join(v.Relationships, ", "))
	}
	return b.String()
}

func compact(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
