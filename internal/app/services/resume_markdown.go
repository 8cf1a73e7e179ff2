package services

import (
	"fmt"
	"strings"

	"github.com/yigit/eventhub/internal/app/models"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`, "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;",
)

func md(s string) string {
	return markdownEscaper.Replace(strings.TrimSpace(s))
}

func dateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return md(start) + " - Present"
	case start == "":
		return md(end)
	}
	return md(start) + " - " + md(end)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// RenderResumeMarkdown renders a resume as a Markdown document. Empty sections are omitted.
// The modern template puts skills right after the summary.
func RenderResumeMarkdown(res *models.Resume) string {
	var b strings.Builder
	d := res.Data

	name := d.Personal.FullName
	if strings.TrimSpace(name) == "" {
		name = res.Title
	}
	fmt.Fprintf(&b, "# %s\n\n", md(name))

	if contact := joinNonEmpty(" | ", md(d.Personal.Email), md(d.Personal.Phone), md(d.Personal.Location), md(d.Personal.Website)); contact != "" {
		b.WriteString(contact + "\n\n")
	}

	if s := strings.TrimSpace(d.Summary); s != "" {
		b.WriteString("## Summary\n\n" + md(s) + "\n\n")
	}

	if res.Template == models.TemplateModern {
		writeSkills(&b, d.Skills)
	}

	if len(d.Experience) > 0 {
		b.WriteString("## Experience\n\n")
		for _, e := range d.Experience {
			fmt.Fprintf(&b, "### %s\n\n", joinNonEmpty(" at ", md(e.Role), md(e.Company)))
			if dates := dateRange(e.StartDate, e.EndDate); dates != "" {
				b.WriteString("*" + dates + "*\n\n")
			}
			if desc := strings.TrimSpace(e.Description); desc != "" {
				b.WriteString(md(desc) + "\n\n")
			}
			for _, h := range e.Highlights {
				if h = strings.TrimSpace(h); h != "" {
					b.WriteString("- " + md(h) + "\n")
				}
			}
			if len(e.Highlights) > 0 {
				b.WriteString("\n")
			}
		}
	}

	if len(d.Education) > 0 {
		b.WriteString("## Education\n\n")
		for _, e := range d.Education {
			fmt.Fprintf(&b, "### %s\n\n", md(e.School))
			if degree := joinNonEmpty(", ", md(e.Degree), md(e.Field)); degree != "" {
				b.WriteString(degree + "\n\n")
			}
			if dates := dateRange(e.StartDate, e.EndDate); dates != "" {
				b.WriteString("*" + dates + "*\n\n")
			}
		}
	}

	if len(d.Projects) > 0 {
		b.WriteString("## Projects\n\n")
		for _, p := range d.Projects {
			line := "**" + md(p.Name) + "**"
			if u := strings.TrimSpace(p.URL); u != "" {
				line += " (" + md(u) + ")"
			}
			if desc := strings.TrimSpace(p.Description); desc != "" {
				line += ": " + md(desc)
			}
			b.WriteString("- " + line + "\n")
		}
		b.WriteString("\n")
	}

	if res.Template != models.TemplateModern {
		writeSkills(&b, d.Skills)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeSkills(b *strings.Builder, skills []string) {
	escaped := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			escaped = append(escaped, md(s))
		}
	}
	if len(escaped) == 0 {
		return
	}
	b.WriteString("## Skills\n\n" + strings.Join(escaped, ", ") + "\n\n")
}
