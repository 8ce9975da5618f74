package form

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Page is the text around the form.
type Page struct {
	ProductName string
	// Action is where the browser posts the form.
	Action string
}

func (p Page) Title() string {
	return p.ProductName + " - Join the Waitlist"
}

type pageData struct {
	Page          Page
	Name          string
	Email         string
	Failure       string
	Submitting    bool
	Succeeded     bool
	Notifications []Notification
}

// Render writes the full document and consumes pending notifications. An unmounted form
// writes nothing.
func (f *Form) Render(w io.Writer, page Page) error {
	if !f.mounted {
		return nil
	}
	if page.Action == "" {
		page.Action = "/"
	}

	return pageTemplate.Execute(w, pageData{
		Page:          page,
		Name:          f.name,
		Email:         f.email,
		Failure:       f.failure,
		Submitting:    f.phase == PhaseSubmitting,
		Succeeded:     f.phase == PhaseSucceeded,
		Notifications: f.TakeNotifications(),
	})
}
