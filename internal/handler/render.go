package handler

import (
    "embed"
    "fmt"
    "html/template"
    "io"
    "math"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/employee-portal/internal/middleware"
    "github.com/iliyamo/employee-portal/internal/model"
    "github.com/iliyamo/employee-portal/internal/queue"
    "github.com/iliyamo/employee-portal/internal/session"
    "github.com/iliyamo/employee-portal/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages lists every template that can be passed to c.Render.
var pages = []string{
    "login", "register", "admin_dashboard", "employee_dashboard",
    "employees", "edit", "delete", "error",
}

var funcs = template.FuncMap{
    "money": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
    "when":  func(t time.Time) string { return t.Format("2006-01-02 15:04") },
    "activityLabel": func(typ string) string {
        switch typ {
        case queue.EventLogin:
            return "Signed in"
        case queue.EventLogout:
            return "Signed out"
        case queue.EventRegistered:
            return "Account registered"
        case queue.EventUpdated:
            return "Profile updated"
        case queue.EventDeleted:
            return "Account deleted"
        }
        return typ
    },
}

// Renderer renders the embedded page templates.  Each page is parsed
// together with the shared layout so every page can define its own
// "content" block.
type Renderer struct {
    pages map[string]*template.Template
}

// NewRenderer parses all page templates.
func NewRenderer() (*Renderer, error) {
    r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
    for _, name := range pages {
        t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
        if err != nil {
            return nil, fmt.Errorf("parse %s: %w", name, err)
        }
        r.pages[name] = t
    }
    return r, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
    t, ok := r.pages[name]
    if !ok {
        return fmt.Errorf("unknown page %q", name)
    }
    return t.ExecuteTemplate(w, "layout", data)
}

// Page is the data every template receives.
type Page struct {
    Title  string
    Role   string
    CSRF   string
    Flash  *session.Flash
    Notice string // informational banner, e.g. the session-expired notice
    Error  string // page-level failure of a load

    Form   *validation.Form
    Action string

    Profile   *model.Employee
    Employee  *model.Employee
    Employees []model.Employee
    Activity  []model.Activity
    Confirm   string

    RedirectTo      string
    RedirectAfterMs int64
}

// RefreshSeconds is RedirectAfterMs rounded up for the meta refresh
// fallback.
func (p Page) RefreshSeconds() int64 {
    return int64(math.Ceil(float64(p.RedirectAfterMs) / 1000))
}

// newPage fills the parts of a Page shared by every page and consumes the
// pending flash.
func newPage(c echo.Context, title string) Page {
    p := Page{Title: title}
    if tok, ok := c.Get("csrf").(string); ok {
        p.CSRF = tok
    }
    if sess := middleware.CurrentSession(c); sess != nil {
        p.Role = sess.Role()
        if f, ok := sess.PopFlash(c.Request().Context()); ok {
            p.Flash = &f
        }
    }
    return p
}
