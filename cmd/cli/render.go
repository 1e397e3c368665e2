package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const flashCookie = "vhf_flash"

// Flash is a one-shot notification shown on the next page
type Flash struct {
	Kind    string
	Message string
}

// pageData is passed to every page template
type pageData struct {
	Title  string
	Active string
	Flash  *Flash
	CSRF   template.HTML
	Data   interface{}
}

// parseTemplates compiles every page with the shared layout
func parseTemplates(loc *time.Location) (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"badge": func(b models.Badge) template.HTML {
			return template.HTML(fmt.Sprintf(`<span class="badge badge-%s">%s</span>`,
				template.HTMLEscapeString(b.Class), template.HTMLEscapeString(b.Label)))
		},
		"statusBadge": models.StatusBadge,
		"modeBadge":   models.ModeBadge,
		"localTime": func(t models.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.In(loc).Format("02/01/2006 15:04")
		},
		"kmh": func(v *float64) string {
			if v == nil {
				return "-"
			}
			return fmt.Sprintf("%.1f", *v)
		},
		"deref": func(v *float64) float64 {
			if v == nil {
				return 0
			}
			return *v
		},
		"gpio": func(pin *int) string {
			if pin == nil {
				return ""
			}
			return fmt.Sprintf("%d", *pin)
		},
	}

	pages := []string{
		"login", "change_password", "dashboard", "channels", "channel_form",
		"channel_delete", "measurement", "preview", "timeline", "history",
		"settings", "users", "providers", "tts", "error",
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		tpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tpl
	}
	return templates, nil
}

// render writes a page. The flash of the previous request is consumed.
func (rm *RouteManager) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data interface{}) {
	tpl, ok := rm.templates[name]
	if !ok {
		rm.logger.Error("unknown template", zap.String("template", name))
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	page := pageData{
		Title:  title,
		Active: name,
		Flash:  rm.takeFlash(w, r),
		CSRF:   csrf.TemplateField(r),
		Data:   data,
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, page); err != nil {
		rm.logger.Error("render page", zap.String("template", name), zap.Error(err))
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// setFlash stores a notification for the next page
func (rm *RouteManager) setFlash(w http.ResponseWriter, kind, message string) {
	encoded, err := rm.cookies.Encode(flashCookie, Flash{Kind: kind, Message: message})
	if err != nil {
		rm.logger.Warn("encode flash", zap.Error(err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   rm.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (rm *RouteManager) takeFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})

	var flash Flash
	if err := rm.cookies.Decode(flashCookie, c.Value, &flash); err != nil {
		return nil
	}
	return &flash
}

// redirectWithFlash finishes a form post
func (rm *RouteManager) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	if message != "" {
		rm.setFlash(w, kind, message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func newCookieCodec(hashKey []byte) *securecookie.SecureCookie {
	codec := securecookie.New(hashKey, nil)
	codec.MaxAge(300)
	return codec
}
