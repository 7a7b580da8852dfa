package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"math"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/astra29104/Travelbolt/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "base.html"

// TemplateCache holds parsed page templates, each combined with the layout.
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: template.FuncMap{
			"money":  formatMoney,
			"rating": formatRating,
			"date":   formatDate,
			"join":   strings.Join,
			"add":    func(a, b int) int { return a + b },
		},
	}
}

func (tc *TemplateCache) AddFunc(name string, fn interface{}) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.funcs[name] = fn
}

// Load parses every page template in fsys. A nil fsys loads the embedded pages.
func (tc *TemplateCache) Load(fsys fs.FS) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if fsys == nil {
		sub, err := fs.Sub(templateFS, "templates")
		if err != nil {
			return err
		}
		fsys = sub
	}

	files, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return err
	}
	for _, file := range files {
		name := path.Base(file)
		if name == layoutTemplate {
			continue
		}
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFS(fsys, layoutTemplate, file)
		if err != nil {
			slog.Error("Failed to parse template", "file", file, "error", err)
			return err
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}

// formatMoney renders rupees with thousands separators, e.g. ₹25,000.
func formatMoney(v float64) string {
	whole := strconv.FormatInt(int64(math.Round(v)), 10)
	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-₹" + b.String()
	}
	return "₹" + b.String()
}

func formatDate(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("Jan 2, 2006")
}

func formatRating(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
