package api

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"github.com/terraincognita07/carewatch/internal/security"
	"github.com/terraincognita07/carewatch/internal/templates"
)

var pageTemplateNames = []string{"dashboard", "health", "safety", "reminders"}

func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Monitoring == nil || deps.Agents == nil || deps.Reminders == nil || deps.Importer == nil || deps.Orchestrator == nil {
		return nil, errors.New("handler dependencies are incomplete")
	}
	if deps.SessionSecret == "" {
		return nil, errors.New("session secret is required")
	}
	location := deps.Location
	if location == nil {
		location = time.UTC
	}

	flashKey, err := security.DeriveKey(deps.SessionSecret, "flash")
	if err != nil {
		return nil, fmt.Errorf("derive flash key: %w", err)
	}

	parsed, err := parsePageTemplates(templates.Files, templateFuncMap(location))
	if err != nil {
		return nil, err
	}

	return &Handler{
		monitoring:    deps.Monitoring,
		agents:        deps.Agents,
		reminders:     deps.Reminders,
		importer:      deps.Importer,
		orchestrator:  deps.Orchestrator,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		location:      location,
		flashKey:      flashKey,
		templates:     parsed,
		importLimiter: newImportLimiter(deps.ImportWindow),
	}, nil
}

func parsePageTemplates(files fs.FS, funcs template.FuncMap) (map[string]*template.Template, error) {
	parsed := make(map[string]*template.Template, len(pageTemplateNames))
	for _, page := range pageTemplateNames {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(files, "base.html", page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		parsed[page] = tmpl
	}
	return parsed, nil
}

func templateFuncMap(location *time.Location) template.FuncMap {
	return template.FuncMap{
		"formatTime": func(value any) string {
			switch typed := value.(type) {
			case time.Time:
				return typed.In(location).Format("2006-01-02 15:04")
			case *time.Time:
				if typed == nil {
					return "-"
				}
				return typed.In(location).Format("2006-01-02 15:04")
			default:
				return ""
			}
		},
		"yesNo": func(value bool) string {
			if value {
				return "Yes"
			}
			return "No"
		},
	}
}
