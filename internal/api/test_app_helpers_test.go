package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/terraincognita07/carewatch/internal/app"
	"github.com/terraincognita07/carewatch/internal/db"
	"github.com/terraincognita07/carewatch/internal/metrics"
	"github.com/terraincognita07/carewatch/internal/services"
)

const testHealthCSV = "Device-ID/User-ID,Timestamp,Heart Rate,Heart Rate Below/Above Threshold (Yes/No),Blood Pressure,Blood Pressure Below/Above Threshold (Yes/No),Glucose Levels,Glucose Levels Below/Above Threshold (Yes/No),Oxygen Saturation (SpO₂%),SpO₂ Below Threshold (Yes/No),Alert Triggered (Yes/No),Caregiver Notified (Yes/No)\n" +
	"D1000,1/15/2025 08:30,72,No,120/80 mmHg,No,110,No,97,No,No,No\n" +
	"D1000,1/15/2025 09:30,110,Yes,150/95 mmHg,Yes,180,Yes,91,Yes,Yes,Yes\n"

type testApp struct {
	app      *fiber.App
	services *app.Services
	metrics  *metrics.Metrics
}

type testAppOptions struct {
	importWindow time.Duration
	orchestrator ImportRunner
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	return newTestAppWithOptions(t, testAppOptions{})
}

func newTestAppWithOptions(t *testing.T, options testAppOptions) testApp {
	t.Helper()

	dir := t.TempDir()
	database, err := db.OpenSQLite(filepath.Join(dir, "carewatch-api-test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	healthPath := filepath.Join(dir, "health_monitoring.csv")
	if err := os.WriteFile(healthPath, []byte(testHealthCSV), 0o600); err != nil {
		t.Fatalf("write health csv: %v", err)
	}

	collector := metrics.New()
	wired := app.NewServices(database, zerolog.Nop(), app.Options{
		Location:  time.UTC,
		BatchSize: 10,
		Paths: services.ImportPaths{
			Health:   healthPath,
			Safety:   filepath.Join(dir, "missing_safety.csv"),
			Reminder: filepath.Join(dir, "missing_reminder.csv"),
		},
		Metrics: collector,
	})

	var orchestrator ImportRunner = wired.Orchestrator
	if options.orchestrator != nil {
		orchestrator = options.orchestrator
	}

	handler, err := NewHandler(Dependencies{
		Monitoring:    wired.Monitoring,
		Agents:        wired.Agents,
		Reminders:     wired.Reminders,
		Importer:      wired.Importer,
		Orchestrator:  orchestrator,
		Metrics:       collector,
		Logger:        zerolog.Nop(),
		Location:      time.UTC,
		SessionSecret: "test-session-secret",
		ImportWindow:  options.importWindow,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	fiberApp := fiber.New()
	RegisterRoutes(fiberApp, handler)
	fiberApp.Use(handler.NotFound)
	return testApp{app: fiberApp, services: wired, metrics: collector}
}

type failingOrchestrator struct{}

func (failingOrchestrator) Run() (services.ImportCounts, error) {
	return services.ImportCounts{}, errors.New("seed baseline data failed: disk full")
}

type panickingOrchestrator struct{}

func (panickingOrchestrator) Run() (services.ImportCounts, error) {
	panic("csv reader exploded")
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func readAPIError(t *testing.T, body io.Reader) string {
	t.Helper()

	payload := map[string]string{}
	bytes, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(bytes, &payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return payload["error"]
}

func readJSONMap(t *testing.T, body io.Reader) map[string]any {
	t.Helper()

	payload := map[string]any{}
	bytes, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(bytes, &payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return payload
}

func readBody(t *testing.T, body io.Reader) string {
	t.Helper()

	bytes, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return string(bytes)
}
