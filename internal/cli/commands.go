package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/terraincognita07/carewatch/internal/services"
)

type ImportRunner interface {
	Run() (services.ImportCounts, error)
}

func RunImportCommand(runner ImportRunner, out io.Writer) error {
	counts, err := runner.Run()
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintln(out, counts.Message())
	fmt.Fprintf(out, "health=%d safety=%d reminder=%d\n", counts.Health, counts.Safety, counts.Reminder)
	return nil
}

func RunSeedCommand(seed *services.SeedService, out io.Writer) error {
	if seed == nil {
		return errors.New("seed service is required")
	}
	if err := seed.EnsureBaseline(); err != nil {
		return err
	}
	created, err := seed.EnsureDemoDevices()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Baseline data ready, %d demo records created\n", created)
	return nil
}

func RunDevicesListCommand(devices *services.DeviceService, out io.Writer) error {
	report, err := devices.Report()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Available device IDs: %s\n", joinOrNone(report.HealthDeviceIDs))
	return nil
}

func RunDevicesCheckCommand(devices *services.DeviceService, out io.Writer) error {
	report, err := devices.Report()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Patients: %d\n", len(report.Patients))
	for _, patient := range report.Patients {
		fmt.Fprintf(out, "  %s %s (age %d)\n", patient.PatientID, patient.Name, patient.Age)
	}
	fmt.Fprintf(out, "Total health records: %d\n", report.HealthTotal)
	fmt.Fprintf(out, "Health device IDs: %s\n", joinOrNone(report.HealthDeviceIDs))
	for _, reading := range report.FirstReadings {
		record := reading.Record
		fmt.Fprintf(out, "  Device %s - Heart Rate: %d, BP: %d/%d, Glucose: %d, O2: %d\n",
			reading.DeviceID,
			record.HeartRate,
			record.BloodPressureSystolic,
			record.BloodPressureDiastolic,
			record.GlucoseLevel,
			record.OxygenSaturation,
		)
	}
	fmt.Fprintf(out, "Total safety alerts: %d\n", report.SafetyTotal)
	fmt.Fprintf(out, "Safety device IDs: %s\n", joinOrNone(report.SafetyDeviceIDs))
	fmt.Fprintf(out, "Total reminders: %d\n", report.ReminderTotal)
	fmt.Fprintf(out, "Reminder device IDs: %s\n", joinOrNone(report.ReminderDeviceIDs))
	return nil
}

// RunDevicesAddDemoCommand creates the demo devices where missing and then
// prints what each one has.
func RunDevicesAddDemoCommand(seed *services.SeedService, devices *services.DeviceService, out io.Writer) error {
	created, err := seed.EnsureDemoDevices()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Created %d demo records\n", created)

	statuses, err := devices.DemoStatus()
	if err != nil {
		return err
	}
	for _, status := range statuses {
		fmt.Fprintf(out, "%s health=%s safety=%s reminder=%s\n",
			status.DeviceID,
			presence(status.HasHealth),
			presence(status.HasSafety),
			presence(status.HasReminder),
		)
		if status.Health != nil {
			fmt.Fprintf(out, "  Heart Rate: %d, BP: %d/%d\n",
				status.Health.HeartRate,
				status.Health.BloodPressureSystolic,
				status.Health.BloodPressureDiastolic,
			)
		}
	}
	return nil
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

func presence(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}
