package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/api"
	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
	"github.com/fatih/color"
)

func printHeader(title string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", width))
}

func printFooter(width int) {
	fmt.Println(strings.Repeat("=", width) + "\n")
}

func printSuccess(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", color.YellowString("⚠"), fmt.Sprintf(format, args...))
}

func printError(err error) {
	fmt.Printf("%s %s\n", color.RedString("❌"), api.ErrorMessage(err))
	if api.IsUnauthorized(err) {
		fmt.Println("Run 'vhfconsole login' to sign in again.")
	}
}

// badgeString colours a badge label by its class
func badgeString(b models.Badge) string {
	switch b.Class {
	case "success":
		return color.GreenString(b.Label)
	case "danger":
		return color.RedString(b.Label)
	case "warning":
		return color.YellowString(b.Label)
	case "info", "primary":
		return color.CyanString(b.Label)
	default:
		return faint(b.Label)
	}
}

func onOff(enabled bool) string {
	if enabled {
		return color.GreenString("✓ Enabled")
	}
	return color.RedString("✗ Disabled")
}

func runnerString(status string) string {
	switch status {
	case models.RunnerRunning:
		return color.GreenString("✓ Running")
	case models.RunnerStopped:
		return color.RedString("✗ Stopped")
	default:
		return faint("? Unknown")
	}
}

func formatTime(t models.Time, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(loc).Format("02/01/2006 15:04:05")
}

func formatKmh(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f km/h", *v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func faint(s string) string {
	return color.New(color.Faint).Sprint(s)
}
