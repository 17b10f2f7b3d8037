// Package tools implements the OS automation commands behind the
// router: clock, application launching, web search, system stats and
// volume control.
package tools

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"

	log "log/slog"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// appMap maps spoken application names to executables.
var appMap = map[string]string{
	"firefox":    "firefox",
	"chrome":     "google-chrome",
	"chromium":   "chromium",
	"terminal":   "x-terminal-emulator",
	"files":      "nautilus",
	"calculator": "gnome-calculator",
	"editor":     "gedit",
	"code":       "code",
}

type Tools struct {
	now func() time.Time
}

func New() *Tools { return &Tools{now: time.Now} }

// CurrentTime phrases the current date and time for speech.
func (t *Tools) CurrentTime() string {
	now := t.now()
	return fmt.Sprintf("It's %s on %s.",
		now.Format("3:04 PM"),
		now.Format("Monday, January 2, 2006"))
}

// OpenApplication launches a desktop application by spoken name.
func (t *Tools) OpenApplication(ctx context.Context, name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	bin, known := appMap[name]
	if !known {
		bin = name
	}

	cmd := exec.CommandContext(ctx, bin)
	if err := cmd.Start(); err != nil {
		log.Error("Failed to open application", "app", name, "err", err)
		return fmt.Sprintf("Sorry, I couldn't open %s.", name)
	}
	go cmd.Wait()

	log.Info("Opened application", "app", name)
	if known {
		return fmt.Sprintf("Opened %s successfully.", name)
	}
	return fmt.Sprintf("Attempting to open %s.", name)
}

// SearchWeb opens the default browser on a search for query.
func (t *Tools) SearchWeb(ctx context.Context, query string) string {
	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(query)

	opener := "xdg-open"
	switch runtime.GOOS {
	case "darwin":
		opener = "open"
	case "windows":
		opener = "rundll32"
	}
	args := []string{searchURL}
	if runtime.GOOS == "windows" {
		args = []string{"url.dll,FileProtocolHandler", searchURL}
	}

	if err := exec.CommandContext(ctx, opener, args...).Start(); err != nil {
		log.Error("Failed to open browser", "err", err)
		return "Sorry, I couldn't open the web browser."
	}
	log.Info("Web search", "query", query)
	return fmt.Sprintf("Searching the web for %s.", query)
}

// SystemInfo reads CPU and memory usage.
func (t *Tools) SystemInfo(ctx context.Context) string {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		log.Error("Failed to read host info", "err", err)
		return "Sorry, I couldn't retrieve system information."
	}

	cpuPercent := 0.0
	if percents, err := cpu.PercentWithContext(ctx, time.Second, false); err == nil && len(percents) > 0 {
		cpuPercent = percents[0]
	}

	memPercent := 0.0
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		memPercent = vm.UsedPercent
	}

	return fmt.Sprintf("System: %s, CPU usage: %.0f%%, Memory usage: %.0f%%.",
		info.Platform, cpuPercent, memPercent)
}

// SetVolume sets the default sink volume via pactl.
func (t *Tools) SetVolume(ctx context.Context, percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	arg := fmt.Sprintf("%d%%", percent)
	cmd := exec.CommandContext(ctx, "pactl", "set-sink-volume", "@DEFAULT_SINK@", arg)
	if err := cmd.Run(); err != nil {
		log.Error("Failed to set volume", "err", err)
		return "Sorry, I couldn't adjust the volume."
	}

	log.Info("Set volume", "percent", percent)
	return fmt.Sprintf("Volume set to %d percent.", percent)
}
