package reminder

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

type Permission string

const (
	PermissionUndetermined Permission = "undetermined"
	PermissionGranted      Permission = "granted"
	PermissionDenied       Permission = "denied"
)

type Notification struct {
	Title string
	Body  string
}

// Notifier delivers notifications and owns the permission to do so.
type Notifier interface {
	Permission(ctx context.Context) (Permission, error)
	RequestPermission(ctx context.Context) (Permission, error)
	Send(ctx context.Context, n Notification) error
}

// NoopNotifier is always permitted and delivers nothing; reminders still
// surface through Scheduler.C.
type NoopNotifier struct{}

func (NoopNotifier) Permission(context.Context) (Permission, error) { return PermissionGranted, nil }

func (NoopNotifier) RequestPermission(context.Context) (Permission, error) {
	return PermissionGranted, nil
}

func (NoopNotifier) Send(context.Context, Notification) error { return nil }

// DesktopNotifier shells out to notify-send on linux and osascript on darwin.
// Permission is granted once requested while enabled and the tool resolves on
// PATH; other platforms are always denied.
type DesktopNotifier struct {
	Enabled bool

	goos     string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error

	mu    sync.Mutex
	state Permission
}

func NewDesktopNotifier(enabled bool) *DesktopNotifier {
	return &DesktopNotifier{
		Enabled:  enabled,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
		state: PermissionUndetermined,
	}
}

func (d *DesktopNotifier) Permission(context.Context) (Permission, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, nil
}

func (d *DesktopNotifier) RequestPermission(context.Context) (Permission, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = PermissionDenied
	if !d.Enabled {
		return d.state, nil
	}
	tool := d.tool()
	if tool == "" {
		return d.state, nil
	}
	if _, err := d.lookPath(tool); err != nil {
		return d.state, fmt.Errorf("reminder: %s not available: %w", tool, err)
	}
	d.state = PermissionGranted
	return d.state, nil
}

func (d *DesktopNotifier) Send(ctx context.Context, n Notification) error {
	switch d.goos {
	case "linux":
		return d.run(ctx, "notify-send", n.Title, n.Body)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return d.run(ctx, "osascript", "-e", script)
	default:
		return nil
	}
}

func (d *DesktopNotifier) tool() string {
	switch d.goos {
	case "linux":
		return "notify-send"
	case "darwin":
		return "osascript"
	default:
		return ""
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
