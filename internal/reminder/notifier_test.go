package reminder

import (
	"context"
	"errors"
	"testing"
)

func stubDesktop(goos string, lookErr error) (*DesktopNotifier, *[]string) {
	var calls []string
	d := NewDesktopNotifier(true)
	d.goos = goos
	d.lookPath = func(name string) (string, error) {
		if lookErr != nil {
			return "", lookErr
		}
		return "/usr/bin/" + name, nil
	}
	d.run = func(_ context.Context, name string, args ...string) error {
		calls = append(calls, name)
		calls = append(calls, args...)
		return nil
	}
	return d, &calls
}

func TestDesktopNotifierPermissionFlow(t *testing.T) {
	d, _ := stubDesktop("linux", nil)
	ctx := context.Background()

	if p, _ := d.Permission(ctx); p != PermissionUndetermined {
		t.Fatalf("expected undetermined before request, got %s", p)
	}
	p, err := d.RequestPermission(ctx)
	if err != nil || p != PermissionGranted {
		t.Fatalf("expected granted, got %s err=%v", p, err)
	}
	if p, _ := d.Permission(ctx); p != PermissionGranted {
		t.Fatalf("expected granted to stick, got %s", p)
	}
}

func TestDesktopNotifierDeniedWhenDisabledOrMissing(t *testing.T) {
	ctx := context.Background()

	disabled, _ := stubDesktop("linux", nil)
	disabled.Enabled = false
	if p, _ := disabled.RequestPermission(ctx); p != PermissionDenied {
		t.Fatalf("expected denied when disabled, got %s", p)
	}

	missing, _ := stubDesktop("linux", errors.New("not found"))
	if p, err := missing.RequestPermission(ctx); p != PermissionDenied || err == nil {
		t.Fatalf("expected denied with error when tool missing, got %s err=%v", p, err)
	}

	other, _ := stubDesktop("plan9", nil)
	if p, _ := other.RequestPermission(ctx); p != PermissionDenied {
		t.Fatalf("expected denied on unsupported platform, got %s", p)
	}
}

func TestDesktopNotifierSendCommands(t *testing.T) {
	n := Notification{Title: "🔁 Daily Reminder", Body: `say "hi"`}

	linux, calls := stubDesktop("linux", nil)
	if err := linux.Send(context.Background(), n); err != nil {
		t.Fatalf("send linux: %v", err)
	}
	if len(*calls) != 3 || (*calls)[0] != "notify-send" || (*calls)[1] != n.Title {
		t.Fatalf("unexpected linux call: %v", *calls)
	}

	darwin, calls := stubDesktop("darwin", nil)
	if err := darwin.Send(context.Background(), n); err != nil {
		t.Fatalf("send darwin: %v", err)
	}
	want := `display notification "say \"hi\"" with title "🔁 Daily Reminder"`
	if len(*calls) != 3 || (*calls)[0] != "osascript" || (*calls)[2] != want {
		t.Fatalf("unexpected darwin call: %v", *calls)
	}
}

func TestEscapeAppleScript(t *testing.T) {
	cases := []struct{ in, want string }{
		{`plain`, `plain`},
		{`say "hi"`, `say \"hi\"`},
		{`C:\path`, `C:\\path`},
		{`end\"`, `end\\\"`},
	}
	for _, tc := range cases {
		if got := escapeAppleScript(tc.in); got != tc.want {
			t.Fatalf("escapeAppleScript(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
