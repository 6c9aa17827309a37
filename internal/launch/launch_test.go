package launch

import (
	"context"
	"os/exec"
	"runtime"
	"testing"
)

func TestExecLauncher_StartsOpener(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX true")
	}
	bin, err := exec.LookPath("true")
	if err != nil {
		t.Skipf("true not found: %v", err)
	}
	l := ExecLauncher{Opener: []string{bin}}
	if err := l.Launch(context.Background(), "/Applications/Safari.app"); err != nil {
		t.Fatalf("Launch: %v", err)
	}
}

func TestExecLauncher_Errors(t *testing.T) {
	t.Parallel()

	l := ExecLauncher{Opener: []string{"/definitely/not/here/opener"}}
	if err := l.Launch(context.Background(), "/Applications/Safari.app"); err == nil {
		t.Fatalf("expected start error for a missing opener")
	}
	if err := (ExecLauncher{}).Launch(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty location")
	}
}

func TestFunc_Adapter(t *testing.T) {
	t.Parallel()

	var got string
	var l Launcher = Func(func(_ context.Context, location string) error {
		got = location
		return nil
	})
	if err := l.Launch(context.Background(), "/x.app"); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if got != "/x.app" {
		t.Fatalf("expected location passed through, got %q", got)
	}
}
