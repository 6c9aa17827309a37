package launch

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"

	"launchpad-cli/internal/logx"
)

// Launcher issues a start request for the bundle at location. A nil error only
// means the request was issued; it says nothing about how the app fares.
type Launcher interface {
	Launch(ctx context.Context, location string) error
}

// Func adapts a function to Launcher.
type Func func(ctx context.Context, location string) error

func (f Func) Launch(ctx context.Context, location string) error { return f(ctx, location) }

// ExecLauncher starts bundles with an opener command: the location is passed as
// the last argument.
type ExecLauncher struct {
	Opener []string
}

// DefaultOpener returns the platform's "open this" command.
func DefaultOpener() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"cmd", "/C", "start", ""}
	default:
		return []string{"xdg-open"}
	}
}

func (l ExecLauncher) Launch(ctx context.Context, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return errors.New("launch: empty location")
	}
	opener := l.Opener
	if len(opener) == 0 {
		opener = DefaultOpener()
	}
	args := append(append([]string(nil), opener[1:]...), location)

	// Not bound to ctx: the started app outlives the request.
	cmd := exec.Command(opener[0], args...)
	if err := cmd.Start(); err != nil {
		return err
	}

	log := logx.WithLocation(logx.Ctx(ctx), location)
	log.Debug("launch requested", "pid", cmd.Process.Pid)
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Warn("opener exited with error", "err", err)
			return
		}
		log.Debug("opener exited")
	}()
	return nil
}
