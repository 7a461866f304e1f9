package alerts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

type audio struct {
	player string
	toxic  string
	safe   string
}

// NewAudio returns a Notifier that plays a local sound file per signal. An
// empty player selects afplay on macOS and aplay elsewhere.
func NewAudio(player, toxicFile, safeFile string) Notifier {
	if player == "" {
		player = defaultPlayer(runtime.GOOS)
	}
	return &audio{player: player, toxic: toxicFile, safe: safeFile}
}

func defaultPlayer(goos string) string {
	if goos == "darwin" {
		return "afplay"
	}
	return "aplay"
}

func (a *audio) Notify(ctx context.Context, e Event) error {
	file := a.safe
	if e.Signal == ToxicAlert {
		file = a.toxic
	}
	if file == "" {
		return nil
	}

	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("audio file %s: %w", file, err)
	}

	if out, err := exec.CommandContext(ctx, a.player, file).CombinedOutput(); err != nil {
		return fmt.Errorf("play %s: %w: %s", file, err, out)
	}
	return nil
}
