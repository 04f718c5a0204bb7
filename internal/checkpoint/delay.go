package checkpoint

import (
	"context"
	"time"

	"github.com/spboyer/sampledrive/internal/catalog"
	"github.com/spboyer/sampledrive/internal/oracle"
	"github.com/spboyer/sampledrive/internal/runner"
)

// Delay is an unattended checkpoint that lingers at one phase so a headed
// browser stays readable.
type Delay struct {
	Phase    runner.Phase
	Duration time.Duration
	// Sleep waits for the duration. Nil uses oracle.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

var _ runner.Checkpoint = Delay{}

// Checkpoint implements runner.Checkpoint.
func (d Delay) Checkpoint(ctx context.Context, phase runner.Phase, _ catalog.Entry) error {
	if phase != d.Phase || d.Duration <= 0 {
		return nil
	}
	sleep := d.Sleep
	if sleep == nil {
		sleep = oracle.Sleep
	}
	return sleep(ctx, d.Duration)
}
