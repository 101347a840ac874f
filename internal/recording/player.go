package recording

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/xri/internal/interaction"
	"github.com/Faultbox/xri/internal/logger"
)

// Recorder samples an interactor into a recording once per tick.
type Recorder struct {
	rec    *Recording
	source *interaction.Interactor
}

// NewRecorder records i into rec.
func NewRecorder(rec *Recording, i *interaction.Interactor) *Recorder {
	return &Recorder{rec: rec, source: i}
}

// Recording returns the recording being written.
func (r *Recorder) Recording() *Recording { return r.rec }

// Sample appends the interactor's current state at now. Samples that do
// not advance time are dropped.
func (r *Recorder) Sample(now time.Duration) {
	err := r.rec.Add(Frame{
		Time:     now,
		Pose:     r.source.Pose,
		Select:   r.source.SelectInput(),
		Activate: r.source.ActivateInput(),
	})
	if err != nil {
		logger.Debug("recording sample dropped",
			logger.Entity("interactor", r.source.Name, r.source.ID),
			zap.Error(err))
	}
}

// Player drives an interactor from a recording.
type Player struct {
	rec    *Recording
	target *interaction.Interactor
	// Offset shifts the recording's timeline: frame t plays at now = t + Offset.
	Offset time.Duration
}

// NewPlayer plays rec onto i.
func NewPlayer(rec *Recording, i *interaction.Interactor) *Player {
	return &Player{rec: rec, target: i}
}

// Apply sets the interactor's pose and inputs from the frame at or before
// now. Before the first frame the interactor is left alone.
func (p *Player) Apply(now time.Duration) bool {
	f, ok := p.rec.At(now - p.Offset)
	if !ok {
		return false
	}
	p.target.Pose = f.Pose
	p.target.SetSelectInput(f.Select)
	p.target.SetActivateInput(f.Activate)
	return true
}

// Done reports whether now is past the last frame.
func (p *Player) Done(now time.Duration) bool {
	return now-p.Offset >= p.rec.Duration()
}
