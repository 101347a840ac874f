package attach

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/Faultbox/xri/internal/logger"
	"github.com/Faultbox/xri/internal/scene"
	xmath "github.com/Faultbox/xri/pkg/math"
)

// Anchor is whatever a held body follows, usually an interactor.
type Anchor interface {
	AttachPose() xmath.Pose
}

type bodyConfig struct {
	kinematic   bool
	useGravity  bool
	drag        float32
	angularDrag float32
}

// Controller attaches one body to an anchor between Begin and End.
// It is not safe for concurrent use.
type Controller struct {
	Name string

	body         scene.Body
	settings     Settings
	attachOffset xmath.Pose // object attach point in body space

	// Session state, valid while active.
	active      bool
	anchor      Anchor
	movement    MovementType
	saved       bodyConfig
	localOffset xmath.Pose // body pose in anchor attach space
	target      xmath.Pose
	easeFrom    xmath.Pose
	easeIn      *gween.Tween
	throw       *ThrowTracker
	elapsed     float32
	lastAttach  xmath.Pose
	hasLast     bool

	detachPending  bool
	releaseLinear  mgl32.Vec3
	releaseAngular mgl32.Vec3
}

// NewController creates a controller for body. attachOffset is the grab
// point in the body's local space.
func NewController(name string, body scene.Body, attachOffset xmath.Pose, s Settings) *Controller {
	return &Controller{
		Name:         name,
		body:         body,
		settings:     s,
		attachOffset: attachOffset,
		throw:        NewThrowTracker(s.ThrowFrames),
	}
}

func (c *Controller) Body() scene.Body         { return c.body }
func (c *Controller) Settings() Settings       { return c.settings }
func (c *Controller) IsAttached() bool         { return c.active }
func (c *Controller) DetachPending() bool      { return c.detachPending }
func (c *Controller) Movement() MovementType   { return c.movement }
func (c *Controller) Target() xmath.Pose       { return c.target }
func (c *Controller) AttachOffset() xmath.Pose { return c.attachOffset }

// Begin attaches the body to anchor. override, when non-nil, replaces the
// configured movement type for this session.
func (c *Controller) Begin(anchor Anchor, override *MovementType) {
	if anchor == nil {
		return
	}
	if c.detachPending {
		c.restore()
		c.detachPending = false
	} else if c.active {
		c.restore()
	}

	c.saved = bodyConfig{
		kinematic:   c.body.IsKinematic(),
		useGravity:  c.body.UseGravity(),
		drag:        c.body.Drag(),
		angularDrag: c.body.AngularDrag(),
	}

	c.movement = c.settings.Movement
	if override != nil {
		c.movement = *override
	}

	current := xmath.NewPose(c.body.Position(), c.body.Rotation())
	if c.settings.UseDynamicAttach {
		c.localOffset = current.RelativeTo(anchor.AttachPose())
	} else {
		c.localOffset = c.attachOffset.Inverse()
	}

	c.body.SetKinematic(c.movement != VelocityTracking)
	c.body.SetUseGravity(false)
	c.body.SetDrag(0)
	c.body.SetAngularDrag(0)

	c.anchor = anchor
	c.active = true
	c.target = current
	c.easeFrom = current
	c.easeIn = nil
	if c.settings.AttachEaseInTime > 0 {
		c.easeIn = gween.New(0, 1, c.settings.AttachEaseInTime, ease.Linear)
	}
	c.throw.Reset()
	c.elapsed = 0
	c.hasLast = false
	c.updateTarget(0)

	logger.Debug("attach begin",
		zap.String("body", c.Name),
		zap.Stringer("movement", c.movement))
}

// Tick runs the movement strategy for one phase of the frame.
func (c *Controller) Tick(phase Phase, dt float32) {
	if !c.active {
		return
	}
	switch phase {
	case PhaseFixed:
		switch c.movement {
		case Kinematic:
			c.updateTarget(dt)
			c.moveKinematic()
		case VelocityTracking:
			c.updateTarget(dt)
			c.trackVelocity(dt)
		}
	case PhaseDynamic:
		if c.movement == Instantaneous {
			c.updateTarget(dt)
			c.applyPose()
		}
		c.recordThrow(dt)
	case PhasePreRender:
		if c.movement == Instantaneous {
			if c.easeIn == nil && !c.settings.SmoothPosition && !c.settings.SmoothRotation {
				c.target = c.goal()
			}
			c.applyPose()
		}
	}
}

// End finishes the session and captures the release velocity. The body
// configuration is restored by ProcessDetach.
func (c *Controller) End() {
	if !c.active {
		return
	}
	s := c.settings
	linear, angular := c.throw.Velocity(c.elapsed, s.ThrowSmoothingDuration, s.ThrowSmoothingCurve)
	c.releaseLinear = linear.Mul(s.ThrowVelocityScale)
	c.releaseAngular = angular.Mul(s.ThrowAngularVelocityScale)
	c.active = false
	c.anchor = nil
	c.detachPending = true

	logger.Debug("attach end",
		zap.String("body", c.Name),
		zap.Int("throw_samples", c.throw.Len()))
}

// ReleaseVelocity returns the velocities captured by End.
func (c *Controller) ReleaseVelocity() (linear, angular mgl32.Vec3) {
	return c.releaseLinear, c.releaseAngular
}

// ProcessDetach restores the body and applies the release velocity.
func (c *Controller) ProcessDetach() {
	if !c.detachPending {
		return
	}
	c.detachPending = false
	c.restore()
	if c.settings.ForceGravityOnDetach {
		c.body.SetUseGravity(true)
	}
	if c.settings.ThrowOnDetach {
		c.body.SetVelocity(c.releaseLinear)
		c.body.SetAngularVelocity(c.releaseAngular)
	}
}

func (c *Controller) restore() {
	c.body.SetKinematic(c.saved.kinematic)
	c.body.SetUseGravity(c.saved.useGravity)
	c.body.SetDrag(c.saved.drag)
	c.body.SetAngularDrag(c.saved.angularDrag)
}

func (c *Controller) goal() xmath.Pose {
	return c.anchor.AttachPose().Mul(c.localOffset)
}

func (c *Controller) updateTarget(dt float32) {
	goal := c.goal()
	if c.easeIn != nil {
		p, done := c.easeIn.Update(dt)
		if done {
			p = 1
			c.easeIn = nil
		}
		c.target = c.easeFrom.Lerp(goal, p)
		return
	}

	s := c.settings
	pos, rot := goal.Position, goal.Rot()
	if s.SmoothPosition {
		pos = xmath.SmoothVec3(c.target.Position, pos, s.SmoothPositionAmount, s.TightenPosition, dt)
	}
	if s.SmoothRotation {
		rot = xmath.SmoothQuat(c.target.Rot(), rot, s.SmoothRotationAmount, s.TightenRotation, dt)
	}
	c.target = xmath.NewPose(pos, rot)
}

func (c *Controller) applyPose() {
	c.body.SetPosition(c.target.Position)
	c.body.SetRotation(c.target.Rot())
}

func (c *Controller) moveKinematic() {
	c.body.SetVelocity(mgl32.Vec3{})
	c.body.SetAngularVelocity(mgl32.Vec3{})
	c.body.MovePosition(c.target.Position)
	c.body.MoveRotation(c.target.Rot())
}

func (c *Controller) trackVelocity(dt float32) {
	if dt <= 0 {
		return
	}
	s := c.settings

	v := c.body.Velocity().Mul(1 - mgl32.Clamp(s.VelocityDamping, 0, 1))
	delta := c.target.Position.Sub(c.body.Position())
	v = v.Add(delta.Mul(s.VelocityScale / dt))
	if xmath.IsFinite(v) {
		c.body.SetVelocity(v)
	} else {
		logger.Debug("velocity tracking skipped", zap.String("body", c.Name))
	}

	w := c.body.AngularVelocity().Mul(1 - mgl32.Clamp(s.AngularVelocityDamping, 0, 1))
	turn := xmath.AngularDelta(c.body.Rotation(), c.target.Rot())
	w = w.Add(turn.Mul(s.AngularVelocityScale / dt))
	if xmath.IsFinite(w) {
		c.body.SetAngularVelocity(w)
	}
}

func (c *Controller) recordThrow(dt float32) {
	c.elapsed += dt
	p := c.anchor.AttachPose()
	if c.hasLast && dt > 0 {
		linear := p.Position.Sub(c.lastAttach.Position).Mul(1 / dt)
		angular := xmath.AngularVelocity(c.lastAttach.Rot(), p.Rot(), dt)
		c.throw.Record(c.elapsed, linear, angular)
	}
	c.lastAttach = p
	c.hasLast = true
}
