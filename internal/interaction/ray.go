package interaction

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/xri/internal/logger"
	"github.com/Faultbox/xri/internal/scene"
	xmath "github.com/Faultbox/xri/pkg/math"
)

// LineType is the shape of a ray interactor's path.
type LineType int

const (
	LineStraight LineType = iota
	LineProjectile
	LineBezier
)

func (l LineType) String() string {
	switch l {
	case LineStraight:
		return "straight"
	case LineProjectile:
		return "projectile"
	case LineBezier:
		return "bezier"
	default:
		return fmt.Sprintf("LineType(%d)", int(l))
	}
}

// ParseLineType parses the names produced by LineType.String.
func ParseLineType(s string) (LineType, error) {
	switch strings.ToLower(s) {
	case "straight", "":
		return LineStraight, nil
	case "projectile":
		return LineProjectile, nil
	case "bezier":
		return LineBezier, nil
	}
	return LineStraight, fmt.Errorf("unknown line type %q", s)
}

// HitDetection selects the query issued per path segment.
type HitDetection int

const (
	HitRaycast HitDetection = iota
	HitSphereCast
)

func (h HitDetection) String() string {
	if h == HitSphereCast {
		return "spherecast"
	}
	return "raycast"
}

// ParseHitDetection parses the names produced by HitDetection.String.
func ParseHitDetection(s string) (HitDetection, error) {
	switch strings.ToLower(s) {
	case "raycast", "":
		return HitRaycast, nil
	case "spherecast", "sphere_cast":
		return HitSphereCast, nil
	}
	return HitRaycast, fmt.Errorf("unknown hit detection %q", s)
}

// RayConfig configures a RayResolver.
type RayConfig struct {
	LineType LineType

	MaxRaycastDistance float32 // straight lines

	// Projectile launch speed along the attach forward and downward gravity.
	Velocity               float32
	Acceleration           float32
	AdditionalGroundHeight float32
	AdditionalFlightTime   float32

	// Quadratic Bezier control and end points relative to the attach point.
	ControlPointDistance float32
	ControlPointHeight   float32
	EndPointDistance     float32
	EndPointHeight       float32

	SampleFrequency    int // curve samples, clamped to [3, MaxSampleFrequency]
	MaxSampleFrequency int

	HitDetection     HitDetection
	SphereCastRadius float32
	RaycastMask      scene.Layers
}

const (
	minCurveSamples  = 3
	maxCurveSamples  = 100
	defaultRaySample = 20
)

// DefaultRayConfig returns a 30 unit straight ray hitting every layer.
func DefaultRayConfig() RayConfig {
	return RayConfig{
		LineType:               LineStraight,
		MaxRaycastDistance:     30,
		Velocity:               16,
		Acceleration:           9.8,
		AdditionalGroundHeight: 0.1,
		AdditionalFlightTime:   0.5,
		ControlPointDistance:   10,
		ControlPointHeight:     5,
		EndPointDistance:       30,
		EndPointHeight:         -10,
		SampleFrequency:        defaultRaySample,
		MaxSampleFrequency:     maxCurveSamples,
		HitDetection:           HitRaycast,
		SphereCastRadius:       0.1,
		RaycastMask:            scene.AllLayers,
	}
}

// RayPath is the sampled path of the last resolve.
type RayPath struct {
	Samples []mgl32.Vec3
	// EndIndex is the sample the path was cut at: the end of the blocked
	// segment, or the last sample when nothing was hit.
	EndIndex int
	Hit      scene.Hit
	HasHit   bool
}

// RayResolver casts a straight, projectile or Bezier path from the attach
// point and offers the interactables it hits, nearest first, up to the
// first collider that is not an interactable.
type RayResolver struct {
	Config RayConfig

	path RayPath
}

// NewRayResolver creates a resolver with cfg.
func NewRayResolver(cfg RayConfig) *RayResolver {
	return &RayResolver{Config: cfg}
}

// LastPath returns the path computed by the last ValidTargets call.
func (r *RayResolver) LastPath() RayPath { return r.path }

// Sample computes the path points from the given attach pose.
func (r *RayResolver) Sample(from xmath.Pose, dst []mgl32.Vec3) []mgl32.Vec3 {
	cfg := r.Config
	start := from.Position
	forward := from.Forward()
	dst = dst[:0]

	switch cfg.LineType {
	case LineProjectile:
		velocity := forward.Mul(cfg.Velocity)
		accel := mgl32.Vec3{0, -cfg.Acceleration, 0}
		flight := xmath.ProjectileFlightTime(velocity.Y(), cfg.Acceleration, cfg.AdditionalGroundHeight)
		if flight > 0 {
			flight += cfg.AdditionalFlightTime
		}
		return append(dst, xmath.SampleProjectile(start, velocity, accel, flight, r.curveSamples())...)
	case LineBezier:
		control := start.Add(forward.Mul(cfg.ControlPointDistance)).Add(xmath.Up.Mul(cfg.ControlPointHeight))
		end := start.Add(forward.Mul(cfg.EndPointDistance)).Add(xmath.Up.Mul(cfg.EndPointHeight))
		return append(dst, xmath.SampleBezier(start, control, end, r.curveSamples())...)
	default:
		return append(dst, xmath.SampleLine(start, start.Add(forward.Mul(cfg.MaxRaycastDistance)))...)
	}
}

func (r *RayResolver) curveSamples() int {
	hi := r.Config.MaxSampleFrequency
	if hi < minCurveSamples {
		hi = maxCurveSamples
	}
	n := r.Config.SampleFrequency
	if n < minCurveSamples {
		n = minCurveSamples
	}
	if n > hi {
		n = hi
	}
	return n
}

// ValidTargets implements Resolver.
func (r *RayResolver) ValidTargets(ctx *ResolveContext, i *Interactor, dst []*Interactable) []*Interactable {
	dst = dst[:0]
	r.path.Samples = r.Sample(i.AttachPose(), r.path.Samples)
	r.path.HasHit = false
	r.path.Hit = scene.Hit{}
	r.path.EndIndex = len(r.path.Samples) - 1

	if len(r.path.Samples) < 2 {
		r.path.EndIndex = 0
		return dst
	}
	if ctx.Query == nil {
		return dst
	}

	for k := 0; k+1 < len(r.path.Samples); k++ {
		ray, length, ok := scene.Segment(r.path.Samples[k], r.path.Samples[k+1])
		if !ok {
			continue
		}
		hits := r.cast(ctx.Query, ray, length)
		if len(hits) == 0 {
			continue
		}
		sort.SliceStable(hits, func(a, b int) bool { return hits[a].Distance < hits[b].Distance })

		r.path.EndIndex = k + 1
		r.path.Hit = hits[0]
		r.path.HasHit = true
		for _, h := range hits {
			t := ctx.Registry.Resolve(h.Collider)
			if t == nil {
				logger.Debug("ray blocked",
					zap.String("interactor", i.Name),
					zap.Uint32("collider", uint32(h.Collider)),
					zap.Float32("distance", h.Distance))
				break
			}
			if !slices.Contains(dst, t) {
				dst = append(dst, t)
			}
		}
		break
	}
	return dst
}

func (r *RayResolver) cast(q scene.Query, ray scene.Ray, length float32) []scene.Hit {
	mask := r.Config.RaycastMask
	if mask == 0 {
		mask = scene.AllLayers
	}
	if r.Config.HitDetection == HitSphereCast {
		return q.SphereCast(ray, r.Config.SphereCastRadius, length, mask)
	}
	return q.Raycast(ray, length, mask)
}
