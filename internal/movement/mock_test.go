package movement

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

type mockBody struct {
	pos     mgl64.Vec3
	vel     mgl64.Vec3
	rot     mgl64.Quat
	gravity bool
	toggles []bool
	writes  int
}

func newMockBody(vel mgl64.Vec3) *mockBody {
	return &mockBody{vel: vel, rot: mgl64.QuatIdent(), gravity: true}
}

func (b *mockBody) Position() mgl64.Vec3      { return b.pos }
func (b *mockBody) Velocity() mgl64.Vec3      { return b.vel }
func (b *mockBody) Rotation() mgl64.Quat      { return b.rot }
func (b *mockBody) SetRotation(q mgl64.Quat)  { b.rot = q }
func (b *mockBody) SetVelocity(v mgl64.Vec3)  { b.vel = v; b.writes++ }
func (b *mockBody) SetGravityEnabled(on bool) { b.gravity = on; b.toggles = append(b.toggles, on) }

type wallHit struct {
	normal mgl64.Vec3
	ok     bool
}

type mockSensor struct {
	ground     bool
	left       wallHit
	right      wallHit
	wallProbes int
}

func (s *mockSensor) ProbeGround(mgl64.Vec3, float64) bool { return s.ground }

func (s *mockSensor) ProbeWall(_ mgl64.Vec3, dir mgl64.Vec3, _ float64) (mgl64.Vec3, bool) {
	s.wallProbes++
	hit := s.right
	if dir.X() < 0 {
		hit = s.left
	}
	return hit.normal, hit.ok
}

type published struct {
	name    string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(name string, evt any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{name: name, payload: evt})
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.name)
	}
	return out
}

var zero mgl64.Vec3

const testDt = 0.02

func newTestController(t interface {
	Helper()
	Fatalf(string, ...any)
}, cfg Config, body *mockBody, sensor *mockSensor, opts ...Option) *Controller {
	t.Helper()
	c, err := New(cfg, body, sensor, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func tickN(t interface {
	Helper()
	Fatalf(string, ...any)
}, c *Controller, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := c.Tick(testDt); err != nil {
			t.Fatalf("Tick() #%d error = %v", i+1, err)
		}
	}
}
