package body

import (
	"fmt"
	"sync"

	"github.com/Versifine/glide/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// Snapshot is a copy of the body state taken under its lock.
type Snapshot struct {
	Position       mgl64.Vec3
	Velocity       mgl64.Vec3
	Rotation       mgl64.Quat
	OnGround       bool
	GravityEnabled bool
}

// Body is the host-side skater body. The movement controller writes its
// velocity, rotation and gravity flag; Integrate moves it through the
// course once per host tick.
type Body struct {
	mu             sync.Mutex
	state          physics.State
	rotation       mgl64.Quat
	gravity        bool
	gravityToggles int
	blockStore     physics.BlockStore
}

func New(spawn mgl64.Vec3, blockStore physics.BlockStore) *Body {
	return &Body{
		state:      physics.State{Position: spawn},
		rotation:   mgl64.QuatIdent(),
		gravity:    true,
		blockStore: blockStore,
	}
}

func (b *Body) Position() mgl64.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Position
}

func (b *Body) Velocity() mgl64.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Velocity
}

func (b *Body) SetVelocity(v mgl64.Vec3) {
	b.mu.Lock()
	b.state.Velocity = v
	b.mu.Unlock()
}

func (b *Body) Rotation() mgl64.Quat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rotation
}

func (b *Body) SetRotation(q mgl64.Quat) {
	b.mu.Lock()
	b.rotation = q
	b.mu.Unlock()
}

// SetGravityEnabled switches host gravity. Only real changes are counted.
func (b *Body) SetGravityEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gravity == enabled {
		return
	}
	b.gravity = enabled
	b.gravityToggles++
}

func (b *Body) GravityEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gravity
}

// GravityToggles is the number of times gravity changed state.
func (b *Body) GravityToggles() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gravityToggles
}

// Teleport moves the body without sweeping and stops it.
func (b *Body) Teleport(pos mgl64.Vec3) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.state.Position = pos
	b.state.Velocity = mgl64.Vec3{}
	b.state.OnGround = false
	b.mu.Unlock()
}

// Integrate advances the body by dt seconds against the course.
func (b *Body) Integrate(dt float64) error {
	if b == nil {
		return fmt.Errorf("body is nil")
	}
	if b.blockStore == nil {
		return fmt.Errorf("block store is nil")
	}
	if dt <= 0 {
		return fmt.Errorf("integrate dt must be positive, got %v", dt)
	}

	b.mu.Lock()
	physics.Step(&b.state, dt, b.gravity, b.blockStore)
	b.mu.Unlock()
	return nil
}

func (b *Body) Snapshot() Snapshot {
	if b == nil {
		return Snapshot{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Position:       b.state.Position,
		Velocity:       b.state.Velocity,
		Rotation:       b.rotation,
		OnGround:       b.state.OnGround,
		GravityEnabled: b.gravity,
	}
}
