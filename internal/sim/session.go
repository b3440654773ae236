package sim

import (
	"fmt"
	"log/slog"

	"github.com/Versifine/glide/internal/body"
	"github.com/Versifine/glide/internal/config"
	"github.com/Versifine/glide/internal/event"
	"github.com/Versifine/glide/internal/input"
	"github.com/Versifine/glide/internal/movement"
	"github.com/Versifine/glide/internal/sensor"
	"github.com/Versifine/glide/internal/world"
	"github.com/go-gl/mathgl/mgl64"
)

// Session owns one skater on one course and everything wired between them.
type Session struct {
	Config     *config.Config
	Course     *world.Course
	Sensor     *sensor.Anchored
	Body       *body.Body
	Bus        *event.Bus
	Input      *input.Dispatcher
	Controller *movement.Controller
}

func NewSession(cfg *config.Config, log *slog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	course, err := cfg.Course.Build()
	if err != nil {
		return nil, fmt.Errorf("build course: %w", err)
	}
	probe := sensor.NewAnchored(sensor.NewRaycaster(course), sensor.DefaultLift)
	b := body.New(mgl64.Vec3(cfg.Simulation.Spawn), course)
	bus := event.NewBus()
	dispatcher := input.NewDispatcher(cfg.Simulation.InputBuffer)

	controller, err := movement.New(cfg.Movement, b, probe,
		movement.WithPublisher(bus),
		movement.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("create controller: %w", err)
	}
	if err := controller.Enable(dispatcher); err != nil {
		return nil, err
	}

	log.Info("Session ready",
		"cells", course.Len(),
		"spawn", mgl64.Vec3(cfg.Simulation.Spawn),
		"tick_rate", cfg.Simulation.TickRate,
	)
	return &Session{
		Config:     cfg,
		Course:     course,
		Sensor:     probe,
		Body:       b,
		Bus:        bus,
		Input:      dispatcher,
		Controller: controller,
	}, nil
}

// Close detaches the controller from input and returns gravity to the body.
func (s *Session) Close() {
	if s == nil || s.Controller == nil {
		return
	}
	s.Controller.Disable()
}
