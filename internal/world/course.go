package world

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Layer is a collision category bitmask. Probes filter cells by layer.
type Layer uint8

const (
	LayerNone   Layer = 0
	LayerGround Layer = 1 << 0
	LayerWall   Layer = 1 << 1
)

// maxBoxCells bounds the number of cells a single Fill may touch.
const maxBoxCells = 1 << 20

var ErrInvalidBox = errors.New("invalid course box")

func (l Layer) String() string {
	switch l {
	case LayerNone:
		return "none"
	case LayerGround:
		return "ground"
	case LayerWall:
		return "wall"
	default:
		return fmt.Sprintf("layer(%d)", uint8(l))
	}
}

func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ground":
		return LayerGround, nil
	case "wall":
		return LayerWall, nil
	default:
		return LayerNone, fmt.Errorf("unknown layer %q", s)
	}
}

type Cell struct {
	X int
	Y int
	Z int
}

// Box is an inclusive cell range as it appears in course files.
type Box struct {
	Min   [3]int `yaml:"min" toml:"min"`
	Max   [3]int `yaml:"max" toml:"max"`
	Layer string `yaml:"layer" toml:"layer"`
}

// Course is the voxel geometry a run takes place on.
type Course struct {
	mu    sync.RWMutex
	cells map[Cell]Layer
}

func NewCourse() *Course {
	return &Course{cells: make(map[Cell]Layer)}
}

func FromBoxes(boxes []Box) (*Course, error) {
	c := NewCourse()
	for i, box := range boxes {
		layer, err := ParseLayer(box.Layer)
		if err != nil {
			return nil, fmt.Errorf("box %d: %w: %v", i, ErrInvalidBox, err)
		}
		minCell := Cell{X: box.Min[0], Y: box.Min[1], Z: box.Min[2]}
		maxCell := Cell{X: box.Max[0], Y: box.Max[1], Z: box.Max[2]}
		if err := c.Fill(minCell, maxCell, layer); err != nil {
			return nil, fmt.Errorf("box %d: %w", i, err)
		}
	}
	return c, nil
}

// Fill sets every cell in the inclusive range to layer. LayerNone clears.
func (c *Course) Fill(minCell, maxCell Cell, layer Layer) error {
	if maxCell.X < minCell.X || maxCell.Y < minCell.Y || maxCell.Z < minCell.Z {
		return fmt.Errorf("%w: max %v below min %v", ErrInvalidBox, maxCell, minCell)
	}
	dx, dy, dz := extent(minCell.X, maxCell.X), extent(minCell.Y, maxCell.Y), extent(minCell.Z, maxCell.Z)
	if dx >= maxBoxCells || dy >= maxBoxCells || dz >= maxBoxCells || (dx+1)*(dy+1)*(dz+1) > maxBoxCells {
		return fmt.Errorf("%w: box %v..%v exceeds limit of %d cells", ErrInvalidBox, minCell, maxCell, maxBoxCells)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cells == nil {
		c.cells = make(map[Cell]Layer)
	}
	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cell := Cell{X: x, Y: y, Z: z}
				if layer == LayerNone {
					delete(c.cells, cell)
					continue
				}
				c.cells[cell] = layer
			}
		}
	}
	return nil
}

func (c *Course) LayerAt(x, y, z int) Layer {
	if c == nil {
		return LayerNone
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cells[Cell{X: x, Y: y, Z: z}]
}

// IsSolid reports whether any layer occupies the cell. The host body
// collides with ground and walls alike.
func (c *Course) IsSolid(x, y, z int) bool {
	return c.LayerAt(x, y, z) != LayerNone
}

func (c *Course) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cells)
}

// extent is hi-lo for hi >= lo, exact across the whole int range.
func extent(lo, hi int) uint64 {
	return uint64(hi) - uint64(lo)
}
