package csg

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// DefaultMaxRetries is the number of candidates a boolean composite examines per
// member and query before it gives up on that member
const DefaultMaxRetries = 100

var (
	// ErrEmptyComposite is returned when a composite that needs members has none
	ErrEmptyComposite = errors.New("composite has no members")
	// ErrMissingPlus is returned when a difference has nothing to subtract from
	ErrMissingPlus = errors.New("difference has no plus member")
	// ErrMissingMinus is returned when a difference subtracts nothing
	ErrMissingMinus = errors.New("difference has no minus member")
	// ErrNilMember is returned when a nil scene object is added to a composite
	ErrNilMember = errors.New("nil member")
)

// Config controls the candidate search shared by the boolean composites
type Config struct {
	MaxRetries int         // Candidates examined per member and query (0 = DefaultMaxRetries)
	Logger     core.Logger // Receives retry-limit and stall reports (nil = stdout)
}

// DefaultConfig returns the configuration used by the constructors
func DefaultConfig() Config {
	return Config{
		MaxRetries: DefaultMaxRetries,
		Logger:     core.NewDefaultLogger(),
	}
}

func (c Config) maxRetries() int {
	if c.MaxRetries <= 0 {
		return DefaultMaxRetries
	}
	return c.MaxRetries
}

func (c Config) logger() core.Logger {
	if c.Logger == nil {
		return core.NewDefaultLogger()
	}
	return c.Logger
}

// Configurable is implemented by composites whose candidate search can be tuned
type Configurable interface {
	SetConfig(cfg Config)
}

// Configure applies cfg to every configurable node of the graph under root and
// returns the number of nodes changed. Call it before the graph is queried.
func Configure(root core.SceneObject, cfg Config) int {
	count := 0
	Walk(root, func(o core.SceneObject) bool {
		if c, ok := o.(Configurable); ok {
			c.SetConfig(cfg)
			count++
		}
		return true
	})
	return count
}
