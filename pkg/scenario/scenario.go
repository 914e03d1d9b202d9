package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidScenario   = errors.New("scenario: invalid")
	ErrExpectationFailed = errors.New("scenario: expectation failed")
)

// Scenario describes a tree of computations over named dependencies and a
// sequence of steps that change, flush and stop them.
type Scenario struct {
	Name         string   `yaml:"name"`
	Vars         []string `yaml:"vars"`
	Computations []*Node  `yaml:"computations"`
	Steps        []Step   `yaml:"steps"`
}

// Node is a computation. Children are created from inside the node's
// function, so they are owned by it.
type Node struct {
	Name  string   `yaml:"name"`
	Reads []string `yaml:"reads,omitempty"`
	// Emit is appended to the output buffer on every run
	Emit string `yaml:"emit,omitempty"`
	// OnInvalidate is "stop" or "emit:<text>"
	OnInvalidate string `yaml:"onInvalidate,omitempty"`
	// AfterFlush is emitted from an after-flush callback registered on every run
	AfterFlush string `yaml:"afterFlush,omitempty"`
	// StopAtRun stops the computation from inside its nth run
	StopAtRun int     `yaml:"stopAtRun,omitempty"`
	Children  []*Node `yaml:"children,omitempty"`
}

// Step holds exactly one action.
type Step struct {
	Change             string   `yaml:"change,omitempty"`
	Flush              bool     `yaml:"flush,omitempty"`
	Stop               string   `yaml:"stop,omitempty"`
	Invalidate         string   `yaml:"invalidate,omitempty"`
	Expect             *string  `yaml:"expect,omitempty"`
	ExpectNoDependents []string `yaml:"expectNoDependents,omitempty"`
}

const (
	invalidateStop = "stop"
	invalidateEmit = "emit:"
)

func Load(r io.Reader) (*Scenario, error) {
	sc := &Scenario{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	sc, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Validate checks that names are unique and that every reference resolves.
func (sc *Scenario) Validate() error {
	vars := map[string]bool{}
	for _, v := range sc.Vars {
		if v == "" || vars[v] {
			return fmt.Errorf("%w: var %q is empty or duplicated", ErrInvalidScenario, v)
		}
		vars[v] = true
	}

	nodes := map[string]bool{}
	var walk func(n *Node) error
	walk = func(n *Node) error {
		if n.Name == "" || nodes[n.Name] {
			return fmt.Errorf("%w: computation %q is unnamed or duplicated", ErrInvalidScenario, n.Name)
		}
		nodes[n.Name] = true
		for _, r := range n.Reads {
			if !vars[r] {
				return fmt.Errorf("%w: computation %q reads unknown var %q", ErrInvalidScenario, n.Name, r)
			}
		}
		if n.OnInvalidate != "" && n.OnInvalidate != invalidateStop && !strings.HasPrefix(n.OnInvalidate, invalidateEmit) {
			return fmt.Errorf("%w: computation %q has unknown onInvalidate %q", ErrInvalidScenario, n.Name, n.OnInvalidate)
		}
		if n.StopAtRun < 0 {
			return fmt.Errorf("%w: computation %q has negative stopAtRun", ErrInvalidScenario, n.Name)
		}
		for _, child := range n.Children {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	for _, n := range sc.Computations {
		if err := walk(n); err != nil {
			return err
		}
	}

	for i, st := range sc.Steps {
		actions := 0
		if st.Change != "" {
			actions++
			if !vars[st.Change] {
				return fmt.Errorf("%w: step %d changes unknown var %q", ErrInvalidScenario, i, st.Change)
			}
		}
		if st.Flush {
			actions++
		}
		for _, name := range []string{st.Stop, st.Invalidate} {
			if name == "" {
				continue
			}
			actions++
			if !nodes[name] {
				return fmt.Errorf("%w: step %d targets unknown computation %q", ErrInvalidScenario, i, name)
			}
		}
		if st.Expect != nil {
			actions++
		}
		if len(st.ExpectNoDependents) > 0 {
			actions++
			for _, v := range st.ExpectNoDependents {
				if !vars[v] {
					return fmt.Errorf("%w: step %d checks unknown var %q", ErrInvalidScenario, i, v)
				}
			}
		}
		if actions != 1 {
			return fmt.Errorf("%w: step %d has %d actions, want 1", ErrInvalidScenario, i, actions)
		}
	}

	return nil
}
