package ui

import (
	"image"
	"math"
	"strconv"

	"potts-ca/internal/core"
)

// controlState tracks one adjustable parameter and its on-screen buttons.
type controlState struct {
	control    core.ParameterControl
	value      string
	hasValue   bool
	intValue   int
	floatValue float64

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// Controls is the headless half of the HUD: it mirrors the simulation's
// adjustable parameters and applies +/- steps through the sim's setters.
type Controls struct {
	states      []controlState
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter
	readouts    []string
}

// NewControls collects the parameter controls and setters sim exposes.
func NewControls(sim core.Sim) *Controls {
	c := &Controls{}
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		for _, ctrl := range provider.ParameterControls() {
			c.states = append(c.states, controlState{control: ctrl, value: "--"})
		}
	}
	if setter, ok := sim.(core.IntParameterSetter); ok {
		c.intSetter = setter
	}
	if setter, ok := sim.(core.FloatParameterSetter); ok {
		c.floatSetter = setter
	}
	return c
}

// Len returns the number of adjustable controls.
func (c *Controls) Len() int { return len(c.states) }

// Value returns the formatted value of control i.
func (c *Controls) Value(i int) string { return c.states[i].value }

// Readouts returns the read-only lines built by the last Refresh.
func (c *Controls) Readouts() []string { return c.readouts }

// Refresh copies current values out of snapshot. Parameters that have no
// control become read-only "Label: value" lines.
func (c *Controls) Refresh(snapshot core.ParameterSnapshot) {
	params := map[string]core.Parameter{}
	controlled := map[string]bool{}
	for _, s := range c.states {
		controlled[s.control.Key] = true
	}
	c.readouts = c.readouts[:0]
	for _, group := range snapshot.Groups {
		for _, p := range group.Params {
			params[p.Key] = p
			if !controlled[p.Key] && group.Name == "Population" {
				c.readouts = append(c.readouts, p.Label+": "+p.Value)
			}
		}
		if group.Name == "Population" && group.Summary != "" {
			c.readouts = append(c.readouts, group.Summary)
		}
	}
	for i := range c.states {
		c.states[i].refresh(params)
	}
}

func (s *controlState) refresh(params map[string]core.Parameter) {
	s.hasValue = false
	s.value = "--"
	param, ok := params[s.control.Key]
	if !ok {
		return
	}
	switch s.control.Type {
	case core.ParamTypeInt:
		// integer controls may be backed by float parameters
		parsed, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			return
		}
		s.intValue = int(math.Round(parsed))
		s.floatValue = float64(s.intValue)
		s.value = strconv.Itoa(s.intValue)
		s.hasValue = true
	case core.ParamTypeFloat:
		parsed, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			return
		}
		s.floatValue = parsed
		s.value = formatControl(s.control, parsed)
		s.hasValue = true
	}
}

// next returns the clamped value one step in direction, and false when the
// control cannot move that way.
func (s *controlState) next(direction int) (float64, bool) {
	if !s.hasValue || direction == 0 {
		return 0, false
	}
	ctrl := s.control
	switch ctrl.Type {
	case core.ParamTypeInt:
		step := int(math.Round(ctrl.Step))
		if step <= 0 {
			step = 1
		}
		target := s.intValue + direction*step
		if ctrl.HasMin && target < int(math.Round(ctrl.Min)) {
			target = int(math.Round(ctrl.Min))
		}
		if ctrl.HasMax && target > int(math.Round(ctrl.Max)) {
			target = int(math.Round(ctrl.Max))
		}
		return float64(target), target != s.intValue
	case core.ParamTypeFloat:
		step := ctrl.Step
		if step <= 0 {
			step = 0.05
		}
		target := s.floatValue + float64(direction)*step
		if ctrl.HasMin && target < ctrl.Min {
			target = ctrl.Min
		}
		if ctrl.HasMax && target > ctrl.Max {
			target = ctrl.Max
		}
		return target, math.Abs(target-s.floatValue) >= 1e-9
	}
	return 0, false
}

// CanAdjust reports whether control i can step in direction.
func (c *Controls) CanAdjust(i, direction int) bool {
	s := &c.states[i]
	if _, ok := s.next(direction); !ok {
		return false
	}
	if s.control.Type == core.ParamTypeInt {
		return c.intSetter != nil
	}
	return c.floatSetter != nil
}

// Adjust steps control i in direction and reports whether the sim accepted it.
func (c *Controls) Adjust(i, direction int) bool {
	if !c.CanAdjust(i, direction) {
		return false
	}
	s := &c.states[i]
	target, _ := s.next(direction)
	switch s.control.Type {
	case core.ParamTypeInt:
		v := int(target)
		if !c.intSetter.SetIntParameter(s.control.Key, v) {
			return false
		}
		s.intValue = v
		s.floatValue = target
		s.value = strconv.Itoa(v)
	case core.ParamTypeFloat:
		if !c.floatSetter.SetFloatParameter(s.control.Key, target) {
			return false
		}
		s.floatValue = target
		s.value = formatControl(s.control, target)
	}
	return true
}

func formatControl(ctrl core.ParameterControl, value float64) string {
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}
