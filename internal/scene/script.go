package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/isoworld/internal/core"
)

var scriptActions = map[string]core.Action{
	"up":    core.ActionUp,
	"down":  core.ActionDown,
	"left":  core.ActionLeft,
	"right": core.ActionRight,
	"jump":  core.ActionJump,
	"pause": core.ActionPause,
}

// Script is a scripted input sequence for headless runs.
type Script []core.InputFrame

// ParseScript reads an input script: whitespace or comma separated steps of
// the form "action[+action...][*frames]", e.g. "right*30 right+jump up*10".
// "idle" stands for a frame with no input.
func ParseScript(s string) (Script, error) {
	var out Script
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	for _, f := range fields {
		names, count := f, 1
		if i := strings.IndexByte(f, '*'); i >= 0 {
			n, err := strconv.Atoi(f[i+1:])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("scene: bad repeat count in %q", f)
			}
			names, count = f[:i], n
		}

		frame := core.NewInputFrame()
		for _, name := range strings.Split(names, "+") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "idle" {
				continue
			}
			a, ok := scriptActions[name]
			if !ok {
				return nil, fmt.Errorf("scene: unknown action %q in %q", name, f)
			}
			frame.Set(a)
		}
		for i := 0; i < count; i++ {
			out = append(out, frame.Clone())
		}
	}
	return out, nil
}

// Frame returns the input for the given frame index; past the end of the
// script the input is empty.
func (s Script) Frame(i int) core.InputFrame {
	if i < 0 || i >= len(s) {
		return core.NewInputFrame()
	}
	return s[i]
}
