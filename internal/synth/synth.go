// Package synth rebuilds a host-native traceback chain from a captured
// stack, for presentation through the host's exception-reporting path.
//
// The original execution state (locals, closures) no longer exists when a
// snapshot is presented, so each link wraps a freshly fabricated minimal
// code unit rather than the live one: newer host builds apply stricter
// consistency checks to fabricated frames, and a fabricated frame over a
// live code unit can fail them. The placeholder carries only the file
// name, the function name, and the resolved line.
package synth

import (
	"fmt"

	"tracecap/internal/base"
	"tracecap/internal/resolve"
)

// Build constructs one synthetic traceback link per captured frame.
// frames are innermost first, as captured; links are built in that order so
// the returned head is the outermost frame and Next walks inward, matching
// the host's reporting convention. Requires the execution lock. Returns
// nil for an empty capture.
func Build(lock base.ExecLock, builder base.FrameBuilder, frames []base.RawFrame) (base.ForeignTraceback, error) {
	base.AssertLocked(lock)

	globals := builder.NewGlobals()

	var tb base.ForeignTraceback
	for _, f := range frames {
		code := f.Code()
		line := resolve.Line(code, f.Offset())

		placeholder, err := builder.NewCode(code.FileName(), code.Name(), line)
		if err != nil {
			return nil, fmt.Errorf("fabricating code unit for %q: %w", code.Name(), err)
		}

		frameObj, err := builder.NewFrame(placeholder, globals)
		if err != nil {
			return nil, fmt.Errorf("fabricating frame for %q: %w", code.Name(), err)
		}

		// The synthetic frame never executed, so its instruction offset is
		// zero; the display line is resolved from the real capture.
		tb, err = builder.NewTracebackLink(tb, frameObj, 0, line)
		if err != nil {
			return nil, fmt.Errorf("chaining traceback link for %q: %w", code.Name(), err)
		}
	}
	return tb, nil
}
