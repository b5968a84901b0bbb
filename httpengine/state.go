/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package httpengine

// Phase distinguishes the sub-state a connection is in while processing one
// method: the request/response line plus headers, then the body transfer in
// the direction appropriate for this side of the exchange.
type Phase uint8

const (
	// PhaseHeader covers the request/response line and header block.
	PhaseHeader Phase = iota
	// PhaseRecv is the server reading a request body, or a phase that does
	// not apply to the client side.
	PhaseRecv
	// PhaseSend is the client reading a response body, or the server
	// writing one.
	PhaseSend
)

// State is the protocol state machine position named by the overview:
// waiting, one state per in-flight method (itself split into header/recv/
// send phases), the shared terminal status state, and a single error
// state.
type State struct {
	Method Method
	Phase  Phase
	Status bool // true once the exchange has reached the shared "status" state
	Error  bool
}

// Waiting is the idle state between exchanges.
func Waiting() State { return State{} }

func (s State) String() string {
	switch {
	case s.Error:
		return "error"
	case s.Status:
		return "status"
	case s.Method == MethodUnknown && s.Phase == PhaseHeader && !s.Status:
		return "waiting"
	case s.Phase == PhaseRecv:
		return s.Method.String() + "-recv"
	case s.Phase == PhaseSend:
		return s.Method.String() + "-send"
	default:
		return s.Method.String()
	}
}

// IsWaiting reports the idle state between exchanges.
func (s State) IsWaiting() bool {
	return s == State{}
}

// nextAfterHeader computes the transition reached once the header block of method m
// has been fully read/written. hasBody decides whether the state advances
// into the recv/send phase or goes straight to status (no-body exchange).
func nextAfterHeader(m Method, hasBody bool, asServer bool) State {
	if !hasBody {
		return State{Status: true}
	}
	if asServer {
		return State{Method: m, Phase: PhaseRecv}
	}
	return State{Method: m, Phase: PhaseSend}
}

// nextAfterBody is reached once the body's fixed-length counter hits zero
// or the chunked terminator is seen.
func nextAfterBody(cur State, asServer bool) State {
	if asServer && cur.Phase == PhaseRecv {
		return State{Method: cur.Method, Phase: PhaseSend}
	}
	return State{Status: true}
}
