// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

// State is the parsing stage of a Parser. It only moves forward.
type State int8

const (
	StateRequestLine State = iota
	StateHeaders
	StateBody
	StateDone
)

var stateNames = [...]string{
	StateRequestLine: "RequestLine",
	StateHeaders:     "Headers",
	StateBody:        "Body",
	StateDone:        "Done",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Invalid"
}

// Outcome is the non-failure result of Parser.Feed.
type Outcome int8

const (
	// OK means a stage completed; Feed never returns it, it keeps going.
	OK Outcome = iota
	// Incomplete means more bytes are needed.
	Incomplete
	// HeadersDone is the checkpoint between headers and body where the
	// caller runs the Validator.
	HeadersDone
	// Done means the request is complete.
	Done
)

var outcomeNames = [...]string{
	OK:          "OK",
	Incomplete:  "Incomplete",
	HeadersDone: "HeadersDone",
	Done:        "Done",
}

func (o Outcome) String() string {
	if o >= 0 && int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "Invalid"
}
