package cegis

import (
	"bytes"
	"fmt"
	"time"
)

// Stats records the progress of the most recent synthesis call.
type Stats struct {
	Iterations int           `msgpack:"iterations"`
	Examples   []Example     `msgpack:"-"`
	Candidates [][]int       `msgpack:"candidates"`
	Elapsed    time.Duration `msgpack:"elapsed"`
	Values     [][]uint64    `msgpack:"examples"`
}

// setExamples copies the examples into the stats, keeping raw values for encoding.
func (s *Stats) setExamples(examples []Example) {
	s.Examples = append([]Example(nil), examples...)
	s.Values = make([][]uint64, len(examples))
	for i, example := range examples {
		s.Values[i] = make([]uint64, len(example))
		for j := range example {
			s.Values[i][j] = example[j].Value
		}
	}
}

// String returns a multi-line report of iterations, examples and candidates.
func (s *Stats) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "iterations: %d\n", s.Iterations)
	buf.WriteString("examples:\n")
	for _, example := range s.Examples {
		fmt.Fprintf(&buf, "- %s\n", example)
	}
	buf.WriteString("programs:\n")
	for _, candidate := range s.Candidates {
		fmt.Fprintf(&buf, "- %v\n", candidate)
	}
	return buf.String()
}
