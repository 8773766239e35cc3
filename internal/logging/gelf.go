package logging

import (
	"fmt"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGELFWriter dials a Graylog UDP input. Each Write becomes one GELF
// message, so it can be passed to Setup through WithWriter.
func NewGELFWriter(addr string) (*gelf.Writer, error) {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return nil, fmt.Errorf("dial graylog %s: %w", addr, err)
	}
	w.Facility = InstrumentationName
	return w, nil
}
