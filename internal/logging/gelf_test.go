package logging

import (
	"log/slog"
	"testing"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGELFWriter(t *testing.T) {
	r, err := gelf.NewReader("127.0.0.1:0")
	require.NoError(t, err)

	w, err := NewGELFWriter(r.Addr())
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, InstrumentationName, w.Facility)

	m := NewSlogManager()
	m.Setup(nil, "info", nil, WithWriter(w), WithContext(func() []slog.Attr {
		return []slog.Attr{slog.String("phase", "WeaponAttack")}
	}))

	msg, err := r.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, msg.Short, "Logging initialized")
	assert.Contains(t, msg.Short, "phase=WeaponAttack")
	assert.Equal(t, InstrumentationName, msg.Facility)
}

func TestNewGELFWriter_BadAddress(t *testing.T) {
	_, err := NewGELFWriter("not an address")
	assert.Error(t, err)
}
