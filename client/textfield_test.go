package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeFieldAcceptsFullEscapeCode(t *testing.T) {
	// 五个两字符碎片拼成的完整密码
	const code = "A1B2C3D4E5"
	assert.GreaterOrEqual(t, MaxCodeLen, len(code))

	f := NewCodeField()
	for _, r := range strings.ToLower(code) {
		assert.True(t, f.Append(r), "rejected %q", r)
	}
	assert.Equal(t, code, f.String())
}

func TestCodeFieldLimitAndFilter(t *testing.T) {
	f := NewCodeField()
	assert.False(t, f.Append('-'))
	assert.False(t, f.Append(' '))
	for i := 0; i < MaxCodeLen; i++ {
		assert.True(t, f.Append('7'))
	}
	assert.False(t, f.Append('7'))
	assert.Len(t, f.String(), MaxCodeLen)

	f.Backspace()
	assert.Len(t, f.String(), MaxCodeLen-1)
	f.Set("")
	f.Backspace()
	assert.Empty(t, f.String())
}

func TestRoomCodeAndNameFields(t *testing.T) {
	room := NewRoomCodeField("ab-cd")
	assert.Equal(t, "ABCD", room.String())
	room.Append('9')
	assert.Equal(t, "ABCD9", room.Value())

	name := NewNameField("Ann Lee")
	assert.Equal(t, "Ann Lee", name.String())
	name.Append(' ')
	assert.Equal(t, "Ann Lee", name.Value())

	long := NewNameField(strings.Repeat("x", 40))
	assert.Len(t, long.String(), MaxNameLen)
}
