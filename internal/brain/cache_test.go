package brain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_PutGet(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)

	c.Put("What time is it?", "It's noon.")

	got, ok := c.Get("What time is it?")
	require.True(t, ok)
	assert.Equal(t, "It's noon.", got)
}

func TestCache_NormalizedKeysShareEntries(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)

	c.Put("What time is it?", "It's noon.")

	for _, prompt := range []string{
		"what time is it",
		"  WHAT   TIME  IS IT!! ",
		"What Time Is It?",
	} {
		got, ok := c.Get(prompt)
		assert.True(t, ok, "prompt %q should hit", prompt)
		assert.Equal(t, "It's noon.", got)
	}
}

func TestCache_CapacityNeverExceeded(t *testing.T) {
	const size = 5
	c, err := NewCache(size)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		c.Put(fmt.Sprintf("prompt %d", i), fmt.Sprintf("response %d", i))
		assert.LessOrEqual(t, c.Len(), size)
	}
	assert.Equal(t, size, c.Len())

	// Only the most recent entries survive.
	_, ok := c.Get("prompt 0")
	assert.False(t, ok)
	got, ok := c.Get("prompt 99")
	require.True(t, ok)
	assert.Equal(t, "response 99", got)
}

func TestNormalizePrompt(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello", "hello"},
		{"  spaced   out  ", "spaced out"},
		{"Question?", "question"},
		{"Really?!", "really"},
		{"trailing dots...", "trailing dots"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizePrompt(tc.in); got != tc.want {
			t.Errorf("NormalizePrompt(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
