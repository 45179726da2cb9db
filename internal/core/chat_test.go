package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptAppend(t *testing.T) {
	tr := NewTranscript()

	msg, ok := tr.Append("AvatarDancer", "This club is amazing tonight!")
	require.True(t, ok)
	assert.Equal(t, 1, msg.Seq)
	assert.Equal(t, "AvatarDancer", msg.Author)

	msg, ok = tr.Append("VirtualVibes", "  Love the music selection!  ")
	require.True(t, ok)
	assert.Equal(t, 2, msg.Seq)
	assert.Equal(t, "Love the music selection!", msg.Body, "body is trimmed")

	assert.Equal(t, 2, tr.Len())
}

func TestTranscriptRejectsBlankBody(t *testing.T) {
	tr := NewTranscript()
	tr.Append("someone", "hello")

	for _, body := range []string{"", "   ", "\t", "\n\n"} {
		_, ok := tr.Append("someone", body)
		assert.False(t, ok)
	}
	assert.Equal(t, 1, tr.Len())
}

func TestTranscriptSequenceStrictlyIncreases(t *testing.T) {
	tr := NewTranscript()
	prev := 0
	for i := 0; i < 50; i++ {
		msg, ok := tr.Append("u", fmt.Sprintf("message %d", i))
		require.True(t, ok)
		assert.Greater(t, msg.Seq, prev)
		prev = msg.Seq
	}

	msgs := tr.Messages()
	for i := 1; i < len(msgs); i++ {
		assert.Less(t, msgs[i-1].Seq, msgs[i].Seq)
	}
}

func TestTranscriptReset(t *testing.T) {
	tr := NewTranscript()
	tr.Append("u", "one")
	tr.Append("u", "two")

	tr.Reset()
	assert.Zero(t, tr.Len())

	// Numbering restarts with the session.
	msg, ok := tr.Append("u", "fresh")
	require.True(t, ok)
	assert.Equal(t, 1, msg.Seq)
}

func TestTranscriptAllIteratesInAppendOrder(t *testing.T) {
	tr := NewTranscript()
	tr.Append("a", "first")
	tr.Append("b", "second")
	tr.Append("c", "third")

	var bodies []string
	for msg := range tr.All() {
		bodies = append(bodies, msg.Body)
	}
	assert.Equal(t, []string{"first", "second", "third"}, bodies)
}

func TestTranscriptMessagesIsACopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append("a", "original")

	msgs := tr.Messages()
	msgs[0].Body = "mutated"

	assert.Equal(t, "original", tr.Messages()[0].Body)
}
