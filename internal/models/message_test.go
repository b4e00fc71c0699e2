package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_ZeroValue(t *testing.T) {
	var tr Transcript

	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.Messages())

	_, ok := tr.LastAnswer()
	assert.False(t, ok)
}

func TestTranscript_AppendKeepsOrder(t *testing.T) {
	var tr Transcript
	tr.Append(UserMessage("hi"))
	tr.Append(AssistantMessage("hello"))
	tr.Append(UserMessage("again"))

	msgs := tr.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, Message{Role: RoleUser, Content: "hi"}, msgs[0])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "hello"}, msgs[1])
	assert.Equal(t, Message{Role: RoleUser, Content: "again"}, msgs[2])

	answer, ok := tr.LastAnswer()
	require.True(t, ok)
	assert.Equal(t, "hello", answer)
}

func TestTranscript_MessagesIsACopy(t *testing.T) {
	var tr Transcript
	tr.Append(UserMessage("original"))

	msgs := tr.Messages()
	msgs[0].Content = "mutated"

	assert.Equal(t, "original", tr.Messages()[0].Content)
}
