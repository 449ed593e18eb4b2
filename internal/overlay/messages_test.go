package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrameMessage(t *testing.T) {
	msg, err := DecodeFrameMessage([]byte(`{"type":"MARKER_CLICKED","projectId":"p1","commentId":"c1"}`))
	require.NoError(t, err)
	assert.Equal(t, FrameMarkerClicked, msg.Type)
	assert.Equal(t, "c1", msg.CommentID)
}

func TestDecodeFrameMessageHover(t *testing.T) {
	msg, err := DecodeFrameMessage([]byte(`{"type":"REMOTE_HOVER","commentId":"c1","isHovering":true}`))
	require.NoError(t, err)
	require.NotNil(t, msg.IsHovering)
	assert.True(t, *msg.IsHovering)

	// Hover without the boolean is malformed.
	_, err = DecodeFrameMessage([]byte(`{"type":"REMOTE_HOVER","commentId":"c1"}`))
	assert.Error(t, err)
}

// The overlay script relays realtime events to the hosting page; its update
// message carries the full comment record so the dashboard can render
// without a refetch. Decode the shapes the script actually posts.
func TestDecodeFrameMessageFromOverlayScript(t *testing.T) {
	record := `{"id":"c1","project_id":"p1","text":"moved","x":10,"y":20,"resolved":false}`

	msg, err := DecodeFrameMessage([]byte(
		`{"projectId":"p1","type":"COMMENT_UPDATED","commentId":"c1","comment":` + record + `}`))
	require.NoError(t, err)
	assert.Equal(t, FrameCommentUpdated, msg.Type)
	assert.JSONEq(t, record, string(msg.Comment))

	_, err = DecodeFrameMessage([]byte(`{"projectId":"p1","type":"COMMENT_ADDED","commentId":"c1"}`))
	require.NoError(t, err)

	_, err = DecodeFrameMessage([]byte(`{"projectId":"p1","type":"COMMENT_DELETED","commentId":"c1"}`))
	require.NoError(t, err)

	_, err = DecodeFrameMessage([]byte(
		`{"projectId":"p1","type":"MARKER_HOVER","commentId":"c1","isHovering":false}`))
	require.NoError(t, err)
}

func TestDecodeFrameMessageRejectsUnknownType(t *testing.T) {
	_, err := DecodeFrameMessage([]byte(`{"type":"EVAL_JS","commentId":"c1"}`))
	assert.Error(t, err)
}

func TestDecodeFrameMessageRejectsMissingFields(t *testing.T) {
	cases := []string{
		`{"type":"MARKER_CLICKED"}`,
		`{"type":"HIGHLIGHT_COMMENT"}`,
		`{"type":"COMMENT_DELETED"}`,
		`{"type":"COMMENT_UPDATED"}`,
		`not json`,
	}
	for _, raw := range cases {
		_, err := DecodeFrameMessage([]byte(raw))
		assert.Error(t, err, raw)
	}
}
