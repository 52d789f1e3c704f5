package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

func TestProofMediaResendType(t *testing.T) {
	photo, ok := proofMedia("photo:ph-1").(*tele.Photo)
	require.True(t, ok)
	require.Equal(t, "ph-1", photo.FileID)

	doc, ok := proofMedia("document:doc-1").(*tele.Document)
	require.True(t, ok, "a document id must be resent as a document, not a photo")
	require.Equal(t, "doc-1", doc.FileID)
}

func TestProofMediaBareIDDefaultsToPhoto(t *testing.T) {
	photo, ok := proofMedia("legacy-id").(*tele.Photo)
	require.True(t, ok)
	require.Equal(t, "legacy-id", photo.FileID)
}

func TestMessengerUnboundTransport(t *testing.T) {
	m := NewMessenger([]int64{1})
	require.Error(t, m.SendToUser(context.Background(), 42, "hi"))
	require.Error(t, m.ForwardMedia(context.Background(), 42, "photo:x"))
}
