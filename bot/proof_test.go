package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

func TestMediaRefCarriesKind(t *testing.T) {
	photo := &tele.Message{Photo: &tele.Photo{File: tele.File{FileID: "ph-1"}}}
	require.Equal(t, "photo:ph-1", mediaRef(photo))

	doc := &tele.Message{Document: &tele.Document{File: tele.File{FileID: "doc-1"}}}
	require.Equal(t, "document:doc-1", mediaRef(doc))

	// photo wins when both are present
	both := &tele.Message{
		Photo:    &tele.Photo{File: tele.File{FileID: "ph-2"}},
		Document: &tele.Document{File: tele.File{FileID: "doc-2"}},
	}
	require.Equal(t, "photo:ph-2", mediaRef(both))
}

func TestMediaRefEmpty(t *testing.T) {
	require.Empty(t, mediaRef(nil))
	require.Empty(t, mediaRef(&tele.Message{Text: "not media"}))
}
