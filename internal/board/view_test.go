package board

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

func TestEscapeHTML(t *testing.T) {
	require.Equal(t, "&lt;b&gt;", EscapeHTML("<b>"))
	require.Equal(t, "", EscapeHTML(nil))
	require.Equal(t, "&amp;&lt;&gt;&quot;&#39;", EscapeHTML(`&<>"'`))
	require.Equal(t, "42", EscapeHTML(42))
	require.Equal(t, "boom &amp; bust", EscapeHTML(errors.New("boom & bust")))
}

func renderSnapshot(t *testing.T, snap model.Snapshot, form SignupForm) string {
	t.Helper()
	st := State{View: buildView(snap), Form: form}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, NewPage(st, "", time.Now())))
	return buf.String()
}

func TestRenderParticipants(t *testing.T) {
	body := renderSnapshot(t, seedSnapshot(), SignupForm{})

	require.Contains(t, body, "Participants (2)")
	require.Equal(t, 2, strings.Count(body, `class="delete-btn"`))
	require.Contains(t, body, `data-activity="Chess Club" data-email="michael@mergington.edu"`)
	require.Contains(t, body, NoParticipantsText)
	require.Contains(t, body, "<strong>Availability:</strong> 30 spots left")
}

func TestRenderNoParticipantsHasNoDeleteControls(t *testing.T) {
	snap := model.Snapshot{{Name: "Gym Class", Activity: model.Activity{MaxParticipants: 30, Participants: []string{}}}}
	body := renderSnapshot(t, snap, SignupForm{})

	require.Contains(t, body, NoParticipantsText)
	require.NotContains(t, body, "Participants (")
	require.NotContains(t, body, `class="delete-btn"`)
}

func TestRenderSelectOptions(t *testing.T) {
	body := renderSnapshot(t, seedSnapshot(), SignupForm{Activity: "Gym Class", Email: "a@b.com"})

	require.Equal(t, 3, strings.Count(body, "<option "))
	placeholder := strings.Index(body, PlaceholderLabel)
	chess := strings.Index(body, `<option value="Chess Club">`)
	gym := strings.Index(body, `<option value="Gym Class" selected>`)
	require.True(t, placeholder >= 0 && chess > placeholder && gym > chess, "options out of order")
	require.Contains(t, body, `value="a@b.com"`)
}

func TestRenderEscapesActivityFields(t *testing.T) {
	snap := model.Snapshot{{Name: "<script>x</script>", Activity: model.Activity{
		Description: `"quoted" & <b>bold</b>`,
		Schedule:    "Mon's",
		Participants: []string{
			`"><img src=x>`,
		},
	}}}
	body := renderSnapshot(t, snap, SignupForm{})

	require.NotContains(t, body, "<script>x</script>")
	require.NotContains(t, body, "<b>bold</b>")
	require.NotContains(t, body, `"><img src=x>`)
	require.Contains(t, body, "&lt;script&gt;x&lt;/script&gt;")
}

func TestRenderLoadError(t *testing.T) {
	st := State{View: View{Options: []Option{placeholderOption()}, LoadError: LoadFailedText}}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, NewPage(st, "", time.Now())))
	require.Contains(t, buf.String(), "<p>"+LoadFailedText+"</p>")
	require.NotContains(t, buf.String(), "activity-card")
}

func TestNewPageMessageTiming(t *testing.T) {
	now := time.Now()
	msg := model.StatusMessage{Text: "Signed up", Kind: model.KindSuccess, Visible: true, ExpiresAt: now.Add(1500 * time.Millisecond)}

	p := NewPage(State{Message: msg}, "", now)
	require.Equal(t, int64(1500), p.HideAfterMS)
	require.True(t, p.Message.Visible)

	expired := NewPage(State{Message: msg}, "", now.Add(2*time.Second))
	require.False(t, expired.Message.Visible)
	require.Zero(t, expired.HideAfterMS)
}

func TestRenderMessage(t *testing.T) {
	now := time.Now()
	st := State{
		View:    View{Options: []Option{placeholderOption()}},
		Message: model.StatusMessage{Text: "Already registered", Kind: model.KindError, Visible: true, ExpiresAt: now.Add(time.Second)},
	}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, NewPage(st, "", now)))
	require.Contains(t, buf.String(), `<div id="message" class="error" data-hide-after-ms="1000">Already registered</div>`)

	buf.Reset()
	require.NoError(t, Render(&buf, NewPage(State{}, "", now)))
	require.Contains(t, buf.String(), `<div id="message" class=" hidden"`)
}

func TestRenderFallback(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderFallback(&buf, "template <broken>"))
	require.Contains(t, buf.String(), "<p>template &lt;broken&gt;</p>")
}
