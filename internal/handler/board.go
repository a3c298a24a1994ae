package handler

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activity-board/internal/board"
)

// SessionCookie names the cookie carrying the visitor's session id.
const SessionCookie = "board_session"

// RenderFailedText is shown when the board page cannot be rendered.
const RenderFailedText = "Failed to render the activity board. Please reload the page."

// BoardHandler serves the activity board page and its form posts.
type BoardHandler struct {
	board        *board.Board
	sessions     *board.SessionStore
	log          *zap.SugaredLogger
	secureCookie bool
	renderPage   func(io.Writer, board.Page) error
}

// NewBoardHandler constructs a BoardHandler.
func NewBoardHandler(b *board.Board, sessions *board.SessionStore, log *zap.SugaredLogger, secureCookie bool) *BoardHandler {
	return &BoardHandler{
		board:        b,
		sessions:     sessions,
		log:          log.Named("board.http"),
		secureCookie: secureCookie,
		renderPage:   board.Render,
	}
}

// Index handles GET /
// Loads a fresh activity snapshot and renders the board.
func (h *BoardHandler) Index(w http.ResponseWriter, r *http.Request) {
	s := h.surface(w, r)
	st := h.board.LoadActivities(r.Context(), s)
	h.render(w, r, st)
}

// Signup handles POST /signup
// Redirects back to the board, which reloads the activities.
func (h *BoardHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s := h.surface(w, r)
	out := h.board.Signup(r.Context(), s, r.PostFormValue("activity"), r.PostFormValue("email"))
	h.log.Debugw("signup", "kind", out.Message.Kind, "reload", out.Reload)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Unregister handles POST /unregister
// Every delete control posts here with the activity and email it carries.
func (h *BoardHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s := h.surface(w, r)
	out := h.board.Unregister(r.Context(), s, r.PostFormValue("activity"), r.PostFormValue("email"))
	h.log.Debugw("unregister", "kind", out.Message.Kind, "reload", out.Reload)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *BoardHandler) surface(w http.ResponseWriter, r *http.Request) *board.Surface {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	newID, s := h.sessions.Get(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

func (h *BoardHandler) render(w http.ResponseWriter, r *http.Request, st board.State) {
	var buf bytes.Buffer
	page := board.NewPage(st, csrf.TemplateField(r), time.Now())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderPage(&buf, page); err != nil {
		h.log.Errorw("failed to render board", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = board.RenderFallback(w, RenderFailedText)
		return
	}
	_, _ = buf.WriteTo(w)
}
