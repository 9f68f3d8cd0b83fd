package handler

import (
	"marksentry/internal/service"
	"net/http"

	"github.com/google/uuid"
)

const (
	SessionCookie = "marks_session"
	VisitorCookie = "marks_visitor"

	visitorCookieMaxAge = 10 * 365 * 24 * 60 * 60
)

// currentSession returns the session named by the request cookie, starting a
// new one when the cookie is missing or the session has expired.
func currentSession(w http.ResponseWriter, r *http.Request, sessions *service.SessionService) (string, *service.Form) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if form, ok := sessions.Get(c.Value); ok {
			return c.Value, form
		}
	}
	return startSession(w, sessions)
}

func startSession(w http.ResponseWriter, sessions *service.SessionService) (string, *service.Form) {
	id, form := sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, form
}

// visitorID identifies the browser across sessions, like local storage would.
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(VisitorCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   visitorCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
