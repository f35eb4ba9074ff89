package web

import (
	"context"
	"net/http"
	"time"

	"github.com/guilbd/analise-apostas/models"
)

const sessionCookie = "palpites_session"

type contextKey string

const userContextKey contextKey = "user"

// requireAuth resolves the session cookie to a user and injects it into the
// request context. Browsers get redirected to the login page; API calls get
// a JSON 401.
func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			s.rejectUnauthenticated(w, r)
			return
		}

		user, err := s.userStore.UserBySession(cookie.Value)
		if err != nil {
			s.rejectUnauthenticated(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin additionally enforces the admin access level.
func (s *Server) requireAdmin(next http.HandlerFunc) http.Handler {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		if user == nil || !user.IsAdmin() {
			writeJSON(w, http.StatusForbidden, map[string]string{
				"status":  "error",
				"message": "Acesso restrito a administradores",
			})
			return
		}
		next(w, r)
	})
}

func (s *Server) rejectUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"status":  "error",
			"message": "Sessão expirada, faça login novamente",
		})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func isAPIRequest(r *http.Request) bool {
	return len(r.URL.Path) >= 5 && r.URL.Path[:5] == "/api/"
}

// currentUser returns the authenticated user stored by requireAuth.
func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login.html", map[string]interface{}{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	session, _, err := s.userStore.Authenticate(username, password)
	if err != nil {
		s.render(w, "login.html", map[string]interface{}{
			"Error": "Usuário ou senha inválidos",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.userStore.Logout(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:    sessionCookie,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
