package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goliatone/go-command"
	"github.com/goliatone/go-socialauth/adapters/gocommand"
	socialcommand "github.com/goliatone/go-socialauth/command"
	"github.com/goliatone/go-socialauth/core"
	"github.com/goliatone/go-socialauth/providers/myspace"
	socialquery "github.com/goliatone/go-socialauth/query"
	"github.com/google/uuid"
)

const sessionCookie = "socialauth_session"

type server struct {
	provider    *myspace.Provider
	sessions    *sessionStore
	callbackURL string
	logger      core.Logger
}

func newServer(provider *myspace.Provider, callbackURL string, logger core.Logger) *server {
	return &server{
		provider:    provider,
		sessions:    newSessionStore(),
		callbackURL: callbackURL,
		logger:      logger,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/login", s.handleLogin)
	r.Get("/callback", s.handleCallback)
	r.Get("/profile", s.handleProfile)
	r.Get("/contacts", s.handleContacts)
	r.Post("/status", s.handleStatus)
	r.Post("/logout", s.handleLogout)
	r.Get("/activity", s.handleActivity)
	r.Get("/activity/{id}", s.handleActivityEntry)
	return r
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	session := s.provider.NewSession(uuid.NewString())

	result := command.NewResult[core.LoginRedirect]()
	err := gocommand.Dispatch(command.ContextWithResult(r.Context(), result), socialcommand.BeginLoginMessage{
		Session:  session,
		ReturnTo: s.callbackURL,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	redirect, _ := result.Load()
	s.sessions.put(redirect.Session)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    redirect.Session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, redirect.URL, http.StatusFound)
}

func (s *server) handleCallback(w http.ResponseWriter, r *http.Request) {
	session, ok := s.currentSession(r)
	if !ok {
		s.writeError(w, r, core.StateError("no login in progress for this browser"))
		return
	}

	result := command.NewResult[core.CallbackCompletion]()
	err := gocommand.Dispatch(command.ContextWithResult(r.Context(), result), socialcommand.CompleteCallbackMessage{
		Session: session,
		Params:  myspace.CallbackParams(r),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	completion, _ := result.Load()
	s.sessions.put(completion.Session)
	writeJSON(w, http.StatusOK, completion.Profile.Map())
}

func (s *server) handleProfile(w http.ResponseWriter, r *http.Request) {
	session, _ := s.currentSession(r)
	profile, err := gocommand.Query[socialquery.ProfileMessage, core.Profile](r.Context(), socialquery.ProfileMessage{
		Session: session,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile.Map())
}

func (s *server) handleContacts(w http.ResponseWriter, r *http.Request) {
	session, _ := s.currentSession(r)
	contacts, err := gocommand.Query[socialquery.ContactListMessage, []core.Contact](r.Context(), socialquery.ContactListMessage{
		Session: session,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]map[string]string, 0, len(contacts))
	for _, contact := range contacts {
		out = append(out, map[string]string{
			"display_name": contact.DisplayName,
			"first_name":   contact.FirstName,
			"last_name":    contact.LastName,
			"profile_url":  contact.ProfileURL,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"contacts": out})
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	session, _ := s.currentSession(r)
	err := gocommand.Dispatch(r.Context(), socialcommand.UpdateStatusMessage{
		Session: session,
		Status:  r.FormValue("status"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, ok := s.currentSession(r)
	if ok {
		if err := gocommand.Dispatch(r.Context(), socialcommand.LogoutMessage{Session: session}); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.sessions.delete(session.ID)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleActivity(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := core.ActivityFilter{
		ProviderID: s.provider.ID(),
		SessionID:  strings.TrimSpace(query.Get("session_id")),
		Action:     query.Get("action"),
		Status:     core.ActivityStatus(strings.TrimSpace(query.Get("status"))),
		Page:       intParam(query.Get("page")),
		PerPage:    intParam(query.Get("per_page")),
	}
	page, err := gocommand.Query[socialquery.ListActivityMessage, core.ActivityPage](r.Context(), socialquery.ListActivityMessage{
		Filter: filter,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *server) handleActivityEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := gocommand.Query[socialquery.GetActivityMessage, core.ActivityEntry](r.Context(), socialquery.GetActivityMessage{
		ID: chi.URLParam(r, "id"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *server) currentSession(r *http.Request) (core.Session, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return core.Session{}, false
	}
	return s.sessions.get(cookie.Value)
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	mapped := core.MapError(err)
	s.log(r.Context()).Warn("request failed",
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"text_code", mapped.TextCode,
		"error", err,
	)
	writeJSON(w, mapped.Code, map[string]any{
		"error":   mapped.TextCode,
		"message": mapped.Message,
	})
}

func (s *server) log(ctx context.Context) core.Logger {
	return s.logger.WithContext(ctx)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func intParam(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return parsed
}
