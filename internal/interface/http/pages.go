package http

import (
	"errors"
	"net/http"

	"github.com/careerpath-hub/career-path-builder/internal/application/command"
	"github.com/careerpath-hub/career-path-builder/internal/application/query"
	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
	"github.com/careerpath-hub/career-path-builder/pkg/logger"
)

// User-facing flash messages.
const (
	msgLoginRequired      = "Please log in to access this page."
	msgLoginSuccess       = "Login successful!"
	msgInvalidCredentials = "Invalid email or password!"
	msgEmailTaken         = "Email already registered!"
	msgLoggedOut          = "You have been logged out."
	msgCareerNotFound     = "Career path not found!"
	msgMissingFields      = "Please fill in all required fields."
	msgInternal           = "Something went wrong, please try again."
)

// ══════════════════════════════════════════════════════════════════════════════
// PUBLIC PAGES
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index", view{
		Title:         "Career Path Builder",
		Authenticated: s.isAuthenticated(r),
	})
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", view{Title: "Register"})
}

// handleRegister creates the account and sends the user to the login page.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	res, err := s.deps.RegisterAccount.Handle(r.Context(), command.RegisterAccountCommand{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	})

	switch {
	case err == nil:
		s.flashRedirect(w, r, "/login", flashSuccess, res.Message)
	case errors.Is(err, shared.ErrDuplicateEmail):
		s.flashRedirect(w, r, "/register", flashError, msgEmailTaken)
	case shared.IsValidation(err):
		s.flashRedirect(w, r, "/register", flashError, msgMissingFields)
	default:
		s.requestLogger(r).Error("registration failed", logger.Err(err))
		s.flashRedirect(w, r, "/register", flashError, msgInternal)
	}
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", view{Title: "Login"})
}

// handleLogin re-renders the form on failure and redirects to the dashboard
// on success.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")

	sess, err := s.deps.Auth.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		status, msg := http.StatusOK, msgInvalidCredentials
		switch {
		case errors.Is(err, shared.ErrInvalidCredentials):
		case shared.IsValidation(err):
			msg = msgMissingFields
		default:
			s.requestLogger(r).Error("login failed", logger.Err(err))
			status, msg = http.StatusInternalServerError, msgInternal
		}
		s.render(w, r, status, "login", view{
			Title:   "Login",
			Flashes: []flash{{Category: flashError, Message: msg}},
			Data:    map[string]string{"Email": email},
		})
		return
	}

	if old := s.cookies.token(r); old != "" {
		if err := s.deps.Auth.Logout(r.Context(), old); err != nil {
			s.requestLogger(r).Warn("failed to drop previous session", logger.Err(err))
		}
	}

	s.cookies.update(w, r, func(c *cookieSession) {
		c.setToken(sess.Token)
		c.addFlash(flashSuccess, msgLoginSuccess)
	})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATED PAGES
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Auth.Logout(r.Context(), s.cookies.token(r)); err != nil {
		s.requestLogger(r).Warn("failed to delete session", logger.Err(err))
	}

	s.cookies.update(w, r, func(c *cookieSession) {
		c.clearToken()
		c.addFlash(flashSuccess, msgLoggedOut)
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetDashboard.Handle(r.Context(), query.GetDashboardQuery{
		AccountID: accountIDFrom(r.Context()),
	})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "dashboard", view{
		Title:         "Dashboard",
		Authenticated: true,
		Data:          dto,
	})
}

func (s *Server) handleCareer(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetCareerDetail.Handle(r.Context(), query.GetCareerDetailQuery{
		AccountID: accountIDFrom(r.Context()),
		CareerID:  r.PathValue("career_id"),
	})
	if errors.Is(err, shared.ErrCareerNotFound) {
		s.flashRedirect(w, r, "/dashboard", flashError, msgCareerNotFound)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "career", view{
		Title:         dto.Title,
		Authenticated: true,
		Data:          dto,
	})
}

// progressResponse is the body returned to the roadmap checkboxes.
type progressResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// handleUpdateProgress records one checkbox toggle.
func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, progressResponse{Error: "invalid form"})
		return
	}

	err := s.deps.UpdateProgress.Handle(r.Context(), command.UpdateProgressCommand{
		AccountID: accountIDFrom(r.Context()),
		CareerID:  r.PostFormValue("career_id"),
		SkillName: r.PostFormValue("skill_name"),
		Completed: command.ParseCompleted(r.PostFormValue("completed")),
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, progressResponse{Success: true})
	case shared.IsValidation(err):
		var de *shared.DomainError
		msg := "invalid request"
		if errors.As(err, &de) {
			msg = de.Message
		}
		writeJSON(w, http.StatusBadRequest, progressResponse{Error: msg})
	default:
		s.requestLogger(r).Error("progress update failed", logger.Err(err))
		writeJSON(w, http.StatusInternalServerError, progressResponse{Error: msgInternal})
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetProfile.Handle(r.Context(), query.GetProfileQuery{
		AccountID: accountIDFrom(r.Context()),
	})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "profile", view{
		Title:         "Profile",
		Authenticated: true,
		Data:          dto,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"uptime": s.Uptime().String(),
		})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		if status := s.deps.HealthChecker.Check(r.Context()); !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) flashRedirect(w http.ResponseWriter, r *http.Request, target, category, msg string) {
	s.cookies.update(w, r, func(c *cookieSession) { c.addFlash(category, msg) })
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// isAuthenticated is a soft check for public pages; errors count as anonymous.
func (s *Server) isAuthenticated(r *http.Request) bool {
	token := s.cookies.token(r)
	if token == "" {
		return false
	}
	_, err := s.deps.Auth.RequireAuthenticated(r.Context(), token)
	return err == nil
}
