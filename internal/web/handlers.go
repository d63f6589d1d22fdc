package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/NikaNal/dept-of-excellence-training/internal/core"
	"github.com/NikaNal/dept-of-excellence-training/internal/logging"
	"github.com/NikaNal/dept-of-excellence-training/internal/web/views"
	"github.com/go-chi/chi/v5"
)

// MaxRequestBodySize caps a submission body (64KB).
const MaxRequestBodySize = 64 * 1024

// handleHealth reports liveness. It succeeds before the first data load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"ready":  s.service.Ready(),
	})
}

// handleTopics returns the selectable topics in feed order.
func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.service.Topics()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

// handleLookupSchool returns the school for a code so a form can show its
// name and district before submission.
func (s *Server) handleLookupSchool(w http.ResponseWriter, r *http.Request) {
	school, err := s.service.LookupSchool(chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, school)
}

// handleSubmit validates a training request and assigns trainers.
//
// The calendar rules run only once the school is known and a date was
// given, so a bad school code is still reported ahead of date problems
// and a blank date is left for Submit to reject.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if strings.TrimSpace(req.Date) != "" {
		if _, lookupErr := s.service.LookupSchool(req.SchoolCode); lookupErr == nil {
			canonical, dateErr := core.ValidateTrainingDate(req.Date, s.today())
			if dateErr != nil {
				if s.metrics != nil {
					s.metrics.ObserveRejection(dateErr)
				}
				respondError(w, r, dateErr, statusFor(dateErr))
				return
			}
			req.Date = canonical
		}
	}

	conf, err := s.service.Submit(r.Context(), req)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if wantsHTML(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		if err := views.ConfirmationPage(conf).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render confirmation", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, conf)
}

// handleRefresh reloads all feeds. A refresh already in flight is 409.
//
// The load runs detached from the request, so neither the request timeout
// nor a client disconnect aborts it. FEED_LOAD_TIMEOUT bounds it instead.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Refresh(context.WithoutCancel(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrRefreshInProgress) && s.metrics != nil {
			s.metrics.ObserveRefreshRejected()
		}
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleStatus returns the current load and refresh state.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Status())
}

// today returns the current time in the configured schedule zone.
func (s *Server) today() time.Time {
	return s.now().In(s.loc)
}

// decodeRequest reads a TrainingRequest from a JSON or form body.
func decodeRequest(w http.ResponseWriter, r *http.Request) (core.TrainingRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req core.TrainingRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, fmt.Errorf("%w: decode json: %w", core.ErrMalformedRequest, err)
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("%w: parse form: %w", core.ErrMalformedRequest, err)
	}
	req.SchoolCode = r.PostForm.Get("schoolCode")
	req.Date = r.PostForm.Get("date")
	req.Topic = r.PostForm.Get("topic")
	return req, nil
}
