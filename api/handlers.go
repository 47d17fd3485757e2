package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tyyim/esg-reason-sub000/internal/store"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}

	limit, err := parseLimitParam(c.Query("limit"), 20)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	since, err := parseTimeParam(c.Query("since"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	until, err := parseTimeParam(c.Query("until"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	filter := store.RunFilter{
		Dataset:  strings.TrimSpace(c.Query("dataset")),
		Provider: strings.TrimSpace(c.Query("provider")),
		Since:    since,
		Until:    until,
		Limit:    limit,
	}

	runs, err := s.store.ListRuns(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []*store.RunRecord{}
	}

	c.JSON(http.StatusOK, runs)
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing run id"))
		return
	}

	run, err := s.store.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, fmt.Errorf("run %q not found", id))
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

func (s *Server) handleGetRunResults(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing run id"))
		return
	}

	if _, err := s.store.GetRun(c.Request.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, fmt.Errorf("run %q not found", id))
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	results, err := s.store.GetResults(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if results == nil {
		results = []*store.ResultRecord{}
	}

	c.JSON(http.StatusOK, results)
}

func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseLimitParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return n, nil
}

func parseTimeParam(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (want RFC3339)", raw)
	}
	return t, nil
}
