package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"replay/internal/contest"
	"replay/internal/ingest"
	"replay/internal/replay"
	"replay/internal/scoring"
	"replay/internal/standings"
	"replay/internal/store"
)

// maxChartUsers bounds how many users one chart request replays.
const maxChartUsers = 10

type source interface {
	Contests(ctx context.Context) ([]contest.Contest, error)
	Contest(ctx context.Context, slug string) (contest.Contest, error)
	Tasks(ctx context.Context, slug string) ([]contest.Task, error)
	Submissions(ctx context.Context, slug string) ([]scoring.Submission, error)
}

type writer interface {
	SaveContest(ctx context.Context, c contest.Contest) error
	SaveTasks(ctx context.Context, tasks []contest.Task) error
	SaveSubmissions(ctx context.Context, slug string, subs []scoring.Submission) error
}

type server struct {
	src        source
	db         writer
	invalidate func(ctx context.Context, slug string) error
	modes      *contest.Registry
}

func (s *server) routes(r *gin.Engine) {
	r.Use(cors(), requestID())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/contests", s.listContests)
	r.POST("/contests/:contest", s.saveContest)
	r.POST("/contests/:contest/submissions", s.importSubmissions)
	r.GET("/chart/:contest/:users", s.chart)
	r.GET("/standings/:contest/:datetime", s.snapshot)
}

func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, standings.ErrInvalidCursor):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *server) listContests(c *gin.Context) {
	contests, err := s.src.Contests(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if contests == nil {
		contests = []contest.Contest{}
	}
	c.JSON(http.StatusOK, contests)
}

type userChart struct {
	User     string         `json:"user"`
	Known    bool           `json:"known"`
	Events   []replay.Event `json:"events"`
	Scores   []replay.Event `json:"scores"`
	BestRank *replay.Peak   `json:"best_rank,omitempty"`
}

// chart replays the rank history of each comma-separated user.
func (s *server) chart(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("contest")

	users := splitUsers(c.Param("users"))
	if len(users) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user name is empty"})
		return
	}
	if len(users) > maxChartUsers {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many users"})
		return
	}

	_, subs, err := s.contestLog(ctx, slug)
	if err != nil {
		fail(c, err)
		return
	}

	mode := s.modes.ModeFor(slug)
	seqs, err := replay.Many(users, subs, mode)
	if err != nil {
		fail(c, err)
		return
	}

	resp := make([]userChart, len(seqs))
	unknown := []string{}
	for i, seq := range seqs {
		resp[i] = userChart{
			User:   seq.User,
			Known:  seq.Known,
			Events: seq.Events,
			Scores: replay.ScoreSequence(seq.Events),
		}
		if peak, ok := replay.BestRank(seq.Events); ok {
			resp[i].BestRank = &peak
		}
		if !seq.Known {
			unknown = append(unknown, seq.User)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"contest":       slug,
		"mode":          mode.String(),
		"users":         resp,
		"unknown_users": unknown,
	})
}

// snapshot returns the leaderboard as of the datetime cursor.
func (s *server) snapshot(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("contest")

	cursor, err := standings.ParseCursor(c.Param("datetime"))
	if err != nil {
		fail(c, err)
		return
	}
	_, subs, err := s.contestLog(ctx, slug)
	if err != nil {
		fail(c, err)
		return
	}
	tasks, err := s.src.Tasks(ctx, slug)
	if err != nil {
		fail(c, err)
		return
	}

	slugs := make([]string, len(tasks))
	for i, t := range tasks {
		slugs[i] = t.TaskSlug
	}
	if tasks == nil {
		tasks = []contest.Task{}
	}
	mode := s.modes.ModeFor(slug)
	c.JSON(http.StatusOK, gin.H{
		"contest": slug,
		"cursor":  cursor,
		"mode":    mode.String(),
		"tasks":   tasks,
		"entries": standings.Snapshot(subs, cursor, mode, slugs),
	})
}

type contestBody struct {
	Name          string         `json:"contest_name" binding:"required"`
	StartTimeUnix int64          `json:"start_time_unix"`
	EndTimeUnix   int64          `json:"end_time_unix"`
	Tasks         []contest.Task `json:"tasks"`
}

func (s *server) saveContest(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("contest")

	var body contestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ct := contest.Contest{Slug: slug, Name: body.Name, StartTimeUnix: body.StartTimeUnix, EndTimeUnix: body.EndTimeUnix}
	if err := s.db.SaveContest(ctx, ct); err != nil {
		fail(c, err)
		return
	}
	for i := range body.Tasks {
		body.Tasks[i].ContestSlug = slug
	}
	if err := s.db.SaveTasks(ctx, body.Tasks); err != nil {
		fail(c, err)
		return
	}
	s.clear(ctx, slug)
	c.JSON(http.StatusOK, gin.H{"status": "saved", "contest": ct, "tasks": len(body.Tasks)})
}

// importSubmissions stores the in-window part of a submission log exported for the contest.
func (s *server) importSubmissions(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("contest")

	ct, err := s.src.Contest(ctx, slug)
	if err != nil {
		fail(c, err)
		return
	}
	subs, err := ingest.Decode(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ingest.SortChronological(subs)
	kept := ingest.Window(subs, ct)

	if err := s.db.SaveSubmissions(ctx, slug, kept); err != nil {
		fail(c, err)
		return
	}
	s.clear(ctx, slug)
	c.JSON(http.StatusOK, gin.H{"status": "imported", "submissions": len(kept), "outside_window": len(subs) - len(kept)})
}

// contestLog loads the contest and its log restricted to the contest window.
// Logs are stored raw; the final rescale is applied here to a copy, so it
// always hits the last in-window submission however the log was imported.
func (s *server) contestLog(ctx context.Context, slug string) (contest.Contest, []scoring.Submission, error) {
	ct, err := s.src.Contest(ctx, slug)
	if err != nil {
		return ct, nil, err
	}
	subs, err := s.src.Submissions(ctx, slug)
	if err != nil {
		return ct, nil, err
	}
	subs = append([]scoring.Submission(nil), ingest.Window(subs, ct)...)
	if ratio, ok := contest.Rescale(slug); ok {
		ingest.Rescale(subs, ratio)
	}
	return ct, subs, nil
}

func (s *server) clear(ctx context.Context, slug string) {
	if s.invalidate == nil {
		return
	}
	if err := s.invalidate(ctx, slug); err != nil {
		log.Printf("Warning: Failed to clear cache for %s: %v", slug, err)
	}
}

// splitUsers splits a comma-separated list, dropping blanks and duplicates.
func splitUsers(param string) []string {
	var users []string
	seen := make(map[string]bool)
	for _, u := range strings.Split(param, ",") {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		users = append(users, u)
	}
	return users
}
