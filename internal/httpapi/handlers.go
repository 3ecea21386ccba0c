package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anujdalvisuperk/calling-assistant/internal/accounts"
	"github.com/anujdalvisuperk/calling-assistant/internal/auth"
	"github.com/anujdalvisuperk/calling-assistant/internal/calls"
	"github.com/anujdalvisuperk/calling-assistant/internal/leads"
	"github.com/anujdalvisuperk/calling-assistant/internal/reporting"
	"github.com/anujdalvisuperk/calling-assistant/internal/tasks"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Accounts  *accounts.Service
	Tasks     *tasks.Service
	Calls     *calls.Service
	Reporting *reporting.Service
}

// maxImportBytes caps one uploaded contact sheet.
const maxImportBytes = 10 << 20

// --- Auth ---

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h Handlers) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	p, err := h.Accounts.SignUp(c.Request.Context(), accounts.SignUpRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrEmailTaken):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "email already registered"})
		case errors.Is(err, accounts.ErrInvalidArgument):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email and a password of at least 8 characters are required"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": p.ID, "email": p.Email, "role": p.Role})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	res, err := h.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  res.Tokens.AccessToken,
		"refresh_token": res.Tokens.RefreshToken,
		"role":          res.Profile.Role,
	})
}

// Me returns the authenticated identity. The client uses role to pick the
// admin view or the caller queue view.
func (h Handlers) Me(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := auth.UserID(ctx)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	email, _ := auth.Email(ctx)
	role, _ := auth.Role(ctx)
	c.JSON(http.StatusOK, gin.H{"id": userID, "email": email, "role": role})
}

// --- Caller queue ---

func (h Handlers) NextTask(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := auth.UserID(ctx)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	task, ok, err := h.Tasks.NextTask(ctx, userID, sessionOwner(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "task lookup failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"task": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

type outcomeRequest struct {
	Outcome      string     `json:"outcome"`
	Result       string     `json:"call_result,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	DurationMins int        `json:"duration_mins,omitempty"`
	CallbackAt   *time.Time `json:"callback_at,omitempty"`
}

func (h Handlers) SubmitOutcome(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := auth.UserID(ctx)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	taskID := c.Param("task_id")
	if taskID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "task_id required"})
		return
	}

	var req outcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	ack, err := h.Calls.Submit(ctx, calls.Submission{
		TaskID:       taskID,
		CallerID:     userID,
		SessionOwner: sessionOwner(c),
		Outcome:      calls.Outcome(req.Outcome),
		Result:       calls.Result(req.Result),
		Notes:        req.Notes,
		DurationMins: req.DurationMins,
		CallbackAt:   req.CallbackAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, calls.ErrInvalidOutcome):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown outcome"})
		case errors.Is(err, tasks.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case errors.Is(err, calls.ErrNotPending):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "task is not pending"})
		case errors.Is(err, calls.ErrNotAssignee):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "task is assigned to a different caller"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "submission failed"})
		}
		return
	}
	c.JSON(http.StatusOK, ack)
}

// --- Admin ---

// ImportContacts accepts a multipart form: a `file` CSV part and an
// `assignee_ids` field (comma-separated profile ids). Every id must name an
// active profile; a task assigned to an unknown id would sit invisible in
// the queue forever.
func (h Handlers) ImportContacts(c *gin.Context) {
	assigneeIDs := splitIDs(c.PostForm("assignee_ids"))
	if len(assigneeIDs) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "assignee_ids required"})
		return
	}

	team, err := h.Accounts.Team(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "team lookup failed"})
		return
	}
	active := make(map[string]struct{}, len(team))
	for _, p := range team {
		active[p.ID] = struct{}{}
	}
	for _, id := range assigneeIDs {
		if _, ok := active[id]; !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown or inactive assignee id: " + id})
			return
		}
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "csv file required"})
		return
	}
	if fh.Size > maxImportBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer f.Close()

	parsed, err := leads.ParseContacts(f)
	if err != nil {
		if errors.Is(err, leads.ErrMissingHeader) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "csv must carry a phone_number header column"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed csv"})
		return
	}

	summary, err := h.Tasks.Import(c.Request.Context(), parsed, assigneeIDs)
	if err != nil {
		if errors.Is(err, tasks.ErrNoAssignees) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "assignee_ids required"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (h Handlers) Team(c *gin.Context) {
	team, err := h.Accounts.Team(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "team lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": team})
}

func (h Handlers) Summary(c *gin.Context) {
	out, err := h.Reporting.Summary(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "summary failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) CallActivity(c *gin.Context) {
	rng, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "from and to must be RFC3339 timestamps with to after from"})
		return
	}

	out, err := h.Reporting.CallActivity(c.Request.Context(), rng)
	if err != nil {
		if errors.Is(err, reporting.ErrInvalidRequest) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid range"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "activity lookup failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) TaskHistory(c *gin.Context) {
	taskID := c.Param("task_id")
	if taskID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "task_id required"})
		return
	}
	logs, err := h.Calls.History(c.Request.Context(), taskID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "history lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// sessionOwner scopes advisory task leases. The token's jti is the default;
// an explicit X-Session-Id header wins so a client can pin its own scope.
func sessionOwner(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader("X-Session-Id")); id != "" {
		return id
	}
	if id := auth.SessionID(c.Request.Context()); id != "" {
		return id
	}
	id, _ := auth.UserID(c.Request.Context())
	return id
}

func splitIDs(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func parseRange(from, to string) (reporting.TimeRange, error) {
	f, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return reporting.TimeRange{}, err
	}
	t, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return reporting.TimeRange{}, err
	}
	if !t.After(f) {
		return reporting.TimeRange{}, errors.New("to must be after from")
	}
	return reporting.TimeRange{From: f, To: t}, nil
}
