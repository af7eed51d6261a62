package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"taskctl/internal/service"
)

// RecordedRequest is one request seen by FakeAPI.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

type apiTask struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// FakeAPI is an httptest server speaking the task API: /api/login,
// /api/register and bearer-protected /api/tasks. Task ids are JSON numbers.
type FakeAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	users    map[string]string // username -> password
	tokens   map[string]string // token -> username
	tasks    []apiTask
	nextID   int
	requests []RecordedRequest
	failCode int
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &FakeAPI{
		users:  make(map[string]string),
		tokens: make(map[string]string),
		nextID: 1,
	}
	f.server = httptest.NewServer(f.routes())
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the API base URL, e.g. http://127.0.0.1:port/api/.
func (f *FakeAPI) URL() string {
	return f.server.URL + "/api/"
}

// AddUser registers a user directly.
func (f *FakeAPI) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// HasUser reports whether username is registered.
func (f *FakeAPI) HasUser(username string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[username]
	return ok
}

// IssueToken creates a valid token for username.
func (f *FakeAPI) IssueToken(username string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueTokenLocked(username)
}

// SeedTask inserts a task server-side.
func (f *FakeAPI) SeedTask(title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return toTask(f.insertLocked(title, completed))
}

// DeleteTaskDirect removes a task server-side, as another client would.
func (f *FakeAPI) DeleteTaskDirect(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexLocked(id); i >= 0 {
		f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	}
}

// Tasks returns the server-side tasks.
func (f *FakeAPI) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]service.Task, len(f.tasks))
	for i, t := range f.tasks {
		result[i] = toTask(t)
	}
	return result
}

// Requests returns the requests seen so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]RecordedRequest, len(f.requests))
	copy(result, f.requests)
	return result
}

// FailWith makes every following request fail with status. Zero restores normal behavior.
func (f *FakeAPI) FailWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCode = status
}

func (f *FakeAPI) routes() http.Handler {
	r := gin.New()
	r.Use(f.record)

	api := r.Group("/api")
	api.POST("/login", f.login)
	api.POST("/register", f.register)

	tasks := api.Group("/tasks", f.requireToken)
	tasks.GET("", f.listTasks)
	tasks.POST("", f.createTask)
	tasks.GET("/:id", f.getTask)
	tasks.PUT("/:id", f.updateTask)
	tasks.DELETE("/:id", f.deleteTask)
	return r
}

func (f *FakeAPI) record(c *gin.Context) {
	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Authorization: c.GetHeader("Authorization"),
		RequestID:     c.GetHeader("X-Request-ID"),
	})
	code := f.failCode
	f.mu.Unlock()

	if code != 0 {
		c.AbortWithStatusJSON(code, gin.H{"error": "injected failure"})
		return
	}
	c.Next()
}

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (f *FakeAPI) login(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.users[body.Username]; !ok || pw != body.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": f.issueTokenLocked(body.Username)})
}

func (f *FakeAPI) register(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Username == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[body.Username]; ok {
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	}
	f.users[body.Username] = body.Password
	c.JSON(http.StatusCreated, gin.H{"message": "user created"})
}

func (f *FakeAPI) requireToken(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	f.mu.Lock()
	_, valid := f.tokens[token]
	f.mu.Unlock()
	if !ok || !valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

func (f *FakeAPI) listTasks(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]apiTask, len(f.tasks))
	copy(result, f.tasks)
	c.JSON(http.StatusOK, result)
}

func (f *FakeAPI) getTask(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.lookupLocked(c)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, f.tasks[i])
}

type taskBody struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func (f *FakeAPI) createTask(c *gin.Context) {
	var body taskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c.JSON(http.StatusCreated, f.insertLocked(body.Title, body.Completed))
}

func (f *FakeAPI) updateTask(c *gin.Context) {
	var body taskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.lookupLocked(c)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	f.tasks[i].Title = body.Title
	f.tasks[i].Completed = body.Completed
	c.JSON(http.StatusOK, f.tasks[i])
}

func (f *FakeAPI) deleteTask(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.lookupLocked(c)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

func (f *FakeAPI) issueTokenLocked(username string) string {
	token := fmt.Sprintf("token-%s-%d", username, len(f.tokens)+1)
	f.tokens[token] = username
	return token
}

func (f *FakeAPI) insertLocked(title string, completed bool) apiTask {
	t := apiTask{ID: f.nextID, Title: title, Completed: completed}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t
}

func (f *FakeAPI) lookupLocked(c *gin.Context) int {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return -1
	}
	return f.indexLocked(id)
}

func (f *FakeAPI) indexLocked(id int) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func toTask(t apiTask) service.Task {
	return service.Task{ID: service.ID(strconv.Itoa(t.ID)), Title: t.Title, Completed: t.Completed}
}
