package backend

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

const (
	APIPrefix   = "/api/"
	RefreshPath = "/api/token/refresh/"

	DoctorUsername   = "dr.who"
	CustomerUsername = "jane"
	Password         = "secret"
)

type User struct {
	Username string
	Email    string
	Password string
	Role     string
	IsStaff  bool
	// Doctor users are rejected by the customer login endpoint with 403
	Doctor bool
}

type delay struct {
	count    int
	duration time.Duration
}

type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          []byte
}

// Backend emulates the practice api: login, token refresh and the resource collections
type Backend struct {
	*httptest.Server

	mu             sync.Mutex
	users          map[string]User
	collections    map[string][]map[string]any
	photos         map[string][]byte
	paginated      bool
	accessToken    string
	validTokens    map[string]bool
	refreshToken   string
	tokenVersion   int
	refreshStatus  int
	refreshCalls   int
	dropped        map[string]int
	statusOverride map[string]int
	unauthorized   map[string]int
	delays         map[string]delay
	requests       []RecordedRequest
	nextId         int
}

func New() *Backend {
	b := &Backend{
		users: map[string]User{
			DoctorUsername: {
				Username: DoctorUsername,
				Email:    "dr.who@example.com",
				Password: Password,
				IsStaff:  true,
				Doctor:   true,
			},
			CustomerUsername: {
				Username: CustomerUsername,
				Email:    "jane@example.com",
				Password: Password,
			},
		},
		collections:    make(map[string][]map[string]any),
		photos:         make(map[string][]byte),
		dropped:        make(map[string]int),
		statusOverride: make(map[string]int),
		unauthorized:   make(map[string]int),
		delays:         make(map[string]delay),
		accessToken:    "access-0",
		validTokens:    map[string]bool{"access-0": true},
		refreshToken:   "refresh-0",
		nextId:         1000,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(b.record)
	e.POST("/api/login/", b.login)
	e.POST("/api/doctor/login/", b.doctorLogin)
	e.POST(RefreshPath, b.refresh)
	e.GET("/media/*", b.photo)

	collection := e.Group("/api", b.faults, b.authenticate)
	collection.GET("/:kind/", b.list)
	collection.POST("/:kind/", b.create)
	collection.GET("/:kind/:id/", b.get)
	collection.PATCH("/:kind/:id/", b.update)
	collection.DELETE("/:kind/:id/", b.delete)

	b.Server = httptest.NewServer(e)
	return b
}

func (b *Backend) BaseURL() string {
	return b.URL + APIPrefix
}

func (b *Backend) RefreshURL() string {
	return b.URL + RefreshPath
}

// HTTPClient returns a client that doesn't reuse connections, so dropped
// connections are never retried transparently by the transport
func (b *Backend) HTTPClient() *http.Client {
	return &http.Client{
		Timeout:   5 * time.Second,
		Transport: &http.Transport{DisableKeepAlives: true},
	}
}

func (b *Backend) AccessToken() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accessToken
}

func (b *Backend) RefreshToken() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshToken
}

// ExpireAccessToken invalidates every access token issued so far. The refresh token remains valid.
func (b *Backend) ExpireAccessToken() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.validTokens)
	b.rotateAccessToken()
}

func (b *Backend) SetUser(user User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[user.Username] = user
}

// SetPaginated makes list endpoints respond with a page envelope instead of a bare array
func (b *Backend) SetPaginated(paginated bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paginated = paginated
}

// SetRefreshStatus makes the refresh endpoint respond with status
func (b *Backend) SetRefreshStatus(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshStatus = status
}

// DropConnections closes the connection without a response for the next count requests to path
func (b *Backend) DropConnections(path string, count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dropped[path] = count
}

// FailWith responds with status to every request to path
func (b *Backend) FailWith(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statusOverride[path] = status
}

// DelayResponses holds the next count requests to path for d before handling them
func (b *Backend) DelayResponses(path string, count int, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delays[path] = delay{count: count, duration: d}
}

// RespondUnauthorized responds with 401 to the next count requests to path, regardless of the token
func (b *Backend) RespondUnauthorized(path string, count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unauthorized[path] = count
}

func (b *Backend) SetCollection(kind string, items []map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.collections[kind] = items
}

func (b *Backend) Collection(kind string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.collections[kind]...)
}

func (b *Backend) SetPhoto(path string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.photos[path] = data
}

func (b *Backend) RefreshCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshCalls
}

func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// RequestsTo returns the recorded requests with the given path
func (b *Backend) RequestsTo(path string) []RecordedRequest {
	var result []RecordedRequest
	for _, req := range b.Requests() {
		if req.Path == path {
			result = append(result, req)
		}
	}
	return result
}

// rotateAccessToken issues a new access token. Previously issued tokens stay
// valid until they are expired.
func (b *Backend) rotateAccessToken() {
	b.tokenVersion++
	b.accessToken = fmt.Sprintf("access-%d", b.tokenVersion)
	b.validTokens[b.accessToken] = true
}

func (b *Backend) isValidBearer(header string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.validTokens[token]
}

func (b *Backend) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(strings.NewReader(string(body)))
		}

		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:        req.Method,
			Path:          req.URL.Path,
			Authorization: req.Header.Get("Authorization"),
			RequestID:     req.Header.Get("X-Request-ID"),
			Body:          body,
		})
		b.mu.Unlock()

		return next(c)
	}
}

func (b *Backend) faults(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path

		b.mu.Lock()
		drop := b.dropped[path] > 0
		if drop {
			b.dropped[path]--
		}
		status := b.statusOverride[path]
		unauthorized := b.unauthorized[path] > 0
		if unauthorized {
			b.unauthorized[path]--
		}
		wait := b.delays[path]
		if wait.count > 0 {
			wait.count--
			b.delays[path] = wait
		} else {
			wait.duration = 0
		}
		b.mu.Unlock()

		if wait.duration > 0 {
			select {
			case <-time.After(wait.duration):
			case <-c.Request().Context().Done():
				return nil
			}
		}

		if drop {
			conn, _, err := c.Response().Hijack()
			if err != nil {
				return err
			}
			return conn.Close()
		}
		if unauthorized {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "token not valid"})
		}
		if status != 0 {
			return c.JSON(status, map[string]string{"detail": http.StatusText(status)})
		}
		return next(c)
	}
}

func (b *Backend) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !b.isValidBearer(c.Request().Header.Get("Authorization")) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "token not valid"})
		}
		return next(c)
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (b *Backend) authenticateUser(c echo.Context) (User, bool, error) {
	creds := credentials{}
	if err := c.Bind(&creds); err != nil {
		return User{}, false, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	user, ok := b.users[creds.Username]
	return user, ok && user.Password == creds.Password, nil
}

// rejectInvalidBearer mirrors backends authenticating every request: a stale
// bearer is refused even on the login endpoints
func (b *Backend) rejectInvalidBearer(c echo.Context) bool {
	header := c.Request().Header.Get("Authorization")
	return header != "" && !b.isValidBearer(header)
}

func (b *Backend) login(c echo.Context) error {
	if b.rejectInvalidBearer(c) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "token not valid"})
	}
	user, ok, err := b.authenticateUser(c)
	if err != nil {
		return err
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "invalid credentials"})
	}
	if user.Doctor {
		return c.JSON(http.StatusForbidden, map[string]string{"detail": "use the doctor login"})
	}
	return b.issueTokens(c, user)
}

func (b *Backend) doctorLogin(c echo.Context) error {
	if b.rejectInvalidBearer(c) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "token not valid"})
	}
	user, ok, err := b.authenticateUser(c)
	if err != nil {
		return err
	}
	if !ok || !user.Doctor {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "invalid credentials"})
	}
	return b.issueTokens(c, user)
}

func (b *Backend) issueTokens(c echo.Context, user User) error {
	b.mu.Lock()
	b.rotateAccessToken()
	access, refresh := b.accessToken, b.refreshToken
	b.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{
		"access":  access,
		"refresh": refresh,
		"user": map[string]any{
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
			"is_staff": user.IsStaff,
		},
	})
}

func (b *Backend) refresh(c echo.Context) error {
	body := map[string]string{}
	if err := c.Bind(&body); err != nil {
		return err
	}

	b.mu.Lock()
	b.refreshCalls++
	status := b.refreshStatus
	valid := body["refresh"] == b.refreshToken
	if status == 0 && valid {
		b.rotateAccessToken()
	}
	access := b.accessToken
	b.mu.Unlock()

	if status != 0 {
		return c.JSON(status, map[string]string{"detail": http.StatusText(status)})
	}
	if !valid {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "token not valid"})
	}
	return c.JSON(http.StatusOK, map[string]string{"access": access})
}

func (b *Backend) photo(c echo.Context) error {
	b.mu.Lock()
	data, ok := b.photos[c.Request().URL.Path]
	b.mu.Unlock()
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	return c.Blob(http.StatusOK, http.DetectContentType(data), data)
}

func (b *Backend) list(c echo.Context) error {
	b.mu.Lock()
	items := append([]map[string]any{}, b.collections[c.Param("kind")]...)
	paginated := b.paginated
	b.mu.Unlock()

	if paginated {
		return c.JSON(http.StatusOK, map[string]any{
			"count":    len(items),
			"next":     nil,
			"previous": nil,
			"results":  items,
		})
	}
	return c.JSON(http.StatusOK, items)
}

func (b *Backend) get(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, item := b.find(c.Param("kind"), c.Param("id")); item != nil {
		return c.JSON(http.StatusOK, item)
	}
	return c.JSON(http.StatusNotFound, map[string]string{"detail": "not found"})
}

func (b *Backend) create(c echo.Context) error {
	item, err := decodeItem(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": err.Error()})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextId++
	item["id"] = b.nextId
	kind := c.Param("kind")
	b.collections[kind] = append(b.collections[kind], item)
	return c.JSON(http.StatusCreated, item)
}

func (b *Backend) update(c echo.Context) error {
	partial, err := decodeItem(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": err.Error()})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	_, item := b.find(c.Param("kind"), c.Param("id"))
	if item == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "not found"})
	}
	for key, value := range partial {
		if key != "id" {
			item[key] = value
		}
	}
	return c.JSON(http.StatusOK, item)
}

func (b *Backend) delete(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	kind := c.Param("kind")
	i, item := b.find(kind, c.Param("id"))
	if item == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "not found"})
	}
	b.collections[kind] = append(b.collections[kind][:i], b.collections[kind][i+1:]...)
	return c.NoContent(http.StatusNoContent)
}

func (b *Backend) find(kind, id string) (int, map[string]any) {
	for i, item := range b.collections[kind] {
		if formatId(item["id"]) == id {
			return i, item
		}
	}
	return -1, nil
}

func decodeItem(c echo.Context) (map[string]any, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	item := map[string]any{}
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("invalid body: %w", err)
	}
	return item, nil
}

func formatId(id any) string {
	if f, ok := id.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", id)
}
