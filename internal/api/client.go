package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TokenCookie is the cookie the backend reads the session JWT from.
const TokenCookie = "token"

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody caps how much of a failed response body ends up in errors.
const maxErrorBody = 512

// Config holds the client settings.
type Config struct {
	BaseURL string
	Token   string

	// Timeout bounds a single HTTP round trip. Default: 15s.
	Timeout time.Duration
	Retry   RetryConfig
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8080",
		Timeout: 15 * time.Second,
		Retry:   DefaultRetryConfig(),
	}
}

// Client talks to the platform REST API.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
	retry   RetryConfig
	log     logrus.FieldLogger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.hc = hc }
}

// WithLogger sets the logger used for request logging.
func WithLogger(l logrus.FieldLogger) ClientOption {
	return func(c *Client) { c.log = l }
}

// New creates a Client. BaseURL must be an absolute http(s) URL.
func New(cfg Config, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = 1
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		hc:      &http.Client{Timeout: cfg.Timeout},
		retry:   cfg.Retry,
		log:     discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LatestAttempt returns the most recent finished attempt on a test, or nil
// when the learner has none.
func (c *Client) LatestAttempt(ctx context.Context, testID ID) (*LatestAttempt, error) {
	var out LatestAttempt
	status, err := c.get(ctx, "/api/tests/"+url.PathEscape(testID.String())+"/attempts/latest", &out)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return &out, nil
}

// CreateAttempt opens a new attempt on a test.
func (c *Client) CreateAttempt(ctx context.Context, testID ID) (*CreatedAttempt, error) {
	var out CreatedAttempt
	path := "/api/tests/" + url.PathEscape(testID.String()) + "/attempts"
	if _, err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	if out.AttemptID == "" {
		return nil, &MalformedResponseError{Path: path, Err: fmt.Errorf("missing attemptId")}
	}
	return &out, nil
}

// SubmitAnswer posts the graded result of one question.
func (c *Client) SubmitAnswer(ctx context.Context, sub AnswerSubmission) error {
	_, err := c.do(ctx, http.MethodPost, "/api/student/answer", sub, nil)
	return err
}

// FinishAttempt marks an attempt finished with its aggregate result.
func (c *Client) FinishAttempt(ctx context.Context, attemptID ID, req FinishRequest) (*AttemptSummary, error) {
	var out AttemptSummary
	path := "/api/attempts/" + url.PathEscape(attemptID.String()) + "/finish"
	status, err := c.do(ctx, http.MethodPatch, path, req, &out)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return &out, nil
}

// TestQuestions fetches the questions of a test. The payload is checked
// against the questions schema before it is decoded.
func (c *Client) TestQuestions(ctx context.Context, testID ID) ([]Question, error) {
	path := "/api/tests/" + url.PathEscape(testID.String()) + "/questions"
	var raw json.RawMessage
	if _, err := c.get(ctx, path, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	if err := validateQuestions(raw); err != nil {
		return nil, &MalformedResponseError{Path: path, Body: raw, Err: err}
	}
	var qs []Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, &MalformedResponseError{Path: path, Body: raw, Err: err}
	}
	return qs, nil
}

// Courses lists every course visible to the caller.
func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	var out []Course
	if _, err := c.get(ctx, "/api/courses", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CourseTests lists the tests of one course.
func (c *Client) CourseTests(ctx context.Context, courseID ID) ([]TestInfo, error) {
	var out []TestInfo
	if _, err := c.get(ctx, "/api/courses/"+url.PathEscape(courseID.String())+"/tests", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Users lists platform users. Admin only.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	if _, err := c.get(ctx, "/api/admin/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Groups lists learner groups. Admin only.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var out []Group
	if _, err := c.get(ctx, "/api/admin/groups", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TeacherCourses lists the courses the caller teaches. Staff only.
func (c *Client) TeacherCourses(ctx context.Context) ([]TeacherCourse, error) {
	var out []TeacherCourse
	if _, err := c.get(ctx, "/api/teacher/courses", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TeacherTests lists the tests of every course the caller teaches.
func (c *Client) TeacherTests(ctx context.Context) ([]TeacherTest, error) {
	var out []TeacherTest
	if _, err := c.get(ctx, "/api/teacher/tests", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TeacherQuestions lists the questions of a test the caller owns,
// including correct answers.
func (c *Client) TeacherQuestions(ctx context.Context, testID ID) ([]Question, error) {
	var out []Question
	q := url.Values{"test_id": {testID.String()}}
	if _, err := c.get(ctx, "/api/teacher/questions?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TeacherGroups lists the groups the caller teaches.
func (c *Client) TeacherGroups(ctx context.Context) ([]Group, error) {
	var out []Group
	if _, err := c.get(ctx, "/api/teacher/groups", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TeacherGroup fetches one of the caller's groups with its students.
func (c *Client) TeacherGroup(ctx context.Context, groupID ID) (*GroupDetail, error) {
	var out GroupDetail
	if _, err := c.get(ctx, "/api/teacher/groups/"+url.PathEscape(groupID.String()), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// get performs a GET with retry on transient failures.
func (c *Client) get(ctx context.Context, path string, out any) (int, error) {
	var status int
	err := withRetry(ctx, c.retry, func() error {
		var err error
		status, err = c.do(ctx, http.MethodGet, path, nil, out)
		return err
	})
	return status, err
}

// do sends one request and decodes a JSON response into out. A 204 or an
// empty body leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: c.token})
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	fields := logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": reqID,
		"latency_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		c.log.WithFields(fields).WithError(err).Warn("api request failed")
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	fields["status"] = resp.StatusCode

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.WithFields(fields).WithError(err).Warn("api response read failed")
		return resp.StatusCode, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.WithFields(fields).Warn("api request rejected")
		return resp.StatusCode, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(data)), maxErrorBody),
		}
	}
	c.log.WithFields(fields).Debug("api request")

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, &MalformedResponseError{Path: path, Body: data, Err: err}
	}
	return resp.StatusCode, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
