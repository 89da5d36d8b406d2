package lms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"course-publisher/internal/httpx"
)

const contentTypeJSON = "application/json"

// Client talks to the course backend. All calls need a bearer token;
// auth itself (obtaining the token) is outside this package.
type Client struct {
	BaseURL     string
	HTTP        *http.Client
	BearerToken string
}

func New(baseURL, token string) *Client {
	tr := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		BaseURL:     baseURL,
		BearerToken: token,
		HTTP: &http.Client{
			Timeout:   2 * time.Minute,
			Transport: tr,
		},
	}
}

/* -------- Courses -------- */

type CreateCourseRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Outcomes    []string `json:"outcomes"`
	Topics      []string `json:"topics"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Public      bool     `json:"public"`
	Price       float64  `json:"price,omitempty"`
}

type CourseSummary struct {
	ID      json.Number `json:"id"`
	Title   string      `json:"title"`
	Created string      `json:"created"`
}

// CreateCourse persists the course and returns its remote id. Some
// backend deployments omit the id in the create response; callers must
// treat an empty id as "created but unidentified" and recover via
// ListCourses.
func (c *Client) CreateCourse(ctx context.Context, req CreateCourseRequest) (string, error) {
	var out struct {
		ID json.Number `json:"id"`
	}
	if err := c.postJSON(ctx, "/api/courses/", req, &out); err != nil {
		return "", fmt.Errorf("lms: create course: %w", err)
	}
	return out.ID.String(), nil
}

// ListCourses returns the most recently created courses first. Used
// only to recover a course id the create response failed to include.
func (c *Client) ListCourses(ctx context.Context, limit int) ([]CourseSummary, error) {
	q := url.Values{}
	q.Set("ordering", "-created")
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out struct {
		Results []CourseSummary `json:"results"`
	}
	if err := c.getJSON(ctx, "/api/courses/", q, &out); err != nil {
		return nil, fmt.Errorf("lms: list courses: %w", err)
	}
	return out.Results, nil
}

/* -------- Units -------- */

type CreateUnitRequest struct {
	Course      string `json:"course"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type UnitSummary struct {
	ID    json.Number `json:"id"`
	Title string      `json:"title"`
	Order int         `json:"order"`
}

func (c *Client) CreateUnit(ctx context.Context, req CreateUnitRequest) (string, error) {
	var out struct {
		ID json.Number `json:"id"`
	}
	if err := c.postJSON(ctx, "/api/units/", req, &out); err != nil {
		return "", fmt.Errorf("lms: create unit: %w", err)
	}
	if out.ID.String() == "" {
		return "", errors.New("lms: create unit: response has no id")
	}
	return out.ID.String(), nil
}

// ListUnits returns the persisted units of a course, used to rebuild
// a missing local-to-remote mapping.
func (c *Client) ListUnits(ctx context.Context, courseID string) ([]UnitSummary, error) {
	q := url.Values{}
	q.Set("course", courseID)

	var out struct {
		Results []UnitSummary `json:"results"`
	}
	if err := c.getJSON(ctx, "/api/units/", q, &out); err != nil {
		return nil, fmt.Errorf("lms: list units: %w", err)
	}
	return out.Results, nil
}

/* -------- Lessons -------- */

type CreateLessonRequest struct {
	Unit        string `json:"unit"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Outcomes    string `json:"outcomes"`
	Order       int    `json:"order"`
}

func (c *Client) CreateLesson(ctx context.Context, req CreateLessonRequest) (string, error) {
	var out struct {
		ID json.Number `json:"id"`
	}
	if err := c.postJSON(ctx, "/api/lessons/", req, &out); err != nil {
		return "", fmt.Errorf("lms: create lesson: %w", err)
	}
	if out.ID.String() == "" {
		return "", errors.New("lms: create lesson: response has no id")
	}
	return out.ID.String(), nil
}

// AttachVideo links an already-uploaded remote video to a lesson.
func (c *Client) AttachVideo(ctx context.Context, lessonID, videoID string) error {
	payload := map[string]string{"video": videoID}
	path := fmt.Sprintf("/api/lessons/%s/video/", url.PathEscape(lessonID))
	if err := c.postJSON(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("lms: attach video: %w", err)
	}
	return nil
}

/* -------- Video slots -------- */

// Slot is a backend-issued target/credential pair authorizing a direct
// binary upload to the streaming origin.
type Slot struct {
	UploadURL string      `json:"uploadUrl"`
	AccessKey string      `json:"accessKey"`
	VideoID   string      `json:"videoId"`
	LibraryID json.Number `json:"libraryId"`
}

// CreateVideoSlot asks the backend for a remote video placeholder.
// Only the title travels; the backend brokers the streaming-origin
// credentials. Callers must reject a slot without an upload URL.
func (c *Client) CreateVideoSlot(ctx context.Context, title string) (Slot, error) {
	payload := map[string]string{"title": title}

	var out Slot
	if err := c.postJSON(ctx, "/api/videos/", payload, &out); err != nil {
		return Slot{}, fmt.Errorf("lms: create video slot: %w", err)
	}
	return out, nil
}

/* -------- plumbing -------- */

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	if c.BearerToken == "" {
		return errors.New("missing bearer token")
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return httpx.DoJSON(
		ctx,
		c.HTTP,
		func(ctx context.Context) (*http.Request, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
			if err != nil {
				return nil, err
			}
			r.Header.Set("Content-Type", contentTypeJSON)
			r.Header.Set("Accept", contentTypeJSON)
			r.Header.Set("Authorization", "Bearer "+c.BearerToken)
			return r, nil
		},
		out,
		httpx.DefaultRetryConfig(),
	)
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if c.BearerToken == "" {
		return errors.New("missing bearer token")
	}
	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return httpx.DoJSON(
		ctx,
		c.HTTP,
		func(ctx context.Context) (*http.Request, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
			if err != nil {
				return nil, err
			}
			r.Header.Set("Accept", contentTypeJSON)
			r.Header.Set("Authorization", "Bearer "+c.BearerToken)
			return r, nil
		},
		out,
		httpx.DefaultRetryConfig(),
	)
}
