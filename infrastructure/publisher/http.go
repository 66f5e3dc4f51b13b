package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AzielCF/az-autopost/core/config"
	"github.com/AzielCF/az-autopost/domains/session"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	loginPath  = "/api/v1/login"
	uploadPath = "/api/v1/media/photo"
)

// HTTPPublisher talks to the account's private HTTP API.
type HTTPPublisher struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	now        func() time.Time
}

func NewHTTPPublisher(cfg config.PublisherConfig) *HTTPPublisher {
	return &HTTPPublisher{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	DeviceID string `json:"device_id"`
	Token    string `json:"token,omitempty"`
}

type loginResponse struct {
	UserID  string            `json:"user_id"`
	Token   string            `json:"token"`
	Cookies map[string]string `json:"cookies"`
}

type uploadResponse struct {
	MediaID string `json:"media_id"`
	Status  string `json:"status"`
}

func (p *HTTPPublisher) Login(ctx context.Context, creds session.Credentials, prev *session.Session) (*session.Session, error) {
	if !creds.Complete() {
		return nil, errors.New("username and password are required")
	}

	now := p.now().UTC()
	sess := &session.Session{
		Username:  creds.Username,
		DeviceID:  uuid.NewString(),
		CreatedAt: now,
	}
	req := loginRequest{Username: creds.Username, Password: creds.Password}
	if prev != nil {
		sess = prev.Clone()
		sess.Username = creds.Username
		req.Token = prev.Token
	}
	if sess.DeviceID == "" {
		sess.DeviceID = uuid.NewString()
	}
	req.DeviceID = sess.DeviceID

	var resp loginResponse
	if err := p.jsonRequest(ctx, http.MethodPost, loginPath, nil, req, &resp); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.Token == "" {
		return nil, errors.New("login failed: empty token in response")
	}

	sess.UserID = resp.UserID
	sess.Token = resp.Token
	if len(resp.Cookies) > 0 {
		sess.Cookies = resp.Cookies
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.RefreshedAt = now
	return sess, nil
}

// Restore only checks that the saved settings are usable; it does not hit the network.
func (p *HTTPPublisher) Restore(ctx context.Context, s *session.Session) error {
	if s == nil {
		return errors.New("session is empty")
	}
	if s.Token == "" {
		return errors.New("session has no token")
	}
	if s.DeviceID == "" {
		return errors.New("session has no device id")
	}
	return nil
}

func (p *HTTPPublisher) UploadPhoto(ctx context.Context, s *session.Session, path, caption string) (string, error) {
	if err := p.Restore(ctx, s); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if caption != "" {
		_ = w.WriteField("caption", caption)
	}

	fname := filepath.Base(path)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename="%s"`, strings.ReplaceAll(fname, "\"", "_")))
	h.Set("Content-Type", contentType(fname))
	part, err := w.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+uploadPath, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	p.authorize(req, s)

	var resp uploadResponse
	if err := p.do(req, &resp); err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	if resp.Status != "" && resp.Status != "ok" {
		return "", fmt.Errorf("upload failed: status %q", resp.Status)
	}

	logrus.Debugf("[PUBLISHER] uploaded %s as media %s", fname, resp.MediaID)
	return resp.MediaID, nil
}

func (p *HTTPPublisher) authorize(req *http.Request, s *session.Session) {
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	if s == nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	req.Header.Set("X-Device-ID", s.DeviceID)
	for name, value := range s.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

// jsonRequest builds, sends and decodes a JSON API call.
func (p *HTTPPublisher) jsonRequest(ctx context.Context, method, path string, s *session.Session, body interface{}, dest interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	p.authorize(req, s)

	return p.do(req, dest)
}

func (p *HTTPPublisher) do(req *http.Request, dest interface{}) error {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed: status=%d body=%s", resp.StatusCode, truncate(string(data), 1024))
	}

	if dest != nil && len(data) > 0 {
		if err := json.Unmarshal(data, dest); err != nil {
			return fmt.Errorf("invalid response: %w", err)
		}
	}
	return nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
