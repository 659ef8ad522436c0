// Minimal COS object storage client for best-effort image sync
package cloud

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Config carries the credentials and bucket location. All fields empty means
// cloud sync is disabled and the client is a no-op.
type Config struct {
	SecretID  string
	SecretKey string
	Region    string
	Bucket    string
}

// FromEnv reads the configuration from COS_SECRET_ID, COS_SECRET_KEY,
// COS_REGION and COS_BUCKET.
func FromEnv() Config {
	return Config{
		SecretID:  os.Getenv("COS_SECRET_ID"),
		SecretKey: os.Getenv("COS_SECRET_KEY"),
		Region:    os.Getenv("COS_REGION"),
		Bucket:    os.Getenv("COS_BUCKET"),
	}
}

// Enabled reports whether the configuration is complete enough to use.
func (c Config) Enabled() bool {
	return c.SecretID != "" && c.SecretKey != "" && c.Region != "" && c.Bucket != ""
}

// Client uploads and downloads objects in a COS bucket. Uploads after image
// load are fire-and-forget: failures are logged, never surfaced to the UI.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *logrus.Logger
}

func NewClient(cfg Config, logger *logrus.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// Enabled reports whether the client will perform requests.
func (c *Client) Enabled() bool {
	return c.cfg.Enabled()
}

func (c *Client) endpoint(key string) string {
	return fmt.Sprintf("https://%s.cos.%s.myqcloud.com/%s", c.cfg.Bucket, c.cfg.Region, key)
}

// Upload PUTs the file at path into the bucket under its base name.
func (c *Client) Upload(ctx context.Context, path string) error {
	if !c.Enabled() {
		c.logger.Debug("Cloud sync disabled, skipping upload")
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}

	key := filepath.Base(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint(key), f)
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", contentTypeFor(path))
	req.Header.Set("Authorization", c.sign(http.MethodPut, "/"+key))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload %s: unexpected status %s", path, resp.Status)
	}

	c.logger.WithFields(logrus.Fields{"key": key, "bytes": info.Size()}).Info("Object uploaded")
	return nil
}

// Download GETs an object by key into dest.
func (c *Client) Download(ctx context.Context, key, dest string) error {
	if !c.Enabled() {
		return fmt.Errorf("cloud sync disabled")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(key), nil)
	if err != nil {
		return fmt.Errorf("download %s: %w", key, err)
	}
	req.Header.Set("Authorization", c.sign(http.MethodGet, "/"+key))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", key, resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("download %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("download %s: %w", key, err)
	}
	return nil
}

// sign builds a COS authorization header for a request with no signed
// headers or query parameters.
func (c *Client) sign(method, uri string) string {
	now := time.Now().Unix()
	keyTime := fmt.Sprintf("%d;%d", now-60, now+600)

	signKey := hmacSHA1(c.cfg.SecretKey, keyTime)
	httpString := strings.ToLower(method) + "\n" + uri + "\n\n\n"
	hashed := sha1.Sum([]byte(httpString))
	stringToSign := "sha1\n" + keyTime + "\n" + hex.EncodeToString(hashed[:]) + "\n"
	signature := hmacSHA1(signKey, stringToSign)

	return strings.Join([]string{
		"q-sign-algorithm=sha1",
		"q-ak=" + c.cfg.SecretID,
		"q-sign-time=" + keyTime,
		"q-key-time=" + keyTime,
		"q-header-list=",
		"q-url-param-list=",
		"q-signature=" + signature,
	}, "&")
}

func hmacSHA1(key, msg string) string {
	h := hmac.New(sha1.New, []byte(key))
	h.Write([]byte(msg))
	return hex.EncodeToString(h.Sum(nil))
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
