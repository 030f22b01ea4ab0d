// Package server exposes the attachment service over a local HTTP API. The
// server owns the session: one state store, one autosaver, one service, all
// living for the lifetime of the process.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"attachmi/internal/models"
	"attachmi/internal/service"
	"attachmi/internal/state"
	"attachmi/internal/store"
)

const (
	allowRemoteEnvKey      = "ATTACHMI_ALLOW_REMOTE"
	readHeaderTimeout      = 5 * time.Second
	readTimeout            = 30 * time.Second
	writeTimeout           = 60 * time.Second
	idleTimeout            = 60 * time.Second
	uploadConcurrencyLimit = 2
)

// Options configures a Server.
type Options struct {
	Addr          string
	Version       string
	DBPath        string
	BlobDir       string
	AutosaveDelay time.Duration
}

// Server wraps HTTP handlers for the attachmi API.
type Server struct {
	opts          Options
	service       *service.AttachmentService
	state         *state.Store
	store         store.MetadataStore
	saver         *service.Autosaver
	logger        *slog.Logger
	uploadLimiter chan struct{}
}

// New creates a new server instance.
func New(opts Options, svc *service.AttachmentService, sessionState *state.Store, metadata store.MetadataStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		opts:          opts,
		service:       svc,
		state:         sessionState,
		store:         metadata,
		logger:        logger,
		uploadLimiter: make(chan struct{}, uploadConcurrencyLimit),
	}
	s.saver = service.NewAutosaver(opts.AutosaveDelay, func(attachment models.Attachment) {
		if err := svc.UpdateAttachment(context.Background(), attachment); err != nil {
			s.log().Error("autosave", "id", attachment.ID, "error", err)
		}
	})
	return s
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.opts.Addr)
	server := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// Close flushes any pending autosave.
func (s *Server) Close() {
	if s.saver != nil {
		s.saver.Flush()
	}
}

// ListenAddr converts a base API URL into a listen address. Non-loopback
// hosts are refused unless explicitly allowed, since the API carries
// unauthenticated filesystem operations.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) acquireLimiter(limiter chan struct{}, w http.ResponseWriter, r *http.Request, name string) bool {
	if limiter == nil {
		return true
	}
	select {
	case limiter <- struct{}{}:
		return true
	default:
		err := apiError{
			status:  http.StatusTooManyRequests,
			code:    "resource_exhausted",
			errCode: ErrCodeResourceExhausted,
			err:     fmt.Errorf("too many concurrent %s requests", name),
		}
		s.writeErrorReq(w, r, http.StatusTooManyRequests, err)
		return false
	}
}

func (s *Server) releaseLimiter(limiter chan struct{}) {
	if limiter == nil {
		return
	}
	select {
	case <-limiter:
	default:
	}
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
