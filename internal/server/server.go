package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/vdobler/htmock/internal/connio"
	"github.com/vdobler/htmock/internal/dispatch"
	"github.com/vdobler/htmock/internal/httpclient"
	"github.com/vdobler/htmock/internal/loader"
	"github.com/vdobler/htmock/internal/log"
	"github.com/vdobler/htmock/internal/pool"
	"github.com/vdobler/htmock/internal/state"
)

// Server is one running mock server instance: its state manager, HTTP
// engine and listener, plus the connection dispatcher when HTTPS is on.
type Server struct {
	// ID identifies this instance in logs; it has no wire meaning.
	ID    string
	State *state.State

	listener net.Listener
	httpSrv  *http.Server
	log      log.Log

	mu       sync.Mutex
	serveErr error
	done     chan struct{}
}

// New builds and starts a server per opts. It returns once the listener is
// bound; the HTTP engine runs in a background goroutine.
func New(opts Options, logger log.Log) (*Server, error) {
	if logger == nil {
		logger = log.Discard
	}

	st := state.New(opts.HistoryLimit, logger)

	if opts.StaticMocksDir != "" {
		defs, err := loader.LoadDir(opts.StaticMocksDir)
		if err != nil {
			return nil, fmt.Errorf("server: loading static mocks: %w", err)
		}
		for _, def := range defs {
			if _, err := st.AddMock(def, true); err != nil {
				return nil, fmt.Errorf("server: static mock rejected: %w", err)
			}
		}
	}

	addr := fmt.Sprintf("%s:%d", opts.bindHost(), opts.Port)
	rawLn, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("server: listen: %w", err)
	}

	var ln net.Listener = rawLn
	if opts.HTTPS {
		certPEM, keyPEM, err := opts.loadCA()
		if err != nil {
			rawLn.Close()
			return nil, fmt.Errorf("server: loading CA: %w", err)
		}
		resolver, err := connio.NewCertResolver(certPEM, keyPEM)
		if err != nil {
			rawLn.Close()
			return nil, fmt.Errorf("server: building cert resolver: %w", err)
		}
		ln = connio.NewDispatcher(rawLn, resolver)
	}

	client := httpclient.New(httpclient.Options{})
	handler := dispatch.New(st, client, logger)

	s := &Server{
		ID:       uuid.NewString(),
		State:    st,
		listener: ln,
		httpSrv:  &http.Server{Handler: handler},
		log:      logger,
		done:     make(chan struct{}),
	}

	go s.run()
	return s, nil
}

func (s *Server) run() {
	defer close(s.done)
	err := s.httpSrv.Serve(s.listener)
	if err != nil && err != http.ErrServerClosed {
		s.mu.Lock()
		s.serveErr = err
		s.mu.Unlock()
		s.log.Errorf("server %s: serve loop exited: %v", s.ID, err)
	}
}

// Addr returns the bound listen address.
func (s *Server) Addr() string { return s.listener.Addr().String() }

// Close stops accepting new connections, lets in-flight requests finish
// (including any configured response delay) and waits for the serve loop
// to exit.
func (s *Server) Close() error {
	err := s.httpSrv.Shutdown(context.Background())
	<-s.done
	return err
}

// Adapter builds a pool.LocalAdapter bound to this server's state and
// listener.
func (s *Server) Adapter() *pool.LocalAdapter {
	return pool.NewLocalAdapter(s.Addr(), s.State, s.Close)
}
