package signal

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"krkn/pkg/logging"

	"github.com/gorilla/mux"
)

// Server publishes the campaign signal over HTTP so external tooling can
// steer the run. Each command endpoint writes the shared State; the loop
// picks the change up at its next checkpoint.
type Server struct {
	state      *State
	httpServer *http.Server
	listener   net.Listener
	done       chan struct{}
}

// NewServer builds a Server controlling the given state. The server is not
// listening until Start is called.
func NewServer(state *State) *Server {
	s := &Server{
		state: state,
		done:  make(chan struct{}),
	}

	router := mux.NewRouter()
	router.HandleFunc("/", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/RUN", s.handleCommand(Run)).Methods(http.MethodPost)
	router.HandleFunc("/PAUSE", s.handleCommand(Pause)).Methods(http.MethodPost)
	router.HandleFunc("/STOP", s.handleCommand(Stop)).Methods(http.MethodPost)

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start binds the listener on addr and begins serving in the background. A
// bind failure is returned synchronously so the caller can abort startup; the
// run must not proceed silently unsteerable when status publishing was
// requested.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind signal listener on %s: %w", addr, err)
	}
	s.listener = ln

	logging.Info("SignalServer", "publishing kraken status at http://%s", ln.Addr())
	go func() {
		defer close(s.done)
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			logging.Error("SignalServer", err, "signal listener terminated unexpectedly")
		}
	}()
	return nil
}

// Addr returns the address the listener is bound to. Only valid after a
// successful Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the listener down, waiting for in-flight requests up to the
// context deadline.
func (s *Server) Stop(ctx context.Context) error {
	if s.listener == nil {
		return nil
	}
	err := s.httpServer.Shutdown(ctx)
	select {
	case <-s.done:
	case <-ctx.Done():
	}
	return err
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, string(s.state.Get()))
}

func (s *Server) handleCommand(sig Signal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.state.Set(sig)
		logging.Info("SignalServer", "received %s command, signal is now %s", sig, s.state.Get())
		fmt.Fprint(w, string(s.state.Get()))
	}
}
