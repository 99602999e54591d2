/*
Package server is the wallet's local control API. A UI uses it to start and
tear down the wallet, to ask credential offers and proof requests, and to
follow the wallet's status. The status stream is a websocket which receives
the current status first and then every change.
*/
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/findy-network/findy-wallet/agent/holder"
	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/findy-network/findy-wallet/agent/remote"
	"github.com/findy-network/findy-wallet/agent/status"
	"github.com/findy-network/findy-wallet/protocol/issuecredential"
	"github.com/findy-network/findy-wallet/protocol/presentproof"
	"github.com/findy-network/findy-wallet/std/claims"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/rs/cors"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	maxBodySize       = 64 << 10
	streamSendTimeout = 5 * time.Second
)

// Wallet is the orchestrator API the server exposes. holder.Agent
// implements it.
type Wallet interface {
	StartUpAndConnect(ctx context.Context) error
	TearDown(ctx context.Context) error
	RequestCredentialOffer(ctx context.Context, t pltype.CredType, claims map[string]any) (*remote.CredentialRecord, error)
	RequestProof(ctx context.Context, t pltype.CredType) (*remote.PresentationRecord, error)
	ProofRecord(ctx context.Context, presentationID string) (*remote.PresentationRecord, error)
	Status() status.Status
	Subscribe() (<-chan status.Status, func())
}

var _ Wallet = (*holder.Agent)(nil)

// Config of the Server.
type Config struct {
	Port uint

	// AllowedOrigins are the UI origins for CORS and the status stream,
	// every origin is allowed if it's empty
	AllowedOrigins []string

	Version string
}

// Server serves the control API.
type Server struct {
	cfg    Config
	wallet Wallet

	// ctx is the life of the background startups
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New returns a new Server for the wallet.
func New(w Wallet, cfg Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{cfg: cfg, wallet: w, ctx: ctx, cancel: cancel}
}

// Handler returns the routes with CORS.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/version", s.version).Methods(http.MethodGet)
	router.HandleFunc("/status", s.getStatus).Methods(http.MethodGet)
	router.HandleFunc("/status/stream", s.streamStatus).Methods(http.MethodGet)
	router.HandleFunc("/startup", s.startUp).Methods(http.MethodPost)
	router.HandleFunc("/teardown", s.tearDown).Methods(http.MethodPost)
	router.HandleFunc("/credentials/{type}/offers", s.requestOffer).Methods(http.MethodPost)
	router.HandleFunc("/proofs/{type}", s.requestProof).Methods(http.MethodPost)
	router.HandleFunc("/presentations/{id}", s.proofRecord).Methods(http.MethodGet)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodHead},
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
	}).Handler(router)
}

// ListenAndServe serves until the ctx is done. Running startups are
// cancelled then.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		glog.V(1).Infof("control API on port: %d", s.cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutCtx)
	s.Close()
	return err
}

// Close cancels the running startups and waits for them.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Server) version(w http.ResponseWriter, _ *http.Request) {
	glog.V(5).Infoln("/version requested")
	_, _ = w.Write([]byte(s.cfg.Version))
}

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.wallet.Status())
}

// startUp runs the startup in the background and answers 202 with the
// current status. With ?wait=true it answers when the startup is ready.
func (s *Server) startUp(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("wait") == "true" {
		if err := s.wallet.StartUpAndConnect(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.wallet.Status())
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.wallet.StartUpAndConnect(s.ctx); err != nil {
			glog.Errorln("background startup:", err)
		}
	}()
	writeJSON(w, http.StatusAccepted, s.wallet.Status())
}

func (s *Server) tearDown(w http.ResponseWriter, r *http.Request) {
	if err := s.wallet.TearDown(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.wallet.Status())
}

func (s *Server) requestOffer(w http.ResponseWriter, r *http.Request) {
	defer err2.Catch(func(err error) {
		writeError(w, err)
	})

	t := try.To1(credType(r))
	data := try.To1(io.ReadAll(io.LimitReader(r.Body, maxBodySize)))
	var m map[string]any
	try.To(badRequest(json.Unmarshal(data, &m)))
	c, err := claims.FromMap(t, m)
	try.To(badRequest(err))
	m, err = claims.Map(c)
	try.To(badRequest(err))

	rec := try.To1(s.wallet.RequestCredentialOffer(r.Context(), t, m))
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) requestProof(w http.ResponseWriter, r *http.Request) {
	defer err2.Catch(func(err error) {
		writeError(w, err)
	})

	t := try.To1(credType(r))
	rec := try.To1(s.wallet.RequestProof(r.Context(), t))
	writeJSON(w, http.StatusCreated, rec)
}

// originAllowed accepts requests without an Origin, from the server's own
// host, or from one of the AllowedOrigins.
func (s *Server) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" || strings.EqualFold(strings.TrimSuffix(o, "/"), origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}

func (s *Server) proofRecord(w http.ResponseWriter, r *http.Request) {
	defer err2.Catch(func(err error) {
		var re *remote.Error
		if errors.As(err, &re) && re.StatusCode == http.StatusNotFound {
			err = &httpError{code: http.StatusNotFound, err: err}
		}
		writeError(w, err)
	})

	rec := try.To1(s.wallet.ProofRecord(r.Context(), mux.Vars(r)["id"]))
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) streamStatus(w http.ResponseWriter, r *http.Request) {
	if !s.originAllowed(r) {
		glog.Warningln("status stream origin refused:", r.Header.Get("Origin"))
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}
	// the origin is checked above
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		glog.Warningln("status stream upgrade:", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "status stream closed")
	glog.V(3).Infoln("status stream client connected")

	ctx := conn.CloseRead(r.Context())
	ch, unsubscribe := s.wallet.Subscribe()
	defer unsubscribe()

	for {
		select {
		case st, ok := <-ch:
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if err := s.send(ctx, conn, st); err != nil {
				if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
					glog.V(3).Infoln("status stream send:", err)
				}
				return
			}
		case <-ctx.Done():
			glog.V(3).Infoln("status stream client dropped")
			return
		case <-s.ctx.Done():
			_ = conn.Close(websocket.StatusGoingAway, "server stopping")
			return
		}
	}
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, st status.Status) error {
	ctx, cancel := context.WithTimeout(ctx, streamSendTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, st)
}

func credType(r *http.Request) (pltype.CredType, error) {
	t, err := pltype.ParseCredType(mux.Vars(r)["type"])
	if err != nil {
		return t, &httpError{code: http.StatusNotFound, err: err}
	}
	return t, nil
}

type httpError struct {
	code int
	err  error
}

func (e *httpError) Error() string { return e.err.Error() }
func (e *httpError) Unwrap() error { return e.err }

func badRequest(err error) error {
	if err == nil {
		return nil
	}
	return &httpError{code: http.StatusBadRequest, err: err}
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusCode maps the wallet's errors to HTTP status codes.
func statusCode(err error) int {
	var (
		he *httpError
		ie *issuecredential.Error
		pe *presentproof.Error
		re *remote.Error
	)
	switch {
	case errors.As(err, &he):
		return he.code
	case errors.Is(err, holder.ErrNotStarted):
		return http.StatusConflict
	case errors.As(err, &ie):
		switch ie.Kind {
		case issuecredential.KindNoIssuerIdentity, issuecredential.KindIssuerNotPublished,
			issuecredential.KindNoSchema, issuecredential.KindNoConnection:
			return http.StatusConflict
		case issuecredential.KindOffer:
			if errors.As(err, &re) {
				return http.StatusBadGateway
			}
			return http.StatusBadRequest
		}
	case errors.As(err, &pe):
		switch pe.Kind {
		case presentproof.KindNoSchema, presentproof.KindNoConnection:
			return http.StatusConflict
		}
	}
	if errors.As(err, &re) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := statusCode(err)
	glog.V(2).Infof("returning %d: %v", code, err)
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(dto.ToJSONBytes(v))
}
