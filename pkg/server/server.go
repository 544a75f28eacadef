package server

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/bastiangx/tagjump/internal/logger"
	"github.com/bastiangx/tagjump/pkg/alphabet"
	"github.com/bastiangx/tagjump/pkg/config"
	"github.com/bastiangx/tagjump/pkg/metrics"
	"github.com/bastiangx/tagjump/pkg/tagger"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Error codes sent in ErrorResponse.
const (
	CodeBadRequest = 400
	CodeNotFound   = 404
	CodeInternal   = 500
)

// Server handles the IPC for tag assignment sessions
type Server struct {
	mu       sync.Mutex
	cfg      *config.Config
	alphabet *alphabet.Keyboard
	recorder *metrics.Recorder
	sessions map[string]*Session
	order    []string
	dec      *msgpack.Decoder
	enc      *msgpack.Encoder
}

// NewServer creates a server reading requests from in and writing
// responses to out.
func NewServer(cfg *config.Config, in io.Reader, out io.Writer) *Server {
	cfg.Validate()
	return &Server{
		cfg:      cfg,
		alphabet: alphabet.NewKeyboard(cfg.Tagger.Keys),
		recorder: metrics.NewRecorder(),
		sessions: make(map[string]*Session),
		dec:      msgpack.NewDecoder(in),
		enc:      msgpack.NewEncoder(out),
	}
}

// Start signals readiness, then serves requests until the input ends or
// ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting Server.")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return errors.Annotate(err, "server: decode request")
		}
		if err := s.send(s.Handle(req)); err != nil {
			return err
		}
	}
}

func (s *Server) send(response any) error {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return errors.Annotate(err, "server: encode response")
	}
	return nil
}

// UpdateConfig applies a reloaded config. Open sessions keep their tag
// alphabet until they are reopened.
func (s *Server) UpdateConfig(cfg *config.Config) {
	cfg.Validate()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.alphabet = alphabet.NewKeyboard(cfg.Tagger.Keys)
	log.Infof("Config updated: keys=%q shorten=%v", cfg.Tagger.Keys, cfg.Tagger.ShortenTags)
}

// Handle processes one request and returns the response to send.
func (s *Server) Handle(req Request) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		resp any
		err  error
	)
	switch req.Action {
	case "open":
		resp, err = s.handleOpen(req)
	case "query":
		resp, err = s.handleQuery(req)
	case "view":
		resp, err = s.handleView(req)
	case "nearest":
		resp, err = s.handleNearest(req)
	case "reset":
		resp, err = s.handleReset(req)
	case "close":
		resp, err = s.handleClose(req)
	case "stats":
		resp, err = s.handleStats(req)
	default:
		err = errors.BadRequestf("unknown action: %q", req.Action)
	}
	if err != nil {
		log.Debugf("Request %s (%s) failed: %v", req.ID, req.Action, err)
		return errorResponse(req.ID, err)
	}
	return resp
}

func errorResponse(id string, err error) ErrorResponse {
	code := CodeInternal
	switch {
	case errors.Is(err, errors.NotFound):
		code = CodeNotFound
	case errors.Is(err, errors.BadRequest), errors.Is(err, errors.NotValid):
		code = CodeBadRequest
	}
	return ErrorResponse{ID: id, Error: err.Error(), Code: code}
}

func (s *Server) handleOpen(req Request) (any, error) {
	id := uuid.Must(uuid.NewV7()).String()
	sess := newSession(id, req.Text, tagger.Range{Start: req.ViewStart, End: req.ViewEnd}, req.Caret)
	sess.tagger = tagger.New(sess, s.alphabet,
		tagger.WithJumper(sess),
		tagger.WithScroller(sess),
		tagger.WithObserver(s.recorder),
		tagger.WithCompaction(s.cfg.Tagger.ShortenTags),
		tagger.WithLogger(logger.New("session")),
	)

	s.sessions[id] = sess
	s.order = append(s.order, id)
	for len(s.order) > s.cfg.Server.MaxSessions {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.sessions, oldest)
		log.Debugf("Evicted session %s", oldest)
	}
	log.Debugf("Opened session %s (%d chars)", id, len(sess.text))
	return StatusResponse{ID: req.ID, Session: id, Status: "ok"}, nil
}

func (s *Server) session(id string) (*Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.NotFoundf("session %q", id)
	}
	return sess, nil
}

func (s *Server) handleQuery(req Request) (any, error) {
	sess, err := s.session(req.Session)
	if err != nil {
		return nil, err
	}
	if len([]rune(req.Query)) > s.cfg.Server.MaxQueryLen {
		return nil, errors.NotValidf("query longer than %d characters", s.cfg.Server.MaxQueryLen)
	}

	start := time.Now()
	res, err := sess.update(req)
	if err != nil {
		return nil, errors.NewBadRequest(err, "query rejected")
	}

	jump := -1
	if res.Jumped {
		jump = res.Offset
	}
	return QueryResponse{
		ID:        req.ID,
		Session:   sess.id,
		Markers:   wireMarkers(res.Markers),
		Full:      res.Full,
		Jump:      jump,
		Scrolled:  res.Scrolled,
		Discarded: res.Discarded,
		TimeTaken: time.Since(start).Microseconds(),
	}, nil
}

func wireMarkers(markers []tagger.Marker) []Marker {
	out := make([]Marker, len(markers))
	for i, m := range markers {
		out[i] = Marker{Query: m.Query, Tag: m.Tag, Offset: m.Offset}
	}
	return out
}

func (s *Server) handleView(req Request) (any, error) {
	sess, err := s.session(req.Session)
	if err != nil {
		return nil, err
	}
	old := sess.view
	sess.setView(tagger.Range{Start: req.ViewStart, End: req.ViewEnd}, req.Caret)
	rescan := sess.tagger.HasMatchBetween(old, sess.view)
	return StatusResponse{ID: req.ID, Session: sess.id, Status: "ok", Rescan: rescan}, nil
}

func (s *Server) handleNearest(req Request) (any, error) {
	sess, err := s.session(req.Session)
	if err != nil {
		return nil, err
	}
	if !sess.tagger.JumpToNearestVisible() {
		return StatusResponse{ID: req.ID, Session: sess.id, Status: "none", Caret: sess.caret}, nil
	}
	return StatusResponse{ID: req.ID, Session: sess.id, Status: "jumped", Jump: sess.jumped, Caret: sess.caret}, nil
}

func (s *Server) handleReset(req Request) (any, error) {
	sess, err := s.session(req.Session)
	if err != nil {
		return nil, err
	}
	sess.tagger.Reset()
	sess.query = tagger.Query{}
	return StatusResponse{ID: req.ID, Session: sess.id, Status: "ok"}, nil
}

func (s *Server) handleClose(req Request) (any, error) {
	if _, err := s.session(req.Session); err != nil {
		return nil, err
	}
	delete(s.sessions, req.Session)
	for i, id := range s.order {
		if id == req.Session {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return StatusResponse{ID: req.ID, Session: req.Session, Status: "closed"}, nil
}

func (s *Server) handleStats(req Request) (any, error) {
	samples, err := s.recorder.Snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]MetricSample, len(samples))
	for i, sample := range samples {
		out[i] = MetricSample{Name: sample.Name, Value: sample.Value}
	}
	return StatsResponse{ID: req.ID, Sessions: len(s.sessions), Metrics: out}, nil
}
