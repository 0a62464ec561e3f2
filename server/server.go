package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/chiptheory/grid"
	"github.com/jsphweid/chiptheory/model"
	"github.com/jsphweid/chiptheory/note"
	"github.com/jsphweid/chiptheory/store"
	"github.com/jsphweid/chiptheory/util"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Options struct {
	AllowedOrigins    []string
	RequestsPerSecond float64
	Burst             int
}

var DefaultOptions = Options{
	AllowedOrigins:    []string{"*"},
	RequestsPerSecond: 50,
	Burst:             100,
}

type track struct {
	voices model.VoiceNotes
	tonal  []model.Note
	grid   *grid.Cache
}

// Server exposes the analysis core over HTTP. All analysis mutations go
// through mu, which makes the server the single writer for every track.
type Server struct {
	mu     sync.Mutex
	tracks map[string]*track
	store  store.Store

	segmenter note.Segmenter
	opts      Options
	limiter   *rate.Limiter
}

func New(st store.Store, opts Options) *Server {
	limit := rate.Limit(opts.RequestsPerSecond)
	if opts.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	return &Server{
		tracks:    make(map[string]*track),
		store:     st,
		segmenter: note.Default,
		opts:      opts,
		limiter:   rate.NewLimiter(limit, opts.Burst),
	}
}

// AddTrack segments a dump and registers it. An empty id gets a fresh one.
func (s *Server) AddTrack(id string, dump model.ChipStateDump) string {
	if id == "" {
		id = uuid.New().String()
	}
	voices := s.segmenter.SegmentDump(dump)
	t := &track{
		voices: voices,
		tonal:  note.Tonal(voices),
		grid:   grid.NewCache(grid.Default),
	}

	s.mu.Lock()
	s.tracks[id] = t
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{"track": id, "notes": len(t.tonal)}).Info("added track")
	return id
}

func (s *Server) TrackIds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return util.SortedKeys(s.tracks)
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/tracks", s.handleCreateTrack).Methods("POST")
	router.HandleFunc("/tracks", s.handleListTracks).Methods("GET")
	router.HandleFunc("/tracks/{id}/notes", s.handleNotes).Methods("GET")
	router.HandleFunc("/tracks/{id}/playing", s.handlePlaying).Methods("GET")
	router.HandleFunc("/tracks/{id}/grid", s.handleGrid).Methods("GET")
	router.HandleFunc("/tracks/{id}/analysis", s.handleGetAnalysis).Methods("GET")
	router.HandleFunc("/tracks/{id}/analysis", s.handleResetAnalysis).Methods("DELETE")
	router.HandleFunc("/tracks/{id}/analysis/click", s.handleClick).Methods("POST")
	router.HandleFunc("/tracks/{id}/analysis/key", s.handleKey).Methods("PUT")
	router.HandleFunc("/tracks/{id}/analysis/tonic", s.handleTonic).Methods("PUT")
	router.HandleFunc("/tracks/{id}/analysis/selection", s.handleSelection).Methods("PUT")
	router.Use(s.logRequests, s.limitRate)
	return router
}

// Handler is the router wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.Router())
}

func (s *Server) limitRate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("handled request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("could not write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
