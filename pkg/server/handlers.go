package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cfgview/pkg/buildinfo"
	"github.com/matzehuels/cfgview/pkg/cache"
	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/render"
	"github.com/matzehuels/cfgview/pkg/render/nodelink"
	"github.com/matzehuels/cfgview/pkg/render/svg"
	"github.com/matzehuels/cfgview/pkg/selection"
	"github.com/matzehuels/cfgview/pkg/session"
)

const (
	defaultFrameDT = 16 * time.Millisecond
	maxFrameDT     = 10 * time.Second
	maxFrames      = 2000
)

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession resolves {id} and runs h while holding the session's lock.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := s.lookup(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		e.lastUsed = time.Now()
		h(w, r, e.sess)
	}
}

// SessionResponse summarizes a session.
type SessionResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Nodes       int                 `json:"nodes"`
	Edges       int                 `json:"edges"`
	Roles       map[cfg.Role]int    `json:"roles"`
	ShowDetails bool                `json:"showDetails"`
	CreatedAt   time.Time           `json:"createdAt"`
	Attributes  []render.Attributes `json:"attributes"`
	Frame       layout.Snapshot     `json:"frame"`
	Selected    *selection.View     `json:"selected,omitempty"`
}

func summarize(sess *session.Session) SessionResponse {
	g := sess.Graph()
	resp := SessionResponse{
		ID:          sess.ID(),
		ShowDetails: sess.ShowDetails(),
		CreatedAt:   sess.CreatedAt(),
		Frame:       sess.Frame(),
		Selected:    sess.Selected(),
	}
	if g != nil {
		resp.Name = g.Name()
		resp.Nodes = g.NodeCount()
		resp.Edges = g.EdgeCount()
		resp.Roles = g.RoleCounts()
	}
	attrs := sess.Attributes()
	resp.Attributes = make([]render.Attributes, 0, len(attrs))
	for _, a := range attrs {
		resp.Attributes = append(resp.Attributes, a)
	}
	slices.SortFunc(resp.Attributes, func(a, b render.Attributes) int { return a.ID - b.ID })
	return resp
}

// FrameResponse carries a frame and the detail setting.
type FrameResponse struct {
	ShowDetails bool            `json:"showDetails"`
	Frame       layout.Snapshot `json:"frame"`
}

// DragRequest is the body of a drag event.
type DragRequest struct {
	Phase string  `json:"phase"` // "start", "move" or "end"
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"samples": cfg.SampleNames()})
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	data, err := cfg.SampleJSON(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "%s", err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, s.maxBody+1))
	if err != nil {
		return nil, errors.Parse(err, "read request body")
	}
	if int64(len(data)) > s.maxBody {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "request body exceeds %d bytes", s.maxBody)
	}
	return data, nil
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	data, err := s.readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := session.New(s.sessionOptions()...)
	if err := sess.LoadBytes(r.Context(), "api", data); err != nil {
		sess.Close()
		s.writeError(w, r, err)
		return
	}
	if err := s.persist(r.Context(), sess); err != nil {
		sess.Close()
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	s.live[sess.ID()] = &entry{sess: sess, lastUsed: time.Now()}
	s.mu.Unlock()

	s.logger.Info("session created", "id", sess.ID(), "nodes", sess.Graph().NodeCount())
	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, summarize(sess))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, summarize(sess))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSessionID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mu.Lock()
	e, ok := s.live[id]
	delete(s.live, id)
	s.mu.Unlock()
	if ok {
		e.mu.Lock()
		e.sess.Close()
		e.mu.Unlock()
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetInput(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	raw, err := sess.RawInput()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (s *Server) handlePutInput(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	data, err := s.readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.LoadBytes(r.Context(), "api", data); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.persist(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(sess))
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, FrameResponse{ShowDetails: sess.ShowDetails(), Frame: sess.Frame()})
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	dt, n, err := frameParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var snap layout.Snapshot
	for i := 0; i < n; i++ {
		snap = sess.Advance(dt)
	}
	writeJSON(w, http.StatusOK, FrameResponse{ShowDetails: sess.ShowDetails(), Frame: snap})
}

// frameParams reads dt (a duration like "16ms", or milliseconds) and n (frame
// count) from the query.
func frameParams(r *http.Request) (time.Duration, int, error) {
	q := r.URL.Query()
	dt := defaultFrameDT
	if v := q.Get("dt"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			ms, convErr := strconv.ParseFloat(v, 64)
			if convErr != nil {
				return 0, 0, errors.Validation("dt", "invalid frame duration %q", v)
			}
			d = time.Duration(ms * float64(time.Millisecond))
		}
		if d < 0 || d > maxFrameDT {
			return 0, 0, errors.Validation("dt", "frame duration must be between 0 and %s", maxFrameDT)
		}
		dt = d
	}
	n := 1
	if v := q.Get("n"); v != "" {
		c, err := strconv.Atoi(v)
		if err != nil || c < 1 || c > maxFrames {
			return 0, 0, errors.Validation("n", "frame count must be between 1 and %d", maxFrames)
		}
		n = c
	}
	return dt, n, nil
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	show := sess.ToggleDetails()
	if err := s.persist(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FrameResponse{ShowDetails: show, Frame: sess.Frame()})
}

func nodeParam(r *http.Request) (int, error) {
	v := chi.URLParam(r, "node")
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Validation("node", "invalid node id %q", v)
	}
	return id, nil
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, err := nodeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := sess.Click(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDeselect(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	sess.Deselect()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, map[string]*selection.View{"selected": sess.Selected()})
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, err := nodeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req DragRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		s.writeError(w, r, errors.Parse(err, "decode drag request"))
		return
	}
	p := layout.Point{X: req.X, Y: req.Y}
	switch strings.ToLower(req.Phase) {
	case "start":
		err = sess.DragStart(id, p)
	case "move", "":
		err = sess.Drag(id, p)
	case "end":
		err = sess.DragEnd(id)
	default:
		err = errors.Validation("phase", "unknown drag phase %q (want start, move or end)", req.Phase)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FrameResponse{ShowDetails: sess.ShowDetails(), Frame: sess.Frame()})
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, err := nodeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tip, err := sess.Hover(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tip)
}

func (s *Server) handleUnhover(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	sess.Unhover()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	q := r.URL.Query()
	format := render.FormatSVG
	if v := q.Get("format"); v != "" {
		f, err := render.ParseFormat(v)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		format = f
	}
	renderer := q.Get("renderer")
	if renderer == "" {
		renderer = "svg"
	}
	if renderer != "svg" && renderer != "nodelink" {
		s.writeError(w, r, errors.Validation("renderer", "unknown renderer %q (want svg or nodelink)", renderer))
		return
	}
	if format == render.FormatJSON || (format == render.FormatDOT && renderer != "nodelink") {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "renderer %s cannot produce %s", renderer, format))
		return
	}

	raw, err := sess.RawInput()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap := sess.Frame()
	opts := cache.ArtifactKeyOpts{
		Renderer:    renderer,
		Format:      string(format),
		ShowDetails: sess.ShowDetails(),
		Ticks:       snap.Tick,
		Scale:       2,
		Layout:      cache.HashValue(snap.Nodes),
	}
	if id, ok := sess.Marked(); ok {
		opts.Marked = &id
	}
	key := s.keyer.ArtifactKey(cache.Hash(raw), opts)

	data, hit, err := cache.Fetch(r.Context(), s.cache, "artifact", key, s.cacheTTL, func() ([]byte, error) {
		return renderArtifact(r.Context(), sess, snap, renderer, format, opts.Marked)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	_, _ = w.Write(data)
}

func renderArtifact(ctx context.Context, sess *session.Session, snap layout.Snapshot, renderer string, format render.Format, marked *int) ([]byte, error) {
	if renderer == "nodelink" {
		return nodelink.Render(ctx, sess.Graph(), snap, nodelink.Options{Marked: marked}, format, 2)
	}
	opts := []svg.Option{svg.WithTitle(render.Title(sess.Graph().Name())), svg.WithFit(40)}
	if marked != nil {
		opts = append(opts, svg.WithMarked(*marked))
	}
	doc := svg.Render(snap, sess.Attributes(), opts...)
	return render.Convert(ctx, doc, format, 2)
}
