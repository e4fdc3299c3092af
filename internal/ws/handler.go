package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"shipcal/internal/config"
	"shipcal/internal/log"
	"shipcal/internal/optics"
	"shipcal/internal/shipcal"
	"shipcal/internal/simulator"
	"shipcal/internal/sizing"
	"shipcal/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler manages WebSocket connections and runs the scenarios clients
// submit. Runs execute in the background; progress and results are
// broadcast to every connected client.
type Handler struct {
	hub   *Hub
	store *store.Store
	ctx   context.Context
	runs  sync.WaitGroup
}

// NewHandler creates a handler whose runs are cancelled with ctx.
func NewHandler(ctx context.Context, hub *Hub, st *store.Store) *Handler {
	return &Handler{hub: hub, store: st, ctx: ctx}
}

// Wait blocks until every run started so far has finished.
func (h *Handler) Wait() {
	h.runs.Wait()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	go client.writePump()

	h.send(client, TypeCatalog, CatalogFromModel(optics.Names()))
	h.send(client, TypeRuns, h.store.List())

	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("WebSocket read error: %v", err)
			}
			return
		}

		h.handleMessage(c, msg)
	}
}

func (h *Handler) handleMessage(c *Client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		log.Warnf("Invalid message: %v", err)
		h.send(c, TypeRunError, RunErrorPayload{Error: "invalid message"})
		return
	}

	switch env.Type {
	case TypeRunStart:
		var p RunStartPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Warnf("Invalid run:start payload: %v", err)
			h.send(c, TypeRunError, RunErrorPayload{Error: err.Error()})
			return
		}
		sc, err := h.scenario(&p.Scenario)
		if err != nil {
			h.send(c, TypeRunError, errorPayload(uuid.Nil, err))
			return
		}
		sc.RunID = uuid.New()
		sc.Callback = NewBridge(h.hub, sc.RunID)
		sc.OmitTimesteps = !p.KeepTimesteps
		h.send(c, TypeRunAccepted, RunAcceptedPayload{RunID: sc.RunID})
		h.start(func() { h.run(sc) })

	case TypeSweepStart:
		var p SweepStartPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Warnf("Invalid sweep:start payload: %v", err)
			h.send(c, TypeRunError, RunErrorPayload{Error: err.Error()})
			return
		}
		loops := sizing.Range(p.LoopsFrom, p.LoopsTo, max(p.LoopsStep, 1))
		if len(loops) == 0 {
			h.send(c, TypeRunError, RunErrorPayload{Field: "loops_from", Error: "empty loop range"})
			return
		}
		sc, err := h.scenario(&p.Scenario)
		if err != nil {
			h.send(c, TypeRunError, errorPayload(uuid.Nil, err))
			return
		}
		id := uuid.New()
		h.send(c, TypeRunAccepted, RunAcceptedPayload{RunID: id})
		h.start(func() { h.sweep(id, sc, loops, p.Parallel) })

	case TypeRunGet:
		var p RunGetPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Warnf("Invalid run:get payload: %v", err)
			h.send(c, TypeRunError, RunErrorPayload{Error: err.Error()})
			return
		}
		if _, ok := h.store.Get(p.RunID); !ok {
			h.send(c, TypeRunError, RunErrorPayload{RunID: p.RunID, Error: "unknown run"})
			return
		}
		to := p.ToHour
		if to <= p.FromHour {
			to = p.FromHour + 24
		}
		h.send(c, TypeRunTimesteps, RunTimestepsPayload{
			RunID:     p.RunID,
			Timesteps: h.store.TimestepsInRange(p.RunID, p.FromHour, to),
		})

	case TypeRunList:
		h.send(c, TypeRuns, h.store.List())

	default:
		log.Warnf("Unknown message type: %s", env.Type)
	}
}

// scenario materialises a submitted scenario. Client-supplied file paths
// are dropped.
func (h *Handler) scenario(f *config.File) (shipcal.Scenario, error) {
	f.MeteoCSV = ""
	f.Demand.CSV = ""
	if err := f.Validate(); err != nil {
		return shipcal.Scenario{}, err
	}
	return f.Scenario()
}

func (h *Handler) start(fn func()) {
	h.runs.Add(1)
	go func() {
		defer h.runs.Done()
		fn()
	}()
}

func (h *Handler) run(sc shipcal.Scenario) {
	res, err := shipcal.Run(h.ctx, sc)
	var degen *simulator.DegenerateConfigurationError
	if err != nil && !errors.As(err, &degen) {
		log.Warnf("run %s failed: %v", sc.RunID, err)
		h.broadcast(TypeRunError, errorPayload(sc.RunID, err))
		return
	}
	h.store.Put(res)
	log.Infow("run finished", "run_id", res.RunID, "topology", res.Design.Topology,
		"solar_fraction", res.Summary.SolarFractionLim, "degenerate", degen != nil)
	h.broadcast(TypeRunResult, ResultFromRun(res))
}

func (h *Handler) sweep(id uuid.UUID, sc shipcal.Scenario, loops []int, parallel int) {
	r, err := sizing.Sweep(h.ctx, sc, loops, parallel)
	if err != nil {
		log.Warnf("sweep %s failed: %v", id, err)
		h.broadcast(TypeRunError, errorPayload(id, err))
		return
	}
	log.Infow("sweep finished", "sweep_id", id, "candidates", len(r.Candidates), "best", r.Best)
	h.broadcast(TypeSweepResult, SweepFromResult(id, r))
}

func errorPayload(id uuid.UUID, err error) RunErrorPayload {
	p := RunErrorPayload{RunID: id, Error: err.Error()}
	var cfgErr *simulator.ConfigurationError
	if errors.As(err, &cfgErr) {
		p.Field = cfgErr.Field
	}
	return p
}

func (h *Handler) send(c *Client, msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		log.Errorf("Error creating %s message: %v", msgType, err)
		return
	}
	h.hub.SendTo(c, msg)
}

func (h *Handler) broadcast(msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		log.Errorf("Error creating %s message: %v", msgType, err)
		return
	}
	h.hub.Broadcast(msg)
}
