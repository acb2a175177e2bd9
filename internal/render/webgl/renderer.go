// Package webgl is the WebGL-embedded rendering backend. The adapter
// serves a self-contained WebGL page on localhost and keeps a
// websocket open to it: the mesh buffers are pushed once per Load,
// and each Render only pushes the camera state. The browser (or an
// embedded webview pointed at the URL) owns the actual GL context.
package webgl

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/precisesim/meshview/internal/render"
	"github.com/precisesim/meshview/pkg/mesh"
	"github.com/precisesim/meshview/pkg/viewer"
)

// sceneMsg carries the full geometry, sent once per loaded mesh
type sceneMsg struct {
	Type      string    `json:"type"`
	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals"`
	Edges     []float32 `json:"edges"`
}

// cameraMsg carries the per-frame view parameters
type cameraMsg struct {
	Type     string     `json:"type"`
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
	Up       [3]float64 `json:"up"`
	FOV      float64    `json:"fov"`
	Mode     string     `json:"mode"`
}

// inputMsg is what the page sends back for pointer interaction
type inputMsg struct {
	Type string  `json:"type"`
	DX   float64 `json:"dx"`
	DY   float64 `json:"dy"`
}

// Renderer implements render.Adapter over a local HTTP/websocket
// server. Load and Render are called from the controller thread;
// websocket sessions run on their own goroutines, so the shared
// message state is mutex-guarded.
type Renderer struct {
	server   *http.Server
	listener net.Listener
	upgrader websocket.Upgrader
	handler  render.EventHandler

	mu         sync.Mutex
	conns      map[*websocket.Conn]bool
	lastScene  *sceneMsg
	lastCamera *cameraMsg
}

// New starts the embedded server on a random localhost port. Failure
// to bind is an initialization error; the caller may fall back to a
// different backend.
func New(handler render.EventHandler) (*Renderer, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, &render.InitError{Backend: "webgl", Err: err}
	}

	r := &Renderer{
		listener: listener,
		handler:  handler,
		conns:    make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			// Local page only; the listener is bound to loopback
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", r.servePage)
	mux.HandleFunc("/ws", r.serveWS)
	r.server = &http.Server{Handler: mux}

	go func() {
		if err := r.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			fmt.Printf("webgl server error: %v\n", err)
		}
	}()

	return r, nil
}

// URL returns the address the viewer page is served on
func (r *Renderer) URL() string {
	return fmt.Sprintf("http://%s/", r.listener.Addr())
}

// Load serializes the mesh into flat GL buffers and pushes them to
// every connected page.
func (r *Renderer) Load(m *mesh.Mesh) error {
	scene := buildScene(m)

	r.mu.Lock()
	r.lastScene = scene
	conns := r.snapshot()
	r.mu.Unlock()

	r.broadcast(conns, scene)
	return nil
}

// Render pushes only the camera state; geometry stays on the GPU in
// the page.
func (r *Renderer) Render(vs viewer.ViewState) error {
	cam := viewer.CameraFor(vs)
	msg := &cameraMsg{
		Type:     "camera",
		Position: [3]float64{cam.Position.X, cam.Position.Y, cam.Position.Z},
		Target:   [3]float64{cam.Target.X, cam.Target.Y, cam.Target.Z},
		Up:       [3]float64{cam.Up.X, cam.Up.Y, cam.Up.Z},
		FOV:      cam.FOV,
		Mode:     vs.Mode.String(),
	}

	r.mu.Lock()
	r.lastCamera = msg
	conns := r.snapshot()
	r.mu.Unlock()

	r.broadcast(conns, msg)
	return nil
}

// OnResize is a no-op: the page tracks its own canvas size
func (r *Renderer) OnResize(width, height int) {}

// Teardown closes all websocket sessions and the server
func (r *Renderer) Teardown() {
	r.mu.Lock()
	conns := r.snapshot()
	r.conns = make(map[*websocket.Conn]bool)
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
	r.server.Close()
}

func (r *Renderer) servePage(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		http.NotFound(w, req)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, viewerPage)
}

func (r *Renderer) serveWS(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	r.mu.Lock()
	r.conns[conn] = true
	scene := r.lastScene
	camera := r.lastCamera
	r.mu.Unlock()

	// Replay current state so a late-connecting page catches up
	if scene != nil {
		conn.WriteJSON(scene)
	}
	if camera != nil {
		conn.WriteJSON(camera)
	}

	go r.readLoop(conn)
}

// readLoop forwards pointer events from the page. The handler runs on
// this goroutine; the GUI shell is responsible for marshalling events
// onto its main thread.
func (r *Renderer) readLoop(conn *websocket.Conn) {
	defer func() {
		r.mu.Lock()
		delete(r.conns, conn)
		r.mu.Unlock()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inputMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if r.handler == nil {
			continue
		}

		switch msg.Type {
		case "drag":
			r.handler(render.Event{Kind: render.EventDrag, DX: msg.DX, DY: msg.DY})
		case "pan":
			r.handler(render.Event{Kind: render.EventPan, DX: msg.DX, DY: msg.DY})
		case "scroll":
			r.handler(render.Event{Kind: render.EventScroll, DY: msg.DY})
		}
	}
}

// snapshot returns the current connections; callers must hold mu
func (r *Renderer) snapshot() []*websocket.Conn {
	conns := make([]*websocket.Conn, 0, len(r.conns))
	for conn := range r.conns {
		conns = append(conns, conn)
	}
	return conns
}

func (r *Renderer) broadcast(conns []*websocket.Conn, msg interface{}) {
	for _, conn := range conns {
		if err := conn.WriteJSON(msg); err != nil {
			r.mu.Lock()
			delete(r.conns, conn)
			r.mu.Unlock()
			conn.Close()
		}
	}
}

// buildScene flattens the mesh into triangle-soup GL buffers with
// per-face normals, plus a separate line buffer for the unique edges.
func buildScene(m *mesh.Mesh) *sceneMsg {
	scene := &sceneMsg{
		Type:      "mesh",
		Positions: make([]float32, 0, m.TriangleCount()*9),
		Normals:   make([]float32, 0, m.TriangleCount()*9),
	}

	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		normal := m.FaceNormal(i)
		for _, v := range [3][3]float64{
			{tri.V1.X, tri.V1.Y, tri.V1.Z},
			{tri.V2.X, tri.V2.Y, tri.V2.Z},
			{tri.V3.X, tri.V3.Y, tri.V3.Z},
		} {
			scene.Positions = append(scene.Positions, float32(v[0]), float32(v[1]), float32(v[2]))
			scene.Normals = append(scene.Normals, float32(normal.X), float32(normal.Y), float32(normal.Z))
		}
	}

	for _, edge := range m.EdgeSegments() {
		a, b := m.Vertex(edge.A), m.Vertex(edge.B)
		scene.Edges = append(scene.Edges,
			float32(a.X), float32(a.Y), float32(a.Z),
			float32(b.X), float32(b.Y), float32(b.Z),
		)
	}

	return scene
}
