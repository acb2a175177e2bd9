package webgl

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/precisesim/meshview/internal/render"
	"github.com/precisesim/meshview/pkg/mesh"
	"github.com/precisesim/meshview/pkg/viewer"
)

func dialViewer(t *testing.T, r *Renderer) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(r.URL(), "http") + "ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServesViewerPage(t *testing.T) {
	r, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Teardown()

	resp, err := http.Get(r.URL())
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "<canvas") {
		t.Error("expected the viewer page to contain a canvas element")
	}
}

func TestSceneReplayOnConnect(t *testing.T) {
	r, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Teardown()

	cube := mesh.UnitCube()
	if err := r.Load(cube); err != nil {
		t.Fatal(err)
	}

	vs := viewer.New(viewer.DefaultLimits())
	vs.FitTo(cube)
	if err := r.Render(*vs); err != nil {
		t.Fatal(err)
	}

	// A page connecting after Load/Render must receive both messages
	conn := dialViewer(t, r)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var scene sceneMsg
	if err := conn.ReadJSON(&scene); err != nil {
		t.Fatal(err)
	}
	if scene.Type != "mesh" {
		t.Fatalf("expected mesh message first, got %q", scene.Type)
	}
	if len(scene.Positions) != cube.TriangleCount()*9 {
		t.Errorf("expected %d position floats, got %d", cube.TriangleCount()*9, len(scene.Positions))
	}
	if len(scene.Normals) != len(scene.Positions) {
		t.Errorf("normals must match positions: %d vs %d", len(scene.Normals), len(scene.Positions))
	}
	if len(scene.Edges) != 18*6 {
		t.Errorf("expected 18 unique cube edges (%d floats), got %d", 18*6, len(scene.Edges))
	}

	var camera cameraMsg
	if err := conn.ReadJSON(&camera); err != nil {
		t.Fatal(err)
	}
	if camera.Type != "camera" {
		t.Fatalf("expected camera message, got %q", camera.Type)
	}
	if camera.FOV <= 0 {
		t.Error("expected a positive field of view")
	}
}

func TestInputForwarding(t *testing.T) {
	events := make(chan render.Event, 1)
	r, err := New(func(ev render.Event) { events <- ev })
	if err != nil {
		t.Fatal(err)
	}
	defer r.Teardown()

	conn := dialViewer(t, r)
	if err := conn.WriteJSON(inputMsg{Type: "drag", DX: 12, DY: -4}); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		if ev.Kind != render.EventDrag || ev.DX != 12 || ev.DY != -4 {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for input event")
	}
}
