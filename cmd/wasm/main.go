//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/annotato/annotato/backend-go/internal/collab"
	"github.com/annotato/annotato/backend-go/internal/document"
	"github.com/annotato/annotato/backend-go/internal/render"
)

// state is the local editing session. The same operation codec the collab
// hub speaks runs here, so offline edits replay cleanly when reconnected.
var state *collab.DocumentState

func main() {
	annotatoEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	annotatoEngine.Set("loadDocument", js.FuncOf(loadDocument))
	annotatoEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	annotatoEngine.Set("applyOperation", js.FuncOf(applyOperation))

	// --- Queries (frontend ← backend) ---
	annotatoEngine.Set("getDocument", js.FuncOf(getDocument))
	annotatoEngine.Set("render", js.FuncOf(renderShapes))
	annotatoEngine.Set("hitTest", js.FuncOf(hitTest))

	// Register on global scope
	js.Global().Set("annotatoEngine", annotatoEngine)

	// Signal that WASM is ready
	js.Global().Set("annotatoWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	var doc document.TaskDocument
	if err := json.Unmarshal([]byte(args[0].String()), &doc); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	ds, err := collab.NewDocumentState(&doc)
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	state = ds

	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	doc := document.NewSampleDocument("task_sample", "proj_sample")
	ds, err := collab.NewDocumentState(doc)
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	state = ds
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func applyOperation(this js.Value, args []js.Value) interface{} {
	if state == nil {
		return js.ValueOf(map[string]interface{}{"error": "no document loaded"})
	}
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing operation JSON"})
	}

	var op collab.Operation
	if err := json.Unmarshal([]byte(args[0].String()), &op); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	seq, shapeID, err := state.ApplyOperation(op)
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	return js.ValueOf(map[string]interface{}{
		"ok":      true,
		"seq":     seq,
		"shapeId": shapeID,
	})
}

// --- Query Handlers ---

func getDocument(this js.Value, args []js.Value) interface{} {
	if state == nil {
		return js.ValueOf("{}")
	}
	data, err := state.Snapshot()
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func renderShapes(this js.Value, args []js.Value) interface{} {
	if state == nil {
		return js.ValueOf("[]")
	}
	out, err := render.ToJSON(render.CompileShapes(state.Shapes()))
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(out)
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if state == nil || len(args) < 2 {
		return js.ValueOf(0)
	}
	x := args[0].Float()
	y := args[1].Float()
	return js.ValueOf(render.HitTest(state.Shapes(), x, y))
}
