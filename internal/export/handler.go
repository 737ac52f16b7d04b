// Package export serves annotation downloads. The modern format is the
// task document as stored; the flattened format rewrites every polyline
// into the flat point/type arrays older tooling consumes.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/annotato/annotato/backend-go/internal/auth"
	"github.com/annotato/annotato/backend-go/internal/document"
	"github.com/annotato/annotato/backend-go/internal/project"
	"github.com/annotato/annotato/backend-go/internal/shape"
)

type Handler struct {
	projects *project.Service
}

func NewHandler(projects *project.Service) *Handler {
	return &Handler{projects: projects}
}

// FlattenedShape is one shape in the legacy export format.
type FlattenedShape struct {
	ID     int         `json:"id"`
	Type   string      `json:"type"`
	Points [][]float64 `json:"points,omitempty"`
	Types  string      `json:"types,omitempty"`
	Closed bool        `json:"closed,omitempty"`
	Box    []float64   `json:"box,omitempty"` // x, y, w, h for rects
}

// FlattenedLabel pairs a label with its flattened shapes.
type FlattenedLabel struct {
	ID       string           `json:"id"`
	ItemID   string           `json:"itemId"`
	Category string           `json:"category"`
	Shapes   []FlattenedShape `json:"shapes"`
}

// FlattenedExport is the top-level legacy export payload.
type FlattenedExport struct {
	TaskID string           `json:"taskId"`
	Labels []FlattenedLabel `json:"labels"`
}

// ExportTask handles GET /export/tasks/{taskId}?format=document|flattened.
func (h *Handler) ExportTask(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	taskID := mux.Vars(r)["taskId"]

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "document"
	}

	docJSON, err := h.projects.GetLatestSnapshot(r.Context(), taskID, userID)
	if err != nil {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	switch format {
	case "document":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", taskID+".json"))
		w.WriteHeader(http.StatusOK)
		w.Write(docJSON)

	case "flattened":
		out, err := flattenDocument(taskID, docJSON)
		if err != nil {
			slog.Error("flatten document", "task", taskID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", taskID+"-flattened.json"))
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(out)

	default:
		http.Error(w, "invalid format: must be document or flattened", http.StatusBadRequest)
	}
}

func flattenDocument(taskID string, docJSON json.RawMessage) (*FlattenedExport, error) {
	var doc document.TaskDocument
	if err := json.Unmarshal(docJSON, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}

	sess := shape.NewSession()
	live, err := shape.ImportShapes(sess, doc.Shapes)
	if err != nil {
		return nil, fmt.Errorf("import shapes: %w", err)
	}
	byID := make(map[int]shape.Shape, len(live))
	for _, sh := range live {
		byID[sh.ID()] = sh
	}

	out := &FlattenedExport{TaskID: taskID, Labels: []FlattenedLabel{}}
	for _, label := range doc.Labels {
		fl := FlattenedLabel{
			ID:       label.ID,
			ItemID:   label.ItemID,
			Category: label.Category,
			Shapes:   []FlattenedShape{},
		}
		for _, id := range label.ShapeIDs {
			sh, ok := byID[id]
			if !ok {
				continue
			}
			fl.Shapes = append(fl.Shapes, flattenShape(sh))
		}
		out.Labels = append(out.Labels, fl)
	}
	return out, nil
}

func flattenShape(sh shape.Shape) FlattenedShape {
	fs := FlattenedShape{ID: sh.ID(), Type: string(sh.Type())}
	switch s := sh.(type) {
	case *shape.Path:
		fs.Points, fs.Types = shape.ExportFlattened(&s.Polyline)
	case *shape.Polygon:
		fs.Points, fs.Types = shape.ExportFlattened(&s.Polyline)
		fs.Closed = true
	case *shape.Rect:
		fs.Box = []float64{s.X(), s.Y(), s.W(), s.H()}
	}
	return fs
}
