package document

import (
	"github.com/annotato/annotato/backend-go/internal/shape"
)

// TaskDocument is the unit of annotation work: an ordered set of image items
// and the labeled shapes drawn on top of them. It is the JSON tree exchanged
// with the frontend and persisted as snapshots.
type TaskDocument struct {
	Task   Task                `json:"task"`
	Items  map[string]Item     `json:"items"`
	Labels map[string]Label    `json:"labels"`
	Shapes []shape.ShapeRecord `json:"shapes"`
}

type Task struct {
	ID         string   `json:"id"`
	ProjectID  string   `json:"projectId"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Items      []string `json:"items"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

// Item is a single image frame to annotate.
type Item struct {
	ID     string   `json:"id"`
	Index  int      `json:"index"`
	URL    string   `json:"url"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Labels []string `json:"labels"`
}

// Label ties one or more shapes to a category on an item. Shape ids refer
// into the document's shape records.
type Label struct {
	ID         string            `json:"id"`
	ItemID     string            `json:"itemId"`
	Category   string            `json:"category"`
	Attributes map[string]string `json:"attributes"`
	ShapeIDs   []int             `json:"shapeIds"`
}

// NewEmptyDocument creates a task document with no items or labels.
func NewEmptyDocument(taskID, projectID, name string, categories []string) *TaskDocument {
	if len(categories) == 0 {
		categories = []string{"object"}
	}
	return &TaskDocument{
		Task: Task{
			ID:         taskID,
			ProjectID:  projectID,
			Name:       name,
			Categories: categories,
			Items:      []string{},
			CreatedAt:  "", // Set by caller
			UpdatedAt:  "",
		},
		Items:  map[string]Item{},
		Labels: map[string]Label{},
		Shapes: []shape.ShapeRecord{},
	}
}

// AddItem appends an image frame to the task.
func (d *TaskDocument) AddItem(item Item) {
	item.Index = len(d.Task.Items)
	d.Items[item.ID] = item
	d.Task.Items = append(d.Task.Items, item.ID)
}

// ShapeRecordByID returns the index of a shape record, or -1.
func (d *TaskDocument) ShapeRecordByID(id int) int {
	for i, rec := range d.Shapes {
		var recID int
		switch rec.Type {
		case shape.ShapePath:
			recID = rec.Path.ID
		case shape.ShapePolygon:
			recID = rec.Polygon.ID
		case shape.ShapeRect:
			recID = rec.Rect.ID
		}
		if recID == id {
			return i
		}
	}
	return -1
}
