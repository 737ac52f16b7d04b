package document

import (
	"github.com/annotato/annotato/backend-go/internal/shape"
	"github.com/annotato/annotato/backend-go/internal/typeid"
)

// NewSampleDocument builds the playground task: one image item carrying a
// polygon, a lane path and a box, so a fresh frontend has something to draw.
func NewSampleDocument(taskID, projectID string) *TaskDocument {
	doc := NewEmptyDocument(taskID, projectID, "Playground", []string{"car", "lane", "sign"})

	itemID := typeid.NewItemID()
	doc.AddItem(Item{
		ID:     itemID,
		URL:    "/images/sample-street.png",
		Width:  1280,
		Height: 720,
	})

	s := shape.NewSession()

	car := shape.NewPolygon(s)
	for i, c := range [][2]float64{{412, 388}, {604, 388}, {604, 512}, {412, 512}} {
		car.InsertVertexAt(i, shape.NewVertex(s, c[0], c[1], shape.RoleVertex))
	}
	car.SetEnded(true)

	lane := shape.NewPath(s)
	for i, c := range [][2]float64{{100, 700}, {400, 480}, {640, 360}} {
		lane.InsertVertexAt(i, shape.NewVertex(s, c[0], c[1], shape.RoleVertex))
	}
	lane.SetEnded(true)

	sign := shape.NewRect(s, 900, 120, 64, 64)

	doc.Shapes = []shape.ShapeRecord{car.Record(), lane.Record(), sign.Record()}

	addLabel := func(category string, shapeID int) {
		labelID := typeid.NewLabelID()
		doc.Labels[labelID] = Label{
			ID:       labelID,
			ItemID:   itemID,
			Category: category,
			ShapeIDs: []int{shapeID},
		}
		item := doc.Items[itemID]
		item.Labels = append(item.Labels, labelID)
		doc.Items[itemID] = item
	}
	addLabel("car", car.ID())
	addLabel("lane", lane.ID())
	addLabel("sign", sign.ID())

	return doc
}
