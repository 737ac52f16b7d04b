package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixUser     = "user"
	PrefixProject  = "proj"
	PrefixTask     = "task"
	PrefixItem     = "item"
	PrefixLabel    = "label"
	PrefixSnapshot = "snap"
	PrefixImage    = "img"
	PrefixExport   = "exp"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewUserID() string     { return New(PrefixUser) }
func NewProjectID() string  { return New(PrefixProject) }
func NewTaskID() string     { return New(PrefixTask) }
func NewItemID() string     { return New(PrefixItem) }
func NewLabelID() string    { return New(PrefixLabel) }
func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewImageID() string    { return New(PrefixImage) }
func NewExportID() string   { return New(PrefixExport) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
