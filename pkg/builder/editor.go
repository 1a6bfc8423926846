package builder

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
)

// Panels reports which side panels the shell should show.
type Panels struct {
	Palette    bool `json:"palette"`
	Canvas     bool `json:"canvas"`
	Properties bool `json:"properties"`
}

// Editor holds the builder state: the element list, the selection and the
// preview flag.
type Editor struct {
	doc      Document
	selected string
	preview  bool

	lib    *library.Catalog
	ids    IDGenerator
	logger *zap.Logger
	hist   history
}

// Option configures an Editor.
type Option func(*Editor) error

// WithLibrary swaps the field/document catalog used for library sources.
func WithLibrary(lib *library.Catalog) Option {
	return func(e *Editor) error {
		if lib == nil {
			return fmt.Errorf("builder: library is nil")
		}
		e.lib = lib
		return nil
	}
}

// WithIDGenerator swaps the element id source.
func WithIDGenerator(ids IDGenerator) Option {
	return func(e *Editor) error {
		if ids == nil {
			return fmt.Errorf("builder: id generator is nil")
		}
		e.ids = ids
		return nil
	}
}

func WithTitle(title string) Option {
	return func(e *Editor) error {
		e.doc.Title = title
		return nil
	}
}

// WithHistory bounds the undo stack. Zero disables undo.
func WithHistory(limit int) Option {
	return func(e *Editor) error {
		if limit < 0 {
			return fmt.Errorf("builder: history limit must be >= 0, got %d", limit)
		}
		e.hist.limit = limit
		return nil
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// WithDocument starts the editor from an existing document.
func WithDocument(doc Document) Option {
	return func(e *Editor) error {
		if err := doc.Validate(); err != nil {
			return err
		}
		e.doc = doc.Clone()
		return nil
	}
}

// NewEditor returns an empty editor titled "Untitled Form".
func NewEditor(opts ...Option) (*Editor, error) {
	e := &Editor{
		doc:    Document{Title: "Untitled Form", Elements: []Element{}},
		logger: zap.NewNop(),
		hist:   history{limit: DefaultHistoryLimit},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.lib == nil {
		e.lib = library.Default()
	}
	if e.ids == nil {
		e.ids = NewSequentialIDs("")
	}
	return e, nil
}

// Dispatch runs one action through the reducer and reports whether the
// state changed.
func (e *Editor) Dispatch(action Action) bool {
	switch a := action.(type) {
	case Insert:
		_, ok := e.Insert(a.Source, a.Index)
		return ok
	case Reorder:
		return e.Reorder(a.From, a.To)
	case Select:
		return e.Select(a.ID)
	case Update:
		return e.Update(a.ID, a.Patch)
	case Delete:
		return e.Delete(a.ID)
	case TogglePreview:
		e.TogglePreview()
		return true
	case SetTitle:
		return e.SetTitle(a.Title)
	case Undo:
		return e.Undo()
	case Redo:
		return e.Redo()
	default:
		e.logger.Debug("ignoring unknown action", zap.String("type", fmt.Sprintf("%T", action)))
		return false
	}
}

// Insert builds a new element from source and places it at index, clamped
// to [0, Len()]. It returns false for sources that resolve to nothing.
func (e *Editor) Insert(source Source, index int) (Element, bool) {
	el, ok := e.build(source)
	if !ok {
		return Element{}, false
	}
	el.ID = e.nextID()
	index = max(0, min(index, len(e.doc.Elements)))

	e.insertAt(index, el)
	e.hist.push(insertCmd{el: el.Clone(), index: index})
	return el.Clone(), true
}

func (e *Editor) build(source Source) (Element, bool) {
	switch s := source.(type) {
	case PaletteSource:
		if !s.Kind.Valid() {
			e.logger.Debug("ignoring unknown palette kind", zap.String("kind", string(s.Kind)))
			return Element{}, false
		}
		el := Element{Kind: s.Kind, Label: PaletteName(s.Kind)}
		if s.Kind.IsChoice() {
			el.Options = defaultOptions()
		}
		return el, true

	case FieldSource:
		def, ok := e.lib.Field(s.Category, s.FieldName)
		if !ok {
			e.logger.Debug("ignoring unknown library field",
				zap.String("category", string(s.Category)),
				zap.String("field", s.FieldName),
			)
			return Element{}, false
		}
		return Element{
			Kind:        KindPredefinedField,
			Label:       library.Title(def.Name),
			Placeholder: "Enter " + library.Humanize(def.Name),
			FieldName:   def.Name,
			Category:    s.Category,
			MinLength:   def.MinLength,
			MaxLength:   def.MaxLength,
		}, true

	case DocumentSource:
		if !e.lib.HasCategory(s.Category) {
			e.logger.Debug("ignoring unknown document category", zap.String("category", string(s.Category)))
			return Element{}, false
		}
		types := e.lib.DocumentTypes(s.Category)
		labels := make([]string, len(types))
		for i, t := range types {
			labels[i] = library.FormatDocumentType(t)
		}
		return Element{
			Kind:          KindDocumentUpload,
			Label:         string(s.Category) + " Documents",
			Required:      true,
			HelpText:      "Accepted: " + strings.Join(labels, ", "),
			Category:      s.Category,
			DocumentTypes: types,
		}, true

	default:
		e.logger.Debug("ignoring insert without source")
		return Element{}, false
	}
}

func (e *Editor) nextID() string {
	for {
		id := e.ids.Next()
		if id != "" && e.IndexOf(id) < 0 {
			return id
		}
	}
}

// Reorder moves the element at from to position to. Equal indices and
// out-of-range indices leave the list unchanged.
func (e *Editor) Reorder(from, to int) bool {
	n := len(e.doc.Elements)
	if from < 0 || from >= n || to < 0 || to >= n {
		e.logger.Debug("ignoring out of range reorder",
			zap.Int("from", from), zap.Int("to", to), zap.Int("len", n))
		return false
	}
	if from == to {
		return false
	}
	e.move(from, to)
	e.hist.push(reorderCmd{from: from, to: to})
	return true
}

// Select marks id as the selected element. Any id is accepted; an empty id
// clears the selection.
func (e *Editor) Select(id string) bool {
	changed := e.selected != id
	e.selected = id
	return changed
}

// Selected returns the selected element when the selection points at one.
func (e *Editor) Selected() (Element, bool) {
	if e.selected == "" {
		return Element{}, false
	}
	idx := e.IndexOf(e.selected)
	if idx < 0 {
		return Element{}, false
	}
	return e.doc.Elements[idx].Clone(), true
}

// SelectedID returns the raw selection, which may be empty.
func (e *Editor) SelectedID() string {
	return e.selected
}

// Update merges patch into the element with the given id.
func (e *Editor) Update(id string, patch Patch) bool {
	idx := e.IndexOf(id)
	if idx < 0 {
		e.logger.Debug("ignoring update of unknown element", zap.String("id", id))
		return false
	}
	before := e.doc.Elements[idx]
	after := patch.Apply(before)
	if elementsEqual(before, after) {
		return false
	}
	e.doc.Elements[idx] = after
	e.hist.push(updateCmd{index: idx, before: before.Clone(), after: after.Clone()})
	return true
}

// Delete removes the element with the given id.
func (e *Editor) Delete(id string) bool {
	idx := e.IndexOf(id)
	if idx < 0 {
		e.logger.Debug("ignoring delete of unknown element", zap.String("id", id))
		return false
	}
	el := e.doc.Elements[idx].Clone()
	e.removeAt(idx)
	e.hist.push(deleteCmd{el: el, index: idx})
	return true
}

func (e *Editor) TogglePreview() {
	e.preview = !e.preview
}

func (e *Editor) Preview() bool {
	return e.preview
}

// Panels reports panel visibility. Preview hides the palette and the
// properties panel.
func (e *Editor) Panels() Panels {
	return Panels{Palette: !e.preview, Canvas: true, Properties: !e.preview}
}

// SetTitle renames the document.
func (e *Editor) SetTitle(title string) bool {
	if e.doc.Title == title {
		return false
	}
	e.doc.Title = title
	return true
}

// Undo reverts the last recorded edit.
func (e *Editor) Undo() bool {
	c, ok := e.hist.popUndo()
	if !ok {
		return false
	}
	c.revert(e)
	return true
}

// Redo replays the last undone edit.
func (e *Editor) Redo() bool {
	c, ok := e.hist.popRedo()
	if !ok {
		return false
	}
	c.apply(e)
	return true
}

func (e *Editor) CanUndo() bool { return len(e.hist.undo) > 0 }
func (e *Editor) CanRedo() bool { return len(e.hist.redo) > 0 }

// Reset replaces the document and drops history and selection.
func (e *Editor) Reset(doc Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	e.doc = doc.Clone()
	if e.doc.Elements == nil {
		e.doc.Elements = []Element{}
	}
	e.selected = ""
	e.hist.reset()
	return nil
}

// Document returns a deep copy of the current document.
func (e *Editor) Document() Document {
	return e.doc.Clone()
}

// Elements returns a deep copy of the element list.
func (e *Editor) Elements() []Element {
	return e.doc.Clone().Elements
}

func (e *Editor) Len() int {
	return len(e.doc.Elements)
}

// IndexOf returns the position of id or -1.
func (e *Editor) IndexOf(id string) int {
	for i, el := range e.doc.Elements {
		if el.ID == id {
			return i
		}
	}
	return -1
}

func (e *Editor) insertAt(index int, el Element) {
	e.doc.Elements = append(e.doc.Elements, Element{})
	copy(e.doc.Elements[index+1:], e.doc.Elements[index:])
	e.doc.Elements[index] = el
}

func (e *Editor) removeAt(index int) {
	id := e.doc.Elements[index].ID
	e.doc.Elements = append(e.doc.Elements[:index], e.doc.Elements[index+1:]...)
	if e.selected == id {
		e.selected = ""
	}
}

func (e *Editor) move(from, to int) {
	el := e.doc.Elements[from]
	e.doc.Elements = append(e.doc.Elements[:from], e.doc.Elements[from+1:]...)
	e.insertAt(to, el)
}
