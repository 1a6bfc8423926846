package builder

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
)

// End as an insert index appends to the canvas.
const End = math.MaxInt

// Action is one reducer input. The set is closed; see the concrete types
// below.
type Action interface {
	actionType() string
}

type (
	Insert struct {
		Source Source
		Index  int
	}
	Reorder struct {
		From int
		To   int
	}
	Select struct {
		ID string
	}
	Update struct {
		ID    string
		Patch Patch
	}
	Delete struct {
		ID string
	}
	TogglePreview struct{}
	SetTitle      struct {
		Title string
	}
	Undo struct{}
	Redo struct{}
)

func (Insert) actionType() string        { return "insert" }
func (Reorder) actionType() string       { return "reorder" }
func (Select) actionType() string        { return "select" }
func (Update) actionType() string        { return "update" }
func (Delete) actionType() string        { return "delete" }
func (TogglePreview) actionType() string { return "toggle-preview" }
func (SetTitle) actionType() string      { return "set-title" }
func (Undo) actionType() string          { return "undo" }
func (Redo) actionType() string          { return "redo" }

type wireAction struct {
	Type   string      `json:"type"`
	Source *wireSource `json:"source,omitempty"`
	Index  *int        `json:"index,omitempty"`
	From   *int        `json:"from,omitempty"`
	To     *int        `json:"to,omitempty"`
	ID     string      `json:"id,omitempty"`
	Patch  *Patch      `json:"patch,omitempty"`
	Title  *string     `json:"title,omitempty"`
}

type wireSource struct {
	Type      string           `json:"type"`
	Kind      Kind             `json:"kind,omitempty"`
	Category  library.Category `json:"category,omitempty"`
	FieldName string           `json:"fieldName,omitempty"`
}

// DecodeAction parses the JSON form of an action:
//
//	{"type":"insert","source":{"type":"field","category":"Identity","fieldName":"full_name"},"index":0}
//	{"type":"reorder","from":2,"to":0}
//	{"type":"update","id":"el-1","patch":{"label":"Name"}}
//
// An insert without an index appends.
func DecodeAction(data []byte) (Action, error) {
	var wire wireAction
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("builder: decode action: %w", err)
	}

	switch wire.Type {
	case "insert":
		if wire.Source == nil {
			return nil, errors.New("builder: insert requires a source")
		}
		source, err := wire.Source.decode()
		if err != nil {
			return nil, err
		}
		index := End
		if wire.Index != nil {
			index = *wire.Index
		}
		return Insert{Source: source, Index: index}, nil
	case "reorder":
		if wire.From == nil || wire.To == nil {
			return nil, errors.New("builder: reorder requires from and to")
		}
		return Reorder{From: *wire.From, To: *wire.To}, nil
	case "select":
		return Select{ID: wire.ID}, nil
	case "update":
		if wire.ID == "" || wire.Patch == nil {
			return nil, errors.New("builder: update requires id and patch")
		}
		return Update{ID: wire.ID, Patch: *wire.Patch}, nil
	case "delete":
		if wire.ID == "" {
			return nil, errors.New("builder: delete requires id")
		}
		return Delete{ID: wire.ID}, nil
	case "toggle-preview":
		return TogglePreview{}, nil
	case "set-title":
		if wire.Title == nil {
			return nil, errors.New("builder: set-title requires title")
		}
		return SetTitle{Title: *wire.Title}, nil
	case "undo":
		return Undo{}, nil
	case "redo":
		return Redo{}, nil
	case "":
		return nil, errors.New("builder: action type is required")
	default:
		return nil, fmt.Errorf("builder: unknown action type %q", wire.Type)
	}
}

func (w wireSource) decode() (Source, error) {
	switch w.Type {
	case "palette":
		if !w.Kind.Valid() {
			return nil, fmt.Errorf("builder: unknown palette kind %q", w.Kind)
		}
		return PaletteSource{Kind: w.Kind}, nil
	case "field":
		return FieldSource{Category: w.Category, FieldName: w.FieldName}, nil
	case "document":
		return DocumentSource{Category: w.Category}, nil
	default:
		return nil, fmt.Errorf("builder: unknown source type %q", w.Type)
	}
}

// EncodeAction is the inverse of DecodeAction.
func EncodeAction(action Action) ([]byte, error) {
	if action == nil {
		return nil, errors.New("builder: action is nil")
	}
	wire := wireAction{Type: action.actionType()}
	switch a := action.(type) {
	case Insert:
		if a.Source == nil {
			return nil, errors.New("builder: insert requires a source")
		}
		src := wireSource{Type: a.Source.sourceType()}
		switch s := a.Source.(type) {
		case PaletteSource:
			src.Kind = s.Kind
		case FieldSource:
			src.Category, src.FieldName = s.Category, s.FieldName
		case DocumentSource:
			src.Category = s.Category
		}
		wire.Source = &src
		if a.Index != End {
			wire.Index = Ptr(a.Index)
		}
	case Reorder:
		wire.From, wire.To = Ptr(a.From), Ptr(a.To)
	case Select:
		wire.ID = a.ID
	case Update:
		wire.ID = a.ID
		wire.Patch = Ptr(a.Patch)
	case Delete:
		wire.ID = a.ID
	case SetTitle:
		wire.Title = Ptr(a.Title)
	}
	return json.Marshal(wire)
}
