package builder

// DefaultHistoryLimit bounds the undo stack.
const DefaultHistoryLimit = 100

// command is a recorded edit. apply replays it, revert restores the state
// before it.
type command interface {
	apply(e *Editor)
	revert(e *Editor)
}

type insertCmd struct {
	el    Element
	index int
}

func (c insertCmd) apply(e *Editor)  { e.insertAt(c.index, c.el.Clone()) }
func (c insertCmd) revert(e *Editor) { e.removeAt(c.index) }

type deleteCmd struct {
	el    Element
	index int
}

func (c deleteCmd) apply(e *Editor)  { e.removeAt(c.index) }
func (c deleteCmd) revert(e *Editor) { e.insertAt(c.index, c.el.Clone()) }

type reorderCmd struct {
	from, to int
}

func (c reorderCmd) apply(e *Editor)  { e.move(c.from, c.to) }
func (c reorderCmd) revert(e *Editor) { e.move(c.to, c.from) }

type updateCmd struct {
	index         int
	before, after Element
}

func (c updateCmd) apply(e *Editor)  { e.doc.Elements[c.index] = c.after.Clone() }
func (c updateCmd) revert(e *Editor) { e.doc.Elements[c.index] = c.before.Clone() }

type history struct {
	limit int
	undo  []command
	redo  []command
}

func (h *history) push(c command) {
	if h.limit <= 0 {
		return
	}
	h.undo = append(h.undo, c)
	if over := len(h.undo) - h.limit; over > 0 {
		h.undo = append([]command(nil), h.undo[over:]...)
	}
	h.redo = h.redo[:0]
}

func (h *history) popUndo() (command, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	c := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, c)
	return c, true
}

func (h *history) popRedo() (command, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	c := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, c)
	return c, true
}

func (h *history) reset() {
	h.undo = nil
	h.redo = nil
}
