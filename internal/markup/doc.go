package markup

// ParamDoc documents one \param tag. A single tag may name several
// parameters ("\param x,y Coordinates") sharing one body.
type ParamDoc struct {
	Names     []string
	Direction string // "in", "out", "in,out", or empty
	Body      []Block
}

// RetValDoc documents one \retval tag.
type RetValDoc struct {
	Values []string
	Body   []Block
}

// Doc is the parsed content of one documentation comment.
type Doc struct {
	Brief       []Inline
	Description []Block
	Params      []ParamDoc
	Returns     []Block
	RetVals     []RetValDoc

	Since      []Block
	Notes      [][]Block
	Warnings   [][]Block
	Cautions   [][]Block
	Authors    [][]Block
	Bugs       [][]Block
	Deprecated [][]Block

	SeeAlso  []string // \sa and \see targets, source order
	Examples []string // \example file names, source order
}

// IsZero reports whether the comment produced no content at all.
func (d *Doc) IsZero() bool {
	return len(d.Brief) == 0 && len(d.Description) == 0 && len(d.Params) == 0 &&
		len(d.Returns) == 0 && len(d.RetVals) == 0 && len(d.Since) == 0 &&
		len(d.Notes) == 0 && len(d.Warnings) == 0 && len(d.Cautions) == 0 &&
		len(d.Authors) == 0 && len(d.Bugs) == 0 && len(d.Deprecated) == 0 &&
		len(d.SeeAlso) == 0 && len(d.Examples) == 0
}

// Refs returns the symbol names referenced from prose, in document order
// and de-duplicated. Used to seed the SEE ALSO ordering.
func (d *Doc) Refs() []string {
	var names []string
	seen := make(map[string]bool)
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	collectRefs(d.Brief, add)
	eachFlow(d, func(blocks []Block) {
		for _, b := range blocks {
			collectBlockRefs(b, add)
		}
	})
	return names
}

// eachFlow visits every block flow of the document in section order.
func eachFlow(d *Doc, fn func([]Block)) {
	fn(d.Description)
	for _, p := range d.Params {
		fn(p.Body)
	}
	fn(d.Returns)
	for _, r := range d.RetVals {
		fn(r.Body)
	}
	fn(d.Since)
	for _, group := range [][][]Block{d.Notes, d.Warnings, d.Cautions, d.Authors, d.Bugs, d.Deprecated} {
		for _, flow := range group {
			fn(flow)
		}
	}
}

func collectBlockRefs(b Block, add func(string)) {
	switch t := b.(type) {
	case Paragraph:
		collectRefs(t.Inlines, add)
	case List:
		for _, item := range t.Items {
			for _, inner := range item {
				collectBlockRefs(inner, add)
			}
		}
	case Table:
		for _, cell := range t.Header {
			collectRefs(cell.Inlines, add)
		}
		for _, row := range t.Rows {
			for _, cell := range row {
				collectRefs(cell.Inlines, add)
			}
		}
	}
}

func collectRefs(inlines []Inline, add func(string)) {
	for _, in := range inlines {
		switch t := in.(type) {
		case SymbolRef:
			add(t.Name)
		case Styled:
			if t.Style != Code {
				collectRefs(t.Inlines, add)
			}
		case Link:
			collectRefs(t.Inlines, add)
		}
	}
}
