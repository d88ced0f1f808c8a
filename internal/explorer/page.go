package explorer

// Kind identifies what a block displays.
type Kind string

const (
	KindTitle     Kind = "title"
	KindSubheader Kind = "subheader"
	KindBanner    Kind = "banner"
	KindInfo      Kind = "info"
	KindSuccess   Kind = "success"
	KindText      Kind = "text"
	KindValue     Kind = "value"
	KindList      Kind = "list"
	KindTable     Kind = "table"
	KindImage     Kind = "image"
	KindError     Kind = "error"
	KindBalloons  Kind = "balloons"
	KindControl   Kind = "control"
)

// ControlType is the input a control block renders as.
type ControlType string

const (
	Checkbox    ControlType = "checkbox"
	Button      ControlType = "button"
	Select      ControlType = "select"
	MultiSelect ControlType = "multiselect"
	Number      ControlType = "number"
	Radio       ControlType = "radio"
)

// Control describes one input along with its value for the current run.
type Control struct {
	Type    ControlType
	Name    string // query parameter
	Label   string
	Options []string
	Value   string   // select, radio, number
	Values  []string // multiselect
	Checked bool     // checkbox
	Min     int      // number
}

// Selected reports whether opt is among the control's current values.
func (c *Control) Selected(opt string) bool {
	if c.Type == MultiSelect {
		for _, v := range c.Values {
			if v == opt {
				return true
			}
		}
		return false
	}
	return c.Value == opt
}

// Block is one element of the rendered page, in script order.
type Block struct {
	Kind    Kind
	Text    string
	Items   []string   // list
	Rows    [][]string // table, header first
	Image   []byte     // PNG
	Control *Control
}

// Sidebar holds the static side panel text.
type Sidebar struct {
	AboutApp    string
	DatasetsURL string
	About       string
	Footer      []string
}

// DefaultSidebar returns the stock side panel.
func DefaultSidebar() Sidebar {
	return Sidebar{
		AboutApp:    "A Simple EDA App for Exploring Common ML Dataset",
		DatasetsURL: "https://archive.ics.uci.edu/datasets",
		About:       "This app allows you to easily explore and visualize your data, helping you to gain insights and understand trends.",
		Footer:      []string{"Built with Go"},
	}
}

// Page is the output of one run.
type Page struct {
	Title   string
	Blocks  []Block
	Sidebar Sidebar
	// File is the path of the dataset the run loaded, if any.
	File string
}

// Failed reports whether the run stopped on an error.
func (p *Page) Failed() bool {
	n := len(p.Blocks)
	return n > 0 && p.Blocks[n-1].Kind == KindError
}

// Find returns the blocks of the given kind in page order.
func (p *Page) Find(k Kind) []Block {
	var out []Block
	for _, b := range p.Blocks {
		if b.Kind == k {
			out = append(out, b)
		}
	}
	return out
}

// Control returns the control block bound to the named parameter.
func (p *Page) Control(name string) *Control {
	for _, b := range p.Blocks {
		if b.Kind == KindControl && b.Control.Name == name {
			return b.Control
		}
	}
	return nil
}

func (p *Page) add(k Kind, text string) {
	p.Blocks = append(p.Blocks, Block{Kind: k, Text: text})
}

func (p *Page) addControl(c Control) {
	p.Blocks = append(p.Blocks, Block{Kind: KindControl, Control: &c})
}
