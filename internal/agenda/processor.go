package agenda

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/dgallion1/edtrpub/internal/markup"
	"github.com/dgallion1/edtrpub/internal/naming"
	"github.com/dgallion1/edtrpub/internal/session"
)

// Action is what happens to one agenda item.
type Action int

const (
	// ActionSkip leaves the item untouched.
	ActionSkip Action = iota
	// ActionClear empties every node of a closed item's cluster.
	ActionClear
	// ActionLink appends attachment links after the item's table.
	ActionLink
)

func (a Action) String() string {
	switch a {
	case ActionClear:
		return "clear"
	case ActionLink:
		return "link"
	default:
		return "skip"
	}
}

// Link is one attachment anchor.
type Link struct {
	Href string
	Name string
}

// Edit is the planned change for one agenda item.
type Edit struct {
	Action  Action
	Label   string
	Cluster Cluster
	Dir     string // resolved topic directory, for ActionLink
	Links   []Link
	Reason  string // why an item is skipped
}

// Summary counts what Apply did.
type Summary struct {
	Items   int
	Closed  int
	Linked  int
	Skipped int
	Links   int
}

// Processor plans and applies agenda item edits for a document whose
// topic directories live in Dir.
type Processor struct {
	Dir          string
	ClosedMarker string
	log          *slog.Logger
}

func NewProcessor(dir, closedMarker string, log *slog.Logger) *Processor {
	return &Processor{Dir: dir, ClosedMarker: closedMarker, log: log}
}

// Process plans the edits for every item of doc and applies them.
func (p *Processor) Process(doc *html.Node) (Summary, error) {
	edits, err := p.Plan(doc)
	if err != nil {
		return Summary{}, err
	}
	return p.Apply(edits), nil
}

// Plan visits every table of doc in document order and decides what to do
// with it. The tree is not modified. A table that is not part of a
// well-shaped cluster fails the whole plan.
func (p *Processor) Plan(doc *html.Node) ([]Edit, error) {
	tables := goquery.NewDocumentFromNode(doc).Find("table").Nodes

	edits := make([]Edit, 0, len(tables))
	for i, table := range tables {
		c, err := Locate(table)
		if err != nil {
			return nil, fmt.Errorf("agenda item %d: %w", i+1, err)
		}
		raw, err := markup.Outer(c.Label())
		if err != nil {
			return nil, fmt.Errorf("agenda item %d: %w", i+1, err)
		}
		edits = append(edits, p.planItem(naming.CanonicalizeLabel(raw), c))
	}
	return edits, nil
}

func (p *Processor) planItem(label string, c Cluster) Edit {
	e := Edit{Label: label, Cluster: c}

	switch {
	case naming.IsClosed(label, p.ClosedMarker):
		e.Action = ActionClear
		e.Label = naming.StripClosedMarker(label, p.ClosedMarker)
		return e
	case label == "":
		e.Reason = "empty label"
		return e
	}

	dir, ok := session.TopicDir(p.Dir, label)
	if !ok {
		e.Reason = "missing topic directory"
		return e
	}
	files, err := session.Attachments(dir)
	if err != nil {
		e.Reason = err.Error()
		return e
	}

	e.Action = ActionLink
	e.Dir = dir
	prefix := filepath.Base(dir)
	for _, f := range files {
		e.Links = append(e.Links, Link{Href: prefix + "/" + f, Name: f})
	}
	return e
}

// Apply carries out the edits in order. Links are always appended, so
// applying the same plan twice duplicates them.
func (p *Processor) Apply(edits []Edit) Summary {
	var s Summary
	for _, e := range edits {
		s.Items++
		log := p.log.With("label", e.Label)

		switch e.Action {
		case ActionClear:
			for _, n := range e.Cluster.Nodes() {
				markup.Clear(n)
			}
			s.Closed++
			log.Info("closed session item removed")

		case ActionLink:
			insertLinks(e.Cluster.LinkSlot, e.Links)
			for _, l := range e.Links {
				log.Debug("attachment linked", "file", l.Name)
			}
			s.Linked++
			s.Links += len(e.Links)
			log.Info("item processed", "dir", e.Dir, "links", len(e.Links))

		default:
			s.Skipped++
			log.Warn("item skipped", "reason", e.Reason, "dir", filepath.Join(p.Dir, e.Label))
		}
	}
	return s
}
