// Package agenda finds the agenda items of a parsed EDTR document and
// rewrites them: closed-session items are emptied, public items get links
// to the files of their topic directory.
//
// Every item is a run of sibling nodes around an item table:
//
//	<!-- comment --> <div>label</div> <div/> <div/> <br/> <table/> <br/>
//
// The label sits four siblings before the table and the element right
// after the table is where attachment links go.
package agenda

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"
)

const (
	// PrecedingSlots is how many siblings before the table belong to an item.
	PrecedingSlots = 5
	// LabelOffset is the distance between the label node and the table.
	LabelOffset = 4
)

// ErrMalformedCluster is returned when the siblings around a table do not
// have the shape of an agenda item.
var ErrMalformedCluster = errors.New("table is not part of an agenda item cluster")

// Cluster is one agenda item's run of sibling nodes.
type Cluster struct {
	// Preceding[i] is the sibling i+1 positions before Table.
	Preceding [PrecedingSlots]*html.Node
	Table     *html.Node
	LinkSlot  *html.Node
}

// Label returns the node holding the item's header text.
func (c Cluster) Label() *html.Node {
	return c.Preceding[LabelOffset-1]
}

// Nodes returns every node of the cluster in document order.
func (c Cluster) Nodes() []*html.Node {
	nodes := make([]*html.Node, 0, PrecedingSlots+2)
	for i := PrecedingSlots - 1; i >= 0; i-- {
		nodes = append(nodes, c.Preceding[i])
	}
	return append(nodes, c.Table, c.LinkSlot)
}

// Locate builds the cluster around table.
func Locate(table *html.Node) (Cluster, error) {
	c := Cluster{Table: table}

	n := table
	for i := range PrecedingSlots {
		n = n.PrevSibling
		if n == nil {
			return Cluster{}, fmt.Errorf("%w: no sibling %d before the table", ErrMalformedCluster, i+1)
		}
		c.Preceding[i] = n
	}

	c.LinkSlot = table.NextSibling
	if c.LinkSlot == nil {
		return Cluster{}, fmt.Errorf("%w: nothing after the table", ErrMalformedCluster)
	}
	if c.LinkSlot.Type != html.ElementNode {
		return Cluster{}, fmt.Errorf("%w: node after the table is not an element", ErrMalformedCluster)
	}
	return c, nil
}
