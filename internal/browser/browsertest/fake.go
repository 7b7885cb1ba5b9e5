// Package browsertest provides an in-memory browser.Driver for
// exercising portal flows without a real browser.
package browsertest

import (
	"fmt"
	"time"

	"ecasharvest/internal/browser"
)

// Node is a scriptable fake element. It answers descendant lookups from
// Children and records interactions.
type Node struct {
	// Sel is the selector this node answers to.
	Sel string
	// TextVal is returned by Text.
	TextVal string
	// TextErr, when set, makes Text fail.
	TextErr error
	// ClickErr, when set, makes Click fail.
	ClickErr error
	// OnClick runs on every successful click.
	OnClick func() error
	// Children answer Element/Elements lookups.
	Children []*Node

	Clicks   int
	InputVal string
}

func (n *Node) Click() error {
	if n.ClickErr != nil {
		return n.ClickErr
	}
	n.Clicks++
	if n.OnClick != nil {
		return n.OnClick()
	}
	return nil
}

func (n *Node) Input(text string) error {
	n.InputVal = text
	return nil
}

func (n *Node) Text() (string, error) {
	if n.TextErr != nil {
		return "", n.TextErr
	}
	return n.TextVal, nil
}

func (n *Node) Element(selector string) (browser.Element, bool) {
	for _, c := range n.Children {
		if c.Sel == selector {
			return c, true
		}
	}
	return nil, false
}

func (n *Node) Elements(selector string) []browser.Element {
	var out []browser.Element
	for _, c := range n.Children {
		if c.Sel == selector {
			out = append(out, c)
		}
	}
	return out
}

// Driver is a scriptable fake browser.Driver. Unset hooks fall back to
// looking up Nodes in Page.
type Driver struct {
	// Page answers Element/Elements lookups when the hooks are nil.
	Page []*Node

	NavigateFn    func(url string) error
	ElementFn     func(selector string) (browser.Element, bool)
	ElementsFn    func(selector string) []browser.Element
	WaitVisibleFn func(selector string, timeout time.Duration) (browser.Element, error)

	Navigations []string
	Blurs       int
}

func (d *Driver) Navigate(url string) error {
	d.Navigations = append(d.Navigations, url)
	if d.NavigateFn != nil {
		return d.NavigateFn(url)
	}
	return nil
}

func (d *Driver) Element(selector string) (browser.Element, bool) {
	if d.ElementFn != nil {
		return d.ElementFn(selector)
	}
	for _, n := range d.Page {
		if n.Sel == selector {
			return n, true
		}
	}
	return nil, false
}

func (d *Driver) Elements(selector string) []browser.Element {
	if d.ElementsFn != nil {
		return d.ElementsFn(selector)
	}
	var out []browser.Element
	for _, n := range d.Page {
		if n.Sel == selector {
			out = append(out, n)
		}
	}
	return out
}

func (d *Driver) WaitVisible(selector string, timeout time.Duration) (browser.Element, error) {
	if d.WaitVisibleFn != nil {
		return d.WaitVisibleFn(selector, timeout)
	}
	if el, ok := d.Element(selector); ok {
		return el, nil
	}
	return nil, fmt.Errorf("element %q never appeared", selector)
}

func (d *Driver) Blur() error {
	d.Blurs++
	return nil
}
