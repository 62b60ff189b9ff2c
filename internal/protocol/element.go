package protocol

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Element is a generic XML element tree.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []Element  `xml:",any"`
}

// Parse decodes one frame into its root element. Anything after the root
// other than whitespace, comments or processing instructions is rejected.
func Parse(frame []byte) (Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(frame))
	var root Element
	if err := dec.Decode(&root); err != nil {
		return Element{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return root, nil
		}
		if err != nil {
			return Element{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return Element{}, fmt.Errorf("%w: extra element <%s> after root", ErrMalformedMessage, t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return Element{}, fmt.Errorf("%w: extra content after root", ErrMalformedMessage)
			}
		}
	}
}

func (e Element) Name() string {
	return e.XMLName.Local
}

func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// First returns the first child element, whatever its name.
func (e Element) First() (Element, bool) {
	if len(e.Children) == 0 {
		return Element{}, false
	}
	return e.Children[0], true
}

func (e Element) Child(name string) (Element, bool) {
	for _, c := range e.Children {
		if c.Name() == name {
			return c, true
		}
	}
	return Element{}, false
}

func (e Element) ChildrenNamed(name string) []Element {
	var out []Element
	for _, c := range e.Children {
		if c.Name() == name {
			out = append(out, c)
		}
	}
	return out
}

func (e Element) requireChild(name string) (Element, error) {
	c, ok := e.Child(name)
	if !ok {
		return Element{}, fmt.Errorf("%w: <%s> has no <%s>", ErrMissingField, e.Name(), name)
	}
	return c, nil
}

func (e Element) requireFirst() (Element, error) {
	c, ok := e.First()
	if !ok {
		return Element{}, fmt.Errorf("%w: <%s> has no payload element", ErrMissingField, e.Name())
	}
	return c, nil
}

func (e Element) requireAttr(name string) (string, error) {
	v, ok := e.Attr(name)
	if !ok {
		return "", fmt.Errorf("%w: <%s %s>", ErrMissingField, e.Name(), name)
	}
	return v, nil
}

func (e Element) intAttr(name string) (int64, error) {
	raw, err := e.requireAttr(name)
	if err != nil {
		return 0, err
	}
	return parseInt(e.Name(), name, raw)
}

func (e Element) intAttrOr(name string, fallback int64) (int64, error) {
	raw, ok := e.Attr(name)
	if !ok {
		return fallback, nil
	}
	return parseInt(e.Name(), name, raw)
}

func (e Element) floatAttr(name string) (float64, error) {
	raw, err := e.requireAttr(name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: <%s %s=%q>: %v", ErrInvalidField, e.Name(), name, raw, err)
	}
	return v, nil
}

func parseInt(elem, name, raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: <%s %s=%q>: %v", ErrInvalidField, elem, name, raw, err)
	}
	return v, nil
}
