package fontrules

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// XML round-tripping of routines. A routine serializes to
//
//	<routine flags="8" address="f.rules:3:1" name="IMatra">
//	  <substitution>...</substitution>
//	  ...
//	</routine>
//
// where the flags attribute is omitted when zero, the address attribute
// (pipe-joined location list) is omitted when empty, and the name attribute
// is omitted when unset. One child element per contained rule, in order.
// Decoding reconstructs rule order and the flag value exactly.

type xmlSlot struct {
	Glyphs []string `xml:"glyph"`
}

type xmlValueRecord struct {
	XPlacement int `xml:"xPlacement,attr,omitempty"`
	YPlacement int `xml:"yPlacement,attr,omitempty"`
	XAdvance   int `xml:"xAdvance,attr,omitempty"`
	YAdvance   int `xml:"yAdvance,attr,omitempty"`
}

type xmlAnchor struct {
	Glyph  string `xml:"glyph,attr"`
	Anchor string `xml:"anchor,attr"`
	X      int    `xml:"x,attr"`
	Y      int    `xml:"y,attr"`
}

type xmlRule struct {
	XMLName     xml.Name
	Address     string           `xml:"address,attr,omitempty"`
	Input       []xmlSlot        `xml:"input>slot"`
	Replacement []xmlSlot        `xml:"replacement>slot"`
	Precontext  []xmlSlot        `xml:"precontext>slot"`
	Postcontext []xmlSlot        `xml:"postcontext>slot"`
	Values      []xmlValueRecord `xml:"valuerecord"`
	Lookups     []string         `xml:"lookup"`
	BaseName    string           `xml:"base,attr,omitempty"`
	MarkName    string           `xml:"mark,attr,omitempty"`
	Anchors     []xmlAnchor      `xml:"anchorpos"`
}

func slotsToXML(slots [][]string) []xmlSlot {
	out := make([]xmlSlot, len(slots))
	for i, s := range slots {
		out[i] = xmlSlot{Glyphs: s}
	}
	return out
}

func slotsFromXML(slots []xmlSlot) [][]string {
	if len(slots) == 0 {
		return nil
	}
	out := make([][]string, len(slots))
	for i, s := range slots {
		out[i] = s.Glyphs
	}
	return out
}

func ruleToXML(rule Rule) xmlRule {
	b := rule.Basics()
	x := xmlRule{
		XMLName:     xml.Name{Local: rule.xmlName()},
		Address:     b.Address,
		Precontext:  slotsToXML(b.Precontext),
		Postcontext: slotsToXML(b.Postcontext),
	}
	switch r := rule.(type) {
	case *Substitution:
		x.Input = slotsToXML(r.Input)
		x.Replacement = slotsToXML(r.Replacement)
	case *Positioning:
		x.Input = slotsToXML(r.Glyphs)
		for _, vr := range r.ValueRecords {
			x.Values = append(x.Values, xmlValueRecord(vr))
		}
	case *Chaining:
		x.Input = slotsToXML(r.Input)
		for _, slot := range r.Lookups {
			names := make([]string, len(slot))
			for i, rt := range slot {
				names[i] = rt.Name
			}
			x.Lookups = append(x.Lookups, strings.Join(names, ","))
		}
	case *Attachment:
		x.BaseName = r.BaseName
		x.MarkName = r.MarkName
		for g, a := range r.Bases {
			x.Anchors = append(x.Anchors, xmlAnchor{Glyph: g, Anchor: "base", X: a.X, Y: a.Y})
		}
		for g, a := range r.Marks {
			x.Anchors = append(x.Anchors, xmlAnchor{Glyph: g, Anchor: "mark", X: a.X, Y: a.Y})
		}
	}
	return x
}

func ruleFromXML(x xmlRule) (Rule, error) {
	basics := RuleBasics{
		Address:     x.Address,
		Precontext:  slotsFromXML(x.Precontext),
		Postcontext: slotsFromXML(x.Postcontext),
	}
	switch x.XMLName.Local {
	case "substitution":
		return &Substitution{
			RuleBasics:  basics,
			Input:       slotsFromXML(x.Input),
			Replacement: slotsFromXML(x.Replacement),
		}, nil
	case "positioning":
		p := &Positioning{RuleBasics: basics, Glyphs: slotsFromXML(x.Input)}
		for _, vr := range x.Values {
			p.ValueRecords = append(p.ValueRecords, ValueRecord(vr))
		}
		return p, nil
	case "chaining":
		c := &Chaining{RuleBasics: basics, Input: slotsFromXML(x.Input)}
		for range x.Lookups { // routine references are relinked by the caller
			c.Lookups = append(c.Lookups, nil)
		}
		return c, nil
	case "attachment":
		a := &Attachment{
			RuleBasics: basics,
			BaseName:   x.BaseName,
			MarkName:   x.MarkName,
			Bases:      make(map[string]Anchor),
			Marks:      make(map[string]Anchor),
		}
		for _, ap := range x.Anchors {
			if ap.Anchor == "mark" {
				a.Marks[ap.Glyph] = Anchor{X: ap.X, Y: ap.Y}
			} else {
				a.Bases[ap.Glyph] = Anchor{X: ap.X, Y: ap.Y}
			}
		}
		return a, nil
	}
	return nil, fmt.Errorf("unknown rule element <%s>", x.XMLName.Local)
}

// MarshalXML implements xml.Marshaler.
func (r *Routine) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "routine"}
	start.Attr = start.Attr[:0]
	if r.Flags != 0 {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "flags"},
			Value: strconv.Itoa(r.Flags),
		})
	}
	if len(r.Address) > 0 {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "address"},
			Value: strings.Join(r.Address, "|"),
		})
	}
	if r.Name != "" {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "name"},
			Value: r.Name,
		})
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, rule := range r.Rules {
		x := ruleToXML(rule)
		if err := e.EncodeElement(x, xml.StartElement{Name: x.XMLName}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// UnmarshalXML implements xml.Unmarshaler.
func (r *Routine) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	*r = Routine{}
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "flags":
			flags, err := strconv.Atoi(attr.Value)
			if err != nil {
				return fmt.Errorf("routine flags attribute: %w", err)
			}
			r.Flags = flags
		case "address":
			if attr.Value != "" {
				r.Address = strings.Split(attr.Value, "|")
			}
		case "name":
			r.Name = attr.Value
		}
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var x xmlRule
			if err := d.DecodeElement(&x, &t); err != nil {
				return err
			}
			rule, err := ruleFromXML(x)
			if err != nil {
				return err
			}
			rule.basics().Flags = r.Flags
			r.Rules = append(r.Rules, rule)
		case xml.EndElement:
			tracer().Debugf("decoded routine %q with %d rule(s)", r.Name, len(r.Rules))
			return nil
		}
	}
}
