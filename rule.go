package fontrules

import (
	"fmt"
	"strings"
)

// Rule is one layout operation inside a routine. Concrete rule types are
// Substitution, Positioning, Chaining and Attachment.
type Rule interface {
	// Basics returns the parts shared by all rule variants.
	Basics() RuleBasics
	basics() *RuleBasics
	xmlName() string
}

// RuleBasics carries the parts every rule variant has: context, source
// address, applicable language/script pairs and inherited lookup flags.
type RuleBasics struct {
	Precontext  [][]string
	Postcontext [][]string
	Address     string
	Languages   []LangSysPair
	Flags       int
}

func (b *RuleBasics) Basics() RuleBasics { return *b }

// Substitution replaces one sequence of glyph slots by another. Each slot
// is a set of alternative glyph names; a one-slot input with a one-slot
// replacement is a single substitution, many-to-one is a ligature,
// one-to-many a multiple substitution.
type Substitution struct {
	RuleBasics
	Input       [][]string
	Replacement [][]string
	Reversed    bool
}

// NewSubstitution creates a substitution rule without context.
func NewSubstitution(input, replacement [][]string, address string) *Substitution {
	return &Substitution{
		RuleBasics:  RuleBasics{Address: address},
		Input:       input,
		Replacement: replacement,
	}
}

func (s *Substitution) basics() *RuleBasics { return &s.RuleBasics }
func (s *Substitution) xmlName() string     { return "substitution" }

// Positioning adjusts placement and advance of glyph slots. ValueRecords
// is parallel to Glyphs: one value record per slot.
type Positioning struct {
	RuleBasics
	Glyphs       [][]string
	ValueRecords []ValueRecord
}

// NewPositioning creates a positioning rule without context.
func NewPositioning(glyphs [][]string, values []ValueRecord, address string) *Positioning {
	return &Positioning{
		RuleBasics:   RuleBasics{Address: address},
		Glyphs:       glyphs,
		ValueRecords: values,
	}
}

func (p *Positioning) basics() *RuleBasics { return &p.RuleBasics }
func (p *Positioning) xmlName() string     { return "positioning" }

// Chaining is a contextual rule dispatching to other routines: for each
// input slot, zero or more routines are applied at that position.
type Chaining struct {
	RuleBasics
	Input   [][]string
	Lookups [][]*Routine
}

// NewChaining creates a chaining rule without context.
func NewChaining(input [][]string, lookups [][]*Routine, address string) *Chaining {
	return &Chaining{
		RuleBasics: RuleBasics{Address: address},
		Input:      input,
		Lookups:    lookups,
	}
}

func (c *Chaining) basics() *RuleBasics { return &c.RuleBasics }
func (c *Chaining) xmlName() string     { return "chaining" }

// Attachment attaches mark glyphs to base glyphs via anchor positions.
type Attachment struct {
	RuleBasics
	BaseName string
	MarkName string
	Bases    map[string]Anchor
	Marks    map[string]Anchor
}

// NewAttachment creates an attachment rule.
func NewAttachment(baseName, markName string, bases, marks map[string]Anchor, address string) *Attachment {
	return &Attachment{
		RuleBasics: RuleBasics{Address: address},
		BaseName:   baseName,
		MarkName:   markName,
		Bases:      bases,
		Marks:      marks,
	}
}

func (a *Attachment) basics() *RuleBasics { return &a.RuleBasics }
func (a *Attachment) xmlName() string     { return "attachment" }

// ValueRecord is a GPOS-style positioning adjustment in font units.
type ValueRecord struct {
	XPlacement int
	YPlacement int
	XAdvance   int
	YAdvance   int
}

// IsZero tells if the value record contains no adjustment at all.
func (vr ValueRecord) IsZero() bool {
	return vr == ValueRecord{}
}

func (vr ValueRecord) String() string {
	return fmt.Sprintf("<%d %d %d %d>", vr.XPlacement, vr.YPlacement, vr.XAdvance, vr.YAdvance)
}

// slotString renders a sequence of glyph slots for diagnostics.
func slotString(slots [][]string) string {
	var sb strings.Builder
	for i, slot := range slots {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if len(slot) == 1 {
			sb.WriteString(slot[0])
		} else {
			sb.WriteByte('[')
			sb.WriteString(strings.Join(slot, " "))
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

func (s *Substitution) String() string {
	return fmt.Sprintf("sub %s -> %s", slotString(s.Input), slotString(s.Replacement))
}

func (p *Positioning) String() string {
	var sb strings.Builder
	sb.WriteString("pos")
	for i, slot := range p.Glyphs {
		sb.WriteByte(' ')
		sb.WriteString(slotString([][]string{slot}))
		if i < len(p.ValueRecords) && !p.ValueRecords[i].IsZero() {
			sb.WriteByte(' ')
			sb.WriteString(p.ValueRecords[i].String())
		}
	}
	return sb.String()
}
