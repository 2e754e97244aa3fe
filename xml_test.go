package fontrules

import (
	"encoding/xml"
	"strings"
	"testing"
)

func TestRoutineXMLAttributes(t *testing.T) {
	r := NewRoutine("IMatra", "f.rules:3:1")
	r.AddRule(NewSubstitution([][]string{{"a"}}, [][]string{{"e"}}, "f.rules:4:2"))
	r.ApplyFlags(IgnoreMarks)
	out, err := xml.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, want := range []string{`flags="8"`, `address="f.rules:3:1"`, `name="IMatra"`, "<substitution"} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in %s", want, s)
		}
	}
}

func TestRoutineXMLOmitsEmptyAttributes(t *testing.T) {
	r := NewRoutine("")
	out, err := xml.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, unwanted := range []string{"flags=", "address=", "name="} {
		if strings.Contains(s, unwanted) {
			t.Errorf("unexpected attribute %s in %s", unwanted, s)
		}
	}
}

func TestRoutineXMLRoundTrip(t *testing.T) {
	r := NewRoutine("Trip", "f.rules:1:1", "f.rules:9:1")
	sub := NewSubstitution([][]string{{"f"}, {"i"}}, [][]string{{"f_i"}}, "f.rules:2:2")
	sub.Precontext = [][]string{{"a", "e"}}
	r.AddRule(sub)
	r.AddRule(NewPositioning([][]string{{"a"}}, []ValueRecord{{XAdvance: -30}}, "f.rules:3:2"))
	r.ApplyFlags(RightToLeft | IgnoreLigatures)

	out, err := xml.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var back Routine
	if err := xml.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if back.Name != "Trip" || back.Flags != r.Flags {
		t.Errorf("name/flags not preserved: %q %#x", back.Name, back.Flags)
	}
	if len(back.Address) != 2 || back.Address[0] != "f.rules:1:1" {
		t.Errorf("address list not preserved: %v", back.Address)
	}
	if len(back.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(back.Rules))
	}
	sub2, ok := back.Rules[0].(*Substitution)
	if !ok {
		t.Fatalf("rule 0: expected substitution, got %T", back.Rules[0])
	}
	if len(sub2.Input) != 2 || sub2.Input[0][0] != "f" || sub2.Replacement[0][0] != "f_i" {
		t.Errorf("substitution slots not preserved: %v -> %v", sub2.Input, sub2.Replacement)
	}
	if len(sub2.Precontext) != 1 || len(sub2.Precontext[0]) != 2 {
		t.Errorf("precontext not preserved: %v", sub2.Precontext)
	}
	if sub2.Basics().Flags != r.Flags {
		t.Errorf("flags not re-pushed to decoded rules: %#x", sub2.Basics().Flags)
	}
	pos2, ok := back.Rules[1].(*Positioning)
	if !ok {
		t.Fatalf("rule 1: expected positioning, got %T", back.Rules[1])
	}
	if len(pos2.ValueRecords) != 1 || pos2.ValueRecords[0].XAdvance != -30 {
		t.Errorf("value records not preserved: %v", pos2.ValueRecords)
	}
}

func TestAttachmentXMLRoundTrip(t *testing.T) {
	r := NewRoutine("Marks")
	att := NewAttachment("top", "_top",
		map[string]Anchor{"a": {X: 250, Y: 600}},
		map[string]Anchor{"acutecomb": {X: -570, Y: 1290}},
		"f.rules:5:1")
	r.AddRule(att)
	out, err := xml.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var back Routine
	if err := xml.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	att2, ok := back.Rules[0].(*Attachment)
	if !ok {
		t.Fatalf("expected attachment, got %T", back.Rules[0])
	}
	if att2.BaseName != "top" || att2.MarkName != "_top" {
		t.Errorf("anchor names not preserved: %s/%s", att2.BaseName, att2.MarkName)
	}
	if att2.Bases["a"] != (Anchor{X: 250, Y: 600}) {
		t.Errorf("base anchor not preserved: %v", att2.Bases)
	}
	if att2.Marks["acutecomb"] != (Anchor{X: -570, Y: 1290}) {
		t.Errorf("mark anchor not preserved: %v", att2.Marks)
	}
}

func TestChainingXMLEncodesLookupNames(t *testing.T) {
	target := NewRoutine("Fixup")
	r := NewRoutine("Chainer")
	r.AddRule(NewChaining([][]string{{"a"}}, [][]*Routine{{target}}, ""))
	out, err := xml.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "<lookup>Fixup</lookup>") {
		t.Errorf("lookup reference not encoded by name: %s", out)
	}
}
