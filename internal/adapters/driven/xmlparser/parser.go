// Package xmlparser turns one XML file's bytes into def and patch
// records. A <Defs> root yields one DEF record per child element;
// a <Patch> root (or any file carrying <Operation> elements or
// <li Class="..."> operations) yields one PATCH record per operation.
// Files with any other root shape yield nothing.
package xmlparser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/custodia-labs/defbrowser-cli/internal/core/domain"
	"github.com/custodia-labs/defbrowser-cli/internal/core/ports/driven"
)

// basicFieldNames are record-level children promoted to dedicated
// Record fields; they are excluded from the flattened field list.
var basicFieldNames = map[string]bool{
	"defName":     true,
	"label":       true,
	"description": true,
	"parentName":  true,
	"abstract":    true,
}

// Ensure Parser implements the interface.
var _ driven.RecordParser = (*Parser)(nil)

// Parser is the XML implementation of driven.RecordParser.
type Parser struct{}

// New creates a new XML record parser.
func New() *Parser {
	return &Parser{}
}

// ParseFile parses one file into records. Malformed XML returns the
// decoder error; an unrecognised root returns no records and no error.
func (p *Parser) ParseFile(ref domain.FileRef, data []byte) ([]domain.Record, error) {
	root, err := parseTree(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if root.name == "Defs" {
		return extractDefs(ref, root), nil
	}
	if ops := collectOperations(root); len(ops) > 0 {
		return extractPatches(ref, ops), nil
	}
	return nil, nil
}

// extractDefs turns each child of a <Defs> root into one DEF record.
// Children without a defName (abstract bases, usually) are kept with an
// empty DefName rather than dropped.
func extractDefs(ref domain.FileRef, root *element) []domain.Record {
	var records []domain.Record

	for _, node := range root.children {
		rec := domain.Record{
			Kind:        domain.KindDef,
			DefType:     node.name,
			DefName:     node.childText("defName"),
			Label:       node.childText("label"),
			Description: node.childText("description"),
			ParentName:  parentNameOf(node),
			IsAbstract:  abstractOf(node),
			RawXML:      prettyXML(node),
			TextBlob:    node.textContent(),
			FilePath:    ref.Path,
			RelPath:     ref.RelPath,
			Source:      ref.Source,
		}
		rec.ID = domain.RecordID(ref.Source, rec.DefType, rec.DefName)
		rec.Fields = flattenFields(node)
		records = append(records, rec)
	}

	return records
}

// extractPatches turns each operation element into one PATCH record.
// Operation classes double as the grouping DefType; the synthetic
// defName "<fileStem>#NNNN" is deterministic within a file.
func extractPatches(ref domain.FileRef, ops []*element) []domain.Record {
	stem := fileStem(ref.RelPath)
	records := make([]domain.Record, 0, len(ops))

	for i, op := range ops {
		opClass := strings.TrimSpace(op.attr("Class"))
		if opClass == "" {
			opClass = "PatchOperation"
		}
		selector := firstDescendantText(op, "xpath")
		label := selector
		if label == "" {
			label = opClass
		}

		rec := domain.Record{
			Kind:          domain.KindPatch,
			DefType:       opClass,
			DefName:       fmt.Sprintf("%s#%04d", stem, i+1),
			Label:         label,
			OperationType: opClass,
			Selector:      selector,
			RawXML:        prettyXML(op),
			TextBlob:      op.textContent(),
			FilePath:      ref.Path,
			RelPath:       ref.RelPath,
			Source:        ref.Source,
		}
		rec.ID = domain.RecordID(ref.Source, rec.DefType, rec.DefName)
		rec.Fields = flattenFields(op)
		records = append(records, rec)
	}

	return records
}

// collectOperations gathers patch operation elements: every
// <Operation> in document order, then every <li Class="..."> in
// document order (nested operations inside sequences count as their
// own records). The two-pass order keeps the synthetic #NNNN names
// stable for files mixing both forms.
func collectOperations(root *element) []*element {
	if root.name != "Patch" && !hasOperations(root) {
		return nil
	}

	var ops []*element
	var visit func(e *element, name string, classed bool)
	visit = func(e *element, name string, classed bool) {
		if e.name == name && (!classed || e.attr("Class") != "") {
			ops = append(ops, e)
		}
		for _, c := range e.children {
			visit(c, name, classed)
		}
	}
	for _, c := range root.children {
		visit(c, "Operation", false)
	}
	for _, c := range root.children {
		visit(c, "li", true)
	}
	return ops
}

func hasOperations(e *element) bool {
	for _, c := range e.children {
		if c.name == "Operation" || (c.name == "li" && c.attr("Class") != "") {
			return true
		}
		if hasOperations(c) {
			return true
		}
	}
	return false
}

func parentNameOf(node *element) string {
	if v := node.attr("ParentName"); v != "" {
		return v
	}
	return node.childText("parentName")
}

// abstractOf checks the <abstract> child first, then the Abstract
// attribute, mirroring how the game engine reads the flag.
func abstractOf(node *element) bool {
	if v := node.childText("abstract"); v != "" {
		return isTruthy(v)
	}
	return isTruthy(node.attr("Abstract"))
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// flattenFields walks every leaf element beneath the record node and
// emits a dotted path → trimmed value pair per leaf, in document
// order. Sibling tags that repeat get a zero-based index suffix so
// paths stay unique: comps.li[1].compClass.
func flattenFields(node *element) []domain.Field {
	var fields []domain.Field

	var walk func(e *element, prefix string)
	walk = func(e *element, prefix string) {
		tagCounts := make(map[string]int)
		for _, c := range e.children {
			tagCounts[c.name]++
		}
		tagSeen := make(map[string]int)

		for _, c := range e.children {
			if prefix == "" && basicFieldNames[c.name] {
				continue
			}
			seg := c.name
			if tagCounts[c.name] > 1 {
				seg = fmt.Sprintf("%s[%d]", c.name, tagSeen[c.name])
				tagSeen[c.name]++
			}
			path := seg
			if prefix != "" {
				path = prefix + "." + seg
			}
			if len(c.children) == 0 {
				fields = append(fields, domain.Field{Key: path, Value: strings.TrimSpace(c.text)})
				continue
			}
			walk(c, path)
		}
	}
	walk(node, "")

	return fields
}

func firstDescendantText(e *element, name string) string {
	for _, c := range e.children {
		if c.name == name {
			if v := strings.TrimSpace(c.text); v != "" {
				return v
			}
		}
		if v := firstDescendantText(c, name); v != "" {
			return v
		}
	}
	return ""
}

func fileStem(relPath string) string {
	base := relPath
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}
