package domain

import "fmt"

// RecordKind distinguishes definition records from patch operations.
type RecordKind string

const (
	// KindDef is a <Defs> entry subject to inheritance resolution.
	KindDef RecordKind = "DEF"

	// KindPatch is a patch operation. Patches never take part in
	// inheritance resolution.
	KindPatch RecordKind = "PATCH"
)

// Field is one flattened leaf element of a record: a dotted path from
// the record element down to the leaf, and its trimmed text value.
// Fields are kept as a slice rather than a map so document order is
// preserved and emission stays deterministic.
type Field struct {
	Key   string `json:"k"`
	Value string `json:"v"`
}

// SimilarTag is a (fieldPath, value) pair shared by at least two
// records. Count is the number of records carrying the pair.
type SimilarTag struct {
	Key   string `json:"k"`
	Value string `json:"v"`
	Count int    `json:"n"`
}

// Record is one parsed definition or patch operation.
// It is populated by the parser, then annotated once by the
// inheritance resolver and the similarity indexer, and never
// mutated after that.
type Record struct {
	// ID is "source|defType:defName", unique across the index.
	ID string `json:"id"`

	// Kind is DEF or PATCH.
	Kind RecordKind `json:"kind"`

	// DefType is the record element's tag name for defs, or the
	// operation class for patches. Never empty.
	DefType string `json:"defType"`

	// DefName identifies the def within its type. May be empty for
	// abstract defs; patch records get a deterministic synthetic name.
	DefName string `json:"defName"`

	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`

	// ParentName references another def of the same DefType.
	ParentName string `json:"parentName,omitempty"`

	// IsAbstract marks defs that only exist to be inherited from.
	IsAbstract bool `json:"abstract"`

	// Fields holds the record's own flattened leaf values in
	// document order.
	Fields []Field `json:"fields"`

	// InheritedFields is the effective field set: ancestor fields
	// merged beneath the record's own, nearer ancestors winning over
	// further ones and own values over all. Set by the resolver.
	InheritedFields []Field `json:"inheritedFields,omitempty"`

	// ResolvedAncestors lists ancestor record IDs nearest first.
	// Never contains the record itself.
	ResolvedAncestors []string `json:"resolvedAncestors,omitempty"`

	// AncestorLabels mirrors ResolvedAncestors with display labels,
	// plus trailing markers for missing parents or broken cycles.
	AncestorLabels []string `json:"ancestorLabels,omitempty"`

	// RawXML is the pretty-printed serialization of the single record
	// element, not the whole file.
	RawXML string `json:"rawXml"`

	// TextBlob is the concatenated text content, used as a search
	// haystack by the viewer.
	TextBlob string `json:"textBlob"`

	FilePath string `json:"filePath"`
	RelPath  string `json:"relPath"`
	Source   string `json:"source"`

	// OperationType and Selector are set for patch records only.
	OperationType string `json:"operationType,omitempty"`
	Selector      string `json:"selector,omitempty"`

	// SimilarTags lists the field/value pairs this record shares with
	// at least one other record. Set by the similarity indexer.
	SimilarTags []SimilarTag `json:"similarTags,omitempty"`
}

// RecordID builds the canonical "source|defType:defName" identifier.
func RecordID(source, defType, defName string) string {
	return fmt.Sprintf("%s|%s:%s", source, defType, defName)
}

// DisplayLabel is the "defType:defName [Source]" form shown in
// inheritance chains.
func (r *Record) DisplayLabel() string {
	return fmt.Sprintf("%s:%s [%s]", r.DefType, r.DefName, r.Source)
}

// Index is the full record set produced by one build, in emission order.
type Index struct {
	// DataRoot is the directory the sources were discovered under.
	// Informational only; shown in the output header.
	DataRoot string

	// Sources lists the scanned roots in scan order.
	Sources []SourceRoot

	// Records holds every parsed record, already annotated with
	// inheritance and similarity data.
	Records []Record
}
