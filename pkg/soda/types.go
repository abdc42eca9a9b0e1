package soda

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the library version reported in the default User-Agent header.
const Version = "0.2.0"

// Format identifies a response representation supported by the SODA API.
type Format string

// Supported response formats.
const (
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatXML    Format = "xml"
	FormatRDFXML Format = "rdfxml"
)

// formats maps each Format to its URL extension and MIME type.
var formats = map[Format]struct {
	extension string
	mimeType  string
}{
	FormatCSV:    {"csv", "text/csv; charset=utf-8"},
	FormatJSON:   {"json", "application/json; charset=utf-8"},
	FormatRDFXML: {"rdf", "application/rdf+xml; charset=utf-8"},
	FormatXML:    {"xml", "text/xml; charset=utf-8"},
}

// Extension returns the URL extension appended to resource paths, e.g. "json".
func (f Format) Extension() string {
	return formats[f].extension
}

// MIMEType returns the MIME type sent in the Accept header and expected in
// the response Content-Type, e.g. "application/json; charset=utf-8".
func (f Format) MIMEType() string {
	return formats[f].mimeType
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	_, ok := formats[f]
	return ok
}

// ParseFormat converts a format name into a Format.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(name))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q (must be one of csv, json, rdfxml, xml)", ErrUnknownFormat, name)
	}

	return f, nil
}

// Row is a single dataset record. Field names and value types are defined
// entirely server-side; the client imposes no schema.
type Row map[string]interface{}

// DatasetDescriptor is one catalog search result. Its shape is server-defined;
// the interesting content lives under the "resource" sub-document.
type DatasetDescriptor map[string]interface{}

// CatalogPage is one decoded response from the discovery endpoint.
type CatalogPage struct {
	Results       []DatasetDescriptor    `json:"results"           yaml:"results"`
	ResultSetSize int                    `json:"resultSetSize"     yaml:"resultSetSize"`
	Timings       map[string]interface{} `json:"timings,omitempty" yaml:"timings,omitempty"`
}

// Metadata is a dataset metadata document. The schema is server-defined and
// passed through untouched; Attachments extracts the one part the client
// itself consumes.
type Metadata map[string]interface{}

// Attachment describes one file attached to a dataset. Exactly one of AssetID
// and BlobID is normally set; it selects which download endpoint serves the
// file.
type Attachment struct {
	Filename string `json:"filename"          yaml:"filename"`
	AssetID  string `json:"assetId,omitempty" yaml:"assetId,omitempty"`
	BlobID   string `json:"blobId,omitempty"  yaml:"blobId,omitempty"`
}

// Attachments extracts the attachment list from the metadata document.
// Datasets without attachments yield nil.
func (m Metadata) Attachments() []Attachment {
	meta, ok := m["metadata"].(map[string]interface{})
	if !ok {
		return nil
	}

	raw, ok := meta["attachments"].([]interface{})
	if !ok {
		return nil
	}

	attachments := make([]Attachment, 0, len(raw))

	for _, entry := range raw {
		doc, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		attachments = append(attachments, Attachment{
			Filename: stringField(doc, "filename"),
			AssetID:  stringField(doc, "assetId"),
			BlobID:   stringField(doc, "blobId"),
		})
	}

	if len(attachments) == 0 {
		return nil
	}

	return attachments
}

// stringField reads a field that the API serves either as a string or as a
// number (asset ids appear both ways in the wild).
func stringField(doc map[string]interface{}, key string) string {
	switch v := doc[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Identifier is a parsed dataset identifier. Dataset is the opaque
// four-by-four style id; Row is the optional embedded row id.
type Identifier struct {
	Dataset string
	Row     string
}

// ParseIdentifier splits a dataset identifier of the form "abcd-1234" or
// "abcd-1234/193". Identifiers are otherwise opaque: no validation is applied
// beyond non-emptiness.
func ParseIdentifier(id string) (Identifier, error) {
	if id == "" {
		return Identifier{}, ErrIdentifierRequired
	}

	parts := strings.Split(id, "/")
	switch len(parts) {
	case 1:
		return Identifier{Dataset: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return Identifier{}, fmt.Errorf("%w: %q", ErrIdentifierMalformed, id)
		}

		return Identifier{Dataset: parts[0], Row: parts[1]}, nil
	default:
		return Identifier{}, fmt.Errorf("%w: %q", ErrIdentifierMalformed, id)
	}
}

// HasRow reports whether the identifier embeds a row id.
func (i Identifier) HasRow() bool {
	return i.Row != ""
}

// String reassembles the identifier.
func (i Identifier) String() string {
	if i.Row == "" {
		return i.Dataset
	}

	return i.Dataset + "/" + i.Row
}
