package models

import "sort"

// Sentinel replaces any field that could not be read from a post.
const Sentinel = "NULL"

// Extension is an image file extension the pipeline will download.
type Extension string

const (
	ExtensionPNG  Extension = "png"
	ExtensionJPG  Extension = "jpg"
	ExtensionJPEG Extension = "jpeg"
)

// Extensions lists every recognized extension.
var Extensions = []Extension{ExtensionPNG, ExtensionJPG, ExtensionJPEG}

// IsRecognizedExtension reports whether ext is one of Extensions.
func IsRecognizedExtension(ext string) bool {
	for _, e := range Extensions {
		if string(e) == ext {
			return true
		}
	}
	return false
}

// Candidate is a scraped post reduced to what the downloader needs.
type Candidate struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Ext  string `json:"ext"`
}

// Filename returns the destination file name for the candidate.
func (c Candidate) Filename() string {
	return c.Name + "." + c.Ext
}

// Outcome is the result of a single download attempt.
type Outcome struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Err     error  `json:"-"`
}

// Succeeded builds a success outcome.
func Succeeded(name string) Outcome {
	return Outcome{Name: name, Success: true}
}

// Failed builds a failure outcome carrying its cause.
func Failed(name string, err error) Outcome {
	return Outcome{Name: name, Success: false, Err: err}
}

// Inventory is the set of image names already held by the catalog.
type Inventory struct {
	names map[string]struct{}
}

// NewInventory builds an inventory from a list of names.
func NewInventory(names ...string) Inventory {
	inv := Inventory{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		inv.names[n] = struct{}{}
	}
	return inv
}

// Has reports whether name is already in the inventory.
func (i Inventory) Has(name string) bool {
	_, ok := i.names[name]
	return ok
}

// Len returns the number of distinct names.
func (i Inventory) Len() int {
	return len(i.names)
}

// Names returns the names in sorted order.
func (i Inventory) Names() []string {
	out := make([]string, 0, len(i.names))
	for n := range i.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
