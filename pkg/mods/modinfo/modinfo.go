// Package modinfo reads mod metadata from ModInfo.xml marker files.
//
// The marker file certifies a directory as a mod; its metadata is
// optional extra. Two layouts are understood: the current one with
// the fields as direct children of the document root, and the legacy
// one nesting them in a ModInfo element. All fields carry their text
// in a "value" attribute.
package modinfo

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// FileName is the marker file name expected at the top level of a
// mod directory.
const FileName = "ModInfo.xml"

// ModInfo is the metadata of a mod.
type ModInfo struct {
	Name        string
	DisplayName string
	Version     string
	Description string
	Author      string
	Website     string
}

type valueAttr struct {
	Value string `xml:"value,attr"`
}

type document struct {
	Name        valueAttr `xml:"Name"`
	DisplayName valueAttr `xml:"DisplayName"`
	Version     valueAttr `xml:"Version"`
	Description valueAttr `xml:"Description"`
	Author      valueAttr `xml:"Author"`
	Website     valueAttr `xml:"Website"`

	Legacy *document `xml:"ModInfo"`
}

func (d *document) modInfo() *ModInfo {
	return &ModInfo{
		Name:        d.Name.Value,
		DisplayName: d.DisplayName.Value,
		Version:     d.Version.Value,
		Description: d.Description.Value,
		Author:      d.Author.Value,
		Website:     d.Website.Value,
	}
}

func (d *document) empty() bool {
	return d.Name.Value == "" && d.DisplayName.Value == "" &&
		d.Version.Value == "" && d.Author.Value == ""
}

// Parse reads mod metadata from r.
func Parse(r io.Reader) (*ModInfo, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding mod info: %w", err)
	}
	if doc.empty() && doc.Legacy != nil {
		return doc.Legacy.modInfo(), nil
	}
	return doc.modInfo(), nil
}

// Read reads mod metadata from the file at path.
func Read(path string) (*ModInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}
