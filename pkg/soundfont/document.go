// Package soundfont assembles the pysf instrument-definition document that
// an external compiler turns into a binary SoundFont.
package soundfont

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// Document is the root of a pysf version 3 XML document.
type Document struct {
	XMLName        xml.Name `xml:"sf:pysf"`
	SFNamespace    string   `xml:"xmlns:sf,attr"`
	XSINamespace   string   `xml:"xmlns:xsi,attr"`
	Version        string   `xml:"version,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`
	SF2            SF2      `xml:"sf2"`
}

// SF2 holds the soundfont metadata and its instrument, preset and
// wavetable lists.
type SF2 struct {
	CreationDate string       `xml:"ICRD"`
	FileVersion  FileVersion  `xml:"IFIL"`
	Name         string       `xml:"INAM"`
	Product      string       `xml:"IPRD"`
	Software     string       `xml:"ISFT"`
	Engine       string       `xml:"ISNG"`
	Instruments  []Instrument `xml:"instruments>instrument"`
	Presets      []Preset     `xml:"presets>preset"`
	Wavetables   []Wavetable  `xml:"wavetables>wavetable"`
}

// FileVersion is the soundfont format revision (2.1).
type FileVersion struct {
	Major int `xml:"major"`
	Minor int `xml:"minor"`
}

type Instrument struct {
	ID    int              `xml:"id"`
	Name  string           `xml:"name"`
	Zones []InstrumentZone `xml:"zones>zone"`
}

// InstrumentZone maps a single key to a wavetable.
type InstrumentZone struct {
	KeyRange    KeyRange `xml:"keyRange"`
	RootKey     int      `xml:"overridingRootKey"`
	SampleModes string   `xml:"sampleModes"`
	WavetableID int      `xml:"wavetableId"`
}

type Preset struct {
	Bank  int          `xml:"bank"`
	ID    int          `xml:"id"`
	Name  string       `xml:"name"`
	Zones []PresetZone `xml:"zones>zone"`
}

type PresetZone struct {
	InstrumentID int      `xml:"instrumentId"`
	KeyRange     KeyRange `xml:"keyRange"`
}

type KeyRange struct {
	Begin int `xml:"begin"`
	End   int `xml:"end"`
}

// Wavetable references one audio file by a stable id.
type Wavetable struct {
	File string `xml:"file"`
	ID   int    `xml:"id"`
	Loop Loop   `xml:"loop"`
	Name string `xml:"name"`
}

type Loop struct {
	Begin int `xml:"begin"`
	End   int `xml:"end"`
}

// Encode writes the document as indented XML with a standard declaration.
func (d *Document) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode instrument document: %w", err)
	}
	return enc.Close()
}

// WriteFile writes the encoded document to path.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := d.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
