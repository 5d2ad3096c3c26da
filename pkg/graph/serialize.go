package graph

import (
	"encoding/json"
	"io"

	"github.com/chazu/keel/pkg/sym"
)

// Document form of an assembly. Every value position holding a number in
// the JSON may instead hold a string naming a free parameter.

type xyzDoc struct {
	X sym.Value `json:"x"`
	Y sym.Value `json:"y"`
	Z sym.Value `json:"z"`
}

type pointDoc struct {
	Name string    `json:"name"`
	X    sym.Value `json:"x"`
	Y    sym.Value `json:"y"`
	Z    sym.Value `json:"z"`
}

type orientationDoc struct {
	Roll  sym.Value `json:"roll"`
	Pitch sym.Value `json:"pitch"`
	Yaw   sym.Value `json:"yaw"`
}

type partDoc struct {
	Name             string               `json:"name"`
	Type             string               `json:"type"`
	Geometry         map[string]sym.Value `json:"geometry"`
	MaterialDensity  sym.Value            `json:"material_density"`
	StaticOrigin     *xyzDoc              `json:"static_origin"`
	StaticPlacement  *xyzDoc              `json:"static_placement"`
	AttachmentPoints []pointDoc           `json:"attachment_points"`
	ConnectionPorts  []pointDoc           `json:"connection_ports"`
	Orientation      orientationDoc       `json:"orientation"`
	IsExposed        bool                 `json:"is_exposed"`
}

type attachmentDoc struct {
	SourceNode            string `json:"source_node"`
	SourceAttachment      string `json:"source_attachment"`
	DestinationNode       string `json:"destination_node"`
	DestinationAttachment string `json:"destination_attachment"`
}

type connectionDoc struct {
	SourceNode            string `json:"source_node"`
	SourceConnection      string `json:"source_connection"`
	DestinationNode       string `json:"destination_node"`
	DestinationConnection string `json:"destination_connection"`
}

type assemblyDoc struct {
	Name        string          `json:"name"`
	Parts       []partDoc       `json:"parts"`
	Attachments []attachmentDoc `json:"attachments"`
	Connections []connectionDoc `json:"connections"`
}

func coordToXYZ(c *sym.Coordinate) *xyzDoc {
	if c == nil {
		return nil
	}
	return &xyzDoc{X: c.X, Y: c.Y, Z: c.Z}
}

func pointsToDocs(pts []*sym.Coordinate) []pointDoc {
	docs := make([]pointDoc, len(pts))
	for i, pt := range pts {
		docs[i] = pointDoc{Name: pt.Name, X: pt.X, Y: pt.Y, Z: pt.Z}
	}
	return docs
}

func partToDoc(p *Part) partDoc {
	doc := partDoc{
		Name:             p.Name,
		Type:             p.Type,
		Geometry:         p.Geometry,
		MaterialDensity:  p.Density,
		StaticOrigin:     coordToXYZ(p.StaticOrigin),
		StaticPlacement:  coordToXYZ(p.StaticPlacement),
		AttachmentPoints: pointsToDocs(p.AttachmentPoints),
		ConnectionPorts:  pointsToDocs(p.ConnectionPorts),
		IsExposed:        p.IsExposed,
	}
	if p.Orientation != nil {
		doc.Orientation = orientationDoc{
			Roll:  p.Orientation.Roll,
			Pitch: p.Orientation.Pitch,
			Yaw:   p.Orientation.Yaw,
		}
	}
	return doc
}

// Marshal serializes the assembly to its indented JSON document form.
func Marshal(a *Assembly) ([]byte, error) {
	doc := assemblyDoc{
		Name:        a.Name,
		Parts:       make([]partDoc, len(a.Parts)),
		Attachments: make([]attachmentDoc, 0, len(a.Attachments)),
		Connections: make([]connectionDoc, 0, len(a.Connections)),
	}
	for i, p := range a.Parts {
		doc.Parts[i] = partToDoc(p)
	}
	for _, e := range a.Attachments {
		doc.Attachments = append(doc.Attachments, attachmentDoc{
			SourceNode:            e.Source.Part,
			SourceAttachment:      e.Source.Point,
			DestinationNode:       e.Destination.Part,
			DestinationAttachment: e.Destination.Point,
		})
	}
	for _, e := range a.Connections {
		doc.Connections = append(doc.Connections, connectionDoc{
			SourceNode:            e.Source.Part,
			SourceConnection:      e.Source.Point,
			DestinationNode:       e.Destination.Part,
			DestinationConnection: e.Destination.Point,
		})
	}
	return json.MarshalIndent(doc, "", "   ")
}

// Unmarshal parses an assembly from its JSON document form, verifying
// structural invariants: unique part names, known part and point references
// on every edge. Mirrored duplicate edges collapse into one.
func Unmarshal(data []byte) (*Assembly, error) {
	var doc assemblyDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedDocumentError{Reason: err.Error()}
	}
	if doc.Name == "" {
		return nil, &MalformedDocumentError{Path: "name", Reason: "assembly name is required"}
	}

	a := NewAssembly(doc.Name)
	for _, pd := range doc.Parts {
		if pd.Type == "" {
			return nil, &MalformedDocumentError{
				Path:   "parts/" + pd.Name,
				Reason: "part type is required",
			}
		}
		p := NewPart(pd.Name, pd.Type)
		for k, v := range pd.Geometry {
			p.Geometry[k] = v
		}
		p.Density = pd.MaterialDensity
		if pd.StaticOrigin != nil {
			p.SetOrigin(pd.StaticOrigin.X, pd.StaticOrigin.Y, pd.StaticOrigin.Z)
		}
		if pd.StaticPlacement != nil {
			p.SetPlacement(pd.StaticPlacement.X, pd.StaticPlacement.Y, pd.StaticPlacement.Z)
		}
		p.SetOrientation(pd.Orientation.Roll, pd.Orientation.Pitch, pd.Orientation.Yaw)
		p.IsExposed = pd.IsExposed
		for _, pt := range pd.AttachmentPoints {
			if err := p.AddAttachmentPoint(pt.Name, pt.X, pt.Y, pt.Z); err != nil {
				return nil, &MalformedDocumentError{
					Path:   "parts/" + pd.Name + "/attachment_points",
					Reason: err.Error(),
				}
			}
		}
		for _, pt := range pd.ConnectionPorts {
			if err := p.AddConnectionPort(pt.Name, pt.X, pt.Y, pt.Z); err != nil {
				return nil, &MalformedDocumentError{
					Path:   "parts/" + pd.Name + "/connection_ports",
					Reason: err.Error(),
				}
			}
		}
		if err := a.AddPart(p); err != nil {
			return nil, err
		}
	}

	for _, e := range doc.Attachments {
		if err := a.Attach(e.SourceNode, e.SourceAttachment, e.DestinationNode, e.DestinationAttachment); err != nil {
			return nil, err
		}
	}
	for _, e := range doc.Connections {
		if err := a.Connect(e.SourceNode, e.SourceConnection, e.DestinationNode, e.DestinationConnection); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Load reads and parses an assembly document from r.
func Load(r io.Reader) (*Assembly, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Save writes the assembly's document form to w.
func Save(w io.Writer, a *Assembly) error {
	data, err := Marshal(a)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
