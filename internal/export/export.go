// Package export renders topology snapshots into importable collector
// configuration documents. Renderers are pure functions of the
// snapshot and parameters: no I/O, byte-identical output for identical
// input.
package export

import (
	"encoding/xml"
	"fmt"

	"codeberg.org/mutker/miosbridge/internal/errors"
	"codeberg.org/mutker/miosbridge/internal/metric"
	"codeberg.org/mutker/miosbridge/internal/protocol"
	"codeberg.org/mutker/miosbridge/internal/topology"
)

// Mode selects the template document depth
type Mode int

const (
	// ModeDetailed emits one item per (class, attribute) pair
	ModeDetailed Mode = iota
	// ModeSummary emits template shells without items
	ModeSummary
)

// Retention windows for exported items
const (
	itemHistory = "90d"
	itemTrends  = "365d"
)

// Collector item constants
const (
	itemTypeTrapper  = 2
	valueTypeNumeric = 0
	valueTypeText    = 4
)

// Params carries the externally configured naming for both documents
type Params struct {
	HostGroup     string
	TemplateGroup string
	HostPrefix    string
	AgentHost     string
}

type document struct {
	XMLName   xml.Name   `xml:"zabbix_export"`
	Version   string     `xml:"version"`
	Groups    []groupRef `xml:"groups>group,omitempty"`
	Hosts     []hostDef  `xml:"hosts>host,omitempty"`
	Templates []tmplDef  `xml:"templates>template,omitempty"`
}

type groupRef struct {
	Name string `xml:"name"`
}

type hostDef struct {
	Host       string     `xml:"host"`
	Name       string     `xml:"name"`
	Groups     []groupRef `xml:"groups>group"`
	Interfaces []ifaceDef `xml:"interfaces>interface"`
	Templates  []tmplRef  `xml:"templates>template,omitempty"`
}

type ifaceDef struct {
	Type  int    `xml:"type"`
	UseIP int    `xml:"useip"`
	DNS   string `xml:"dns"`
	Port  string `xml:"port"`
}

type tmplRef struct {
	Name string `xml:"name"`
}

type tmplDef struct {
	Template string     `xml:"template"`
	Name     string     `xml:"name"`
	Groups   []groupRef `xml:"groups>group"`
	Items    []itemDef  `xml:"items>item,omitempty"`
}

type itemDef struct {
	Name      string `xml:"name"`
	Type      int    `xml:"type"`
	Key       string `xml:"key"`
	ValueType int    `xml:"value_type"`
	Units     string `xml:"units,omitempty"`
	History   string `xml:"history"`
	Trends    string `xml:"trends"`
}

// RenderHosts builds the host definition document: one host per
// monitored entity, grouped under the host group, attached to the
// agent host address, referencing one template per exposed class.
func RenderHosts(snap *topology.Snapshot, p Params) ([]byte, error) {
	doc := document{
		Version: "1.0",
		Groups:  []groupRef{{Name: p.HostGroup}},
	}

	for _, entity := range snap.Entities() {
		host := hostDef{
			Host:   protocol.HostName(p.HostPrefix, entity.ID),
			Name:   fmt.Sprintf("%s - %s (#%d)", p.HostPrefix, entity.Description, entity.ID),
			Groups: []groupRef{{Name: p.HostGroup}},
			Interfaces: []ifaceDef{{
				Type:  1,
				UseIP: 0,
				DNS:   p.AgentHost,
				Port:  "10050",
			}},
		}
		for _, class := range entity.Classes {
			host.Templates = append(host.Templates, tmplRef{Name: TemplateName(class)})
		}
		doc.Hosts = append(doc.Hosts, host)
	}

	return marshal(doc)
}

// RenderTemplates builds the template definition document: one
// template per distinct class. ModeDetailed adds one trapper item per
// (class, attribute) pair with its key, value type, unit and retention
// windows; ModeSummary emits the shells only.
func RenderTemplates(snap *topology.Snapshot, p Params, mode Mode) ([]byte, error) {
	doc := document{
		Version: "1.0",
		Groups:  []groupRef{{Name: p.TemplateGroup}},
	}

	for _, class := range snap.Classes() {
		tmpl := tmplDef{
			Template: TemplateName(class),
			Name:     TemplateName(class),
			Groups:   []groupRef{{Name: p.TemplateGroup}},
		}

		if mode == ModeDetailed {
			for _, m := range snap.MetricsForClass(class) {
				tmpl.Items = append(tmpl.Items, itemDef{
					Name:      m.Pair.Class + " " + m.Pair.Attribute,
					Type:      itemTypeTrapper,
					Key:       m.Key,
					ValueType: valueType(m.Descriptor),
					Units:     m.Descriptor.Unit,
					History:   itemHistory,
					Trends:    itemTrends,
				})
			}
		}

		doc.Templates = append(doc.Templates, tmpl)
	}

	return marshal(doc)
}

// TemplateName names the template for one class
func TemplateName(class string) string {
	return "Template_MiOS_" + class
}

func valueType(desc metric.Descriptor) int {
	if desc.ValueKind == metric.KindNumeric {
		return valueTypeNumeric
	}

	return valueTypeText
}

func marshal(doc document) ([]byte, error) {
	out, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrExportFailed, err)
	}

	return append([]byte(xml.Header), append(out, '\n')...), nil
}
