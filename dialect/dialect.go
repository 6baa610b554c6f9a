// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

/*
Package dialect identifies the engine family that produced an archive from its
version signature and describes the platforms archives are built for.

The dialect decides layout details of the container: the width of pool and
entry counts and whether every pool carries its own byte order.
*/
package dialect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/woozymasta/bigfile/binio"
)

// Kind is an engine family.
type Kind uint8

// Known engine families. Other keeps unrecognized signatures verbatim.
const (
	Asobo Kind = iota
	AsoboLegacy
	Kalisto
	BlackSheep
	Ubisoft
	Other
)

var kindNames = [...]string{
	Asobo:       "asobo",
	AsoboLegacy: "asobo-legacy",
	Kalisto:     "kalisto",
	BlackSheep:  "blacksheep",
	Ubisoft:     "ubisoft",
	Other:       "other",
}

// String returns the family name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// pattern describes one signature template; each {} is a decimal field.
type pattern struct {
	template  string
	re        *regexp.Regexp
	count     binio.SizeWidth
	poolOrder bool
}

func newPattern(template string, count binio.SizeWidth, poolOrder bool) pattern {
	parts := strings.Split(template, "{}")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}

	return pattern{
		template:  template,
		re:        regexp.MustCompile("^" + strings.Join(parts, "([0-9]+)") + "$"),
		count:     count,
		poolOrder: poolOrder,
	}
}

// patterns are tried in declaration order; the first full match wins.
var patterns = [...]pattern{
	Asobo:       newPattern("v{}.{}.{}.{} - Asobo Studio - Internal Cross Technology", binio.Size32, false),
	AsoboLegacy: newPattern("v{}.{} - Asobo Studio - Internal Cross Technology", binio.Size16, false),
	Kalisto:     newPattern("TotemTech Data v{}.{} (c) 1999-2002 Kalisto Entertainment - All right reserved", binio.Size16, false),
	BlackSheep:  newPattern("Bigfile Data v{}.{} ", binio.Size32, true),
	Ubisoft: newPattern(
		"Opal {}.{} BigFile | Data Version v{}.{} | CVT {} | CVANIM {} | CVMESH {} | CVSHADER {} |",
		binio.Size32, true,
	),
}

// Dialect is the parsed version signature of an archive.
type Dialect struct {
	Kind   Kind     `json:"kind" yaml:"kind"`
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Raw    string   `json:"raw" yaml:"raw"`
}

// Parse classifies a version signature. It never fails: unknown signatures
// become Other with the text kept verbatim.
func Parse(signature string) Dialect {
	for i, p := range patterns {
		m := p.re.FindStringSubmatch(signature)
		if m == nil {
			continue
		}

		return Dialect{Kind: Kind(i), Fields: m[1:], Raw: signature} //nolint:gosec // bounded by table size
	}

	return Dialect{Kind: Other, Raw: signature}
}

// String renders the signature back from its fields.
func (d Dialect) String() string {
	if d.Kind >= Other {
		return d.Raw
	}

	tmpl := patterns[d.Kind].template
	var b strings.Builder
	field := 0
	for {
		i := strings.Index(tmpl, "{}")
		if i < 0 {
			b.WriteString(tmpl)
			return b.String()
		}

		b.WriteString(tmpl[:i])
		if field < len(d.Fields) {
			b.WriteString(d.Fields[field])
		}

		field++
		tmpl = tmpl[i+2:]
	}
}

// versionFields is the number of signature fields Version reads per kind.
var versionFields = [...]int{
	Asobo:       4,
	AsoboLegacy: 2,
	Kalisto:     2,
	BlackSheep:  2,
	Ubisoft:     4,
}

// Version returns the short identifier used for registry lookups. A dialect
// missing its signature fields falls back to the raw signature.
func (d Dialect) Version() string {
	if d.Kind >= Other || len(d.Fields) < versionFields[d.Kind] {
		return d.Raw
	}

	f := d.Fields
	switch d.Kind {
	case Asobo, AsoboLegacy:
		return "v" + strings.Join(f, ".")
	case Kalisto:
		return fmt.Sprintf("TotemTech v%s.%s", f[0], f[1])
	case BlackSheep:
		return fmt.Sprintf("Bigfile v%s.%s", f[0], f[1])
	default:
		return fmt.Sprintf("Opal %s.%s v%s.%s", f[0], f[1], f[2], f[3])
	}
}

// CountWidth returns the width of pool and entry counts.
func (d Dialect) CountWidth() binio.SizeWidth {
	if d.Kind >= Other {
		return binio.Size32
	}

	return patterns[d.Kind].count
}

// PoolOrder reports whether each pool stores its own byte order.
func (d Dialect) PoolOrder() bool {
	return d.Kind < Other && patterns[d.Kind].poolOrder
}
