// Package lsx reads and writes the structured content formats used by
// Baldur's Gate 3 mods: LSX (XML) through etree and LSJ (JSON) through ojg.
//
// An LSX document is a <save> root holding <region id="..."> elements; each
// region holds <node id="..."> elements with <attribute id type value/>
// children and an optional <children> element of nested nodes. A node's
// identity is the value of its UUID, MapKey or ID attribute.
package lsx
