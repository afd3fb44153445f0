// Package modules loads plugin modules and lists the types and operations they
// expose.
//
// A module is anything implementing [Module]: it describes its types, the
// capabilities each type declares and the operations each type offers. Shared
// object modules built with -buildmode=plugin export a [Module] under a known
// symbol; builtin modules register a factory with [Register] and are loaded
// with a "builtin:<name>" path.
//
// Late binding is confined to [Method], which turns a Go method expression
// into a [MethodSpec]; everything downstream works with the static
// descriptors.
package modules
