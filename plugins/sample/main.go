// Command sample is the builtin sample module packaged as a Go plugin:
//
//	go build -buildmode=plugin -o sample.so ./plugins/sample
//	foldertree shell -m ./sample.so
package main

import "github.com/brettbedarf/foldertree/modules"

// Module is looked up by the shared object loader
var Module = modules.SampleModule()

func main() {}
