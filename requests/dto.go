package requests

import "github.com/brettbedarf/foldertree"

// NodeRequestDTO is the JSON/YAML representation of [foldertree.NodeRequest]
type NodeRequestDTO struct {
	Path string                           `json:"path" yaml:"path"`
	Type foldertree.NodeCreateRequestType `json:"type" yaml:"type"`
	UUID *string                          `json:"uuid,omitempty" yaml:"uuid,omitempty"` // Optional UUID to enable linking at request time
	Size *uint64                          `json:"size,omitempty" yaml:"size,omitempty"` // File size in bytes; ignored for dirs
}
