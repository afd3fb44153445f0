package foldertree

import "github.com/google/uuid"

// NodeRequest has common fields embedded in concrete request types
type NodeRequest struct {
	Path string
	Type NodeCreateRequestType
	UUID uuid.UUID // Optional ID to enable linking at request time; uuid.Nil generates one
	Size uint64    // Only meaningful for files
}

// NodeCreateRequestType valid types are FileNodeType "file", DirNodeType "dir"
type NodeCreateRequestType string

const (
	FileNodeType NodeCreateRequestType = "file"
	DirNodeType  NodeCreateRequestType = "dir"
)

type FileCreateRequest struct {
	NodeRequest
}

type DirCreateRequest struct {
	NodeRequest
}
