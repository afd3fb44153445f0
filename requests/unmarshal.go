package requests

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/foldertree"
)

// Requests groups parsed node definitions by kind in file order
type Requests struct {
	Files []*foldertree.FileCreateRequest
	Dirs  []*foldertree.DirCreateRequest
}

// LoadFile reads a tree definition file. The format is picked by extension:
// .json, or .yaml/.yml.
func LoadFile(path string) (*Requests, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var dtos []NodeRequestDTO
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &dtos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tree file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &dtos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tree file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown tree file extension: %s", path)
	}
	return FromDTOs(dtos)
}

// FromDTOs converts definitions to core requests with defaults applied
func FromDTOs(dtos []NodeRequestDTO) (*Requests, error) {
	reqs := &Requests{}
	for i, dto := range dtos {
		node, err := convertNodeDTO(dto)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		switch dto.Type {
		case foldertree.FileNodeType:
			reqs.Files = append(reqs.Files, &foldertree.FileCreateRequest{NodeRequest: node})
		case foldertree.DirNodeType:
			reqs.Dirs = append(reqs.Dirs, &foldertree.DirCreateRequest{NodeRequest: node})
		default:
			return nil, fmt.Errorf("node %d: unknown node type: %q", i, dto.Type)
		}
	}
	return reqs, nil
}

func convertNodeDTO(dto NodeRequestDTO) (foldertree.NodeRequest, error) {
	if strings.Trim(dto.Path, "/") == "" {
		return foldertree.NodeRequest{}, fmt.Errorf("path is required")
	}
	id := uuid.Nil
	if dto.UUID != nil {
		parsed, err := uuid.Parse(*dto.UUID)
		if err != nil {
			return foldertree.NodeRequest{}, fmt.Errorf("invalid uuid %q: %w", *dto.UUID, err)
		}
		id = parsed
	}
	return foldertree.NodeRequest{
		Path: dto.Path,
		Type: dto.Type,
		UUID: id,
		Size: valueOrDefault(dto.Size, 0),
	}, nil
}

func valueOrDefault[T any](ptr *T, defaultVal T) T {
	if ptr != nil {
		return *ptr
	}
	return defaultVal
}
