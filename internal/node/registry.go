package node

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultNodes returns the compiled-in node list.
func DefaultNodes() []Node {
	return []Node{
		{
			Name:        "Pump House 3",
			Coordinates: Coordinates{Lat: 17.4435, Lon: 78.3489},
			ChannelID:   "2611172",
			APIKey:      "OEORJPRA3IXMCARG",
		},
	}
}

// Registry is an immutable, ordered list of nodes.
type Registry struct {
	nodes []Node
}

// NewRegistry creates a registry from the given nodes. The slice is copied.
func NewRegistry(nodes []Node) *Registry {
	return &Registry{nodes: append([]Node(nil), nodes...)}
}

// Nodes returns a copy of the registered nodes in registration order.
func (r *Registry) Nodes() []Node {
	return append([]Node(nil), r.nodes...)
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	return len(r.nodes)
}

// fileNode is the YAML representation of a node.
type fileNode struct {
	Name      string  `yaml:"name"`
	Lat       float64 `yaml:"lat"`
	Lon       float64 `yaml:"lon"`
	ChannelID string  `yaml:"channel_id"`
	APIKey    string  `yaml:"api_key"`
}

type registryFile struct {
	Nodes []fileNode `yaml:"nodes"`
}

// LoadFile reads a YAML node list:
//
//	nodes:
//	  - name: Pump House 3
//	    lat: 17.4435
//	    lon: 78.3489
//	    channel_id: "2611172"
//	    api_key: OEORJPRA3IXMCARG
func LoadFile(path string) ([]Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading node file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML node list.
func Parse(data []byte) ([]Node, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding node file: %w", err)
	}
	if len(f.Nodes) == 0 {
		return nil, fmt.Errorf("%w: node file defines no nodes", ErrInvalidNode)
	}

	nodes := make([]Node, 0, len(f.Nodes))
	for i, fn := range f.Nodes {
		n := Node{
			Name:        fn.Name,
			Coordinates: Coordinates{Lat: fn.Lat, Lon: fn.Lon},
			ChannelID:   fn.ChannelID,
			APIKey:      fn.APIKey,
		}
		if err := n.Validate(); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		nodes = append(nodes, n)
	}

	return nodes, nil
}
