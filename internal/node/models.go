// Package node holds the static registry of monitored sensor nodes.
package node

import (
	"encoding/json"
	"errors"
)

// ErrInvalidNode is returned when a node definition is not well-formed.
var ErrInvalidNode = errors.New("invalid node")

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64
	Lon float64
}

// MarshalJSON encodes coordinates as a [lat, lon] pair, the shape map
// libraries expect.
func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lon})
}

// Node is a monitored sensor node backed by one telemetry channel.
type Node struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	ChannelID   string      `json:"channel_id"`
	APIKey      string      `json:"api_key"`
}

// Validate checks that the node is well-formed.
func (n Node) Validate() error {
	switch {
	case n.Name == "":
		return errors.Join(ErrInvalidNode, errors.New("name is required"))
	case n.ChannelID == "":
		return errors.Join(ErrInvalidNode, errors.New("channel_id is required"))
	case n.Coordinates.Lat < -90 || n.Coordinates.Lat > 90:
		return errors.Join(ErrInvalidNode, errors.New("latitude out of range"))
	case n.Coordinates.Lon < -180 || n.Coordinates.Lon > 180:
		return errors.Join(ErrInvalidNode, errors.New("longitude out of range"))
	}
	return nil
}
