package sink

import (
	"encoding/json"

	"github.com/matzehuels/dressup/pkg/compose"
)

// RenderJSON returns the indented JSON document of plan.
func RenderJSON(plan compose.Plan) ([]byte, error) {
	if plan.Layers == nil {
		plan.Layers = []compose.Layer{}
	}
	return json.MarshalIndent(plan, "", "  ")
}
