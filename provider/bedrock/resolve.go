package bedrock

import "strings"

// ApplyRoutingPrefix rewrites a model id with a geographic prefix so the
// backend can route inference to a nearby regional endpoint. It is a pure
// string transform and idempotent: an id that already carries a routing
// prefix is returned unchanged.
func ApplyRoutingPrefix(modelID, region string, enabled bool) string {
	if !enabled {
		return modelID
	}
	if strings.HasPrefix(modelID, "us.") || strings.HasPrefix(modelID, "eu.") {
		return modelID
	}
	switch {
	case strings.HasPrefix(region, "us-"):
		return "us." + modelID
	case strings.HasPrefix(region, "eu-"):
		return "eu." + modelID
	default:
		return modelID
	}
}

// IsNovaFamily reports whether the model id identifies the Nova model
// family. The match is case-insensitive and looks at the id only.
func IsNovaFamily(modelID string) bool {
	return strings.Contains(strings.ToLower(modelID), "nova")
}

// ShouldUseBedrock is the selection predicate the outer dispatcher uses to
// decide whether a call belongs to this adapter: a Nova-family model id, or
// the explicit opt-in flag. It needs no Provider instance.
func ShouldUseBedrock(o Options) bool {
	return o.UseBedrock || IsNovaFamily(o.ModelID)
}
