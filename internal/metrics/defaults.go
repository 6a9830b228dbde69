package metrics

import "github.com/san-kum/solarsim/internal/dynamo"

// Defaults returns the standard diagnostics for a run. A revolution counter
// is added when track names a body.
func Defaults(track string) []dynamo.Metric {
	ms := []dynamo.Metric{
		NewEnergyDrift(),
		NewMomentumDrift(),
		NewAngularMomentumDrift(),
	}
	if track != "" {
		ms = append(ms, NewRevolutions(track))
	}
	return ms
}
