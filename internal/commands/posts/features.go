package postscmd

// FeatureGates exposes runtime feature toggles required by post command
// handlers. Callers should supply closures that read from posts.Config so
// handlers stay decoupled from configuration while honouring feature flags.
type FeatureGates struct {
	StoreEnabled func() bool
	LintEnabled  func() bool
}

func (g FeatureGates) storeEnabled() bool {
	if g.StoreEnabled == nil {
		return true
	}
	return g.StoreEnabled()
}

func (g FeatureGates) lintEnabled() bool {
	if g.LintEnabled == nil {
		return true
	}
	return g.LintEnabled()
}
