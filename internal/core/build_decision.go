package core

type GenerateAction int

const (
	ActionUseCache GenerateAction = iota
	ActionCapture
)

func (a GenerateAction) String() string {
	if a == ActionUseCache {
		return "use-cache"
	}
	return "capture"
}

type GenerateDecisionInput struct {
	CacheEnabled bool
	UpToDate     bool
}

// DecideGenerate picks between returning the cached pair and a full capture.
func DecideGenerate(input GenerateDecisionInput) GenerateAction {
	if input.CacheEnabled && input.UpToDate {
		return ActionUseCache
	}
	return ActionCapture
}

// ShouldCheckFreshness is false when caching is off, so no timestamps are
// read at all.
func ShouldCheckFreshness(cacheEnabled bool) bool {
	return cacheEnabled
}
