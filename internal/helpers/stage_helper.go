package helpers

import (
	"fmt"

	"github.com/mozilla/fxa-autotax/internal/constants"
)

// Stages the converter can run in. Only prod talks to live Stripe data.
const (
	StageProd  = constants.ProdEnvironment
	StageDev   = "dev"
	StageLocal = "local"
)

// IsValidStage reports whether stage is prod, dev or local.
func IsValidStage(stage string) bool {
	switch stage {
	case StageProd, StageDev, StageLocal:
		return true
	default:
		return false
	}
}

// ResolveStage validates the STAGE value, treating an unset stage as local.
// defaulted reports whether the local fallback was applied.
func ResolveStage(value string) (stage string, defaulted bool, err error) {
	if value == "" {
		return StageLocal, true, nil
	}
	if !IsValidStage(value) {
		return "", false, fmt.Errorf("invalid stage %q, must be one of: %s, %s, %s", value, StageProd, StageDev, StageLocal)
	}
	return value, false, nil
}
