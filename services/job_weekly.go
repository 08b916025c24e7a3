package services

import (
	"github.com/moodz-app/moodz_api/dto"
)

// RunWeeklySummary is deliberately unsupported. The per-user weekly digest
// needs a digest-subscription relation that does not exist in the data
// model yet; returning Supported=false lets a scheduler distinguish
// "cannot run" from "ran, nothing to do".
func (svc *JobService) RunWeeklySummary() *dto.UnsupportedJobResult {
	return &dto.UnsupportedJobResult{
		Supported: false,
		Reason:    "weekly summary requires a digest subscription relation that is not modelled yet",
	}
}

// RunEngagementScoring is deliberately unsupported for the same reason:
// scoring needs per-feature usage relations the data model does not carry.
func (svc *JobService) RunEngagementScoring() *dto.UnsupportedJobResult {
	return &dto.UnsupportedJobResult{
		Supported: false,
		Reason:    "engagement scoring requires per-feature usage relations that are not modelled yet",
	}
}
