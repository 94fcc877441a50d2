package ports

import "tutien/internal/domain/progression"

type ProgressionMetrics interface {
	RecordSessionStarted()
	RecordSessionCompleted(realmSteps int)
	RecordBreakthrough(success bool)
	RecordRejected(code progression.Code)
	RecordConflict()
	RecordFailure()
}
