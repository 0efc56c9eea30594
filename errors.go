package kompute

import "github.com/imaginationtech/kompute/internal/engine"

// ErrorKind tags a kompute error with one of the taxonomy entries from
// spec.md §7 (the Kind constants below give the full list).
type ErrorKind = engine.Kind

const (
	KindUnknown                     = engine.KindUnknown
	KindDeviceNotFound               = engine.KindDeviceNotFound
	KindNoCompatibleMemoryType       = engine.KindNoCompatibleMemoryType
	KindExtensionUnavailable         = engine.KindExtensionUnavailable
	KindZeroSizedResource            = engine.KindZeroSizedResource
	KindInvalidTilingForMemoryClass  = engine.KindInvalidTilingForMemoryClass
	KindInvalidImageFormat           = engine.KindInvalidImageFormat
	KindSizeMismatch                 = engine.KindSizeMismatch
	KindTypeMismatch                 = engine.KindTypeMismatch
	KindKindMismatch                 = engine.KindKindMismatch
	KindTooFewObjects                = engine.KindTooFewObjects
	KindPushConstantShapeMismatch    = engine.KindPushConstantShapeMismatch
	KindNotRecording                 = engine.KindNotRecording
	KindNotRecorded                  = engine.KindNotRecorded
	KindAlreadyRunning               = engine.KindAlreadyRunning
	KindFenceTimeout                 = engine.KindFenceTimeout
	KindHostAccessOnStorage          = engine.KindHostAccessOnStorage
	KindDeviceLost                   = engine.KindDeviceLost
)

// Error is the tagged error value every fallible kompute operation
// returns (spec.md §6.3).
type Error = engine.Error
