package engine

import "github.com/go-webgpu/webgpu/wgpu"

// SyncToDevice implements spec.md §4.5.1: for each Device-class
// target, record a copy from staging to primary; every other class is
// a no-op. The host is expected to have written the staging contents
// before recording (via the host pointer / SetHostData).
type SyncToDevice struct {
	targets []Memory
}

func NewSyncToDevice(targets []Memory) *SyncToDevice {
	return &SyncToDevice{targets: targets}
}

func (o *SyncToDevice) PreEval(cb *wgpu.CommandEncoder) error { return nil }

func (o *SyncToDevice) Record(cb *wgpu.CommandEncoder) error {
	for _, t := range o.targets {
		if t.MemoryClass() != Device {
			continue
		}
		t.RecordCopyStagingToPrimary(cb)
	}
	return nil
}

func (o *SyncToDevice) PostEval(cb *wgpu.CommandEncoder) error { return nil }

// SyncToHost implements spec.md §4.5.2: for each Device-class target,
// record a primary barrier (shader-write -> transfer-read), a copy
// primary -> staging, then a primary barrier (transfer-write ->
// host-read). post_eval makes the staging mirror available for host
// reads.
type SyncToHost struct {
	targets []Memory
}

func NewSyncToHost(targets []Memory) *SyncToHost {
	return &SyncToHost{targets: targets}
}

func (o *SyncToHost) PreEval(cb *wgpu.CommandEncoder) error { return nil }

func (o *SyncToHost) Record(cb *wgpu.CommandEncoder) error {
	for _, t := range o.targets {
		if t.MemoryClass() != Device {
			continue
		}
		t.RecordPrimaryBarrier(cb)
		t.RecordCopyPrimaryToStaging(cb)
		t.RecordPrimaryBarrier(cb)
	}
	return nil
}

func (o *SyncToHost) PostEval(cb *wgpu.CommandEncoder) error {
	for _, t := range o.targets {
		if t.MemoryClass() != Device {
			continue
		}
		if err := t.RefreshHostMirror(); err != nil {
			return err
		}
	}
	return nil
}
