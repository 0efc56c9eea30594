// Package kompute is a GPU compute runtime: typed buffer and image
// memory, compute algorithms with push/specialization constants,
// recordable operations (host/device sync, inter-object copy, memory
// barriers, algorithm dispatch), and the sequence/manager lifecycle
// that drives them against a WebGPU device.
//
// A Manager owns the device context and brokers creation of Tensors,
// Images, Algorithms, and Sequences:
//
//	mgr, err := kompute.NewManager(kompute.ManagerOptions{})
//	a, _ := mgr.Tensor(3, kompute.F32, kompute.Device, floatBytes(0, 1, 2))
//	b, _ := mgr.Tensor(3, kompute.F32, kompute.Device, floatBytes(1, 2, 3))
//	out, _ := mgr.Tensor(3, kompute.F32, kompute.Device, nil)
//	dispatch, _ := kompute.NewMult(mgr, a, b, out)
//	seq, _ := mgr.Sequence(0, 0)
//	seq.Begin()
//	seq.Record(kompute.NewSyncToDevice([]kompute.Memory{a, b}))
//	seq.Record(dispatch)
//	seq.Record(kompute.NewSyncToHost([]kompute.Memory{out}))
//	seq.End()
//	seq.Eval()
package kompute
