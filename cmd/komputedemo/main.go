// Package main provides the kompute demo CLI.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/imaginationtech/kompute"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("kompute %s\n", version)
		return
	}

	if !kompute.IsAvailable() {
		fmt.Println("no WebGPU adapter available on this system")
		os.Exit(1)
	}

	mgr, err := kompute.NewManager(kompute.ManagerOptions{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "create manager:", err)
		os.Exit(1)
	}
	defer mgr.Destroy()

	info := mgr.DeviceProperties()
	fmt.Printf("adapter: %s (%s)\n", info.Name, info.DriverDescription)

	if err := runMult(mgr); err != nil {
		fmt.Fprintln(os.Stderr, "mult sample:", err)
		os.Exit(1)
	}
}

// runMult wires the element-wise-multiply smoke test end to end
// (spec.md §8, scenario 1).
func runMult(mgr *kompute.Manager) error {
	a, err := kompute.NewTensor(mgr, floatBytes(0, 1, 2), 3, kompute.F32, kompute.Device)
	if err != nil {
		return err
	}
	b, err := kompute.NewTensor(mgr, floatBytes(1, 2, 3), 3, kompute.F32, kompute.Device)
	if err != nil {
		return err
	}
	out, err := kompute.NewTensor(mgr, floatBytes(0, 0, 0), 3, kompute.F32, kompute.Device)
	if err != nil {
		return err
	}

	dispatch, err := kompute.NewMult(mgr, a, b, out)
	if err != nil {
		return err
	}

	seq, err := mgr.Sequence(0, 0)
	if err != nil {
		return err
	}
	defer seq.Destroy()

	if err := seq.Begin(); err != nil {
		return err
	}
	if err := seq.Record(kompute.NewSyncToDevice([]kompute.Memory{a, b})); err != nil {
		return err
	}
	if err := seq.Record(dispatch); err != nil {
		return err
	}
	if err := seq.Record(kompute.NewSyncToHost([]kompute.Memory{out})); err != nil {
		return err
	}
	if err := seq.End(); err != nil {
		return err
	}
	if err := seq.Eval(); err != nil {
		return err
	}

	result, err := kompute.TypedData[float32](out)
	if err != nil {
		return err
	}
	fmt.Printf("out = %v\n", result)
	return nil
}

func floatBytes(values ...float32) []byte {
	b := make([]byte, 0, len(values)*4)
	for _, v := range values {
		bits := math.Float32bits(v)
		b = append(b, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}
	return b
}
