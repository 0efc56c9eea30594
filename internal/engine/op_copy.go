package engine

import "github.com/go-webgpu/webgpu/wgpu"

// Copy implements the same-kind copy of spec.md §4.5.3 (TensorCopy /
// ImageCopy): N >= 2 objects of the same Kind, equal element type and
// element count. Records a copy from objects[0] into each
// objects[i>0]; post_eval mirrors objects[0]'s host data into every
// non-Storage host-visible target.
type Copy struct {
	objects []Memory
}

// NewCopy validates the same-kind-copy preconditions from spec.md
// §4.5.3 and §7 (too-few-objects, kind-mismatch, type-mismatch,
// size-mismatch).
func NewCopy(objects []Memory) (*Copy, error) {
	const op = "Copy"
	if len(objects) < 2 {
		return nil, newErr(op, KindTooFewObjects, nil)
	}
	elemType := func(m Memory) ElementType {
		switch v := m.(type) {
		case *Tensor:
			return v.ElementType()
		case *Image:
			return v.DataType()
		}
		return Custom
	}
	kind := objects[0].Kind()
	n := objects[0].Size()
	et := elemType(objects[0])
	for _, m := range objects[1:] {
		if m.Kind() != kind {
			return nil, newErr(op, KindKindMismatch, nil)
		}
		if elemType(m) != et {
			return nil, newErr(op, KindTypeMismatch, nil)
		}
		if m.Size() != n {
			return nil, newErr(op, KindSizeMismatch, nil)
		}
	}
	return &Copy{objects: objects}, nil
}

func (o *Copy) PreEval(cb *wgpu.CommandEncoder) error { return nil }

func (o *Copy) Record(cb *wgpu.CommandEncoder) error {
	src := o.objects[0]
	for _, dst := range o.objects[1:] {
		switch s := src.(type) {
		case *Tensor:
			d, ok := dst.(*Tensor)
			if !ok {
				return newErr("Copy.Record", KindKindMismatch, nil)
			}
			d.RecordCopyFromTensor(cb, s)
		case *Image:
			d, ok := dst.(*Image)
			if !ok {
				return newErr("Copy.Record", KindKindMismatch, nil)
			}
			d.RecordCopyFromImage(cb, s)
		}
	}
	return nil
}

// PostEval mirrors objects[0]'s host-visible bytes into every
// non-Storage target, "so that subsequent CPU reads agree without a
// further sync" (spec.md §4.5.3). This relies on objects[0]'s staging
// having already been populated by a prior SyncToHost — if the caller
// skips that, the mirrors simply diverge from GPU state; left as
// documented behavior per DESIGN.md open question O2.
func (o *Copy) PostEval(cb *wgpu.CommandEncoder) error {
	src := o.objects[0]
	if !src.MemoryClass().HostVisible() {
		return nil
	}
	data, err := src.RawHostPointer()
	if err != nil {
		return err
	}
	for _, dst := range o.objects[1:] {
		if dst.MemoryClass() == Storage {
			continue
		}
		if err := dst.SetHostData(data); err != nil {
			return err
		}
	}
	return nil
}

// CrossCopy implements the buffer<->image copy of spec.md §4.5.4. Two
// variants are constructed via NewImageCopyToBuffer and
// NewBufferCopyToImage; both share the same Operation shape, only the
// direction of Record differs.
type CrossCopy struct {
	toBuffer    bool
	image       *Image
	buffers     []*Tensor
	extraImages []*Image
}

// equivalentType reports whether an image element type and a buffer
// element type are considered equivalent for cross-kind copy
// purposes (spec.md §4.5.4: "f32<->f32, i32<->i32, ...").
func equivalentType(a, b ElementType) bool { return a == b }

func NewImageCopyToBuffer(image *Image, buffers []*Tensor) (*CrossCopy, error) {
	const op = "ImageCopyToBuffer"
	if len(buffers) < 1 {
		return nil, newErr(op, KindTooFewObjects, nil)
	}
	n := image.Size()
	for _, b := range buffers {
		if b.Size() != n {
			return nil, newErr(op, KindSizeMismatch, nil)
		}
		if !equivalentType(image.DataType(), b.ElementType()) {
			return nil, newErr(op, KindTypeMismatch, nil)
		}
	}
	return &CrossCopy{toBuffer: true, image: image, buffers: buffers}, nil
}

func NewBufferCopyToImage(buffer *Tensor, images []*Image) (*CrossCopy, error) {
	const op = "BufferCopyToImage"
	if len(images) < 1 {
		return nil, newErr(op, KindTooFewObjects, nil)
	}
	n := buffer.Size()
	for _, img := range images {
		if img.Size() != n {
			return nil, newErr(op, KindSizeMismatch, nil)
		}
		if !equivalentType(img.DataType(), buffer.ElementType()) {
			return nil, newErr(op, KindTypeMismatch, nil)
		}
	}
	// With toBuffer=false, buffers holds the one source buffer and
	// extraImages holds every destination image; the image field is
	// left unset.
	cc := &CrossCopy{toBuffer: false, buffers: []*Tensor{buffer}}
	cc.extraImages = images
	return cc, nil
}

func (o *CrossCopy) PreEval(cb *wgpu.CommandEncoder) error { return nil }

func (o *CrossCopy) Record(cb *wgpu.CommandEncoder) error {
	if o.toBuffer {
		for _, b := range o.buffers {
			b.RecordCopyFromImage(cb, o.image)
		}
		return nil
	}
	src := o.buffers[0]
	for _, img := range o.extraImages {
		img.RecordCopyFromTensor(cb, src)
	}
	return nil
}

func (o *CrossCopy) PostEval(cb *wgpu.CommandEncoder) error { return nil }
