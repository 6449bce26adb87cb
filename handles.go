package vg

// imageSlot is one entry of the image arena.
type imageSlot struct {
	tex   int // backend texture id, 0 when the slot is free
	w, h  int
	flags ImageFlags
	typ   TextureType
}

// imageTable maps image handles to backend textures. Handles are slot
// indices plus one so that 0 stays invalid. Freed slots are reused
// lowest first; otherwise handles grow monotonically.
type imageTable struct {
	slots []imageSlot
	free  []int
}

func (t *imageTable) add(s imageSlot) int {
	if n := len(t.free); n > 0 {
		lo := 0
		for i, f := range t.free {
			if f < t.free[lo] {
				lo = i
			}
		}
		idx := t.free[lo]
		t.free[lo] = t.free[n-1]
		t.free = t.free[:n-1]
		t.slots[idx] = s
		return idx + 1
	}
	t.slots = append(t.slots, s)
	return len(t.slots)
}

func (t *imageTable) get(handle int) (*imageSlot, bool) {
	idx := handle - 1
	if idx < 0 || idx >= len(t.slots) || t.slots[idx].tex == 0 {
		return nil, false
	}
	return &t.slots[idx], true
}

func (t *imageTable) remove(handle int) (imageSlot, bool) {
	s, ok := t.get(handle)
	if !ok {
		return imageSlot{}, false
	}
	old := *s
	*s = imageSlot{}
	t.free = append(t.free, handle-1)
	return old, true
}

// each calls fn for every live handle.
func (t *imageTable) each(fn func(handle int, s *imageSlot)) {
	for i := range t.slots {
		if t.slots[i].tex != 0 {
			fn(i+1, &t.slots[i])
		}
	}
}

func (t *imageTable) len() int { return len(t.slots) - len(t.free) }
