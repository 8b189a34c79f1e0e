package nbt

// Clone returns a deep copy of t. Slices and compounds are copied so the
// result can be modified without touching t.
func (t Tag) Clone() Tag {
	out := t
	switch t.Type {
	case TypeByteArray:
		if t.Bytes != nil {
			out.Bytes = append([]byte(nil), t.Bytes...)
		}
	case TypeIntArray:
		if t.Ints != nil {
			out.Ints = append([]int32(nil), t.Ints...)
		}
	case TypeLongArray:
		if t.Longs != nil {
			out.Longs = append([]int64(nil), t.Longs...)
		}
	case TypeList:
		if t.List != nil {
			out.List = make([]Tag, len(t.List))
			for i, item := range t.List {
				out.List[i] = item.Clone()
			}
		}
	case TypeCompound:
		out.Compound = t.Compound.Clone()
	}
	return out
}

// Clone returns a deep copy of c. A nil compound clones to nil.
func (c *Compound) Clone() *Compound {
	if c == nil {
		return nil
	}
	out := &Compound{
		tags:  make([]Tag, len(c.tags)),
		index: make(map[string]int, len(c.index)),
	}
	for i, child := range c.tags {
		out.tags[i] = child.Clone()
	}
	for name, i := range c.index {
		out.index[name] = i
	}
	return out
}
