package nbt

import "iter"

// Compound is an insertion-ordered mapping from child name to child tag.
// A nil *Compound behaves as an empty compound for reads.
type Compound struct {
	tags  []Tag
	index map[string]int
}

func NewCompoundMap() *Compound {
	return &Compound{index: make(map[string]int)}
}

// Set stores t under t.Name. A new name is appended; an existing name keeps
// its position and has its tag replaced.
func (c *Compound) Set(t Tag) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[t.Name]; ok {
		c.tags[i] = t
		return
	}
	c.index[t.Name] = len(c.tags)
	c.tags = append(c.tags, t)
}

func (c *Compound) Get(name string) (Tag, bool) {
	if c == nil {
		return Tag{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return Tag{}, false
	}
	return c.tags[i], true
}

// Delete removes name and reports whether it was present. The relative
// order of the remaining children is unchanged.
func (c *Compound) Delete(name string) bool {
	if c == nil {
		return false
	}
	i, ok := c.index[name]
	if !ok {
		return false
	}
	c.tags = append(c.tags[:i], c.tags[i+1:]...)
	delete(c.index, name)
	for j := i; j < len(c.tags); j++ {
		c.index[c.tags[j].Name] = j
	}
	return true
}

func (c *Compound) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tags)
}

// Names returns the child names in insertion order.
func (c *Compound) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.tags))
	for i, t := range c.tags {
		out[i] = t.Name
	}
	return out
}

// All iterates the children in insertion order.
func (c *Compound) All() iter.Seq2[string, Tag] {
	return func(yield func(string, Tag) bool) {
		if c == nil {
			return
		}
		for _, t := range c.tags {
			if !yield(t.Name, t) {
				return
			}
		}
	}
}

// Equal reports whether both compounds hold equal children in the same order.
func (c *Compound) Equal(o *Compound) bool {
	if c.Len() != o.Len() {
		return false
	}
	for i := 0; i < c.Len(); i++ {
		if !c.tags[i].Equal(o.tags[i]) {
			return false
		}
	}
	return true
}
