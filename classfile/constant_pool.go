package classfile

// Constant is one constant pool entry. Ref1 and Ref2 are the pool
// indexes an entry refers to: the name of a class, the class and
// name-and-type of a member reference, the name and descriptor of a
// name-and-type. Value holds the decoded literal of Utf8 (string),
// Integer (int32), Float (float32), Long (int64) and Double (float64)
// entries.
type Constant struct {
	Tag   ConstantTag
	Ref1  uint16
	Ref2  uint16
	Value any
}

// ConstantPool is indexed from 1, as in the class file; slot 0 and the
// slot after each long or double are unused.
type ConstantPool []*Constant

func (cp ConstantPool) get(index uint16, tag ConstantTag) *Constant {
	if index == 0 || int(index) >= len(cp) {
		return nil
	}
	if c := cp[index]; c != nil && c.Tag == tag {
		return c
	}
	return nil
}

func (cp ConstantPool) GetUtf8(index uint16) string {
	if c := cp.get(index, ConstantUtf8); c != nil {
		s, _ := c.Value.(string)
		return s
	}
	return ""
}

// GetClassName returns the internal name of a Class entry, such as
// "java/util/Map$Entry".
func (cp ConstantPool) GetClassName(index uint16) string {
	if c := cp.get(index, ConstantClass); c != nil {
		return cp.GetUtf8(c.Ref1)
	}
	return ""
}

func (cp ConstantPool) GetString(index uint16) string {
	if c := cp.get(index, ConstantString); c != nil {
		return cp.GetUtf8(c.Ref1)
	}
	return ""
}

func (cp ConstantPool) GetNameAndType(index uint16) (name, descriptor string) {
	if c := cp.get(index, ConstantNameAndType); c != nil {
		return cp.GetUtf8(c.Ref1), cp.GetUtf8(c.Ref2)
	}
	return "", ""
}

// GetConstant returns the value of a loadable literal entry: a string,
// int32, int64, float32 or float64. It is nil for any other entry.
func (cp ConstantPool) GetConstant(index uint16) any {
	if index == 0 || int(index) >= len(cp) || cp[index] == nil {
		return nil
	}
	c := cp[index]
	switch c.Tag {
	case ConstantString:
		return cp.GetUtf8(c.Ref1)
	case ConstantInteger, ConstantFloat, ConstantLong, ConstantDouble:
		return c.Value
	}
	return nil
}
