package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf16"
)

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open class file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("invalid magic number: 0x%X (expected 0xCAFEBABE)", magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to read version: %w", r.err)
	}

	constantPoolCount := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read constant pool count: %w", r.err)
	}
	if constantPoolCount == 0 {
		return nil, fmt.Errorf("invalid constant pool count 0")
	}

	cf.ConstantPool = make(ConstantPool, constantPoolCount)
	for i := uint16(1); i < constantPoolCount; i++ {
		entry, err := readConstant(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read constant pool entry %d: %w", i, err)
		}
		cf.ConstantPool[i] = entry
		if entry.Tag == ConstantLong || entry.Tag == ConstantDouble {
			i++
		}
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()

	interfacesCount := r.readU2()
	cf.Interfaces = make([]uint16, interfacesCount)
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to read class info: %w", r.err)
	}

	var err error
	if cf.Fields, err = readMembers(r, cf.ConstantPool); err != nil {
		return nil, fmt.Errorf("failed to read fields: %w", err)
	}
	if cf.Methods, err = readMembers(r, cf.ConstantPool); err != nil {
		return nil, fmt.Errorf("failed to read methods: %w", err)
	}

	err = readAttributes(r, cf.ConstantPool, func(name string, a *reader) {
		switch name {
		case "Signature":
			cf.Signature = cf.ConstantPool.GetUtf8(a.readU2())
		case "SourceFile":
			cf.SourceFile = cf.ConstantPool.GetUtf8(a.readU2())
		case "Deprecated":
			cf.Deprecated = true
		case "InnerClasses":
			n := a.readU2()
			cf.InnerClasses = make([]InnerClass, 0, n)
			for range n {
				inner, outer, nm := a.readU2(), a.readU2(), a.readU2()
				cf.InnerClasses = append(cf.InnerClasses, InnerClass{
					Inner:       cf.ConstantPool.GetClassName(inner),
					Outer:       cf.ConstantPool.GetClassName(outer),
					Name:        cf.ConstantPool.GetUtf8(nm),
					AccessFlags: AccessFlags(a.readU2()),
				})
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read class attributes: %w", err)
	}

	return cf, nil
}

func readConstant(r *reader) (*Constant, error) {
	c := &Constant{Tag: ConstantTag(r.readU1())}
	if r.err != nil {
		return nil, r.err
	}

	switch c.Tag {
	case ConstantUtf8:
		length := r.readU2()
		c.Value = decodeModifiedUtf8(r.readBytes(int(length)))
	case ConstantInteger:
		c.Value = int32(r.readU4())
	case ConstantFloat:
		c.Value = math.Float32frombits(r.readU4())
	case ConstantLong:
		high, low := r.readU4(), r.readU4()
		c.Value = int64(high)<<32 | int64(low)
	case ConstantDouble:
		high, low := r.readU4(), r.readU4()
		c.Value = math.Float64frombits(uint64(high)<<32 | uint64(low))
	case ConstantClass, ConstantString, ConstantMethodType, ConstantModule, ConstantPackage:
		c.Ref1 = r.readU2()
	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref,
		ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
		c.Ref1 = r.readU2()
		c.Ref2 = r.readU2()
	case ConstantMethodHandle:
		c.Ref1 = uint16(r.readU1())
		c.Ref2 = r.readU2()
	default:
		return nil, fmt.Errorf("unknown constant pool tag: %d", c.Tag)
	}
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

func readMembers(r *reader, cp ConstantPool) ([]Member, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}

	members := make([]Member, count)
	for i := range members {
		m := &members[i]
		m.AccessFlags = AccessFlags(r.readU2())
		m.Name = cp.GetUtf8(r.readU2())
		m.Descriptor = cp.GetUtf8(r.readU2())
		err := readAttributes(r, cp, func(name string, a *reader) {
			switch name {
			case "Signature":
				m.Signature = cp.GetUtf8(a.readU2())
			case "ConstantValue":
				m.ConstantValue = cp.GetConstant(a.readU2())
			case "Deprecated":
				m.Deprecated = true
			case "Exceptions":
				n := a.readU2()
				for range n {
					m.Exceptions = append(m.Exceptions, cp.GetClassName(a.readU2()))
				}
			case "MethodParameters":
				n := a.readU1()
				m.ParamNames = make([]string, n)
				for j := range m.ParamNames {
					m.ParamNames[j] = cp.GetUtf8(a.readU2())
					a.readU2()
				}
			}
		})
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
	}
	return members, nil
}

// readAttributes reads an attribute table and hands the body of each
// attribute to fn. Bodies are read in full first, so fn may stop early
// or ignore an attribute without losing the position in r.
func readAttributes(r *reader, cp ConstantPool, fn func(name string, a *reader)) error {
	count := r.readU2()
	for range count {
		name := cp.GetUtf8(r.readU2())
		length := r.readU4()
		body := r.readBytes(int(length))
		if r.err != nil {
			return r.err
		}
		a := &reader{r: bytes.NewReader(body)}
		fn(name, a)
		if a.err != nil {
			return fmt.Errorf("malformed %s attribute: %w", name, a.err)
		}
	}
	return r.err
}

// decodeModifiedUtf8 decodes the constant pool's string encoding: NUL
// takes two bytes and supplementary characters are surrogate pairs of
// three bytes each.
func decodeModifiedUtf8(b []byte) string {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			units = append(units, uint16(c))
			i++
		}
	}
	return string(utf16.Decode(units))
}
