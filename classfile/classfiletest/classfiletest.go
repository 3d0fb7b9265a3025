// Package classfiletest assembles class files for tests.
package classfiletest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"
)

// Class describes a class file to write. Names are internal names such
// as "java/lang/Object".
type Class struct {
	Name       string
	Super      string
	Interfaces []string
	Flags      uint16
	Signature  string
	SourceFile string
	Fields     []Member
	Methods    []Member
	Inner      []InnerClass
	Raw        []RawAttribute
	// Major defaults to 65 (Java 21).
	Major uint16
}

type Member struct {
	Flags      uint16
	Name       string
	Descriptor string
	Signature  string
	Exceptions []string
	ParamNames []string
	// Constant is an int32, int64, float32, float64 or string written
	// as the ConstantValue attribute.
	Constant any
	Raw      []RawAttribute
}

type InnerClass struct {
	Inner string
	Outer string
	Name  string
	Flags uint16
}

// RawAttribute is written as is.
type RawAttribute struct {
	Name string
	Data []byte
}

type pool struct {
	buf     bytes.Buffer
	count   uint16
	entries map[string]uint16
}

func (p *pool) add(key string, size uint16, write func(b *bytes.Buffer)) uint16 {
	if i, ok := p.entries[key]; ok {
		return i
	}
	i := p.count
	write(&p.buf)
	p.count += size
	p.entries[key] = i
	return i
}

func (p *pool) utf8(s string) uint16 {
	return p.add("u"+s, 1, func(b *bytes.Buffer) {
		enc := modifiedUtf8(s)
		b.WriteByte(1)
		u2(b, uint16(len(enc)))
		b.Write(enc)
	})
}

func modifiedUtf8(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		switch {
		case u != 0 && u < 0x80:
			out = append(out, byte(u))
		case u < 0x800:
			out = append(out, 0xC0|byte(u>>6), 0x80|byte(u&0x3F))
		default:
			out = append(out, 0xE0|byte(u>>12), 0x80|byte(u>>6&0x3F), 0x80|byte(u&0x3F))
		}
	}
	return out
}

func (p *pool) class(name string) uint16 {
	if name == "" {
		return 0
	}
	n := p.utf8(name)
	return p.add("c"+name, 1, func(b *bytes.Buffer) {
		b.WriteByte(7)
		u2(b, n)
	})
}

func (p *pool) constant(v any) uint16 {
	key := fmt.Sprintf("%T:%v", v, v)
	switch v := v.(type) {
	case int32:
		return p.add(key, 1, func(b *bytes.Buffer) {
			b.WriteByte(3)
			u4(b, uint32(v))
		})
	case float32:
		return p.add(key, 1, func(b *bytes.Buffer) {
			b.WriteByte(4)
			u4(b, math.Float32bits(v))
		})
	case int64:
		return p.add(key, 2, func(b *bytes.Buffer) {
			b.WriteByte(5)
			u4(b, uint32(uint64(v)>>32))
			u4(b, uint32(v))
		})
	case float64:
		return p.add(key, 2, func(b *bytes.Buffer) {
			b.WriteByte(6)
			bits := math.Float64bits(v)
			u4(b, uint32(bits>>32))
			u4(b, uint32(bits))
		})
	case string:
		s := p.utf8(v)
		return p.add(key, 1, func(b *bytes.Buffer) {
			b.WriteByte(8)
			u2(b, s)
		})
	}
	panic(fmt.Sprintf("classfiletest: unsupported constant %T", v))
}

func u2(b *bytes.Buffer, v uint16) {
	binary.Write(b, binary.BigEndian, v)
}

func u4(b *bytes.Buffer, v uint32) {
	binary.Write(b, binary.BigEndian, v)
}

type attrs struct {
	p     *pool
	buf   bytes.Buffer
	count uint16
}

func (a *attrs) add(name string, data []byte) {
	u2(&a.buf, a.p.utf8(name))
	u4(&a.buf, uint32(len(data)))
	a.buf.Write(data)
	a.count++
}

func (a *attrs) index(name string, i uint16) {
	var b bytes.Buffer
	u2(&b, i)
	a.add(name, b.Bytes())
}

func (a *attrs) raw(list []RawAttribute) {
	for _, r := range list {
		a.add(r.Name, r.Data)
	}
}

func (a *attrs) writeTo(b *bytes.Buffer) {
	u2(b, a.count)
	b.Write(a.buf.Bytes())
}

func (p *pool) members(list []Member) []byte {
	var b bytes.Buffer
	u2(&b, uint16(len(list)))
	for _, m := range list {
		u2(&b, m.Flags)
		u2(&b, p.utf8(m.Name))
		u2(&b, p.utf8(m.Descriptor))
		a := &attrs{p: p}
		if m.Signature != "" {
			a.index("Signature", p.utf8(m.Signature))
		}
		if m.Constant != nil {
			a.index("ConstantValue", p.constant(m.Constant))
		}
		if len(m.Exceptions) > 0 {
			var e bytes.Buffer
			u2(&e, uint16(len(m.Exceptions)))
			for _, x := range m.Exceptions {
				u2(&e, p.class(x))
			}
			a.add("Exceptions", e.Bytes())
		}
		if m.ParamNames != nil {
			var e bytes.Buffer
			e.WriteByte(byte(len(m.ParamNames)))
			for _, n := range m.ParamNames {
				u2(&e, p.utf8(n))
				u2(&e, 0)
			}
			a.add("MethodParameters", e.Bytes())
		}
		a.raw(m.Raw)
		a.writeTo(&b)
	}
	return b.Bytes()
}

// Bytes renders the class file.
func (c *Class) Bytes() []byte {
	p := &pool{count: 1, entries: make(map[string]uint16)}

	var body bytes.Buffer
	u2(&body, c.Flags)
	u2(&body, p.class(c.Name))
	u2(&body, p.class(c.Super))
	u2(&body, uint16(len(c.Interfaces)))
	for _, i := range c.Interfaces {
		u2(&body, p.class(i))
	}
	body.Write(p.members(c.Fields))
	body.Write(p.members(c.Methods))

	a := &attrs{p: p}
	if c.Signature != "" {
		a.index("Signature", p.utf8(c.Signature))
	}
	if c.SourceFile != "" {
		a.index("SourceFile", p.utf8(c.SourceFile))
	}
	if len(c.Inner) > 0 {
		var e bytes.Buffer
		u2(&e, uint16(len(c.Inner)))
		for _, ic := range c.Inner {
			u2(&e, p.class(ic.Inner))
			u2(&e, p.class(ic.Outer))
			if ic.Name == "" {
				u2(&e, 0)
			} else {
				u2(&e, p.utf8(ic.Name))
			}
			u2(&e, ic.Flags)
		}
		a.add("InnerClasses", e.Bytes())
	}
	a.raw(c.Raw)
	a.writeTo(&body)

	major := c.Major
	if major == 0 {
		major = 65
	}
	var out bytes.Buffer
	u4(&out, 0xCAFEBABE)
	u2(&out, 0)
	u2(&out, major)
	u2(&out, p.count)
	out.Write(p.buf.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}
