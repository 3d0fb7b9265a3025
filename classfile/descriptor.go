package classfile

import "strings"

// ParseFieldDescriptor parses a field descriptor such as
// "[Ljava/lang/String;". It returns nil for a malformed descriptor.
func ParseFieldDescriptor(desc string) *TypeSig {
	t, err := ParseFieldSignature(desc)
	if err != nil || hasGenerics(t) {
		return nil
	}
	return t
}

// ParseMethodDescriptor parses a method descriptor such as
// "(ILjava/lang/String;)V". It returns nil for a malformed descriptor.
func ParseMethodDescriptor(desc string) *MethodSig {
	m, err := ParseMethodSignature(desc)
	if err != nil || len(m.TypeParams) > 0 || len(m.Throws) > 0 {
		return nil
	}
	for _, p := range m.Params {
		if hasGenerics(p) {
			return nil
		}
	}
	if m.Return != nil && hasGenerics(m.Return) {
		return nil
	}
	return m
}

func hasGenerics(t *TypeSig) bool {
	switch t.Kind {
	case SigTypeVar:
		return true
	case SigArray:
		return hasGenerics(t.Elem)
	case SigClass:
		return len(t.Path) > 1 || len(t.Path[0].Args) > 0
	}
	return false
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
