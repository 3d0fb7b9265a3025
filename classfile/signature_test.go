package classfile

import "testing"

func TestParseFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc      string
		want      string
		className string
	}{
		{"I", "int", ""},
		{"Z", "boolean", ""},
		{"Ljava/lang/String;", "java.lang.String", "java.lang.String"},
		{"[I", "int[]", ""},
		{"[[D", "double[][]", ""},
		{"[Ljava/lang/Object;", "java.lang.Object[]", ""},
		{"Ljava/util/Map$Entry;", "java.util.Map$Entry", "java.util.Map$Entry"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			ft := ParseFieldDescriptor(tt.desc)
			if ft == nil {
				t.Fatalf("ParseFieldDescriptor(%q) returned nil", tt.desc)
			}
			if got := ft.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := ft.ClassName(); got != tt.className {
				t.Errorf("ClassName() = %q, want %q", got, tt.className)
			}
		})
	}

	for _, bad := range []string{"", "X", "Ljava/lang/String", "[", "II", "TT;", "Ljava/util/List<TT;>;"} {
		if ft := ParseFieldDescriptor(bad); ft != nil {
			t.Errorf("ParseFieldDescriptor(%q) = %v, want nil", bad, ft)
		}
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	tests := []struct {
		desc        string
		numParams   int
		returnsVoid bool
		returnType  string
	}{
		{"()V", 0, true, ""},
		{"()I", 0, false, "int"},
		{"(I)V", 1, true, ""},
		{"(II)I", 2, false, "int"},
		{"(Ljava/lang/String;)V", 1, true, ""},
		{"(IDLjava/lang/Thread;)Ljava/lang/Object;", 3, false, "java.lang.Object"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			md := ParseMethodDescriptor(tt.desc)
			if md == nil {
				t.Fatalf("ParseMethodDescriptor(%q) returned nil", tt.desc)
			}
			if len(md.Params) != tt.numParams {
				t.Errorf("len(Params) = %d, want %d", len(md.Params), tt.numParams)
			}
			if tt.returnsVoid {
				if md.Return != nil {
					t.Error("Expected nil Return for void")
				}
			} else if md.Return == nil {
				t.Error("Expected non-nil Return")
			} else if got := md.Return.String(); got != tt.returnType {
				t.Errorf("Return = %q, want %q", got, tt.returnType)
			}
		})
	}

	for _, bad := range []string{"", "V", "(", "(I", "(I)", "(X)V", "()VV"} {
		if md := ParseMethodDescriptor(bad); md != nil {
			t.Errorf("ParseMethodDescriptor(%q) = %v, want nil", bad, md)
		}
	}
}

func TestParseClassSignature(t *testing.T) {
	cs, err := ParseClassSignature("<K:Ljava/lang/Object;V::Ljava/lang/Comparable<-TV;>;>Ljava/util/AbstractMap<TK;TV;>;Ljava/util/Map<TK;TV;>;Ljava/io/Serializable;")
	if err != nil {
		t.Fatalf("ParseClassSignature: %v", err)
	}
	if len(cs.TypeParams) != 2 {
		t.Fatalf("len(TypeParams) = %d, want 2", len(cs.TypeParams))
	}
	k, v := cs.TypeParams[0], cs.TypeParams[1]
	if k.Name != "K" || k.ClassBound == nil || k.ClassBound.String() != "java.lang.Object" {
		t.Errorf("K = %+v", k)
	}
	if v.ClassBound != nil {
		t.Errorf("V class bound = %v, want nil", v.ClassBound)
	}
	if b := v.Bounds(); len(b) != 1 || b[0].String() != "java.lang.Comparable<? super V>" {
		t.Errorf("V bounds = %v", b)
	}
	if got := cs.Super.String(); got != "java.util.AbstractMap<K,V>" {
		t.Errorf("Super = %q", got)
	}
	if len(cs.Interfaces) != 2 || cs.Interfaces[1].ClassName() != "java.io.Serializable" {
		t.Errorf("Interfaces = %v", cs.Interfaces)
	}
}

func TestParseMethodSignature(t *testing.T) {
	tests := []struct {
		sig    string
		params []string
		ret    string
		throws int
	}{
		{"<T:Ljava/lang/Object;>([TT;)Ljava/util/List<TT;>;", []string{"T[]"}, "java.util.List<T>", 0},
		{"(Ljava/util/Collection<+TE;>;)Z", []string{"java.util.Collection<? extends E>"}, "boolean", 0},
		{"()Ljava/util/Map$Entry<TK;TV;>;", nil, "java.util.Map$Entry<K,V>", 0},
		{"()Lp/Outer<TT;>.Inner<Ljava/lang/String;>;", nil, "p.Outer<T>.Inner<java.lang.String>", 0},
		{"(Ljava/lang/Class<*>;)V^Ljava/io/IOException;^TX;", []string{"java.lang.Class<?>"}, "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			m, err := ParseMethodSignature(tt.sig)
			if err != nil {
				t.Fatalf("ParseMethodSignature: %v", err)
			}
			if len(m.Params) != len(tt.params) {
				t.Fatalf("len(Params) = %d, want %d", len(m.Params), len(tt.params))
			}
			for i, p := range m.Params {
				if got := p.String(); got != tt.params[i] {
					t.Errorf("Params[%d] = %q, want %q", i, got, tt.params[i])
				}
			}
			ret := ""
			if m.Return != nil {
				ret = m.Return.String()
			}
			if ret != tt.ret {
				t.Errorf("Return = %q, want %q", ret, tt.ret)
			}
			if len(m.Throws) != tt.throws {
				t.Errorf("len(Throws) = %d, want %d", len(m.Throws), tt.throws)
			}
		})
	}
}

func TestSignatureSyntaxError(t *testing.T) {
	_, err := ParseClassSignature("Ljava/lang/Object;X")
	if err == nil {
		t.Fatal("Expected an error")
	}
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("error is %T, want *SyntaxError", err)
	}
	if se.Offset != 18 {
		t.Errorf("Offset = %d, want 18", se.Offset)
	}
}
